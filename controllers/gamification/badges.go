package controllers

import (
	"errors"
	"log"
	"time"

	courseModels "lms/models/course"
	gamificationModels "lms/models/gamification"
	quizModels "lms/models/quiz"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// badgeCheck decides whether the user currently qualifies for one badge key
type badgeCheck func(db *gorm.DB, userID uint) (bool, error)

// badgeChecks is the fixed rule set evaluated after every completion
// event. Keys must exist in the seeded badge catalog.
var badgeChecks = map[string]badgeCheck{
	gamificationModels.KeyFirstLesson:  checkFirstLesson,
	gamificationModels.KeyFirstModule:  checkFirstModule,
	gamificationModels.KeyFirstCourse:  checkFirstCourse,
	gamificationModels.KeyQuizMaster:   checkQuizMaster,
	gamificationModels.KeySpeedLearner: checkSpeedLearner,
	gamificationModels.KeyWeekStreak:   checkWeekStreak,
	gamificationModels.KeyMonthStreak:  checkMonthStreak,
}

// EvaluateBadges runs every badge rule for the user. Rules are independent:
// a failing rule is logged and the rest still run. Awards are idempotent
// per (user, badge).
func EvaluateBadges(db *gorm.DB, userID uint) {
	for key, check := range badgeChecks {
		qualified, err := check(db, userID)
		if err != nil {
			log.Printf("Badge check %s failed for user %d: %v", key, userID, err)
			continue
		}
		if !qualified {
			continue
		}
		if _, err := AwardBadge(db, userID, key); err != nil {
			log.Printf("Badge award %s failed for user %d: %v", key, userID, err)
		}
	}
}

// AwardBadge grants the badge once. The insert is conflict-safe, so a
// concurrent duplicate evaluation degrades to a no-op instead of a
// duplicate-key error. Badge XP lands in the ledger in the same
// transaction as the grant.
func AwardBadge(db *gorm.DB, userID uint, key string) (bool, error) {
	var badge gamificationModels.Badge
	if err := db.Where("key = ? AND is_deleted = ?", key, false).First(&badge).Error; err != nil {
		return false, err
	}

	awarded := false
	err := db.Transaction(func(tx *gorm.DB) error {
		grant := gamificationModels.UserBadge{
			UserID:  userID,
			BadgeID: badge.ID,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		awarded = true
		if badge.XPReward > 0 {
			return grantXPTx(tx, userID, badge.XPReward, gamificationModels.XPSourceBadge, badge.ID)
		}
		return nil
	})
	return awarded, err
}

// AfterLessonCompletion is the progress engine's hook: lesson XP, streak
// touch, then the badge sweep. All best-effort; the triggering progress
// write has already committed.
func AfterLessonCompletion(db *gorm.DB, userID uint, lesson *courseModels.Lesson) {
	if err := AwardLessonXP(db, userID, lesson); err != nil {
		log.Printf("Lesson XP grant failed for user %d lesson %d: %v", userID, lesson.ID, err)
	}
	xp := lesson.XPReward
	if xp == 0 {
		xp = defaultLessonXP()
	}
	if err := TouchStreak(db, userID, xp); err != nil {
		log.Printf("Streak touch failed for user %d: %v", userID, err)
	}
	EvaluateBadges(db, userID)
}

func completedLessonCount(db *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := db.Model(&courseModels.LessonProgress{}).
		Where("user_id = ? AND status = ? AND is_deleted = ?", userID, courseModels.ProgressCompleted, false).
		Count(&count).Error
	return count, err
}

func checkFirstLesson(db *gorm.DB, userID uint) (bool, error) {
	count, err := completedLessonCount(db, userID)
	return count == 1, err
}

// checkFirstModule looks for at least one module the user has fully
// completed, not just the one touched by the triggering event.
func checkFirstModule(db *gorm.DB, userID uint) (bool, error) {
	var moduleIDs []uint
	if err := db.Model(&courseModels.Lesson{}).
		Distinct("lessons.module_id").
		Joins("JOIN lesson_progresses ON lesson_progresses.lesson_id = lessons.id").
		Where("lessons.module_id > 0 AND lesson_progresses.user_id = ? AND lesson_progresses.status = ?",
			userID, courseModels.ProgressCompleted).
		Pluck("lessons.module_id", &moduleIDs).Error; err != nil {
		return false, err
	}

	for _, moduleID := range moduleIDs {
		var total int64
		if err := db.Model(&courseModels.Lesson{}).
			Where("module_id = ? AND is_deleted = ? AND is_active = ?", moduleID, false, true).
			Count(&total).Error; err != nil {
			return false, err
		}
		if total == 0 {
			continue
		}

		var completed int64
		if err := db.Model(&courseModels.Lesson{}).
			Joins("JOIN lesson_progresses ON lesson_progresses.lesson_id = lessons.id").
			Where("lessons.module_id = ? AND lessons.is_deleted = ? AND lessons.is_active = ?", moduleID, false, true).
			Where("lesson_progresses.user_id = ? AND lesson_progresses.status = ?", userID, courseModels.ProgressCompleted).
			Count(&completed).Error; err != nil {
			return false, err
		}
		if completed == total {
			return true, nil
		}
	}
	return false, nil
}

func checkFirstCourse(db *gorm.DB, userID uint) (bool, error) {
	var count int64
	err := db.Model(&courseModels.CourseProgress{}).
		Where("user_id = ? AND progress_percentage >= 100 AND is_deleted = ?", userID, false).
		Count(&count).Error
	return count == 1, err
}

// checkQuizMaster counts completed lessons where every quiz attached to
// the lesson has a passed attempt by the user; ten such lessons qualify.
func checkQuizMaster(db *gorm.DB, userID uint) (bool, error) {
	var completed []courseModels.LessonProgress
	if err := db.Where("user_id = ? AND status = ? AND is_deleted = ?",
		userID, courseModels.ProgressCompleted, false).Find(&completed).Error; err != nil {
		return false, err
	}

	qualifying := 0
	for _, lp := range completed {
		var quizzes []quizModels.Quiz
		if err := db.Where("lesson_id = ? AND is_deleted = ?", lp.LessonID, false).Find(&quizzes).Error; err != nil {
			return false, err
		}
		if len(quizzes) == 0 {
			continue
		}

		allPassed := true
		for _, q := range quizzes {
			var passed int64
			if err := db.Model(&quizModels.QuizAttempt{}).
				Where("user_id = ? AND quiz_id = ? AND passed = ? AND is_deleted = ?", userID, q.ID, true, false).
				Count(&passed).Error; err != nil {
				return false, err
			}
			if passed == 0 {
				allPassed = false
				break
			}
		}
		if allPassed {
			qualifying++
			if qualifying >= 10 {
				return true, nil
			}
		}
	}
	return false, nil
}

func checkSpeedLearner(db *gorm.DB, userID uint) (bool, error) {
	dayStart := time.Now().Truncate(24 * time.Hour)
	var count int64
	err := db.Model(&courseModels.LessonProgress{}).
		Where("user_id = ? AND status = ? AND completed_at >= ? AND completed_at < ? AND is_deleted = ?",
			userID, courseModels.ProgressCompleted, dayStart, dayStart.AddDate(0, 0, 1), false).
		Count(&count).Error
	return count >= 10, err
}

func streakAtLeast(db *gorm.DB, userID uint, days int) (bool, error) {
	var summary gamificationModels.UserXP
	if err := db.Where("user_id = ?", userID).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return summary.CurrentStreak >= days, nil
}

func checkWeekStreak(db *gorm.DB, userID uint) (bool, error) {
	return streakAtLeast(db, userID, 7)
}

func checkMonthStreak(db *gorm.DB, userID uint) (bool, error) {
	return streakAtLeast(db, userID, 30)
}
