package controllers

import (
	"errors"
	"time"

	"lms/config"
	courseModels "lms/models/course"
	gamificationModels "lms/models/gamification"

	"gorm.io/gorm"
)

// GrantXP appends a ledger entry and bumps the user's running total in a
// single transaction. The ledger is append-only; the summary row is the
// derived cache.
func GrantXP(db *gorm.DB, userID uint, amount int, sourceType string, sourceID uint) error {
	if amount == 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return grantXPTx(tx, userID, amount, sourceType, sourceID)
	})
}

func grantXPTx(tx *gorm.DB, userID uint, amount int, sourceType string, sourceID uint) error {
	entry := gamificationModels.XPEntry{
		UserID:     userID,
		Amount:     amount,
		SourceType: sourceType,
		SourceID:   sourceID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	summary, err := lockedSummary(tx, userID)
	if err != nil {
		return err
	}
	summary.TotalXP += amount
	return tx.Save(summary).Error
}

// lockedSummary loads the user's XP summary row for update, creating it
// on first use.
func lockedSummary(tx *gorm.DB, userID uint) (*gamificationModels.UserXP, error) {
	var summary gamificationModels.UserXP
	err := tx.Where("user_id = ?", userID).First(&summary).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		summary = gamificationModels.UserXP{UserID: userID}
		if err := tx.Create(&summary).Error; err != nil {
			return nil, err
		}
	}
	return &summary, nil
}

// AwardLessonXP grants the lesson's XP reward once per (user, lesson).
// A repeat completion event finds the existing ledger entry and does
// nothing.
func AwardLessonXP(db *gorm.DB, userID uint, lesson *courseModels.Lesson) error {
	var existing gamificationModels.XPEntry
	err := db.Where("user_id = ? AND source_type = ? AND source_id = ? AND is_deleted = ?",
		userID, gamificationModels.XPSourceLesson, lesson.ID, false).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	amount := lesson.XPReward
	if amount == 0 {
		amount = defaultLessonXP()
	}
	return GrantXP(db, userID, amount, gamificationModels.XPSourceLesson, lesson.ID)
}

func defaultLessonXP() int {
	if config.AppConfig != nil && config.AppConfig.DefaultLessonXP > 0 {
		return config.AppConfig.DefaultLessonXP
	}
	return 10
}

// TouchStreak records today's learning activity and maintains the streak
// counters. The daily row is unique per (user, day), so only the first
// completion of the day moves the counter.
func TouchStreak(db *gorm.DB, userID uint, xpEarned int) error {
	today := time.Now().Format("2006-01-02")
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	return db.Transaction(func(tx *gorm.DB) error {
		var day gamificationModels.DailyStreak
		err := tx.Where("user_id = ? AND activity_date = ?", userID, today).First(&day).Error
		if err == nil {
			day.LessonsDone++
			day.XPEarned += xpEarned
			return tx.Save(&day).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		day = gamificationModels.DailyStreak{
			UserID:       userID,
			ActivityDate: today,
			LessonsDone:  1,
			XPEarned:     xpEarned,
		}
		if err := tx.Create(&day).Error; err != nil {
			return err
		}

		summary, err := lockedSummary(tx, userID)
		if err != nil {
			return err
		}
		if summary.LastActiveDay == yesterday {
			summary.CurrentStreak++
		} else if summary.LastActiveDay != today {
			summary.CurrentStreak = 1
		}
		if summary.CurrentStreak > summary.LongestStreak {
			summary.LongestStreak = summary.CurrentStreak
		}
		summary.LastActiveDay = today
		return tx.Save(summary).Error
	})
}
