package controllers

import (
	"errors"
	"time"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	goldModels "lms/models/gold"
	"lms/utils"

	gamification "lms/controllers/gamification"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressUpdate carries one progress event for a lesson
type ProgressUpdate struct {
	Status             string  `json:"status"`
	ProgressPercentage float64 `json:"progress_percentage"`
	WatchTimeDelta     int64   `json:"watch_time_delta"`
	LastPosition       int64   `json:"last_position"`
}

// UpsertLessonProgress applies a progress event for (user, lesson) and
// rolls completion up to the course or level, all inside one transaction.
// Merge rules: progress percentage keeps the maximum ever reported, watch
// time is additive, status takes the incoming value, and CompletedAt is
// stamped exactly once. Re-sending a completed event is a no-op on the
// timestamp.
func UpsertLessonProgress(db *gorm.DB, userID, lessonID uint, in ProgressUpdate) (*courseModels.LessonProgress, error) {
	var result courseModels.LessonProgress

	err := db.Transaction(func(tx *gorm.DB) error {
		var lesson courseModels.Lesson
		if err := tx.Where("id = ? AND is_deleted = ? AND is_active = ?", lessonID, false, true).
			First(&lesson).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLessonNotFound
			}
			return err
		}

		// Make sure a row exists, then lock it for the merge. The insert is
		// conflict-safe so two first events for the same pair cannot both
		// create a row.
		seed := courseModels.LessonProgress{
			UserID:   userID,
			LessonID: lessonID,
			Status:   courseModels.ProgressNotStarted,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}

		var progress courseModels.LessonProgress
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND lesson_id = ?", userID, lessonID).
			First(&progress).Error; err != nil {
			return err
		}

		if in.ProgressPercentage > progress.ProgressPercentage {
			progress.ProgressPercentage = in.ProgressPercentage
		}
		progress.WatchTime += in.WatchTimeDelta
		if in.LastPosition > 0 {
			progress.LastPosition = in.LastPosition
		}
		progress.Status = in.Status
		if in.Status == courseModels.ProgressCompleted && progress.CompletedAt == nil {
			now := time.Now()
			progress.CompletedAt = &now
			if progress.ProgressPercentage < 100 {
				progress.ProgressPercentage = 100
			}
		}

		if err := tx.Save(&progress).Error; err != nil {
			return err
		}

		if in.Status == courseModels.ProgressCompleted {
			if lesson.ModuleID != 0 {
				if err := recomputeCourseAggregates(tx, userID, &lesson); err != nil {
					return err
				}
			} else if lesson.LevelID != 0 {
				if err := recomputeLevelAggregates(tx, userID, lesson.LevelID); err != nil {
					return err
				}
			}
		}

		result = progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// recomputeCourseAggregates recounts the user's completed lessons for the
// course owning the module and refreshes the CourseProgress row. Counts are
// always user-scoped joins; the stored percentage is derived, never trusted.
func recomputeCourseAggregates(tx *gorm.DB, userID uint, lesson *courseModels.Lesson) error {
	var module courseModels.Module
	if err := tx.Where("id = ? AND is_deleted = ?", lesson.ModuleID, false).First(&module).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	var progress courseModels.CourseProgress
	if err := tx.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, module.CourseID, false).
		First(&progress).Error; err != nil {
		// No enrollment row means nothing to aggregate into
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	courseLessons := tx.Model(&courseModels.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ? AND modules.is_deleted = ? AND lessons.is_deleted = ? AND lessons.is_active = ?",
			module.CourseID, false, false, true)

	var totalLessons int64
	if err := courseLessons.Session(&gorm.Session{}).Count(&totalLessons).Error; err != nil {
		return err
	}

	var completedLessons int64
	if err := courseLessons.Session(&gorm.Session{}).
		Joins("JOIN lesson_progresses ON lesson_progresses.lesson_id = lessons.id").
		Where("lesson_progresses.user_id = ? AND lesson_progresses.status = ?", userID, courseModels.ProgressCompleted).
		Count(&completedLessons).Error; err != nil {
		return err
	}

	var requiredTotal int64
	if err := courseLessons.Session(&gorm.Session{}).
		Where("lessons.is_required = ?", true).Count(&requiredTotal).Error; err != nil {
		return err
	}

	var requiredCompleted int64
	if err := courseLessons.Session(&gorm.Session{}).
		Joins("JOIN lesson_progresses ON lesson_progresses.lesson_id = lessons.id").
		Where("lessons.is_required = ? AND lesson_progresses.user_id = ? AND lesson_progresses.status = ?",
			true, userID, courseModels.ProgressCompleted).
		Count(&requiredCompleted).Error; err != nil {
		return err
	}

	now := time.Now()
	progress.LessonsCompleted = int(completedLessons)
	progress.LastAccessedAt = &now
	if progress.StartedAt == nil {
		progress.StartedAt = &now
	}
	if totalLessons > 0 {
		progress.ProgressPercentage = float64(completedLessons) / float64(totalLessons) * 100
	}

	nextID, err := nextActionableLesson(tx, userID, module.CourseID)
	if err != nil {
		return err
	}
	progress.CurrentLessonID = nextID

	if requiredTotal > 0 && requiredCompleted == requiredTotal && progress.Status != courseModels.ProgressCompleted {
		progress.Status = courseModels.ProgressCompleted
		progress.CompletedAt = &now
	}

	return tx.Save(&progress).Error
}

// nextActionableLesson returns the first lesson in course order the user
// has not completed yet, or 0 when the course is finished.
func nextActionableLesson(tx *gorm.DB, userID, courseID uint) (uint, error) {
	var lessons []courseModels.Lesson
	if err := tx.
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ? AND modules.is_deleted = ? AND lessons.is_deleted = ? AND lessons.is_active = ?",
			courseID, false, false, true).
		Order("modules.order_index asc, lessons.order_index asc").
		Find(&lessons).Error; err != nil {
		return 0, err
	}

	var completed []courseModels.LessonProgress
	if err := tx.Where("user_id = ? AND status = ? AND is_deleted = ?",
		userID, courseModels.ProgressCompleted, false).Find(&completed).Error; err != nil {
		return 0, err
	}
	done := make(map[uint]bool, len(completed))
	for _, p := range completed {
		done[p.LessonID] = true
	}

	for _, l := range lessons {
		if !done[l.ID] {
			return l.ID, nil
		}
	}
	return 0, nil
}

// recomputeLevelAggregates marks the LevelProgress row completed once every
// required lesson of the level is completed by this user.
func recomputeLevelAggregates(tx *gorm.DB, userID, levelID uint) error {
	var requiredTotal int64
	if err := tx.Model(&courseModels.Lesson{}).
		Where("level_id = ? AND is_required = ? AND is_deleted = ? AND is_active = ?", levelID, true, false, true).
		Count(&requiredTotal).Error; err != nil {
		return err
	}

	var requiredCompleted int64
	if err := tx.Model(&courseModels.Lesson{}).
		Joins("JOIN lesson_progresses ON lesson_progresses.lesson_id = lessons.id").
		Where("lessons.level_id = ? AND lessons.is_required = ? AND lessons.is_deleted = ? AND lessons.is_active = ?",
			levelID, true, false, true).
		Where("lesson_progresses.user_id = ? AND lesson_progresses.status = ?", userID, courseModels.ProgressCompleted).
		Count(&requiredCompleted).Error; err != nil {
		return err
	}

	if requiredTotal == 0 || requiredCompleted < requiredTotal {
		return nil
	}

	var levelProgress goldModels.LevelProgress
	err := tx.Where("user_id = ? AND level_id = ? AND is_deleted = ?", userID, levelID, false).
		First(&levelProgress).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		now := time.Now()
		levelProgress = goldModels.LevelProgress{
			UserID:      userID,
			LevelID:     levelID,
			Status:      goldModels.LevelCompleted,
			StartedAt:   now,
			CompletedAt: &now,
		}
		return tx.Create(&levelProgress).Error
	}

	if levelProgress.Status == goldModels.LevelCompleted {
		return nil
	}
	now := time.Now()
	levelProgress.Status = goldModels.LevelCompleted
	levelProgress.CompletedAt = &now
	return tx.Save(&levelProgress).Error
}

// UpdateLessonProgress records a progress event for a lesson. Completion
// triggers XP, streak and badge evaluation plus a webhook notification;
// those are best-effort and never fail the progress write.
func UpdateLessonProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	reqData, ok := c.Locals("validatedProgress").(*ProgressUpdate)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	progress, err := UpsertLessonProgress(database.Database.Db, userID, uint(lessonID), *reqData)
	if err != nil {
		if errors.Is(err, ErrLessonNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	if reqData.Status == courseModels.ProgressCompleted {
		var lesson courseModels.Lesson
		if err := database.Database.Db.First(&lesson, lessonID).Error; err == nil {
			gamification.AfterLessonCompletion(database.Database.Db, userID, &lesson)
		}
		utils.NotifyAsync("lesson.completed", fiber.Map{
			"user_id":   userID,
			"lesson_id": lessonID,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", progress)
}
