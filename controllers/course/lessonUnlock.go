package controllers

import (
	"errors"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var ErrLessonNotFound = errors.New("lesson not found")

// previousLesson returns the active lesson with the greatest order index
// strictly below the target within the same module or level, or nil when
// the target is the first lesson of its parent.
func previousLesson(db *gorm.DB, lesson *courseModels.Lesson) (*courseModels.Lesson, error) {
	query := db.Where("is_deleted = ? AND is_active = ? AND order_index < ?", false, true, lesson.OrderIndex)
	if lesson.ModuleID != 0 {
		query = query.Where("module_id = ?", lesson.ModuleID)
	} else {
		query = query.Where("level_id = ?", lesson.LevelID)
	}

	var prev courseModels.Lesson
	err := query.Order("order_index desc").First(&prev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prev, nil
}

// IsLessonUnlocked reports whether the user may open the lesson. The first
// lesson of a module or level is always open; every later lesson requires
// the previous one to be completed. Completion can change between requests,
// so this is recomputed on every call and never cached.
func IsLessonUnlocked(db *gorm.DB, userID uint, lesson *courseModels.Lesson) (bool, error) {
	prev, err := previousLesson(db, lesson)
	if err != nil {
		return false, err
	}
	if prev == nil {
		return true, nil
	}

	var progress courseModels.LessonProgress
	err = db.Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, prev.ID, false).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return progress.Status == courseModels.ProgressCompleted, nil
}

// GetLessonUnlockState reports whether a lesson is open for the user
func GetLessonUnlockState(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_active = ?", lessonID, false, true).
		First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	unlocked, err := IsLessonUnlocked(database.Database.Db, userID, &lesson)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check lesson state!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson state fetched successfully!", fiber.Map{
		"lesson_id": lesson.ID,
		"unlocked":  unlocked,
	})
}
