package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// LessonWithState is a lesson enriched with the caller's unlock and
// completion state
type LessonWithState struct {
	courseModels.Lesson
	Unlocked    bool `json:"unlocked"`
	IsCompleted bool `json:"is_completed"`
}

// GetCourseLessons lists the course's modules and lessons with per-lesson
// unlock and completion state for the caller. Content behind the
// enrollment gate is withheld unless the gate approves.
func GetCourseLessons(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	status, message, err := CourseAccessStatus(database.Database.Db, userID, uint(courseID))
	if err != nil {
		if err == ErrCourseNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check course access!", nil)
	}
	if status != AccessApproved {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, message, fiber.Map{
			"access_status": status,
		})
	}

	var modules []courseModels.Module
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course content!", nil)
	}

	type ModuleWithLessons struct {
		courseModels.Module
		Lessons []LessonWithState `json:"lessons"`
	}

	result := make([]ModuleWithLessons, len(modules))
	for i, mod := range modules {
		var lessons []courseModels.Lesson
		database.Database.Db.Where("module_id = ? AND is_deleted = ? AND is_active = ?", mod.ID, false, true).
			Order("order_index asc").Find(&lessons)

		enriched := make([]LessonWithState, len(lessons))
		for j := range lessons {
			unlocked, _ := IsLessonUnlocked(database.Database.Db, userID, &lessons[j])

			var progress courseModels.LessonProgress
			completed := false
			if err := database.Database.Db.Where("user_id = ? AND lesson_id = ? AND is_deleted = ?",
				userID, lessons[j].ID, false).First(&progress).Error; err == nil {
				completed = progress.Status == courseModels.ProgressCompleted
			}

			enriched[j] = LessonWithState{
				Lesson:      lessons[j],
				Unlocked:    unlocked,
				IsCompleted: completed,
			}
		}

		result[i] = ModuleWithLessons{
			Module:  mod,
			Lessons: enriched,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course content fetched successfully!", fiber.Map{
		"modules": result,
	})
}
