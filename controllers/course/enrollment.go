package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// EnrollInCourse creates the CourseProgress row for (user, course) exactly
// once. The enrollment gate must approve the pair first; the lesson total
// is snapshotted at this moment.
func EnrollInCourse(c *fiber.Ctx) error {
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
	if status != AccessApproved && status != AccessNone {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, message, nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_active = ?", courseID, false, true).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
	}
	if course.Price > 0 && status != AccessApproved {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Payment required before enrolling!", nil)
	}

	var totalLessons int64
	database.Database.Db.Model(&courseModels.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ? AND modules.is_deleted = ? AND lessons.is_deleted = ? AND lessons.is_active = ?",
			courseID, false, false, true).
		Count(&totalLessons)

	firstLesson, _ := nextActionableLesson(database.Database.Db, userID, uint(courseID))

	enrollment := courseModels.CourseProgress{
		UserID:          userID,
		CourseID:        uint(courseID),
		Status:          courseModels.ProgressInProgress,
		TotalLessons:    int(totalLessons),
		CurrentLessonID: firstLesson,
		EnrolledAt:      time.Now(),
	}

	// Conflict-safe: a concurrent duplicate enrollment degrades to a no-op
	res := database.Database.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&enrollment)
	if res.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	}

	utils.NotifyAsync("course.enrolled", fiber.Map{
		"user_id":   userID,
		"course_id": courseID,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// GetCourseProgress returns the user's course progress with a per-module rollup
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.CourseProgress
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var modules []courseModels.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&modules)

	type ModuleProgress struct {
		ModuleID         uint    `json:"module_id"`
		ModuleName       string  `json:"module_name"`
		TotalLessons     int64   `json:"total_lessons"`
		CompletedLessons int64   `json:"completed_lessons"`
		Progress         float64 `json:"progress"`
	}

	moduleProgress := make([]ModuleProgress, len(modules))
	for i, mod := range modules {
		var total int64
		var completed int64

		database.Database.Db.Model(&courseModels.Lesson{}).
			Where("module_id = ? AND is_deleted = ? AND is_active = ?", mod.ID, false, true).
			Count(&total)
		database.Database.Db.Model(&courseModels.LessonProgress{}).
			Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
			Where("lesson_progresses.user_id = ? AND lesson_progresses.status = ? AND lessons.module_id = ? AND lesson_progresses.is_deleted = ?",
				userID, courseModels.ProgressCompleted, mod.ID, false).
			Count(&completed)

		progress := float64(0)
		if total > 0 {
			progress = float64(completed) / float64(total) * 100
		}

		moduleProgress[i] = ModuleProgress{
			ModuleID:         mod.ID,
			ModuleName:       mod.Title,
			TotalLessons:     total,
			CompletedLessons: completed,
			Progress:         progress,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":      enrollment,
		"module_progress": moduleProgress,
	})
}
