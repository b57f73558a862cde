package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the learner-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Enrollment gate & enrollment
	courseGroup.Get("/:id/access", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.GetAccessStatus)
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.EnrollInCourse)

	// Content & progress
	courseGroup.Get("/:id/lessons", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.GetCourseLessons)
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.GetCourseProgress)

	lessonGroup := app.Group("/lesson")
	lessonGroup.Get("/:lesson_id/unlock", middleware.JWTMiddleware, validators.LessonIDParam(), controllers.GetLessonUnlockState)
	lessonGroup.Post("/:lesson_id/progress", middleware.JWTMiddleware, validators.LessonIDParam(), validators.UpsertProgress(), controllers.UpdateLessonProgress)
}
