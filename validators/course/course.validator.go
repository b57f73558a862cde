package courseValidator

import (
	"strconv"
	"strings"

	controllers "lms/controllers/course"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// CourseIDParam validates the :id route parameter and stores it as an int
func CourseIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// LessonIDParam validates the :lesson_id route parameter
func LessonIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonIDStr := strings.TrimSpace(c.Params("lesson_id"))
		if lessonIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson ID is required!", nil)
		}

		lessonID, err := strconv.Atoi(lessonIDStr)
		if err != nil || lessonID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// UpsertProgress validates a lesson progress event body. The progress
// write itself enforces the monotonic/additive merge; this rejects
// payloads that could never be valid.
func UpsertProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Status             string  `json:"status"`
			ProgressPercentage float64 `json:"progress_percentage"`
			WatchTimeDelta     int64   `json:"watch_time_delta"`
			LastPosition       int64   `json:"last_position"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Status = strings.TrimSpace(strings.ToUpper(reqData.Status))
		validStatuses := map[string]bool{
			courseModels.ProgressNotStarted: true,
			courseModels.ProgressInProgress: true,
			courseModels.ProgressCompleted:  true,
		}
		if !validStatuses[reqData.Status] {
			errors["status"] = "Status must be NOT_STARTED, IN_PROGRESS, or COMPLETED!"
		}

		if reqData.ProgressPercentage < 0 || reqData.ProgressPercentage > 100 {
			errors["progress_percentage"] = "Progress percentage must be between 0 and 100!"
		}

		if reqData.WatchTimeDelta < 0 {
			errors["watch_time_delta"] = "Watch time delta cannot be negative!"
		}

		if reqData.LastPosition < 0 {
			errors["last_position"] = "Last position cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgress", &controllers.ProgressUpdate{
			Status:             reqData.Status,
			ProgressPercentage: reqData.ProgressPercentage,
			WatchTimeDelta:     reqData.WatchTimeDelta,
			LastPosition:       reqData.LastPosition,
		})
		return c.Next()
	}
}
