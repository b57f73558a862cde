package controllers

import (
	"errors"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Access statuses returned by the enrollment gate
const (
	AccessApproved = "APPROVED"
	AccessPending  = "PENDING"
	AccessRejected = "REJECTED"
	AccessNone     = "NONE"
)

var ErrCourseNotFound = errors.New("course not found")

// CourseAccessStatus decides whether a user may view course content. Free
// courses are always approved. An existing CourseProgress row implies a
// prior approval, unless the latest payment row has since gone pending or
// failed, in which case the payment row wins. Without a CourseProgress row
// the latest payment row alone decides. Advisory only; never mutates state.
func CourseAccessStatus(db *gorm.DB, userID, courseID uint) (string, string, error) {
	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrCourseNotFound
		}
		return "", "", err
	}

	if course.Price == 0 {
		return AccessApproved, "Free course, access granted.", nil
	}

	var payment courseModels.Payment
	paymentErr := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		Order("created_at desc").First(&payment).Error

	var progress courseModels.CourseProgress
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&progress).Error; err == nil {
		// Enrollment implies a prior approval. A payment row from before
		// the enrollment is stale and ignored; only a newer pending or
		// failed payment mirrors through.
		if paymentErr == nil && payment.CreatedAt.After(progress.CreatedAt) {
			switch payment.Status {
			case courseModels.PaymentPending:
				return AccessPending, "Your payment is still being processed.", nil
			case courseModels.PaymentFailed:
				return AccessRejected, "Your latest payment failed. Please retry the payment.", nil
			}
		}
		return AccessApproved, "Enrollment active, access granted.", nil
	}

	if paymentErr != nil {
		if errors.Is(paymentErr, gorm.ErrRecordNotFound) {
			return AccessNone, "No enrollment found for this course.", nil
		}
		return "", "", paymentErr
	}

	switch payment.Status {
	case courseModels.PaymentPending:
		return AccessPending, "Your payment is still being processed.", nil
	case courseModels.PaymentCompleted, courseModels.PaymentApproved:
		return AccessApproved, "Payment confirmed, access granted.", nil
	default:
		return AccessRejected, "Payment was not successful. Please retry the payment.", nil
	}
}

// GetAccessStatus returns the enrollment gate decision for a course
func GetAccessStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	status, message, err := CourseAccessStatus(database.Database.Db, userID, uint(courseID))
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check course access!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access status fetched successfully!", fiber.Map{
		"access_status": status,
		"message":       message,
	})
}
