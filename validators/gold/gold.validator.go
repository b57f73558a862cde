package goldValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// TrackIDParam validates the :id route parameter
func TrackIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		trackIDStr := strings.TrimSpace(c.Params("id"))
		if trackIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Track ID is required!", nil)
		}

		trackID, err := strconv.Atoi(trackIDStr)
		if err != nil || trackID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Track ID!", nil)
		}

		c.Locals("trackID", trackID)
		return c.Next()
	}
}

// RequestIDParam validates the :request_id route parameter
func RequestIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestIDStr := strings.TrimSpace(c.Params("request_id"))
		if requestIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Request ID is required!", nil)
		}

		requestID, err := strconv.Atoi(requestIDStr)
		if err != nil || requestID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Request ID!", nil)
		}

		c.Locals("requestID", requestID)
		return c.Next()
	}
}

// RequestPromotion validates a promotion request body
func RequestPromotion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CurrentLevelID uint `json:"current_level_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.CurrentLevelID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"current_level_id": "Current level ID is required!",
			})
		}

		c.Locals("validatedPromotionRequest", reqData)
		return c.Next()
	}
}

// RejectPromotion validates a rejection body; a reason is mandatory so the
// student always learns why
func RejectPromotion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Reason string `json:"reason"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Reason = strings.TrimSpace(reqData.Reason)
		if reqData.Reason == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"reason": "A rejection reason is required!",
			})
		}

		c.Locals("validatedPromotionReview", reqData)
		return c.Next()
	}
}
