package goldRoutes

import (
	controllers "lms/controllers/gold"
	"lms/middleware"
	validators "lms/validators/gold"

	"github.com/gofiber/fiber/v2"
)

// SetupGoldRoutes sets up the Gold curriculum routes
func SetupGoldRoutes(app *fiber.App) {
	goldGroup := app.Group("/gold")

	goldGroup.Get("/track/:id", middleware.JWTMiddleware, validators.TrackIDParam(), controllers.GetTrackOverview)
	goldGroup.Post("/promotion/request", middleware.JWTMiddleware, validators.RequestPromotion(), controllers.RequestPromotion)

	// Admin review of promotion requests
	adminGroup := app.Group("/admin/promotion")
	adminGroup.Get("/pending", middleware.JWTMiddleware, middleware.RequireAdmin, controllers.AdminListPendingPromotions)
	adminGroup.Post("/:request_id/approve", middleware.JWTMiddleware, middleware.RequireAdmin, validators.RequestIDParam(), controllers.AdminApprovePromotion)
	adminGroup.Post("/:request_id/reject", middleware.JWTMiddleware, middleware.RequireAdmin, validators.RequestIDParam(), validators.RejectPromotion(), controllers.AdminRejectPromotion)
}
