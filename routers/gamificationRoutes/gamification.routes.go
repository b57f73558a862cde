package gamificationRoutes

import (
	controllers "lms/controllers/gamification"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupGamificationRoutes sets up the badge and XP summary routes
func SetupGamificationRoutes(app *fiber.App) {
	group := app.Group("/gamification")

	group.Get("/badges", middleware.JWTMiddleware, controllers.GetUserBadges)
	group.Get("/xp", middleware.JWTMiddleware, controllers.GetUserXP)
}
