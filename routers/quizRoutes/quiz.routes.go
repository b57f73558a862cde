package quizRoutes

import (
	controllers "lms/controllers/quiz"
	"lms/middleware"
	validators "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up the quiz submission routes
func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/quiz")

	quizGroup.Post("/:id/submit", middleware.JWTMiddleware, validators.QuizIDParam(), validators.SubmitQuiz(), controllers.SubmitQuiz)
	quizGroup.Get("/:id/attempts", middleware.JWTMiddleware, validators.QuizIDParam(), controllers.GetQuizAttempts)
}
