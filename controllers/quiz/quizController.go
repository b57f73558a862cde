package controllers

import (
	"errors"

	"lms/database"
	"lms/middleware"
	quizModels "lms/models/quiz"
	"lms/utils"

	gamification "lms/controllers/gamification"

	"github.com/gofiber/fiber/v2"
)

// SubmitQuiz grades a submission. Grading always runs and persists; the
// score breakdown is only returned when the quiz exposes results.
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	reqData, ok := c.Locals("validatedQuizSubmission").(*[]SubmittedAnswer)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	attempt, err := GradeQuiz(database.Database.Db, userID, &quiz, *reqData)
	if err != nil {
		if errors.Is(err, ErrMaxAttemptsReached) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Maximum attempts reached for this quiz!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	if attempt.Passed {
		gamification.EvaluateBadges(database.Database.Db, userID)
		utils.NotifyAsync("quiz.passed", fiber.Map{
			"user_id": userID,
			"quiz_id": quiz.ID,
		})
	}

	if !quiz.ShowResults {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", fiber.Map{
			"attempt_id": attempt.ID,
			"reference":  attempt.Reference,
			"submitted":  true,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", fiber.Map{
		"attempt_id":   attempt.ID,
		"reference":    attempt.Reference,
		"score":        attempt.Score,
		"total_points": attempt.TotalPoints,
		"percentage":   attempt.Percentage,
		"passed":       attempt.Passed,
	})
}

// GetQuizAttempts lists the caller's attempts for a quiz, newest first
func GetQuizAttempts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var attempts []quizModels.QuizAttempt
	if err := database.Database.Db.Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", userID, quizID, false).
		Order("created_at desc").Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	// Hide scores when the quiz keeps results private
	if !quiz.ShowResults {
		for i := range attempts {
			attempts[i].Score = 0
			attempts[i].TotalPoints = 0
			attempts[i].Percentage = 0
			attempts[i].Passed = false
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", fiber.Map{
		"attempts": attempts,
		"total":    len(attempts),
	})
}
