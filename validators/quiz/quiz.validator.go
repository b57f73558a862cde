package quizValidator

import (
	"strconv"
	"strings"

	controllers "lms/controllers/quiz"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// QuizIDParam validates the :id route parameter
func QuizIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quizIDStr := strings.TrimSpace(c.Params("id"))
		if quizIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz ID is required!", nil)
		}

		quizID, err := strconv.Atoi(quizIDStr)
		if err != nil || quizID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		c.Locals("quizID", quizID)
		return c.Next()
	}
}

// SubmitQuiz validates a quiz submission body. Each answer must name a
// question and carry exactly the payload shape its question type expects;
// cross-checking the type happens in the grader.
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers []controllers.SubmittedAnswer `json:"answers"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Answers) == 0 {
			errors["answers"] = "Please submit at least one answer!"
		}

		for i, ans := range reqData.Answers {
			if ans.QuestionID == 0 {
				errors["answers"] = "Every answer must reference a question!"
				break
			}
			if ans.SelectedOptionID == 0 && strings.TrimSpace(ans.TextAnswer) == "" && len(ans.Matches) == 0 {
				errors["answers"] = "Answer " + strconv.Itoa(i+1) + " carries no payload!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizSubmission", &reqData.Answers)
		return c.Next()
	}
}
