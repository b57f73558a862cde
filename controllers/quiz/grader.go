package controllers

import (
	"encoding/json"
	"errors"
	"strings"

	quizModels "lms/models/quiz"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrMaxAttemptsReached = errors.New("maximum attempts reached")
)

// SubmittedAnswer is one learner answer keyed by question id. Which field
// carries the payload depends on the question type.
type SubmittedAnswer struct {
	QuestionID       uint            `json:"question_id"`
	SelectedOptionID uint            `json:"selected_option_id"`
	TextAnswer       string          `json:"text_answer"`
	Matches          map[uint]string `json:"matches"` // option id -> right-hand value
}

// GradeQuiz scores a submission against the quiz's question set and
// persists the attempt with its per-question answers. Question ids that no
// longer exist are skipped, since a quiz may be edited after a learner
// started it; they contribute nothing to the total.
func GradeQuiz(db *gorm.DB, userID uint, quiz *quizModels.Quiz, answers []SubmittedAnswer) (*quizModels.QuizAttempt, error) {
	if quiz.MaxAttempts > 0 {
		var attempts int64
		if err := db.Model(&quizModels.QuizAttempt{}).
			Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", userID, quiz.ID, false).
			Count(&attempts).Error; err != nil {
			return nil, err
		}
		if attempts >= int64(quiz.MaxAttempts) {
			return nil, ErrMaxAttemptsReached
		}
	}

	var attempt quizModels.QuizAttempt
	err := db.Transaction(func(tx *gorm.DB) error {
		score := 0
		totalPoints := 0
		graded := make([]quizModels.QuizAnswer, 0, len(answers))

		for _, ans := range answers {
			var question quizModels.QuizQuestion
			if err := tx.Where("id = ? AND quiz_id = ? AND is_deleted = ?", ans.QuestionID, quiz.ID, false).
				First(&question).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // question edited away; tolerated
				}
				return err
			}

			correct, err := gradeQuestion(tx, &question, &ans)
			if err != nil {
				return err
			}

			pointsEarned := 0
			if correct {
				pointsEarned = question.Points
			}
			score += pointsEarned
			totalPoints += question.Points

			matchingJSON := ""
			if len(ans.Matches) > 0 {
				raw, _ := json.Marshal(ans.Matches)
				matchingJSON = string(raw)
			}

			graded = append(graded, quizModels.QuizAnswer{
				QuestionID:       question.ID,
				SelectedOptionID: ans.SelectedOptionID,
				TextAnswer:       ans.TextAnswer,
				MatchingAnswer:   matchingJSON,
				IsCorrect:        correct,
				PointsEarned:     pointsEarned,
			})
		}

		percentage := float64(0)
		if totalPoints > 0 {
			percentage = float64(score) / float64(totalPoints) * 100
		}

		var attemptNumber int64
		if err := tx.Model(&quizModels.QuizAttempt{}).
			Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", userID, quiz.ID, false).
			Count(&attemptNumber).Error; err != nil {
			return err
		}

		attempt = quizModels.QuizAttempt{
			UserID:        userID,
			QuizID:        quiz.ID,
			Reference:     uuid.NewString(),
			Score:         score,
			TotalPoints:   totalPoints,
			Percentage:    percentage,
			Passed:        percentage >= quiz.PassingScore,
			AttemptNumber: int(attemptNumber) + 1,
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		for i := range graded {
			graded[i].AttemptID = attempt.ID
		}
		if len(graded) > 0 {
			if err := tx.Create(&graded).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// gradeQuestion branches on the closed question-type set
func gradeQuestion(tx *gorm.DB, question *quizModels.QuizQuestion, ans *SubmittedAnswer) (bool, error) {
	switch question.QuestionType {
	case quizModels.QuestionMultipleChoice, quizModels.QuestionTrueFalse:
		return gradeChoice(tx, question, ans.SelectedOptionID)
	case quizModels.QuestionFillBlank:
		return gradeText(tx, question, ans.TextAnswer)
	case quizModels.QuestionMatching:
		return gradeMatching(tx, question, ans.Matches)
	default:
		return false, nil
	}
}

// gradeChoice: correct iff the selected option is the one flagged correct
func gradeChoice(tx *gorm.DB, question *quizModels.QuizQuestion, selectedID uint) (bool, error) {
	var correct quizModels.QuizOption
	err := tx.Where("question_id = ? AND is_correct = ? AND is_deleted = ?", question.ID, true, false).
		First(&correct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return selectedID == correct.ID, nil
}

// gradeText: trimmed, case-folded equality against the correct option's
// text. No partial credit, no fuzzy matching.
func gradeText(tx *gorm.DB, question *quizModels.QuizQuestion, answer string) (bool, error) {
	var correct quizModels.QuizOption
	err := tx.Where("question_id = ? AND is_correct = ? AND is_deleted = ?", question.ID, true, false).
		First(&correct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(correct.OptionText)), nil
}

// gradeMatching: every option must be matched to its pair; one mismatch
// fails the whole question.
func gradeMatching(tx *gorm.DB, question *quizModels.QuizQuestion, matches map[uint]string) (bool, error) {
	var options []quizModels.QuizOption
	if err := tx.Where("question_id = ? AND is_deleted = ?", question.ID, false).
		Find(&options).Error; err != nil {
		return false, err
	}
	if len(options) == 0 {
		return false, nil
	}

	for _, opt := range options {
		supplied, ok := matches[opt.ID]
		if !ok || strings.TrimSpace(supplied) != strings.TrimSpace(opt.MatchPair) {
			return false, nil
		}
	}
	return true, nil
}
