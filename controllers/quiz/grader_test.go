package controllers

import (
	"testing"

	"lms/database"
	quizModels "lms/models/quiz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	return db
}

func seedQuiz(t *testing.T, db *gorm.DB, passingScore float64) quizModels.Quiz {
	t.Helper()
	quiz := quizModels.Quiz{LessonID: 1, Title: "Checkpoint", PassingScore: passingScore, ShowResults: true}
	require.NoError(t, db.Create(&quiz).Error)
	return quiz
}

func addChoiceQuestion(t *testing.T, db *gorm.DB, quizID uint, points int) (quizModels.QuizQuestion, quizModels.QuizOption) {
	t.Helper()
	question := quizModels.QuizQuestion{QuizID: quizID, QuestionType: quizModels.QuestionMultipleChoice, Points: points}
	require.NoError(t, db.Create(&question).Error)

	options := []quizModels.QuizOption{
		{QuestionID: question.ID, OptionText: "Wrong", IsCorrect: false},
		{QuestionID: question.ID, OptionText: "Right", IsCorrect: true},
	}
	require.NoError(t, db.Create(&options).Error)
	return question, options[1]
}

func addTextQuestion(t *testing.T, db *gorm.DB, quizID uint, answer string, points int) quizModels.QuizQuestion {
	t.Helper()
	question := quizModels.QuizQuestion{QuizID: quizID, QuestionType: quizModels.QuestionFillBlank, Points: points}
	require.NoError(t, db.Create(&question).Error)
	require.NoError(t, db.Create(&quizModels.QuizOption{
		QuestionID: question.ID, OptionText: answer, IsCorrect: true,
	}).Error)
	return question
}

func addMatchingQuestion(t *testing.T, db *gorm.DB, quizID uint, pairs map[string]string, points int) (quizModels.QuizQuestion, map[string]uint) {
	t.Helper()
	question := quizModels.QuizQuestion{QuizID: quizID, QuestionType: quizModels.QuestionMatching, Points: points}
	require.NoError(t, db.Create(&question).Error)

	optionIDs := make(map[string]uint, len(pairs))
	for left, right := range pairs {
		option := quizModels.QuizOption{QuestionID: question.ID, OptionText: left, MatchPair: right}
		require.NoError(t, db.Create(&option).Error)
		optionIDs[left] = option.ID
	}
	return question, optionIDs
}

func TestTwoQuestionQuizScoresFullMarks(t *testing.T) {
	db := newTestDB(t)
	quiz := seedQuiz(t, db, 100)

	mcQuestion, correct := addChoiceQuestion(t, db, quiz.ID, 10)
	textQuestion := addTextQuestion(t, db, quiz.ID, "Paris", 10)

	attempt, err := GradeQuiz(db, 1, &quiz, []SubmittedAnswer{
		{QuestionID: mcQuestion.ID, SelectedOptionID: correct.ID},
		{QuestionID: textQuestion.ID, TextAnswer: " paris "}, // trimmed and case-folded
	})
	require.NoError(t, err)

	assert.Equal(t, 20, attempt.Score)
	assert.Equal(t, 20, attempt.TotalPoints)
	assert.Equal(t, float64(100), attempt.Percentage)
	assert.True(t, attempt.Passed)

	var answers []quizModels.QuizAnswer
	require.NoError(t, db.Where("attempt_id = ?", attempt.ID).Find(&answers).Error)
	assert.Len(t, answers, 2)
	for _, a := range answers {
		assert.True(t, a.IsCorrect)
		assert.Equal(t, 10, a.PointsEarned)
	}
}

func TestWrongChoiceEarnsNothing(t *testing.T) {
	db := newTestDB(t)
	quiz := seedQuiz(t, db, 60)

	question, correct := addChoiceQuestion(t, db, quiz.ID, 10)

	attempt, err := GradeQuiz(db, 1, &quiz, []SubmittedAnswer{
		{QuestionID: question.ID, SelectedOptionID: correct.ID - 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, attempt.Score)
	assert.Equal(t, 10, attempt.TotalPoints)
	assert.False(t, attempt.Passed)
}

func TestMatchingIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	quiz := seedQuiz(t, db, 100)

	question, ids := addMatchingQuestion(t, db, quiz.ID, map[string]string{"A": "1", "B": "2"}, 10)

	attempt, err := GradeQuiz(db, 1, &quiz, []SubmittedAnswer{
		{QuestionID: question.ID, Matches: map[uint]string{ids["A"]: "1", ids["B"]: "2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, attempt.Score)
	assert.True(t, attempt.Passed)

	// Swapping the pairs fails the whole question
	attempt, err = GradeQuiz(db, 2, &quiz, []SubmittedAnswer{
		{QuestionID: question.ID, Matches: map[uint]string{ids["A"]: "2", ids["B"]: "1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, attempt.Score)
	assert.False(t, attempt.Passed)

	// One missing pair also fails it
	attempt, err = GradeQuiz(db, 3, &quiz, []SubmittedAnswer{
		{QuestionID: question.ID, Matches: map[uint]string{ids["A"]: "1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, attempt.Score)
}

func TestUnknownQuestionsAreSkipped(t *testing.T) {
	db := newTestDB(t)
	quiz := seedQuiz(t, db, 60)

	question, correct := addChoiceQuestion(t, db, quiz.ID, 10)

	// The second answer references a question edited out of the quiz; it
	// must not error and must not contribute to the total
	attempt, err := GradeQuiz(db, 1, &quiz, []SubmittedAnswer{
		{QuestionID: question.ID, SelectedOptionID: correct.ID},
		{QuestionID: 9999, SelectedOptionID: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, attempt.Score)
	assert.Equal(t, 10, attempt.TotalPoints)
	assert.Equal(t, float64(100), attempt.Percentage)

	var answers []quizModels.QuizAnswer
	require.NoError(t, db.Where("attempt_id = ?", attempt.ID).Find(&answers).Error)
	assert.Len(t, answers, 1)
}

func TestEmptySubmissionScoresZeroPercent(t *testing.T) {
	db := newTestDB(t)
	quiz := seedQuiz(t, db, 60)

	attempt, err := GradeQuiz(db, 1, &quiz, []SubmittedAnswer{
		{QuestionID: 9999, SelectedOptionID: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, attempt.TotalPoints)
	assert.Equal(t, float64(0), attempt.Percentage)
	assert.False(t, attempt.Passed)
}

func TestMaxAttemptsEnforced(t *testing.T) {
	db := newTestDB(t)
	quiz := quizModels.Quiz{LessonID: 1, Title: "One shot", PassingScore: 60, ShowResults: true, MaxAttempts: 1}
	require.NoError(t, db.Create(&quiz).Error)

	question, correct := addChoiceQuestion(t, db, quiz.ID, 10)

	_, err := GradeQuiz(db, 1, &quiz, []SubmittedAnswer{
		{QuestionID: question.ID, SelectedOptionID: correct.ID},
	})
	require.NoError(t, err)

	_, err = GradeQuiz(db, 1, &quiz, []SubmittedAnswer{
		{QuestionID: question.ID, SelectedOptionID: correct.ID},
	})
	assert.ErrorIs(t, err, ErrMaxAttemptsReached)

	// Another user is unaffected
	_, err = GradeQuiz(db, 2, &quiz, []SubmittedAnswer{
		{QuestionID: question.ID, SelectedOptionID: correct.ID},
	})
	assert.NoError(t, err)
}

func TestAttemptNumbersIncrement(t *testing.T) {
	db := newTestDB(t)
	quiz := seedQuiz(t, db, 60)
	question, correct := addChoiceQuestion(t, db, quiz.ID, 10)

	first, err := GradeQuiz(db, 1, &quiz, []SubmittedAnswer{{QuestionID: question.ID, SelectedOptionID: correct.ID}})
	require.NoError(t, err)
	second, err := GradeQuiz(db, 1, &quiz, []SubmittedAnswer{{QuestionID: question.ID, SelectedOptionID: correct.ID}})
	require.NoError(t, err)

	assert.Equal(t, 1, first.AttemptNumber)
	assert.Equal(t, 2, second.AttemptNumber)
	assert.NotEqual(t, first.Reference, second.Reference)
}
