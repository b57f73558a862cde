package quiz

import "gorm.io/gorm"

// Question types. The set is deliberately closed; the grader branches on
// these four and nothing else.
const (
	QuestionMultipleChoice = "MULTIPLE_CHOICE"
	QuestionTrueFalse      = "TRUE_FALSE"
	QuestionFillBlank      = "FILL_BLANK"
	QuestionMatching       = "MATCHING"
)

// Quiz is attached to a lesson and graded as a whole attempt
type Quiz struct {
	gorm.Model
	LessonID     uint    `json:"lesson_id" gorm:"index;not null"`
	Title        string  `json:"title"`
	PassingScore float64 `json:"passing_score" gorm:"default:60"` // percentage
	ShowResults  bool    `json:"show_results" gorm:"default:true"`
	MaxAttempts  int     `json:"max_attempts" gorm:"default:0"` // 0 = unlimited
	IsDeleted    bool    `gorm:"default:false"`
}

// QuizQuestion is a single question within a quiz
type QuizQuestion struct {
	gorm.Model
	QuizID       uint   `json:"quiz_id" gorm:"index;not null"`
	QuestionType string `json:"question_type" gorm:"default:'MULTIPLE_CHOICE'"`
	QuestionText string `json:"question_text" gorm:"type:text"`
	Points       int    `json:"points" gorm:"default:1"`
	OrderIndex   int    `json:"order_index" gorm:"default:0"`
	IsDeleted    bool   `gorm:"default:false"`
}

// QuizOption is an answer option for a question. For choice questions one
// option carries IsCorrect; for fill-blank the correct option holds the
// expected text; for matching questions each option carries its MatchPair.
type QuizOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	MatchPair  string `json:"match_pair"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}
