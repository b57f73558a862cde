package quiz

import "gorm.io/gorm"

// QuizAttempt is one graded submission. Score fields are written once at
// grading time and never updated.
type QuizAttempt struct {
	gorm.Model
	UserID        uint    `json:"user_id" gorm:"index;not null"`
	QuizID        uint    `json:"quiz_id" gorm:"index;not null"`
	Reference     string  `json:"reference" gorm:"unique"`
	Score         int     `json:"score"`
	TotalPoints   int     `json:"total_points"`
	Percentage    float64 `json:"percentage"`
	Passed        bool    `json:"passed" gorm:"default:false"`
	AttemptNumber int     `json:"attempt_number" gorm:"default:1"`
	IsDeleted     bool    `gorm:"default:false"`
}

// QuizAnswer stores the learner's payload for one question of an attempt
// plus the grading outcome. Immutable once graded.
type QuizAnswer struct {
	gorm.Model
	AttemptID        uint   `json:"attempt_id" gorm:"index;not null"`
	QuestionID       uint   `json:"question_id" gorm:"index;not null"`
	SelectedOptionID uint   `json:"selected_option_id" gorm:"default:0"`
	TextAnswer       string `json:"text_answer"`
	MatchingAnswer   string `json:"matching_answer" gorm:"type:text"` // JSON: option id -> right-hand value
	IsCorrect        bool   `json:"is_correct" gorm:"default:false"`
	PointsEarned     int    `json:"points_earned" gorm:"default:0"`
	IsDeleted        bool   `gorm:"default:false"`
}
