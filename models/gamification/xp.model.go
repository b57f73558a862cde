package gamification

import "gorm.io/gorm"

// XP grant sources
const (
	XPSourceLesson = "LESSON"
	XPSourceBadge  = "BADGE"
	XPSourceQuiz   = "QUIZ"
)

// XPEntry is an append-only ledger record of a single XP grant
type XPEntry struct {
	gorm.Model
	UserID     uint   `json:"user_id" gorm:"index;not null"`
	Amount     int    `json:"amount" gorm:"not null"`
	SourceType string `json:"source_type"`
	SourceID   uint   `json:"source_id" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}

// UserXP is the derived per-user summary, maintained incrementally in the
// same transaction as each ledger append. Streak counters live here too.
type UserXP struct {
	gorm.Model
	UserID        uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	TotalXP       int    `json:"total_xp" gorm:"default:0"`
	CurrentStreak int    `json:"current_streak" gorm:"default:0"`
	LongestStreak int    `json:"longest_streak" gorm:"default:0"`
	LastActiveDay string `json:"last_active_day"` // YYYY-MM-DD
	IsDeleted     bool   `gorm:"default:false"`
}
