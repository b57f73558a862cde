package gamification

import "gorm.io/gorm"

// DailyStreak marks one day of learning activity. One row per
// (user, calendar day); written by the progress path on every completion
// event, swept nightly to break stale streak counters.
type DailyStreak struct {
	gorm.Model
	UserID       uint   `json:"user_id" gorm:"uniqueIndex:idx_user_day;not null"`
	ActivityDate string `json:"activity_date" gorm:"uniqueIndex:idx_user_day;not null"` // YYYY-MM-DD
	LessonsDone  int    `json:"lessons_done" gorm:"default:0"`
	XPEarned     int    `json:"xp_earned" gorm:"default:0"`
	IsDeleted    bool   `gorm:"default:false"`
}
