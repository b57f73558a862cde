package gold

import (
	"time"

	"gorm.io/gorm"
)

// Level progress statuses
const (
	LevelInProgress = "IN_PROGRESS"
	LevelCompleted  = "COMPLETED"
)

// GoldEnrollment tracks a student's membership in a track and their
// current level pointer. The pointer only moves through an approved
// promotion request.
type GoldEnrollment struct {
	gorm.Model
	UserID         uint   `json:"user_id" gorm:"uniqueIndex:idx_user_track;not null"`
	TrackID        uint   `json:"track_id" gorm:"uniqueIndex:idx_user_track;not null"`
	CurrentLevelID uint   `json:"current_level_id" gorm:"index;not null"`
	Status         string `json:"status" gorm:"default:'ACTIVE'"`
	IsDeleted      bool   `gorm:"default:false"`
}

// LevelProgress tracks a student's passage through one level. One row per
// (user, level); created when the student enters the level.
type LevelProgress struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"uniqueIndex:idx_user_level;not null"`
	LevelID     uint       `json:"level_id" gorm:"uniqueIndex:idx_user_level;not null"`
	Status      string     `json:"status" gorm:"default:'IN_PROGRESS'"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	IsDeleted   bool       `gorm:"default:false"`
}
