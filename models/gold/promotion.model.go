package gold

import (
	"time"

	"gorm.io/gorm"
)

// Promotion request statuses
const (
	PromotionPending  = "PENDING"
	PromotionApproved = "APPROVED"
	PromotionRejected = "REJECTED"
)

// LevelPromotionRequest represents a student's request to advance to the
// next level, reviewed by an admin. The next level is resolved at request
// time. Terminal once approved or rejected; a student may not hold two
// pending requests for the same current level.
type LevelPromotionRequest struct {
	gorm.Model
	StudentID       uint       `json:"student_id" gorm:"index;not null"`
	TrackID         uint       `json:"track_id" gorm:"index;not null"`
	CurrentLevelID  uint       `json:"current_level_id" gorm:"index;not null"`
	NextLevelID     uint       `json:"next_level_id" gorm:"not null"`
	Status          string     `json:"status" gorm:"default:'PENDING'"`
	RequestedAt     time.Time  `json:"requested_at"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	ReviewedBy      *uint      `json:"reviewed_by"`
	RejectionReason string     `json:"rejection_reason"`
	IsDeleted       bool       `gorm:"default:false"`
}
