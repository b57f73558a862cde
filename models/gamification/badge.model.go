package gamification

import "gorm.io/gorm"

// Badge types
const (
	BadgeMilestone   = "MILESTONE"
	BadgeStreak      = "STREAK"
	BadgeAchievement = "ACHIEVEMENT"
)

// Badge keys evaluated by the awarder
const (
	KeyFirstLesson  = "first_lesson"
	KeyFirstModule  = "first_module"
	KeyFirstCourse  = "first_course"
	KeyQuizMaster   = "quiz_master"
	KeySpeedLearner = "speed_learner"
	KeyWeekStreak   = "week_streak"
	KeyMonthStreak  = "month_streak"
)

// Badge is a named achievement definition
type Badge struct {
	gorm.Model
	Key         string `json:"key" gorm:"unique;not null"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BadgeType   string `json:"badge_type" gorm:"default:'MILESTONE'"`
	IconURL     string `json:"icon_url"`
	XPReward    int    `json:"xp_reward" gorm:"default:0"`
	IsDeleted   bool   `gorm:"default:false"`
}

// UserBadge records a granted badge. The unique (user, badge) index makes
// awarding idempotent even under concurrent evaluation.
type UserBadge struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"uniqueIndex:idx_user_badge;not null"`
	BadgeID   uint `json:"badge_id" gorm:"uniqueIndex:idx_user_badge;not null"`
	IsDeleted bool `gorm:"default:false"`
}
