package course

import (
	"time"

	"gorm.io/gorm"
)

// Lesson progress statuses
const (
	ProgressNotStarted = "NOT_STARTED"
	ProgressInProgress = "IN_PROGRESS"
	ProgressCompleted  = "COMPLETED"
)

// LessonProgress tracks a user's progress through a single lesson.
// One row per (user, lesson); created on first access, updated on every
// subsequent event, never deleted. ProgressPercentage is monotonic and
// WatchTime is additive; CompletedAt is stamped once.
type LessonProgress struct {
	gorm.Model
	UserID             uint       `json:"user_id" gorm:"uniqueIndex:idx_user_lesson;not null"`
	LessonID           uint       `json:"lesson_id" gorm:"uniqueIndex:idx_user_lesson;not null"`
	Status             string     `json:"status" gorm:"default:'NOT_STARTED'"`
	ProgressPercentage float64    `json:"progress_percentage" gorm:"default:0"`
	WatchTime          int64      `json:"watch_time" gorm:"default:0"` // cumulative seconds
	LastPosition       int64      `json:"last_position" gorm:"default:0"`
	CompletedAt        *time.Time `json:"completed_at"`
	IsDeleted          bool       `gorm:"default:false"`
}

// CourseProgress tracks a user's enrollment in a course. Created exactly
// once at successful enrollment; one row per (user, course).
type CourseProgress struct {
	gorm.Model
	UserID             uint       `json:"user_id" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID           uint       `json:"course_id" gorm:"uniqueIndex:idx_user_course;not null"`
	Status             string     `json:"status" gorm:"default:'IN_PROGRESS'"`
	LessonsCompleted   int        `json:"lessons_completed" gorm:"default:0"`
	TotalLessons       int        `json:"total_lessons" gorm:"default:0"` // snapshotted at enrollment
	ProgressPercentage float64    `json:"progress_percentage" gorm:"default:0"`
	CurrentLessonID    uint       `json:"current_lesson_id" gorm:"default:0"` // next actionable lesson
	EnrolledAt         time.Time  `json:"enrolled_at"`
	StartedAt          *time.Time `json:"started_at"`
	LastAccessedAt     *time.Time `json:"last_accessed_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	IsDeleted          bool       `gorm:"default:false"`
}
