package course

import "gorm.io/gorm"

// Lesson content types
const (
	LessonTypeVideo = "VIDEO"
	LessonTypeText  = "TEXT"
	LessonTypeQuiz  = "QUIZ"
)

// Lesson is a single unit of content. It belongs either to a Module
// (standard course path) or directly to a Gold curriculum Level; exactly
// one of ModuleID/LevelID is set. Lessons are soft-deactivated, never
// deleted.
type Lesson struct {
	gorm.Model
	ModuleID    uint   `json:"module_id" gorm:"index;default:0"`
	LevelID     uint   `json:"level_id" gorm:"index;default:0"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type" gorm:"default:'VIDEO'"`
	VideoURL    string `json:"video_url"`
	TextContent string `json:"text_content" gorm:"type:text"`
	Duration    int64  `json:"duration" gorm:"default:0"` // seconds
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsRequired  bool   `json:"is_required" gorm:"default:true"`
	XPReward    int    `json:"xp_reward" gorm:"default:0"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
	IsDeleted   bool   `gorm:"default:false"`
}
