package gold

import "gorm.io/gorm"

// Track is an ordered sequence of levels forming the Gold curriculum path
type Track struct {
	gorm.Model
	Title       string `json:"title"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
	IsDeleted   bool   `gorm:"default:false"`
}

// Level is an ordered stage within a track. Levels own lessons directly
// (no module indirection) and are gated by administrative promotion.
type Level struct {
	gorm.Model
	TrackID     uint   `json:"track_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"` // Level order in track
	IsActive    bool   `json:"is_active" gorm:"default:true"`
	IsDeleted   bool   `gorm:"default:false"`
}
