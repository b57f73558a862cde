package course

import "gorm.io/gorm"

// Course represents a learning course
type Course struct {
	gorm.Model
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Author       string  `json:"author"`
	Price        float64 `json:"price" gorm:"default:0"` // 0 = free course
	ThumbnailURL string  `json:"thumbnail_url"`
	IsActive     bool    `json:"is_active" gorm:"default:false"`
	IsDeleted    bool    `gorm:"default:false"`
}
