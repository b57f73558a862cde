package models

import (
	"time"

	"gorm.io/gorm"
)

// User mirrors the identity provider's user record. Identity and
// authentication live outside this service; we only keep the fields the
// learning engine reads.
type User struct {
	gorm.Model
	Name      string    `gorm:"default:''"`
	Email     string    `gorm:"unique;not null"`
	Role      string    `gorm:"default:'STUDENT'"` // STUDENT, GOLD, ADMIN
	LastLogin time.Time `gorm:"default:NULL"`
	IsDeleted bool      `gorm:"default:false"`
}
