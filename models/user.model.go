package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email     string    `gorm:"unique;not null" json:"email"`
	FirstName string    `gorm:"default:''" json:"firstName"`
	LastName  string    `gorm:"default:''" json:"lastName"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"default:'USER'" json:"role"` // USER, ADMIN
	LastLogin time.Time `gorm:"default:NULL" json:"lastLogin"`
	IsDeleted bool      `gorm:"default:false" json:"-"`
}
