package models

import (
	"time"

	"gorm.io/gorm"
)

// RevokedToken blacklists a refresh token by its jti claim. Rows past
// ExpiresAt are dead weight (the token would be rejected as expired
// anyway) and are purged by the scheduler.
type RevokedToken struct {
	gorm.Model
	JTI       string    `gorm:"uniqueIndex;size:36;not null" json:"jti"`
	UserID    uint      `gorm:"index" json:"user_id"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

// IsTokenRevoked reports whether the given jti has been blacklisted.
func IsTokenRevoked(db *gorm.DB, jti string) bool {
	var count int64
	db.Model(&RevokedToken{}).Where("jti = ?", jti).Count(&count)
	return count > 0
}
