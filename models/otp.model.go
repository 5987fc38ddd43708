package models

import (
	"time"

	"gorm.io/gorm"

	"svault/config"
	"svault/utils"
)

type OTP struct {
	gorm.Model
	Email     string    `gorm:"size:100;index;not null" json:"email"`
	Code      string    `gorm:"size:6;not null" json:"code"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsUsed    bool      `gorm:"default:false" json:"is_used"`
}

// GenerateOTP creates a fresh one-time code for the given email.
// Any unused codes for the same email are discarded first, so at most
// one live code exists per address. Returns the plaintext code for
// out-of-band delivery; it must never appear in an HTTP response.
func GenerateOTP(db *gorm.DB, email string) (string, error) {
	if err := db.Unscoped().
		Where("email = ? AND is_used = ?", email, false).
		Delete(&OTP{}).Error; err != nil {
		return "", err
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return "", err
	}

	record := OTP{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(time.Duration(config.AppConfig.OTPExpiryMinutes) * time.Minute),
	}
	if err := db.Create(&record).Error; err != nil {
		return "", err
	}

	return code, nil
}

// ConsumeOTP validates and burns a one-time code in a single conditional
// UPDATE. Two concurrent callers with the same code race on the
// is_used flip; the row count tells us which one won.
func ConsumeOTP(db *gorm.DB, email, code string) bool {
	result := db.Model(&OTP{}).
		Where("email = ? AND code = ? AND is_used = ? AND expires_at > ?", email, code, false, time.Now()).
		Update("is_used", true)
	if result.Error != nil {
		return false
	}
	return result.RowsAffected > 0
}
