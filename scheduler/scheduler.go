package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"svault/models"
)

// PurgeExpiredRevokedTokens removes blacklist rows for refresh tokens
// that are already past their own expiry. A token past expiry fails
// verification regardless, so the row no longer protects anything.
func PurgeExpiredRevokedTokens(db *gorm.DB) {
	result := db.Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&models.RevokedToken{})
	if result.Error != nil {
		log.Printf("[TOKEN-SCHEDULER] Error purging revoked tokens: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[TOKEN-SCHEDULER] Purged %d expired blacklist entries", result.RowsAffected)
	}
}

// StartTokenScheduler runs the blacklist purge every hour.
func StartTokenScheduler(db *gorm.DB) *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@hourly", func() { PurgeExpiredRevokedTokens(db) }); err != nil {
		log.Printf("[TOKEN-SCHEDULER] Failed to register purge job: %v", err)
		return c
	}

	c.Start()
	log.Println("[TOKEN-SCHEDULER] Started hourly blacklist purge")
	return c
}
