package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"super40_backend/internals/features/users/admin/model"
)

// StartBlacklistCleanupScheduler removes blacklist rows whose tokens
// expired long ago. Runs daily in the background.
func StartBlacklistCleanupScheduler(db *gorm.DB) {
	go func() {
		ttlDays := 7
		if val := os.Getenv("TOKEN_BLACKLIST_TTL_DAYS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				ttlDays = parsed
			}
		}

		for {
			log.Println("[CLEANUP] sweeping token_blacklists...")

			deleteBefore := time.Now().Add(-time.Duration(ttlDays) * 24 * time.Hour)

			var expired []model.TokenBlacklistModel
			if err := db.
				Where("expired_at < ? AND deleted_at IS NULL", deleteBefore).
				Limit(100).
				Find(&expired).Error; err != nil {
				log.Printf("[CLEANUP ERROR] loading expired tokens failed: %v", err)
			} else if len(expired) > 0 {
				if err := db.Delete(&expired).Error; err != nil {
					log.Printf("[CLEANUP ERROR] deleting tokens failed: %v", err)
				} else {
					log.Printf("[CLEANUP] %d expired tokens removed", len(expired))
				}
			} else {
				log.Println("[CLEANUP] nothing to remove")
			}

			time.Sleep(24 * time.Hour)
		}
	}()
}
