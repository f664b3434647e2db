package scheduler

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"super40_backend/internals/configs"
	helper "super40_backend/internals/helpers/oss"
)

// StartOrphanReaperCron schedules the nightly sweep that deletes uploaded
// photos and signatures whose submission never made it into the database
// (upload succeeded, insert failed). An object survives when any application
// row still references its public URL.
func StartOrphanReaperCron(db *gorm.DB) {
	if strings.TrimSpace(configs.GetEnv("ALI_OSS_BUCKET", "")) == "" {
		log.Println("⚠️  Orphan reaper disabled: OSS not configured")
		return
	}

	spec := configs.GetEnv("ORPHAN_REAPER_CRON", "30 2 * * *")
	c := cron.New()
	_, err := c.AddFunc(spec, func() { reapOrphanUploads(db) })
	if err != nil {
		log.Printf("❌ Orphan reaper not scheduled (%q): %v", spec, err)
		return
	}
	c.Start()
	log.Printf("🧹 Orphan reaper scheduled (%s)", spec)
}

func reapOrphanUploads(db *gorm.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	blobs, err := helper.NewOSSBlobServiceFromEnv("uploads")
	if err != nil {
		log.Printf("[CLEANUP] orphan reaper: oss init failed: %v", err)
		return
	}
	svc := blobs.Service()

	retention := 48 * time.Hour
	if h, err := strconv.Atoi(configs.GetEnv("ORPHAN_RETENTION_HOURS", "")); err == nil && h > 0 {
		retention = time.Duration(h) * time.Hour
	}
	cutoff := time.Now().Add(-retention)
	dryRun := strings.EqualFold(configs.GetEnv("ORPHAN_REAPER_DRY_RUN", "false"), "true")

	objects, err := svc.ListPrefix(ctx, "uploads/")
	if err != nil {
		log.Printf("[CLEANUP] orphan reaper: list failed: %v", err)
		return
	}

	var doomed []string
	for _, obj := range objects {
		if obj.LastModified.After(cutoff) {
			// too fresh; its insert may still be in flight
			continue
		}
		url := svc.PublicURL(obj.Key)
		var referenced bool
		err := db.WithContext(ctx).
			Raw(`SELECT EXISTS(
				SELECT 1 FROM applications
				WHERE photo_url = @url OR signature_url = @url
			)`, map[string]interface{}{"url": url}).
			Scan(&referenced).Error
		if err != nil {
			log.Printf("[CLEANUP] orphan reaper: reference check for %s failed: %v", obj.Key, err)
			continue
		}
		if !referenced {
			doomed = append(doomed, obj.Key)
		}
	}

	if len(doomed) == 0 {
		log.Printf("[CLEANUP] orphan reaper: %d objects scanned, nothing to delete", len(objects))
		return
	}
	if dryRun {
		log.Printf("[CLEANUP] orphan reaper (dry run): would delete %d of %d objects", len(doomed), len(objects))
		return
	}

	// batch deletes, 1000 keys per call
	for start := 0; start < len(doomed); start += 1000 {
		end := start + 1000
		if end > len(doomed) {
			end = len(doomed)
		}
		if err := svc.DeleteObjects(ctx, doomed[start:end]); err != nil {
			log.Printf("[CLEANUP] orphan reaper: delete batch failed: %v", err)
			return
		}
	}
	log.Printf("[CLEANUP] orphan reaper: deleted %d orphaned uploads", len(doomed))
}
