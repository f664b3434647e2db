package seeds

import (
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"super40_backend/internals/configs"
	"super40_backend/internals/features/users/admin/model"
	"super40_backend/internals/features/users/admin/service"
)

// EnsureDefaultAdmin provisions the staff account from ADMIN_EMAIL and
// ADMIN_PASSWORD. Existing accounts are left untouched so a rotated env
// password does not silently overwrite one changed in the database.
func EnsureDefaultAdmin(db *gorm.DB) {
	email := strings.ToLower(strings.TrimSpace(configs.GetEnv("ADMIN_EMAIL", "")))
	password := configs.GetEnv("ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		log.Println("⚠️  ADMIN_EMAIL / ADMIN_PASSWORD not set, skipping admin seed")
		return
	}
	if len(password) < 8 {
		log.Println("❌ ADMIN_PASSWORD must be at least 8 characters, skipping admin seed")
		return
	}

	var existing model.AdminUserModel
	err := db.Where("admin_email = ?", email).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("❌ Admin seed lookup failed: %v", err)
		return
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		log.Printf("❌ Admin seed hash failed: %v", err)
		return
	}

	admin := model.AdminUserModel{
		AdminName:    configs.GetEnv("ADMIN_NAME", "Admissions Admin"),
		AdminEmail:   email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("❌ Admin seed failed: %v", err)
		return
	}
	log.Printf("✅ Seeded admin account %s", email)
}
