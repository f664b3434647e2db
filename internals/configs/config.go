package configs

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var (
	JWTSecret    string
	BrevoAPIKey  string
	SenderName   string
	SenderEmail  string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ .env file not found, falling back to system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running on Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	BrevoAPIKey = GetEnv("BREVO_API_KEY")
	SenderName = GetEnv("MAIL_SENDER_NAME", "Ajmal Super 40")
	SenderEmail = GetEnv("MAIL_SENDER_EMAIL", "admissions@ajmalsuper40.in")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	}
	if BrevoAPIKey == "" {
		log.Println("⚠️ BREVO_API_KEY is not set — confirmation emails will fail (non-fatal)")
	}
}

// GetEnv treats a blank value the same as an unset key.
func GetEnv(key string, defaultValue ...string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
