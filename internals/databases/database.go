package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	admissionModel "super40_backend/internals/features/admission/applications/model"
	adminModel "super40_backend/internals/features/users/admin/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=super40&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // safe with PgBouncer transaction pooling
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate creates/updates the admission tables plus the constraints and the
// change-notify trigger the dashboard live feed listens on.
func Migrate() {
	if err := DB.AutoMigrate(
		&admissionModel.ApplicationModel{},
		&admissionModel.ApplicationEventModel{},
		&adminModel.AdminUserModel{},
		&adminModel.TokenBlacklistModel{},
	); err != nil {
		log.Fatalf("❌ migrate failed: %v", err)
	}

	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_applications_number ON applications (application_number)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_applications_roll_number ON applications (roll_number) WHERE roll_number <> ''`,
		`CREATE INDEX IF NOT EXISTS idx_applications_lookup ON applications (application_number, dob)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_status ON applications (status)`,
		`CREATE OR REPLACE FUNCTION fn_applications_notify() RETURNS trigger AS $$
		BEGIN
			PERFORM pg_notify('applications_changed', COALESCE(NEW.application_id::text, OLD.application_id::text));
			RETURN NEW;
		END;
		$$ LANGUAGE plpgsql`,
		`DROP TRIGGER IF EXISTS trg_applications_notify ON applications`,
		`CREATE TRIGGER trg_applications_notify
			AFTER INSERT OR UPDATE OR DELETE ON applications
			FOR EACH ROW EXECUTE FUNCTION fn_applications_notify()`,
	}
	for _, s := range stmts {
		if err := DB.Exec(s).Error; err != nil {
			log.Fatalf("❌ migrate stmt failed: %v", err)
		}
	}
	log.Println("✅ Migrations applied.")
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// ListenerDSN rebuilds a key/value DSN for lib/pq's LISTEN/NOTIFY listener,
// which cannot share gorm's pooled connections.
func ListenerDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		getenv("DB_SSLMODE", "require"),
	)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
