package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	recordModel "hadirku_backend/internals/features/attendance/records/model"
	sessionModel "hadirku_backend/internals/features/attendance/sessions/model"
	enrollModel "hadirku_backend/internals/features/enrollment/model"
	notifModel "hadirku_backend/internals/features/notifications/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=hadirku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
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

// Migrate: AutoMigrate model engine + index partial yang tidak bisa
// dinyatakan lewat tag GORM (unique Active per kelas).
func Migrate() {
	if err := DB.AutoMigrate(
		&sessionModel.AttendanceSessionModel{},
		&recordModel.AttendanceRecordModel{},
		&enrollModel.ClassStudentModel{},
		&notifModel.NotificationModel{},
	); err != nil {
		log.Fatalf("❌ Gagal migrasi: %v", err)
	}

	// Invariant: maksimal satu sesi Active per class_id.
	if err := DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uq_attendance_sessions_active_per_class
		ON attendance_sessions (attendance_session_class_id)
		WHERE attendance_session_status = 1
	`).Error; err != nil {
		log.Fatalf("❌ Gagal membuat index unik sesi aktif: %v", err)
	}

	log.Println("✅ Migrasi selesai.")
}

func WarmUpQueries() {
	// jalankan ringan supaya pool keisi & siap
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

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
