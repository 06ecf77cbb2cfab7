package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	JWTSecret string

	// Default engine — bisa dioverride per sesi lewat request.
	DefaultRecognitionWindowMinutes int
	DefaultMaxDurationMinutes       int
	AutoExpirySweepSeconds          int
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}

	DefaultRecognitionWindowMinutes = GetEnvInt("DEFAULT_RECOGNITION_WINDOW_MINUTES", 20)
	DefaultMaxDurationMinutes = GetEnvInt("DEFAULT_MAX_DURATION_MINUTES", 120)
	AutoExpirySweepSeconds = GetEnvInt("AUTO_EXPIRY_SWEEP_SECONDS", 60)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// GetEnvInt: ambil env integer; kosong/invalid → fallback.
func GetEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
		log.Printf("⚠️ %s bukan angka valid, pakai default %d", key, fallback)
	}
	return fallback
}
