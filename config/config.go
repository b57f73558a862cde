package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBDriver string
	DBName   string
	JWTKey   string

	// Webhook that receives progress/promotion notifications
	NotifyWebhookURL string

	// XP granted per lesson when the lesson itself carries no reward
	DefaultLessonXP int

	// Cron spec for the nightly streak sweep
	StreakSweepSpec string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:     getEnv("PORT", "3000"),
		DBDriver: getEnv("DB_DRIVER", "postgres"),
		DBName:   getEnv("DB_NAME", "lms"),
		JWTKey:   getEnv("JWT_SECRET_KEY", "defaultSecret"),

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		DefaultLessonXP:  getEnvInt("DEFAULT_LESSON_XP", 10),
		StreakSweepSpec:  getEnv("STREAK_SWEEP_SPEC", "10 0 * * *"),
	}

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.NotifyWebhookURL == "" {
		log.Println("Warning: NOTIFY_WEBHOOK_URL not set. Notifications are disabled.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
