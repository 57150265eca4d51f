package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Loads environment variables from a .env file when one is present.
// Running without one is fine, values fall back to defaults.
func Load() {
	godotenv.Load()
}

func DatabaseUrl() string {
	return get("DATABASE_URL", "kitchen.db")
}

func ListenAddress() string {
	return get("LISTEN_ADDRESS", ":1323")
}

// How often the expired batch sweep runs.
func CleanupInterval() time.Duration {
	hours, err := strconv.Atoi(get("CLEANUP_INTERVAL_HOURS", "1"))
	if err != nil || hours <= 0 {
		hours = 1
	}
	return time.Duration(hours) * time.Hour
}

func get(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
