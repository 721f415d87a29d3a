package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken   string
	DatabaseURL     string // empty selects the in-memory store
	OwnerChatID     int64
	LogLevel        string
	Environment     string
	Timezone        string
	MorningTime     string // HH:MM, daily morning digest
	EveningTime     string // HH:MM, daily evening digest + next-day preview
	BillNotifyTime  string // HH:MM, daily bill urgency sweep
	MonthlyRollTime string // HH:MM, daily check that rolls monthly duties in
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	// Optional: when unset the application falls back to in-memory storage.
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	ownerIDStr := os.Getenv("OWNER_CHAT_ID")
	if ownerIDStr == "" {
		return nil, fmt.Errorf("OWNER_CHAT_ID is not set")
	}
	cfg.OwnerChatID, err = strconv.ParseInt(ownerIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OWNER_CHAT_ID: %w", err)
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.Timezone = os.Getenv("TIMEZONE")
	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Taipei" // Reference timezone of the household
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	cfg.MorningTime, err = timeOfDayEnv("MORNING_TIME", "09:00")
	if err != nil {
		return nil, err
	}
	cfg.EveningTime, err = timeOfDayEnv("EVENING_TIME", "18:00")
	if err != nil {
		return nil, err
	}
	cfg.BillNotifyTime, err = timeOfDayEnv("BILL_NOTIFY_TIME", "15:15")
	if err != nil {
		return nil, err
	}
	cfg.MonthlyRollTime, err = timeOfDayEnv("MONTHLY_ROLL_TIME", "09:00")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func timeOfDayEnv(key, def string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	if !ValidTimeOfDay(v) {
		return "", fmt.Errorf("invalid %s %q: expected HH:MM", key, v)
	}
	return v, nil
}

// ValidTimeOfDay reports whether s is a valid HH:MM wall-clock time.
func ValidTimeOfDay(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return false
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return hh >= 0 && hh <= 23 && mm >= 0 && mm <= 59
}
