// Package config reads service configuration from the environment. main loads
// a .env file first (godotenv), so local development works without exporting
// anything.
package config

import "os"

type Config struct {
	ListenAddr    string
	DatabaseDSN   string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string

	// Telegram ops alerts are optional; both values must be set to enable.
	TelegramBotToken    string
	TelegramAdminChatID string
}

// Load builds a Config from the environment with development defaults.
func Load() Config {
	return Config{
		ListenAddr:          getenv("LISTEN_ADDR", ":8080"),
		DatabaseDSN:         getenv("DATABASE_DSN", "host=localhost user=user password=password dbname=servigo port=5432 sslmode=disable"),
		RedisAddr:           getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		JWTSecret:           getenv("JWT_SECRET", "dev-secret-change-me"),
		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramAdminChatID: os.Getenv("TELEGRAM_ADMIN_CHAT_ID"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
