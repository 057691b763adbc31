package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string

	// ReportCacheTTL controls how long a report snapshot is considered
	// fresh; stale snapshots are still served while a refresh runs.
	ReportCacheTTL time.Duration

	// ConfirmTTL is how long a planned recommendation mutation stays
	// committable.
	ConfirmTTL time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		ServerPort:     os.Getenv("SERVER_PORT"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		ReportCacheTTL: durationEnv("REPORT_CACHE_TTL", 30*time.Second),
		ConfirmTTL:     durationEnv("CONFIRM_TTL", 5*time.Minute),
	}

	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}

	return cfg
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using default %s", key, raw, def)
		return def
	}
	return d
}
