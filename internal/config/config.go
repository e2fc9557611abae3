package config

import "os"

type Config struct {
	Port          string
	DatabaseDSN   string
	SessionSecret string
	Env           string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by main) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "file:warbler.db")
	cfg.SessionSecret = getEnv("SESSION_SECRET", "devsessionsecret")
	cfg.Env = getEnv("APP_ENV", "development")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
