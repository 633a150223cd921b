// Package config loads server configuration from the environment.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs at startup.
type Config struct {
	Port           string
	DBPath         string
	JWTSecret      string
	TokenDuration  time.Duration
	RotationPolicy string // "direct" or "nomination"
	CodeFormat     string // "strict" or "base36"
}

// Load reads configuration from the environment, consulting a .env file
// when present.
func Load() *Config {
	godotenv.Load()

	tokenDuration := 24 * time.Hour
	if raw := os.Getenv("TOKEN_DURATION"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			tokenDuration = d
		}
	}

	return &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		DBPath:         getEnvOrDefault("DB_PATH", "./data/kurihub.db"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", "dev-secret-change-me"),
		TokenDuration:  tokenDuration,
		RotationPolicy: getEnvOrDefault("ROTATION_POLICY", "nomination"),
		CodeFormat:     getEnvOrDefault("CODE_FORMAT", "base36"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
