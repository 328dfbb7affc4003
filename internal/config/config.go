package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration loaded from environment variables.
type Config struct {
	Port          string
	DBPath        string
	StaticDir     string
	LogLevel      string
	CORSOrigins   []string
	RatePerMinute int
	RateBurst     int
}

// Load reads an optional .env file, then populates Config from the
// environment with local-first defaults. Everything can run with no
// environment set at all.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("TUTORDESK_DB", "data/tutordesk.db"),
		StaticDir:     getEnv("TUTORDESK_STATIC", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   listEnv("CORS_ORIGINS", []string{"http://localhost:8080", "http://localhost:5173"}),
		RatePerMinute: intEnv("RATE_PER_MINUTE", 240),
		RateBurst:     intEnv("RATE_BURST", 60),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}

func listEnv(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
