package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment.
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	GinMode        string
}

// Load reads a .env file if present, then the environment.
func Load() Config {
	godotenv.Load()

	cfg := Config{
		Port:     getenv("PORT", "3001"),
		LogLevel: getenv("LOG_LEVEL", "info"),
		GinMode:  getenv("GIN_MODE", ""),
	}

	origins := getenv("ALLOWED_ORIGINS", "*")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
