package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Config holds the environment-driven settings for the application.
type Config struct {
	// BackendURL is the base URL of the thresholding backend, for example
	// "http://localhost:8000". When empty the built-in engine is used instead.
	BackendURL string

	// HTTPTimeout bounds every request made to the backend.
	HTTPTimeout time.Duration
}

func Load() *Config {
	return &Config{
		BackendURL:  getEnv("THRESHOLD_STUDIO_BACKEND_URL", ""),
		HTTPTimeout: getDurationSeconds("THRESHOLD_STUDIO_HTTP_TIMEOUT", 30),
	}
}

// UseBackend reports whether processing should go through the remote backend.
func (c *Config) UseBackend() bool {
	return c.BackendURL != ""
}

func LogLevel() zerolog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDurationSeconds(key string, def int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return time.Duration(def) * time.Second
}
