package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment.
// A .env file in the working directory is loaded first, if present;
// variables already set in the environment are not overridden by it.
//
// Recognized variables:
//
//	LUNAR_BACKEND_URL      backend base URL
//	LUNAR_APP_ID           application identifier
//	LUNAR_TOKEN_FILE       session token file path
//	LUNAR_HEALTH_INTERVAL  online check interval in seconds
//	LUNAR_LOG_LEVEL        log level
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("LUNAR_BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := os.Getenv("LUNAR_APP_ID"); v != "" {
		cfg.AppID = v
	}
	if v := os.Getenv("LUNAR_TOKEN_FILE"); v != "" {
		cfg.TokenFile = v
	}
	if v := os.Getenv("LUNAR_HEALTH_INTERVAL"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			cfg.OnlineCheckInterval = time.Duration(seconds) * time.Second
		}
	}
	if v := os.Getenv("LUNAR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
