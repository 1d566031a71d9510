// Package config loads service configuration from the environment, with
// optional .env overrides for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads .env files into the process environment. With no paths, ".env"
// in the current working directory is used. A missing file yields an error
// that callers can ignore; the system environment and defaults still apply.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// GetEnv returns the value of the environment variable named by key, or
// fallback if the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// GetEnvInt returns the integer value of the environment variable named by
// key, or fallback if the variable is unset, empty, or not a valid integer.
func GetEnvInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}
