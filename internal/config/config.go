// Package config loads process settings from CLAI_* environment variables,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/aeriel/clai/internal/llm"
)

type Config struct {
	// DB is a SQLite path or a postgres:// URL. Empty means the default
	// data-directory path.
	DB string

	// HTTPAddr is the listen address of `clai serve`.
	HTTPAddr string

	// LogMode is "dev" or "prod".
	LogMode string

	// CORSOrigins are the browser origins allowed to call the API.
	CORSOrigins []string

	LLM llm.Config
}

// LoadDotEnv reads variables from the given files (".env" when none are
// named) without overriding ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

const defaultCORSOrigins = "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173"

// Load builds the configuration from the environment.
func Load() Config {
	return Config{
		DB:          os.Getenv("CLAI_DB"),
		HTTPAddr:    getEnv("CLAI_HTTP_ADDR", ":8080"),
		LogMode:     getEnv("CLAI_LOG_MODE", "dev"),
		CORSOrigins: splitList(getEnv("CLAI_CORS_ORIGINS", defaultCORSOrigins)),
		LLM:         llm.ConfigFromEnv(),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
