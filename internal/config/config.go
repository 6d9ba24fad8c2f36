package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"vehicle-dismantling/backend/internal/decision"
)

// Config is the runtime configuration shared by the server and the CLI.
type Config struct {
	Port           string
	Decision       decision.Config
	DBPath         string
	SilentDB       bool
	LogosDir       string
	AllowedOrigins []string
	LogLevel       logrus.Level
	// RestoreLatest preloads the newest stored plan on startup.
	RestoreLatest bool
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("load .env file")
	}

	cfg := Config{
		Port: getEnvOrDefault("PORT", "2000"),
		Decision: decision.Config{
			BaseURL: getEnvOrDefault("DECISION_API_BASE", decision.DefaultBaseURL),
			Timeout: 30 * time.Second,
		},
		DBPath:         getEnvOrDefault("PLAN_DB_PATH", filepath.Join("data", "plans.db")),
		SilentDB:       strings.EqualFold(strings.TrimSpace(os.Getenv("SILENT_DB")), "true"),
		LogosDir:       getEnvOrDefault("LOGOS_DIR", filepath.Join("public", "logos")),
		AllowedOrigins: defaultOrigins,
		LogLevel:       logrus.InfoLevel,
		RestoreLatest:  strings.EqualFold(strings.TrimSpace(os.Getenv("RESTORE_LATEST_PLAN")), "true"),
	}

	if timeout := os.Getenv("DECISION_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Decision.Timeout = d
		} else {
			logrus.WithField("value", timeout).Warn("ignoring invalid DECISION_TIMEOUT")
		}
	}
	if origins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}
	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		if parsed, err := logrus.ParseLevel(level); err == nil {
			cfg.LogLevel = parsed
		} else {
			logrus.WithField("value", level).Warn("ignoring invalid LOG_LEVEL")
		}
	}
	if port := strings.TrimSpace(cfg.Port); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			logrus.WithField("value", port).Warn("PORT is not numeric, falling back to 2000")
			cfg.Port = "2000"
		}
	}
	return cfg
}

func getEnvOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma separated list; "*" yields an empty list, which
// callers treat as allow-all.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "*" {
			return nil
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
