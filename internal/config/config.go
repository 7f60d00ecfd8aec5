package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the web server.
type Config struct {
	Addr          string
	DatabasePath  string
	Secret        string
	SessionTTL    time.Duration
	SecureCookies bool
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		Addr:          strings.TrimSpace(os.Getenv("TASKBOARD_ADDR")),
		DatabasePath:  strings.TrimSpace(os.Getenv("TASKBOARD_DB")),
		Secret:        os.Getenv("TASKBOARD_SECRET"),
		SessionTTL:    parseHours(strings.TrimSpace(os.Getenv("TASKBOARD_SESSION_HOURS"))),
		SecureCookies: parseBool(strings.TrimSpace(os.Getenv("TASKBOARD_SECURE_COOKIES"))),
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "taskboard.db"
	}

	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	if cfg.Secret == "" {
		return cfg, fmt.Errorf("TASKBOARD_SECRET is required")
	}

	return cfg, nil
}

func parseHours(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}
