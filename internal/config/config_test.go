package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TASKBOARD_ADDR", "")
	t.Setenv("TASKBOARD_DB", "")
	t.Setenv("TASKBOARD_SESSION_HOURS", "")
	t.Setenv("TASKBOARD_SECURE_COOKIES", "")
	t.Setenv("TASKBOARD_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr: got %q, want %q", cfg.Addr, ":8080")
	}
	if cfg.DatabasePath != "taskboard.db" {
		t.Errorf("DatabasePath: got %q", cfg.DatabasePath)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL: got %v", cfg.SessionTTL)
	}
	if cfg.SecureCookies {
		t.Error("SecureCookies should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TASKBOARD_ADDR", ":9090")
	t.Setenv("TASKBOARD_DB", "/tmp/x.db")
	t.Setenv("TASKBOARD_SESSION_HOURS", "2")
	t.Setenv("TASKBOARD_SECURE_COOKIES", "true")
	t.Setenv("TASKBOARD_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.DatabasePath != "/tmp/x.db" {
		t.Errorf("got %+v", cfg)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL: got %v, want 2h", cfg.SessionTTL)
	}
	if !cfg.SecureCookies {
		t.Error("SecureCookies: got false, want true")
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("TASKBOARD_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without TASKBOARD_SECRET")
	}
}

func TestLoadIgnoresBadHours(t *testing.T) {
	t.Setenv("TASKBOARD_SECRET", "s3cret")
	t.Setenv("TASKBOARD_SESSION_HOURS", "-3")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL: got %v, want default", cfg.SessionTTL)
	}
}
