package config

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Store.Backend != BackendFile || cfg.Store.FilePath != "jobs.json" {
		t.Errorf("unexpected store defaults %+v", cfg.Store)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("expected 10s read timeout, got %s", cfg.Server.ReadTimeout)
	}
	if cfg.Redis.AppendLock {
		t.Error("expected append lock off by default")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", " Sheet ")
	t.Setenv("JOBS_SHEET", "/tmp/jobs.csv")
	t.Setenv("JOBS_TIMEZONE", "America/Chicago")
	t.Setenv("REDIS_APPEND_LOCK", "true")
	t.Setenv("EXPORTER_POOL_SIZE", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Backend != BackendSheet || cfg.Store.SheetPath != "/tmp/jobs.csv" {
		t.Errorf("unexpected store config %+v", cfg.Store)
	}
	if !cfg.Redis.AppendLock || cfg.Exporter.PoolSize != 8 {
		t.Errorf("unexpected config %+v %+v", cfg.Redis, cfg.Exporter)
	}
	loc, err := cfg.Store.Location()
	if err != nil || loc.String() != "America/Chicago" {
		t.Errorf("expected America/Chicago, got %v (%v)", loc, err)
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoad_BadTimezone(t *testing.T) {
	t.Setenv("JOBS_TIMEZONE", "Mars/Olympus")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
