package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"okr/internal/platform/config"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := config.New("/tmp/okr")
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Backend != config.BackendFile || cfg.StorageKey != "okr-data" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DBPath != filepath.Join("/tmp/okr", "okr.db") {
		t.Fatalf("unexpected db path %s", cfg.DBPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if _, err := config.New(""); err == nil {
		t.Fatalf("empty data dir must fail")
	}
}

func TestLoadAppliesFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	doc := "backend: sqlite\nlog_level: info\nhistory_limit: 30\n"
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("OKR_LOG_LEVEL", "debug")

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Backend != config.BackendSQLite {
		t.Fatalf("expected sqlite backend from file, got %s", cfg.Backend)
	}
	if cfg.HistoryLimit != 30 {
		t.Fatalf("expected history limit 30, got %d", cfg.HistoryLimit)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("env should override file log level, got %s", cfg.LogLevel)
	}
}

func TestLoadRejectsBadEnvLimit(t *testing.T) {
	t.Setenv("OKR_HISTORY_LIMIT", "many")
	if _, err := config.Load(t.TempDir()); err == nil {
		t.Fatalf("non-numeric history limit must fail")
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	t.Parallel()
	cfg, _ := config.New("/tmp/okr")
	cfg.Backend = "postgres"
	cfg.StorageKey = " "
	cfg.HistoryLimit = -1
	cfg.LogLevel = "loud"
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"postgres", "storage key", "history limit", "loud"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q should mention %q", err, want)
		}
	}
}
