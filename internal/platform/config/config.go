package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	// DefaultStorageKey is the fixed key the objective collection lives under.
	DefaultStorageKey = "okr-data"

	FileName = "config.yaml"
)

type Config struct {
	DataDir      string
	Backend      string
	BlobDir      string
	DBPath       string
	StorageKey   string
	LogLevel     string
	HistoryLimit int
}

// fileConfig mirrors the optional <data>/config.yaml document.
type fileConfig struct {
	Backend      string `yaml:"backend"`
	StorageKey   string `yaml:"storage_key"`
	LogLevel     string `yaml:"log_level"`
	HistoryLimit *int   `yaml:"history_limit"`
}

func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir:    dataDir,
		Backend:    BackendFile,
		BlobDir:    filepath.Join(dataDir, "blobs"),
		DBPath:     filepath.Join(dataDir, "okr.db"),
		StorageKey: DefaultStorageKey,
		LogLevel:   "warn",
	}, nil
}

// Load builds the defaults for dataDir, then applies <dataDir>/config.yaml
// when present, then OKR_* environment variables.
func Load(dataDir string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyFile(filepath.Join(dataDir, FileName)); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	fc := fileConfig{}
	if err := yaml.Unmarshal(payload, &fc); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	if fc.Backend != "" {
		c.Backend = fc.Backend
	}
	if fc.StorageKey != "" {
		c.StorageKey = fc.StorageKey
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.HistoryLimit != nil {
		c.HistoryLimit = *fc.HistoryLimit
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("OKR_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("OKR_STORAGE_KEY"); v != "" {
		c.StorageKey = v
	}
	if v := os.Getenv("OKR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("OKR_HISTORY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("OKR_HISTORY_LIMIT %q: %w", v, err)
		}
		c.HistoryLimit = n
	}
	return nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var problems []string
	switch c.Backend {
	case BackendFile, BackendSQLite:
	default:
		problems = append(problems, fmt.Sprintf("unknown backend %q: must be %s or %s", c.Backend, BackendFile, BackendSQLite))
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		problems = append(problems, "storage key cannot be empty")
	}
	if c.HistoryLimit < 0 {
		problems = append(problems, fmt.Sprintf("history limit %d must not be negative", c.HistoryLimit))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown log level %q", c.LogLevel))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
