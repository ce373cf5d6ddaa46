package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
	StorageMemory = "memory"

	envPrefix = "PAIRVOTE_"
)

type Config struct {
	APIBase        string        `yaml:"api_base"`
	StateDir       string        `yaml:"state_dir"`
	Storage        string        `yaml:"storage"`
	DBPath         string        `yaml:"db_path"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`
	Theme          string        `yaml:"theme"`
}

func Default(stateDir string) Config {
	return Config{
		APIBase:        "http://localhost:8000",
		StateDir:       stateDir,
		Storage:        StorageSQLite,
		DBPath:         filepath.Join(stateDir, "pairvote.db"),
		RequestTimeout: 15 * time.Second,
		LogLevel:       "warn",
		Theme:          "dark",
	}
}

// Load layers defaults, the yaml file, .env and PAIRVOTE_* variables.
// An empty configPath means <stateDir>/config.yaml, which may be absent.
func Load(stateDir, configPath string) (Config, error) {
	if stateDir == "" {
		return Config{}, fmt.Errorf("state dir is required")
	}
	cfg := Default(stateDir)

	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(stateDir, "config.yaml")
	}
	if err := cfg.mergeFile(configPath, explicit); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.StateDir, "pairvote.db")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string, required bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	if v, ok := lookup("API_BASE"); ok {
		c.APIBase = v
	}
	if v, ok := lookup("STATE_DIR"); ok {
		c.StateDir = v
	}
	if v, ok := lookup("STORAGE"); ok {
		c.Storage = v
	}
	if v, ok := lookup("DB_PATH"); ok {
		c.DBPath = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("THEME"); ok {
		c.Theme = v
	}
	if v, ok := lookup("REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %sREQUEST_TIMEOUT: %w", envPrefix, err)
		}
		c.RequestTimeout = d
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIBase) == "" {
		return fmt.Errorf("api base cannot be empty")
	}
	if c.StateDir == "" {
		return fmt.Errorf("state dir cannot be empty")
	}
	switch c.Storage {
	case StorageSQLite, StorageFile, StorageMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be > 0")
	}
	switch c.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
