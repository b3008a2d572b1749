package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Backend kinds.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

var (
	defaultFilePath   = filepath.Join("data", "forum_topics.json")
	defaultSQLitePath = filepath.Join("data", "forum_topics.db")
)

// Config holds the forum service configuration.
type Config struct {
	Addr    string        `yaml:"addr"`
	Storage StorageConfig `yaml:"storage"`
	Demo    DemoConfig    `yaml:"demo"`
	Admin   AdminConfig   `yaml:"admin"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig selects where the forum slot lives.
type StorageConfig struct {
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`         // file and sqlite
	DatabaseURL string `yaml:"database_url"` // postgres
	RedisAddr   string `yaml:"redis_addr"`
	RedisPass   string `yaml:"redis_password"`
	Strict      bool   `yaml:"strict"` // fail on a corrupt slot instead of resetting it
}

// DemoConfig controls synthetic content.
type DemoConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Seed           uint64 `yaml:"seed"` // 0 picks a random seed
	MinPerCategory int    `yaml:"min_per_category"`
}

type AdminConfig struct {
	PasswordHash string `yaml:"password_hash"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr: ":8080",
		Storage: StorageConfig{
			Backend:   BackendFile,
			Path:      defaultFilePath,
			RedisAddr: "localhost:6379",
		},
		Demo: DemoConfig{
			Enabled:        true,
			MinPerCategory: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config over the defaults, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	// the JSON default is never a usable SQLite file
	if cfg.Storage.Backend == BackendSQLite && cfg.Storage.Path == defaultFilePath {
		cfg.Storage.Path = defaultSQLitePath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FORUM_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("FORUM_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("FORUM_DATA_PATH"); v != "" {
		c.Storage.Path = v
	}
	// DATABASE_URL implies postgres unless a backend was chosen explicitly
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Storage.DatabaseURL = v
		if os.Getenv("FORUM_BACKEND") == "" {
			c.Storage.Backend = BackendPostgres
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Storage.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Storage.RedisPass = v
	}
	if v := os.Getenv("FORUM_ADMIN_HASH"); v != "" {
		c.Admin.PasswordHash = v
	}
	if v := os.Getenv("FORUM_DEMO"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Demo.Enabled = enabled
		}
	}
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendFile, BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend)
		}
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("storage.database_url (or DATABASE_URL) is required for the postgres backend")
		}
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Demo.MinPerCategory < 0 {
		return fmt.Errorf("demo.min_per_category must not be negative")
	}
	return nil
}
