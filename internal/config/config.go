// Package config loads the service configuration from TOML files, a .env
// file and CAMPUS_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/campus/pkg/docstore"
	"github.com/JaimeStill/campus/pkg/logging"
	"github.com/JaimeStill/campus/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvCampusEnv             = "CAMPUS_ENV"
	EnvCampusShutdownTimeout = "CAMPUS_SHUTDOWN_TIMEOUT"
	EnvCampusVersion         = "CAMPUS_VERSION"
)

var databaseEnv = &docstore.Env{
	Driver:          "CAMPUS_DB_DRIVER",
	URI:             "CAMPUS_DB_URI",
	Name:            "CAMPUS_DB_NAME",
	MaxPoolSize:     "CAMPUS_DB_MAX_POOL_SIZE",
	ConnMaxLifetime: "CAMPUS_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CAMPUS_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "CAMPUS_STORAGE_PROVIDER",
	Bucket:           "CAMPUS_STORAGE_BUCKET",
	Region:           "CAMPUS_STORAGE_REGION",
	AccessKeyID:      "CAMPUS_STORAGE_ACCESS_KEY_ID",
	SecretAccessKey:  "CAMPUS_STORAGE_SECRET_ACCESS_KEY",
	ObjectACL:        "CAMPUS_STORAGE_OBJECT_ACL",
	Endpoint:         "CAMPUS_STORAGE_ENDPOINT",
	ConnectionString: "CAMPUS_STORAGE_CONNECTION_STRING",
	AccountURL:       "CAMPUS_STORAGE_ACCOUNT_URL",
	DirectURL:        "CAMPUS_STORAGE_DIRECT_URL",
	PublicBaseURL:    "CAMPUS_STORAGE_PUBLIC_BASE_URL",
	AppBaseURL:       "CAMPUS_APP_BASE_URL",
	UploadsDir:       "CAMPUS_STORAGE_UPLOADS_DIR",
}

var loggingEnv = &logging.Env{
	Level:  "CAMPUS_LOG_LEVEL",
	Format: "CAMPUS_LOG_FORMAT",
}

// Config is the root configuration for the Campus service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        docstore.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Logging         logging.Config  `toml:"logging"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the CAMPUS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCampusEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads .env into the process environment, then the base config (if
// present), applies any environment overlay, and finalizes all values.
// Variables already set in the environment take precedence over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Logging.Merge(&overlay.Logging)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCampusShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCampusVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCampusEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
