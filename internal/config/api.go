package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/JaimeStill/campus/pkg/formatting"
	"github.com/JaimeStill/campus/pkg/middleware"
)

const (
	EnvAPIBasePath        = "CAMPUS_API_BASE_PATH"
	EnvAPIMaxUploadSize   = "CAMPUS_API_MAX_UPLOAD_SIZE"
	EnvAPISanitizeContent = "CAMPUS_API_SANITIZE_CONTENT"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "CAMPUS_CORS_ENABLED",
	Origins:          "CAMPUS_CORS_ORIGINS",
	AllowedMethods:   "CAMPUS_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "CAMPUS_CORS_ALLOWED_HEADERS",
	AllowCredentials: "CAMPUS_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "CAMPUS_CORS_MAX_AGE",
}

// APIConfig holds API routing, request body limits, content sanitizing and CORS settings.
type APIConfig struct {
	BasePath        string                `toml:"base_path"`
	MaxUploadSize   formatting.ByteSize   `toml:"max_upload_size"`
	SanitizeContent bool                  `toml:"sanitize_content"`
	CORS            middleware.CORSConfig `toml:"cors"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS config.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return err
	}

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != 0 {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.SanitizeContent {
		c.SanitizeContent = true
	}

	c.CORS.Merge(&overlay.CORS)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == 0 {
		c.MaxUploadSize = 5 * 1024 * 1024
	}
}

func (c *APIConfig) loadEnv() error {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		size, err := formatting.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAPIMaxUploadSize, err)
		}
		c.MaxUploadSize = formatting.ByteSize(size)
	}
	if v := os.Getenv(EnvAPISanitizeContent); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.SanitizeContent = b
		}
	}
	return nil
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.HasSuffix(c.BasePath, "/") {
		return fmt.Errorf("invalid base_path: %q", c.BasePath)
	}
	if c.MaxUploadSize < 0 {
		return fmt.Errorf("invalid max_upload_size: %s", c.MaxUploadSize)
	}
	return nil
}
