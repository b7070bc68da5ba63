package storage

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Supported object storage providers.
const (
	ProviderS3    = "s3"
	ProviderAzure = "azure"
)

// Config holds file storage parameters. Object storage is enabled when Bucket
// is set; otherwise uploads are written beneath UploadsDir.
type Config struct {
	Provider         string `toml:"provider"`
	Bucket           string `toml:"bucket"`
	Region           string `toml:"region"`
	AccessKeyID      string `toml:"access_key_id"`
	SecretAccessKey  string `toml:"secret_access_key"`
	ObjectACL        string `toml:"object_acl"`
	Endpoint         string `toml:"endpoint"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
	DirectURL        bool   `toml:"direct_url"`
	PublicBaseURL    string `toml:"public_base_url"`
	AppBaseURL       string `toml:"app_base_url"`
	UploadsDir       string `toml:"uploads_dir"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider         string
	Bucket           string
	Region           string
	AccessKeyID      string
	SecretAccessKey  string
	ObjectACL        string
	Endpoint         string
	ConnectionString string
	AccountURL       string
	DirectURL        string
	PublicBaseURL    string
	AppBaseURL       string
	UploadsDir       string
}

// Configured reports whether object storage is enabled.
func (c *Config) Configured() bool {
	return c.Bucket != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	c.AppBaseURL = strings.TrimSuffix(c.AppBaseURL, "/")
	c.PublicBaseURL = strings.TrimSuffix(c.PublicBaseURL, "/")
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Bucket != "" {
		c.Bucket = overlay.Bucket
	}
	if overlay.Region != "" {
		c.Region = overlay.Region
	}
	if overlay.AccessKeyID != "" {
		c.AccessKeyID = overlay.AccessKeyID
	}
	if overlay.SecretAccessKey != "" {
		c.SecretAccessKey = overlay.SecretAccessKey
	}
	if overlay.ObjectACL != "" {
		c.ObjectACL = overlay.ObjectACL
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
	if overlay.DirectURL {
		c.DirectURL = true
	}
	if overlay.PublicBaseURL != "" {
		c.PublicBaseURL = overlay.PublicBaseURL
	}
	if overlay.AppBaseURL != "" {
		c.AppBaseURL = overlay.AppBaseURL
	}
	if overlay.UploadsDir != "" {
		c.UploadsDir = overlay.UploadsDir
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderS3
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.AppBaseURL == "" {
		c.AppBaseURL = "http://localhost:4000"
	}
	if c.UploadsDir == "" {
		c.UploadsDir = "uploads"
	}
}

func (c *Config) loadEnv(env *Env) {
	strs := []struct {
		key string
		dst *string
	}{
		{env.Provider, &c.Provider},
		{env.Bucket, &c.Bucket},
		{env.Region, &c.Region},
		{env.AccessKeyID, &c.AccessKeyID},
		{env.SecretAccessKey, &c.SecretAccessKey},
		{env.ObjectACL, &c.ObjectACL},
		{env.Endpoint, &c.Endpoint},
		{env.ConnectionString, &c.ConnectionString},
		{env.AccountURL, &c.AccountURL},
		{env.PublicBaseURL, &c.PublicBaseURL},
		{env.AppBaseURL, &c.AppBaseURL},
		{env.UploadsDir, &c.UploadsDir},
	}
	for _, s := range strs {
		if s.key == "" {
			continue
		}
		if v := os.Getenv(s.key); v != "" {
			*s.dst = v
		}
	}

	if env.DirectURL != "" {
		if v := os.Getenv(env.DirectURL); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.DirectURL = b
			}
		}
	}
}

func (c *Config) validate() error {
	if c.UploadsDir == "" {
		return fmt.Errorf("uploads_dir required")
	}
	if c.AppBaseURL == "" {
		return fmt.Errorf("app_base_url required")
	}
	if !c.Configured() {
		return nil
	}

	switch c.Provider {
	case ProviderS3:
		if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
			return fmt.Errorf("access_key_id and secret_access_key must be set together")
		}
		if c.ObjectACL != "" && !slices.Contains(types.ObjectCannedACL("").Values(), types.ObjectCannedACL(c.ObjectACL)) {
			return fmt.Errorf("invalid object_acl: %q", c.ObjectACL)
		}
	case ProviderAzure:
		if c.ConnectionString == "" && c.AccountURL == "" {
			return fmt.Errorf("connection_string or account_url required for azure")
		}
	default:
		return fmt.Errorf("unknown provider: %q", c.Provider)
	}
	return nil
}
