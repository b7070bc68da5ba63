package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/campus/internal/config"
	"github.com/JaimeStill/campus/pkg/docstore"
	"github.com/JaimeStill/campus/pkg/formatting"
)

const baseConfig = `
shutdown_timeout = "20s"
version = "1.2.0"

[server]
host = "127.0.0.1"
port = 4100
read_timeout = "10s"
write_timeout = "1m"

[database]
driver = "postgres"
uri = "postgres://campus:campus@db:5432/campus?sslmode=disable"
max_pool_size = 10

[storage]
provider = "s3"
bucket = "campus-media"
region = "eu-west-1"
direct_url = true
public_base_url = "https://cdn.example.com/"
app_base_url = "https://campus.example.com/"

[api]
base_path = "/api"
max_upload_size = "2MB"
sanitize_content = true

[api.cors]
enabled = true
origins = ["https://dashboard.example.com"]

[logging]
level = "debug"
format = "json"
`

const overlayConfig = `
[server]
port = 9090

[database]
max_pool_size = 50

[logging]
level = "warn"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"server port", cfg.Server.Port, 4000},
		{"server host", cfg.Server.Host, "0.0.0.0"},
		{"db driver", cfg.Database.Driver, docstore.DriverMongo},
		{"db name", cfg.Database.Name, "campus"},
		{"storage configured", cfg.Storage.Configured(), false},
		{"storage uploads dir", cfg.Storage.UploadsDir, "uploads"},
		{"storage app base url", cfg.Storage.AppBaseURL, "http://localhost:4000"},
		{"api base path", cfg.API.BasePath, "/api"},
		{"api max upload size", cfg.API.MaxUploadSize, formatting.ByteSize(5 << 20)},
		{"api sanitize content", cfg.API.SanitizeContent, false},
		{"cors enabled", cfg.API.CORS.Enabled, true},
		{"log level", cfg.Logging.Level, "info"},
		{"log format", cfg.Logging.Format, "text"},
		{"shutdown timeout", cfg.ShutdownTimeoutDuration(), 30 * time.Second},
		{"env", cfg.Env(), "local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"server addr", cfg.Server.Addr(), "127.0.0.1:4100"},
		{"read timeout", cfg.Server.ReadTimeoutDuration(), 10 * time.Second},
		{"db driver", cfg.Database.Driver, docstore.DriverPostgres},
		{"db pool", cfg.Database.MaxPoolSize, 10},
		{"storage bucket", cfg.Storage.Bucket, "campus-media"},
		{"storage direct", cfg.Storage.DirectURL, true},
		{"storage public base", cfg.Storage.PublicBaseURL, "https://cdn.example.com"},
		{"storage app base", cfg.Storage.AppBaseURL, "https://campus.example.com"},
		{"api max upload size", cfg.API.MaxUploadSize, formatting.ByteSize(2 << 20)},
		{"api sanitize content", cfg.API.SanitizeContent, true},
		{"cors origin", cfg.API.CORS.Origins[0], "https://dashboard.example.com"},
		{"log level", cfg.Logging.Level, "debug"},
		{"log format", cfg.Logging.Format, "json"},
		{"shutdown timeout", cfg.ShutdownTimeoutDuration(), 20 * time.Second},
		{"version", cfg.Version, "1.2.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv(config.EnvCampusEnv, "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server host: got %s, want base value 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Database.MaxPoolSize != 50 {
		t.Errorf("db pool: got %d, want 50", cfg.Database.MaxPoolSize)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level: got %s, want warn", cfg.Logging.Level)
	}
	if cfg.Env() != "staging" {
		t.Errorf("env: got %s, want staging", cfg.Env())
	}
}

func TestLoadMissingOverlayIgnored(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv(config.EnvCampusEnv, "production")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != 4100 {
		t.Errorf("server port: got %d, want 4100", cfg.Server.Port)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("CAMPUS_SERVER_PORT", "5050")
	t.Setenv("CAMPUS_DB_DRIVER", "memory")
	t.Setenv("CAMPUS_STORAGE_DIRECT_URL", "false")
	t.Setenv("CAMPUS_API_MAX_UPLOAD_SIZE", "10MB")
	t.Setenv("CAMPUS_CORS_ENABLED", "false")
	t.Setenv("CAMPUS_LOG_FORMAT", "text")
	t.Setenv("CAMPUS_SHUTDOWN_TIMEOUT", "5s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"server port", cfg.Server.Port, 5050},
		{"db driver", cfg.Database.Driver, docstore.DriverMemory},
		{"storage direct", cfg.Storage.DirectURL, false},
		{"api max upload size", cfg.API.MaxUploadSize, formatting.ByteSize(10 << 20)},
		{"cors enabled", cfg.API.CORS.Enabled, false},
		{"log format", cfg.Logging.Format, "text"},
		{"shutdown timeout", cfg.ShutdownTimeoutDuration(), 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".env", "CAMPUS_SERVER_PORT=6060\nCAMPUS_LOG_LEVEL=debug\n")
	chdir(t, dir)

	t.Setenv("CAMPUS_LOG_LEVEL", "error")
	t.Cleanup(func() { os.Unsetenv("CAMPUS_SERVER_PORT") })

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 6060 {
		t.Errorf("server port: got %d, want 6060 from .env", cfg.Server.Port)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("log level: got %s, want process env to win over .env", cfg.Logging.Level)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{"malformed toml", "[server\nport = 1", nil},
		{"port out of range", "[server]\nport = 70000", nil},
		{"unknown driver", "[database]\ndriver = \"sqlite\"", nil},
		{"bad upload size", "[api]\nmax_upload_size = \"lots\"", nil},
		{"bad upload size env", "", map[string]string{"CAMPUS_API_MAX_UPLOAD_SIZE": "lots"}},
		{"bad log level", "[logging]\nlevel = \"verbose\"", nil},
		{"bad shutdown timeout", "shutdown_timeout = \"soon\"", nil},
		{"bad base path", "[api]\nbase_path = \"api\"", nil},
		{"azure without credentials", "[storage]\nprovider = \"azure\"\nbucket = \"media\"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.content)
			chdir(t, dir)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := config.Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := config.Config{
		ShutdownTimeout: "30s",
		Server:          config.ServerConfig{Host: "0.0.0.0", Port: 4000},
		API:             config.APIConfig{BasePath: "/api", MaxUploadSize: 5 << 20},
	}
	overlay := config.Config{
		Server: config.ServerConfig{Port: 8080},
		API:    config.APIConfig{MaxUploadSize: 1 << 20, SanitizeContent: true},
	}

	base.Merge(&overlay)

	if base.Server.Host != "0.0.0.0" {
		t.Errorf("host: got %s, want 0.0.0.0", base.Server.Host)
	}
	if base.Server.Port != 8080 {
		t.Errorf("port: got %d, want 8080", base.Server.Port)
	}
	if base.API.BasePath != "/api" {
		t.Errorf("base path: got %s, want /api", base.API.BasePath)
	}
	if base.API.MaxUploadSize != 1<<20 {
		t.Errorf("max upload size: got %s, want 1 MB", base.API.MaxUploadSize)
	}
	if !base.API.SanitizeContent {
		t.Error("sanitize content: expected overlay to enable it")
	}
	if base.ShutdownTimeout != "30s" {
		t.Errorf("shutdown timeout: got %s, want 30s", base.ShutdownTimeout)
	}
}
