// Package storage persists uploaded files and resolves them to public URLs.
//
// The backend is chosen once from configuration: local disk when no bucket
// is configured, otherwise S3 or Azure Blob Storage. URL shape follows the
// Mode and is independent of where the bytes live.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/campus/pkg/lifecycle"
	"github.com/JaimeStill/campus/pkg/metrics"
)

// File is an uploaded binary with its client-supplied metadata.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Object is a stored object opened for streaming. The caller must close Body.
type Object struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// Backend writes bytes under a key.
type Backend interface {
	// Start registers startup and shutdown hooks for the backend.
	Start(lc *lifecycle.Coordinator) error
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}

// ObjectBackend is a Backend that can stream objects back and has a public base URL.
type ObjectBackend interface {
	Backend
	// Get returns ErrNotFound if the object does not exist.
	Get(ctx context.Context, key string) (*Object, error)
	BaseURL() string
}

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, f File) (string, error)
}

// System is the file storage abstraction consumed by services and the file proxy.
type System interface {
	Uploader
	Start(lc *lifecycle.Coordinator) error
	// Open streams an object from object storage. It returns ErrNotConfigured
	// when uploads are kept on local disk.
	Open(ctx context.Context, key string) (*Object, error)
	Mode() Mode
}

// Option configures a System.
type Option func(*system)

// WithClock sets the clock used for key timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *system) {
		s.keys = NewKeyGenerator(now)
	}
}

type system struct {
	backend  Backend
	resolver URLResolver
	keys     *KeyGenerator
	logger   *slog.Logger
}

// New selects the backend and URL mode from cfg. Clients are created here but
// no connection is made until Start.
func New(cfg *Config, logger *slog.Logger, opts ...Option) (System, error) {
	logger = logger.With("system", "storage")
	mode := resolveMode(cfg)

	var backend Backend
	direct := cfg.PublicBaseURL

	if mode == ModeLocal {
		backend = newLocalDisk(cfg.UploadsDir, logger)
	} else {
		var (
			ob  ObjectBackend
			err error
		)
		switch cfg.Provider {
		case ProviderS3:
			ob, err = newS3(cfg, logger)
		case ProviderAzure:
			ob, err = newAzure(cfg, logger)
		default:
			err = fmt.Errorf("unknown provider: %q", cfg.Provider)
		}
		if err != nil {
			return nil, err
		}
		if direct == "" {
			direct = ob.BaseURL()
		}
		backend = ob
	}

	logger.Info("storage configured", "mode", mode, "provider", cfg.Provider)
	return NewSystem(backend, NewURLResolver(mode, cfg.AppBaseURL, direct), logger, opts...), nil
}

// NewSystem assembles a System from an explicit backend and resolver.
func NewSystem(backend Backend, resolver URLResolver, logger *slog.Logger, opts ...Option) System {
	s := &system{
		backend:  backend,
		resolver: resolver,
		keys:     NewKeyGenerator(nil),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *system) Start(lc *lifecycle.Coordinator) error {
	return s.backend.Start(lc)
}

func (s *system) Mode() Mode {
	return s.resolver.Mode()
}

// Upload writes the file under a generated key and returns its URL. The URL
// is only produced after the write completes.
func (s *system) Upload(ctx context.Context, f File) (string, error) {
	if f.Body == nil {
		return "", fmt.Errorf("%w: no file body", ErrUploadFailed)
	}

	key := s.keys.Next(f.Name)
	if err := s.backend.Put(ctx, key, f.Body, f.Size, f.ContentType); err != nil {
		metrics.IncUpload(string(s.resolver.Mode()), false)
		s.logger.Error("upload failed", "key", key, "error", err)
		return "", fmt.Errorf("%w: %s: %w", ErrUploadFailed, key, err)
	}
	metrics.IncUpload(string(s.resolver.Mode()), true)

	s.logger.Info("file uploaded", "key", key, "size", f.Size, "mode", s.resolver.Mode())
	return s.resolver.URL(key), nil
}

func (s *system) Open(ctx context.Context, key string) (*Object, error) {
	ob, ok := s.backend.(ObjectBackend)
	if !ok {
		return nil, ErrNotConfigured
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return ob.Get(ctx, key)
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
