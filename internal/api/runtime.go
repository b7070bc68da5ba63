package api

import (
	"github.com/JaimeStill/campus/internal/config"
	"github.com/JaimeStill/campus/internal/infrastructure"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	MaxUploadSize   int64
	SanitizeContent bool
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Docstore:  infra.Docstore,
			Storage:   infra.Storage,
		},
		MaxUploadSize:   int64(cfg.API.MaxUploadSize),
		SanitizeContent: cfg.API.SanitizeContent,
	}
}
