package main

import (
	"net/http"

	"github.com/JaimeStill/campus/internal/api"
	"github.com/JaimeStill/campus/internal/config"
	"github.com/JaimeStill/campus/internal/infrastructure"
	"github.com/JaimeStill/campus/pkg/handlers"
	"github.com/JaimeStill/campus/pkg/metrics"
	"github.com/JaimeStill/campus/pkg/middleware"
	"github.com/JaimeStill/campus/pkg/module"
	"github.com/JaimeStill/campus/pkg/web"
)

// Modules holds the prefix-mounted HTTP modules.
type Modules struct {
	API   *module.Module
	Files *module.Module
}

// NewModules creates the API module and the object storage proxy.
func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API:   apiModule,
		Files: api.NewFilesModule(infra, &cfg.API.CORS),
	}, nil
}

// Mount registers every module on router.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Files)
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(&cfg.API.CORS))
	router.Use(middleware.Logger(infra.Logger))
	router.Use(middleware.Metrics())

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondMessage(w, http.StatusOK, "API is running")
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	router.Handle("GET /metrics", metrics.Handler())
	router.Handle("GET /uploads/", web.Uploads(cfg.Storage.UploadsDir, "/uploads"))

	return router
}
