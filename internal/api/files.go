package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/campus/internal/infrastructure"
	"github.com/JaimeStill/campus/pkg/handlers"
	"github.com/JaimeStill/campus/pkg/middleware"
	"github.com/JaimeStill/campus/pkg/module"
	"github.com/JaimeStill/campus/pkg/storage"
)

// FilesPrefix is the mount point of the object storage proxy. Proxy-mode
// upload URLs are built as <app-base-url>/files/<escaped key>.
const FilesPrefix = "/files"

// FilesHandler streams objects from object storage to the client.
type FilesHandler struct {
	storage storage.System
	logger  *slog.Logger
}

// NewFilesHandler creates a FilesHandler reading from store.
func NewFilesHandler(store storage.System, logger *slog.Logger) *FilesHandler {
	return &FilesHandler{
		storage: store,
		logger:  logger.With("handler", "files"),
	}
}

// Serve pipes the object named by the key path parameter through the
// response, propagating its content type and length. Missing objects and
// unconfigured object storage both answer 404.
func (h *FilesHandler) Serve(w http.ResponseWriter, r *http.Request) {
	obj, err := h.storage.Open(r.Context(), r.PathValue("key"))
	if err != nil {
		status := storage.MapHTTPStatus(err)
		if status == http.StatusNotFound {
			handlers.RespondNotFound(w, "File not found")
			return
		}
		handlers.RespondError(w, h.logger, status, err)
		return
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	if obj.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.Error("stream file failed", "key", r.PathValue("key"), "error", err)
	}
}

// NewFilesModule mounts the object storage proxy at FilesPrefix under the
// same CORS policy as the API, so browsers can fetch proxied uploads.
func NewFilesModule(infra *infrastructure.Infrastructure, cors *middleware.CORSConfig) *module.Module {
	logger := infra.Logger.With("module", "files")
	h := NewFilesHandler(infra.Storage, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{key...}", h.Serve)

	m := module.New(FilesPrefix, mux)
	m.Use(middleware.RequestID())
	m.Use(middleware.CORS(cors))
	m.Use(middleware.Logger(logger))
	m.Use(middleware.Metrics())

	return m
}
