package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/campus/pkg/handlers"
	"github.com/JaimeStill/campus/pkg/routes"
	"github.com/JaimeStill/campus/pkg/storage"
)

// ImageField is the multipart field carrying a standalone image upload.
const ImageField = "image"

// ImageResponse is the body returned after a successful image upload.
type ImageResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
}

// UploadHandler stores standalone files, such as images embedded in
// announcement content, and returns their public URLs.
type UploadHandler struct {
	uploader storage.Uploader
	logger   *slog.Logger
}

// NewUploadHandler creates an UploadHandler writing through uploader.
func NewUploadHandler(uploader storage.Uploader, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		logger:   logger.With("handler", "upload"),
	}
}

// Routes returns the route group definition for upload endpoints.
func (h *UploadHandler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/upload",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/image", Handler: h.Image},
		},
	}
}

// Image stores the multipart "image" file and responds with its URL.
func (h *UploadHandler) Image(w http.ResponseWriter, r *http.Request) {
	if !handlers.IsMultipart(r) {
		h.noFile(w)
		return
	}

	if err := r.ParseMultipartForm(handlers.MultipartMemory); err != nil {
		handlers.RespondError(w, h.logger, handlers.BodyStatus(err), err)
		return
	}

	file, closer, err := handlers.FormFile(r, ImageField)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if file == nil {
		h.noFile(w)
		return
	}
	defer closer.Close()

	url, err := h.uploader.Upload(r.Context(), *file)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ImageResponse{Success: true, ImageURL: url})
}

func (h *UploadHandler) noFile(w http.ResponseWriter) {
	handlers.RespondJSON(w, http.StatusBadRequest, handlers.Envelope{
		Success: false,
		Message: "No file uploaded",
	})
}
