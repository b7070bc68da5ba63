package announcements

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/campus/pkg/handlers"
	"github.com/JaimeStill/campus/pkg/routes"
)

// AvatarField is the multipart field carrying an author avatar file.
const AvatarField = "authorAvatar"

const notFoundMessage = "Announcement not found"

// Handler provides HTTP endpoints for announcement operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "announcements"),
	}
}

// Routes returns the route group definition for announcement endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/announcements",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns every announcement, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondData(w, http.StatusOK, "", items)
}

// Find returns a single announcement by its id path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	a, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if a == nil {
		handlers.RespondNotFound(w, notFoundMessage)
		return
	}

	handlers.RespondData(w, http.StatusOK, "", a)
}

// Create accepts a JSON body or a multipart form with an optional
// authorAvatar file.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand

	if handlers.IsMultipart(r) {
		if err := r.ParseMultipartForm(handlers.MultipartMemory); err != nil {
			handlers.RespondError(w, h.logger, handlers.BodyStatus(err), err)
			return
		}
		cmd = CreateCommand{
			Title:        value(handlers.FormValue(r, fieldTitle)),
			Content:      value(handlers.FormValue(r, fieldContent)),
			Category:     handlers.FormValue(r, fieldCategory),
			AuthorName:   value(handlers.FormValue(r, fieldAuthorName)),
			AuthorAvatar: handlers.FormValue(r, fieldAuthorAvatar),
		}

		avatar, closer, err := handlers.FormFile(r, AvatarField)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
		if closer != nil {
			defer closer.Close()
		}
		cmd.Avatar = avatar
	} else if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, handlers.BodyStatus(err), err)
		return
	}

	a, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondData(w, http.StatusCreated, "Announcement created", a)
}

// Update applies a partial JSON body or multipart form to an announcement.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd UpdateCommand

	if handlers.IsMultipart(r) {
		if err := r.ParseMultipartForm(handlers.MultipartMemory); err != nil {
			handlers.RespondError(w, h.logger, handlers.BodyStatus(err), err)
			return
		}
		cmd = UpdateCommand{
			Title:        handlers.FormValue(r, fieldTitle),
			Content:      handlers.FormValue(r, fieldContent),
			Category:     handlers.FormValue(r, fieldCategory),
			AuthorName:   handlers.FormValue(r, fieldAuthorName),
			AuthorAvatar: handlers.FormValue(r, fieldAuthorAvatar),
		}

		avatar, closer, err := handlers.FormFile(r, AvatarField)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
		if closer != nil {
			defer closer.Close()
		}
		cmd.Avatar = avatar
	} else if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondError(w, h.logger, handlers.BodyStatus(err), err)
		return
	}

	a, err := h.sys.Update(r.Context(), r.PathValue("id"), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if a == nil {
		handlers.RespondNotFound(w, notFoundMessage)
		return
	}

	handlers.RespondData(w, http.StatusOK, "Announcement updated", a)
}

// Delete removes an announcement. Deleting a missing id still succeeds.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Delete(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondMessage(w, http.StatusOK, "Announcement deleted")
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
