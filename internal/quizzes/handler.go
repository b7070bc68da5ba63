package quizzes

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/campus/pkg/handlers"
	"github.com/JaimeStill/campus/pkg/routes"
)

const notFoundMessage = "Quiz not found"

// Handler provides HTTP endpoints for quiz operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "quizzes"),
	}
}

// Routes returns the route group definition for quiz endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/quizzes",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns every quiz, soonest due first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondData(w, http.StatusOK, "", items)
}

// Find returns a single quiz by its id path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	q, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if q == nil {
		handlers.RespondNotFound(w, notFoundMessage)
		return
	}

	handlers.RespondData(w, http.StatusOK, "", q)
}

// Create processes a JSON body to create a quiz.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, handlers.BodyStatus(err), err)
		return
	}

	q, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondData(w, http.StatusCreated, "Quiz created", q)
}

// Update applies a partial JSON body to a quiz.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondError(w, h.logger, handlers.BodyStatus(err), err)
		return
	}

	q, err := h.sys.Update(r.Context(), r.PathValue("id"), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if q == nil {
		handlers.RespondNotFound(w, notFoundMessage)
		return
	}

	handlers.RespondData(w, http.StatusOK, "Quiz updated", q)
}

// Delete removes a quiz. Deleting a missing id still succeeds.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Delete(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondMessage(w, http.StatusOK, "Quiz deleted")
}
