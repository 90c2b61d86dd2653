// Package handler exposes the URL service over HTTP.
package handler

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/holaholu/url-shortener/internal/logger"
	"github.com/holaholu/url-shortener/internal/service"
	"github.com/holaholu/url-shortener/internal/utils"
	"github.com/holaholu/url-shortener/internal/validator"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// notFoundNotice is shown on the landing page after an unknown short ID
const notFoundNotice = "URL not found"

// URLService is the subset of *service.URLService the handlers need
type URLService interface {
	ShortenURL(ctx context.Context, rawURL string) (*service.ShortenResult, error)
	ExpandURL(ctx context.Context, shortID string) (string, error)
	DeleteURL(ctx context.Context, shortID string) error
	Ping(ctx context.Context) error
}

// Handler serves the landing page and the shorten, redirect and delete endpoints
type Handler struct {
	service URLService
}

// New creates a Handler
func New(svc URLService) *Handler {
	return &Handler{service: svc}
}

// Routes returns a router with every endpoint registered
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers all endpoints on r
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/healthz", h.Health)
	r.Post("/shorten", h.Shorten)
	r.Get("/{shortID}", h.Redirect)
	r.Delete("/{shortID}", h.Delete)
}

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	data := struct{ Flash string }{Flash: popFlash(w, r)}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		logger.Ctx(r.Context()).Error("Failed to render index", zap.Error(err))
	}
}

// Shorten handles POST /shorten. The URL comes from the "url" form field,
// or from a JSON body when the request is sent as application/json.
func (h *Handler) Shorten(w http.ResponseWriter, r *http.Request) {
	rawURL, err := readURL(r)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	result, err := h.service.ShortenURL(r.Context(), rawURL)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, ShortenResponse{
		ShortURL:    result.ShortURL,
		ShortID:     result.ShortID,
		OriginalURL: result.OriginalURL,
	})
}

// Redirect handles GET /{shortID}. Unknown IDs send the client back to the
// landing page with a notice rather than a 404.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	shortID := chi.URLParam(r, "shortID")

	originalURL, err := h.lookup(r.Context(), shortID)
	if errors.Is(err, service.ErrNotFound) {
		setFlash(w, notFoundNotice)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, originalURL, http.StatusFound)
}

// Delete handles DELETE /{shortID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	shortID := chi.URLParam(r, "shortID")

	err := service.ErrNotFound
	if utils.IsValidShortID(shortID) {
		err = h.service.DeleteURL(r.Context(), shortID)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		logger.Ctx(r.Context()).Warn("Health check failed", zap.Error(err))
		writeJSON(w, r, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

// lookup skips the store for IDs that cannot exist
func (h *Handler) lookup(ctx context.Context, shortID string) (string, error) {
	if !utils.IsValidShortID(shortID) {
		return "", service.ErrNotFound
	}
	return h.service.ExpandURL(ctx, shortID)
}

func readURL(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req ShortenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", err
		}
		return req.URL, nil
	}
	return r.FormValue("url"), nil
}

// writeServiceError maps service errors onto HTTP responses
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *validator.ValidationError
	switch {
	case errors.Is(err, service.ErrURLRequired):
		writeJSON(w, r, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &vErr):
		writeJSON(w, r, http.StatusBadRequest, ErrorResponse{Error: vErr.Error()})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, r, http.StatusNotFound, ErrorResponse{Error: notFoundNotice})
	case errors.Is(err, service.ErrIDSpaceExhausted):
		logger.Ctx(r.Context()).Error("Short ID allocation failed", zap.Error(err))
		writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate short URL"})
	default:
		logger.Ctx(r.Context()).Error("Unexpected error", zap.Error(err))
		writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Ctx(r.Context()).Error("Failed to encode response", zap.Error(err))
	}
}
