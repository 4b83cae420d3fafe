package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"subburn/internal/config"
	"subburn/internal/jobs"
	"subburn/internal/logging"
	"subburn/internal/services"
)

// Server wires the HTTP surface to the job manager.
type Server struct {
	manager *jobs.Manager
	cfg     *config.Config
	logger  *slog.Logger
}

// New builds a server around manager.
func New(manager *jobs.Manager, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{
		manager: manager,
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "api"),
	}
}

// Routes returns the service's HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/uploads", s.handleUpload)
		r.Route("/burnins", func(r chi.Router) {
			r.Post("/", s.handleCreate)
			r.Get("/", s.handleList)
			r.Get("/{id}", s.handleGet)
			r.Get("/{id}/download", s.handleDownload)
			r.Get("/{id}/events", s.handleEvents)
		})
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	category := services.Classify(err)
	writeJSON(w, statusFor(category), errorResponse{
		Error: err.Error(),
		Code:  string(category),
	})
}

func statusFor(category services.Category) int {
	switch category {
	case services.CategoryValidation:
		return http.StatusBadRequest
	case services.CategoryNotFound:
		return http.StatusNotFound
	case services.CategoryNotReady:
		return http.StatusConflict
	case services.CategoryFileMissing:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
