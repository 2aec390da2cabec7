package http

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"investviz/internal/config"
	apierrors "investviz/internal/errors"
	"investviz/internal/services"
)

// RunHandler serves the artifacts of completed pipeline runs.
type RunHandler struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRunHandler creates a new run handler
func NewRunHandler(cfg *config.Config, logger *slog.Logger) *RunHandler {
	return &RunHandler{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "run_handler")),
	}
}

// Routes returns the run artifact routes
func (h *RunHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/{runID}", func(r chi.Router) {
		r.Use(h.RunCtx)
		r.Get("/summary", h.GetSummary)
		r.Get("/normalized.csv", h.GetNormalizedCSV)
		r.Get("/parse-log", h.GetParseLog)
	})
	return r
}

// RunCtx validates the run ID parameter. Run IDs are UUIDs, which also
// rules out path traversal through the parameter.
func (h *RunHandler) RunCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runID := chi.URLParam(r, "runID")
		if _, err := uuid.Parse(runID); err != nil {
			render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrValidation("runID", "Run ID must be a UUID")))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSummary handles GET /api/runs/{runID}/summary
func (h *RunHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, services.SummaryJSONName, "application/json; charset=utf-8")
}

// GetNormalizedCSV handles GET /api/runs/{runID}/normalized.csv
func (h *RunHandler) GetNormalizedCSV(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, services.NormalizedCSVName, "text/csv; charset=utf-8")
}

// GetParseLog handles GET /api/runs/{runID}/parse-log
func (h *RunHandler) GetParseLog(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, services.ParseLogName, "application/json; charset=utf-8")
}

func (h *RunHandler) serveArtifact(w http.ResponseWriter, r *http.Request, name, contentType string) {
	runID := chi.URLParam(r, "runID")
	path := filepath.Join(h.cfg.RunDir(runID), name)

	if _, err := os.Stat(path); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.NotFoundError("run artifact")))
		return
	}

	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, path)
}
