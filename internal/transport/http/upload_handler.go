// Package http provides the chi handlers of the upload dashboard server.
package http

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"investviz/internal/config"
	apierrors "investviz/internal/errors"
	"investviz/internal/services"
	"investviz/internal/validation"
)

// UploadHandler accepts multipart file uploads and runs the normalization
// pipeline over them. Every upload gets its own run directory keyed by a
// fresh UUID, so concurrent uploads never share mutable state.
type UploadHandler struct {
	service   *services.PipelineService
	cfg       *config.Config
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service *services.PipelineService, cfg *config.Config, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		service:   service,
		cfg:       cfg,
		validator: validation.NewFileValidator(logger),
		logger:    logger.With(slog.String("component", "upload_handler")),
	}
}

// Routes returns the upload routes
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Upload)
	return r
}

// UploadResponse is returned after a successful pipeline run.
type UploadResponse struct {
	RunID       string                 `json:"run_id"`
	RecordCount int                    `json:"record_count"`
	Failures    []services.FileFailure `json:"failures,omitempty"`
	Summary     interface{}            `json:"summary"`
}

// Upload handles POST /api/uploads
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(h.cfg.Server.MaxUploadBytes); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrValidation("files", "Invalid multipart form")))
		return
	}

	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		uploads = r.MultipartForm.File["file"]
	}
	if len(uploads) == 0 {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrValidation("files", "At least one file is required")))
		return
	}

	for _, header := range uploads {
		if err := h.validator.ValidateUpload(header.Filename, header.Size, h.cfg.Server.MaxUploadBytes); err != nil {
			render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrValidation("files", err.Error())))
			return
		}
	}

	runID := uuid.New().String()
	runDir := h.cfg.RunDir(runID)
	inputDir := filepath.Join(runDir, "inputs")

	if err := h.saveUploads(uploads, inputDir); err != nil {
		h.logger.ErrorContext(ctx, "failed to store uploaded files",
			slog.String("run_id", runID),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrInternalServer))
		return
	}

	report, err := h.service.Run(ctx, inputDir, runDir)
	if err != nil {
		h.logger.ErrorContext(ctx, "pipeline run failed",
			slog.String("run_id", runID),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrUploadFailed(err)))
		return
	}

	h.logger.InfoContext(ctx, "upload processed",
		slog.String("run_id", runID),
		slog.Int("file_count", len(uploads)),
		slog.Int("record_count", report.RecordCount))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, UploadResponse{
		RunID:       runID,
		RecordCount: report.RecordCount,
		Failures:    report.Failures,
		Summary:     report.Summary,
	})
}

// saveUploads writes the multipart files into the run's input directory.
// Only the base of the client-supplied name is kept.
func (h *UploadHandler) saveUploads(uploads []*multipart.FileHeader, inputDir string) error {
	if err := os.MkdirAll(inputDir, 0755); err != nil {
		return err
	}
	for _, header := range uploads {
		name := filepath.Base(header.Filename)
		if name == "" || name == "." || name == string(filepath.Separator) {
			name = "upload_" + uuid.New().String()
		}
		if err := h.saveOne(header, filepath.Join(inputDir, name)); err != nil {
			return err
		}
	}
	return nil
}

func (h *UploadHandler) saveOne(header *multipart.FileHeader, dest string) error {
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
