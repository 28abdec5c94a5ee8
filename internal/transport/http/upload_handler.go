package http

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/render"

	"surveyprep/internal/config"
	apperrors "surveyprep/internal/errors"
	"surveyprep/internal/exporter"
	"surveyprep/internal/files"
	"surveyprep/internal/infrastructure"
	"surveyprep/internal/middleware"
	"surveyprep/internal/services"
	"surveyprep/internal/validation"
	"surveyprep/pkg/contracts/domain"
)

// UploadHandler accepts multipart batches of survey exports, runs them
// through the normalization pipeline, and streams back the combined CSV.
type UploadHandler struct {
	service  *services.NormalizeService
	manager  *files.Manager
	writer   *exporter.CSVWriter
	validate *middleware.ValidationMiddleware
	errors   *apperrors.ErrorHandler
	limits   config.PipelineConfig
	logger   *slog.Logger
}

// uploadPart carries the per-part fields checked before staging.
type uploadPart struct {
	Filename string `json:"filename" validate:"required,filename"`
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service *services.NormalizeService, manager *files.Manager, limits config.PipelineConfig, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		service:  service,
		manager:  manager,
		writer:   exporter.NewCSVWriter(exporter.Options{}),
		validate: middleware.NewValidationMiddleware(logger),
		errors:   apperrors.NewErrorHandler(logger, false),
		limits:   limits,
		logger:   logger.With(slog.String("handler", "upload")),
	}
}

// Upload handles POST /api/upload. The request carries one or more exports
// in repeated "files" parts, or a single "file" part. On success the merged
// table comes back as a CSV attachment with batch summary headers; any
// failure comes back as an RFC 7807 problem document.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traceID := infrastructure.GetTraceID(ctx)

	if h.limits.MaxBatchBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.limits.MaxBatchBytes)
	}

	if err := r.ParseMultipartForm(h.limits.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			h.errors.HandleError(w, r, err)
			return
		}
		h.errors.HandleError(w, r,
			apperrors.InvalidRequestWithError(fmt.Errorf("could not parse multipart form: %w", err)))
		return
	}
	defer r.MultipartForm.RemoveAll()

	parts := r.MultipartForm.File["files"]
	if len(parts) == 0 {
		// Single-file clients send one "file" part instead.
		parts = r.MultipartForm.File["file"]
	}
	if len(parts) == 0 {
		h.errors.HandleError(w, r, apperrors.ErrNoFilesUploaded)
		return
	}

	staged, err := h.stageParts(parts)
	defer h.manager.RemoveBatch(staged)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	table, summary, err := h.service.NormalizeBatch(ctx, staged)
	if err != nil {
		h.logger.ErrorContext(ctx, "batch normalization failed",
			slog.Int("files", len(staged)),
			slog.String("error", err.Error()),
		)
		render.Render(w, r, apperrors.MapPipelineError(err, traceID))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", h.limits.DownloadName))
	w.Header().Set("X-Batch-Files", fmt.Sprintf("%d", summary.Files))
	w.Header().Set("X-Batch-Rows", fmt.Sprintf("%d", summary.Rows))
	w.Header().Set("X-Batch-Columns", fmt.Sprintf("%d", summary.Columns))

	if err := h.writer.WriteTable(w, table); err != nil {
		// Headers are already out; all we can do is log.
		h.logger.ErrorContext(ctx, "failed to stream combined CSV",
			slog.String("error", err.Error()))
	}
}

// stageParts validates each multipart file and writes it to the staging
// directory. The returned slice holds everything staged so far, so the
// caller can clean up even when a later part fails validation.
func (h *UploadHandler) stageParts(parts []*multipart.FileHeader) ([]domain.StagedFile, error) {
	staged := make([]domain.StagedFile, 0, len(parts))

	for _, part := range parts {
		if part.Filename == "" {
			return staged, apperrors.NewValidationError("a file part is missing its filename")
		}
		// Clients may send full client-side paths; judge the base name.
		if err := h.validate.ValidateStruct(uploadPart{Filename: filepath.Base(part.Filename)}); err != nil {
			return staged, err
		}
		if !validation.HasAllowedExtension(part.Filename) {
			return staged, apperrors.UnsupportedFileTypeError(part.Filename, validation.AllowedExtensions)
		}
		if h.limits.MaxUploadBytes > 0 && part.Size > h.limits.MaxUploadBytes {
			return staged, apperrors.PayloadTooLargeError(part.Filename, h.limits.MaxUploadBytes)
		}

		src, err := part.Open()
		if err != nil {
			return staged, apperrors.InvalidRequestWithError(
				fmt.Errorf("could not read uploaded file %q", part.Filename))
		}

		stagedFile, err := h.manager.SaveUpload(src, part.Filename)
		src.Close()
		if err != nil {
			h.logger.Error("failed to stage upload",
				slog.String("file", part.Filename),
				slog.String("error", err.Error()))
			return staged, apperrors.FileSystemError("staging upload", err)
		}

		staged = append(staged, stagedFile)
	}

	return staged, nil
}
