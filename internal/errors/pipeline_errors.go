package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Pipeline error types. Every normalization failure falls into exactly one
// of these, and each carries the originating filename so a bad file in a
// large batch can be identified from the response alone.
const (
	// ErrTypeUnreadableFile marks content that cannot be parsed as tabular
	// data: bad encoding, a corrupt workbook, or a missing header row.
	ErrTypeUnreadableFile ErrorType = "UNREADABLE_FILE"
	// ErrTypeMissingColumn marks a file whose classification needs the
	// StartDate column but has neither it nor a filename-derived fallback.
	ErrTypeMissingColumn ErrorType = "MISSING_REQUIRED_COLUMN"
	// ErrTypeTransform marks any other fault during a per-file
	// transformation.
	ErrTypeTransform ErrorType = "TRANSFORMATION_FAULT"
)

// Problem type URIs for upload pipeline failures.
const (
	TypeUnreadableFile = "/errors/upload/unreadable-file"
	TypeMissingColumn  = "/errors/upload/missing-column"
	TypeTransformFault = "/errors/upload/transform-failed"
)

// NewUnreadableFileError creates an error for content that cannot be parsed
// as tabular data.
func NewUnreadableFileError(filename string, cause error) *AppError {
	return NewAppError(ErrTypeUnreadableFile,
		fmt.Sprintf("file %q is not readable as tabular data", filename), cause).
		WithContext("filename", filename)
}

// NewMissingColumnError creates an error for a file that needs the named
// column for classification but has no filename fallback to cover for it.
func NewMissingColumnError(filename, column string) *AppError {
	return NewAppError(ErrTypeMissingColumn,
		fmt.Sprintf("file %q has no %s column and its filename carries no fallback", filename, column), nil).
		WithContext("filename", filename).
		WithContext("column", column)
}

// NewTransformError wraps an unexpected fault from a per-file
// transformation with the originating filename.
func NewTransformError(filename string, cause error) *AppError {
	return NewAppError(ErrTypeTransform,
		fmt.Sprintf("transformation of %q failed", filename), cause).
		WithContext("filename", filename)
}

func isAppErrorOfType(err error, t ErrorType) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Type == t
}

// IsUnreadableFile reports whether err is an unreadable-file error.
func IsUnreadableFile(err error) bool { return isAppErrorOfType(err, ErrTypeUnreadableFile) }

// IsMissingColumn reports whether err is a missing-required-column error.
func IsMissingColumn(err error) bool { return isAppErrorOfType(err, ErrTypeMissingColumn) }

// IsTransformFault reports whether err is a generic transformation fault.
func IsTransformFault(err error) bool { return isAppErrorOfType(err, ErrTypeTransform) }

// MapPipelineError maps batch-normalization errors to RFC 7807 problem
// documents: unreadable content is the client's fault (400), a missing
// required column is a well-formed but unprocessable upload (422), and
// everything else is ours (500).
func MapPipelineError(err error, traceID string) render.Renderer {
	instance := fmt.Sprintf("/api/upload#trace-%s", traceID)

	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return NewProblemDetails(
			http.StatusInternalServerError,
			TypeInternal,
			"Internal Server Error",
			"An unexpected error occurred while processing your upload.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "INTERNAL_ERROR")
	}

	var problem *ProblemDetails
	switch appErr.Type {
	case ErrTypeUnreadableFile:
		problem = NewProblemDetails(
			http.StatusBadRequest,
			TypeUnreadableFile,
			"Unreadable File",
			appErr.Message,
			instance,
		)
	case ErrTypeMissingColumn:
		problem = NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeMissingColumn,
			"Missing Required Column",
			appErr.Message,
			instance,
		)
	case ErrTypeValidation:
		problem = NewProblemDetails(
			http.StatusBadRequest,
			TypeValidation,
			"Validation Failed",
			appErr.Message,
			instance,
		)
	default:
		problem = NewProblemDetails(
			http.StatusInternalServerError,
			TypeTransformFault,
			"Transformation Failed",
			appErr.Message,
			instance,
		)
	}

	problem.WithExtension("trace_id", traceID).
		WithExtension("error_code", string(appErr.Type))
	for k, v := range appErr.Context {
		problem.WithExtension(k, v)
	}
	return problem
}
