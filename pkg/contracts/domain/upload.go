package domain

import (
	"time"
)

// StagedFile describes one uploaded export written to the staging directory
// for the duration of a single request. Path points at the staged copy; the
// original client filename is kept separately because the pipeline derives
// metadata from it.
type StagedFile struct {
	OriginalName string `json:"original_name" validate:"required"`
	Path         string `json:"path" validate:"required"`
	Size         int64  `json:"size" validate:"min=0"`
}

// BatchSummary reports what one normalization run produced. It is logged,
// attached to response headers, and printed by the CLI.
type BatchSummary struct {
	Files   int           `json:"files" validate:"min=1"`
	Rows    int           `json:"rows" validate:"min=0"`
	Columns int           `json:"columns" validate:"min=0"`
	Elapsed time.Duration `json:"elapsed"`
}
