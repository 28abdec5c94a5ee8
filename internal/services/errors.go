package services

import "errors"

// Batch validation errors returned by NormalizeService before any file is
// read. Handlers map them to 4xx problem documents.
var (
	ErrEmptyBatch     = errors.New("no files in batch")
	ErrBatchTooLarge  = errors.New("batch exceeds configured limits")
	ErrTooManyFiles   = errors.New("too many files in batch")
	ErrUnknownRuleSet = errors.New("unknown rule set")
)
