package dataprocessing

import (
	"log/slog"

	apperrors "surveyprep/internal/errors"
)

// defaultMergeWorkers bounds per-file parallelism when the caller does not
// configure a count.
const defaultMergeWorkers = 4

// Normalizer runs the per-file pipeline and the batch merge under one
// immutable rule set. It holds no mutable state and is safe for concurrent
// use.
type Normalizer struct {
	rules   RuleSet
	workers int
}

// NewNormalizer creates a Normalizer for the given rule set. workers bounds
// how many files transform concurrently during a merge; values below one
// select the default.
func NewNormalizer(rules RuleSet, workers int) *Normalizer {
	if workers < 1 {
		workers = defaultMergeWorkers
	}
	return &Normalizer{rules: rules, workers: workers}
}

// Rules returns the rule set the normalizer was built with.
func (n *Normalizer) Rules() RuleSet { return n.rules }

// TransformFile runs the whole per-file pipeline on raw export bytes: parse
// the filename, load the table, prune the junk rows, snapshot StartDate
// before the column denylist removes it, prune and rename columns, then
// classify. A pure function of its inputs; every failure surfaces with the
// original filename attached.
func (n *Normalizer) TransformFile(content []byte, filename string) (*Table, error) {
	meta := ParseFilename(filename)

	raw, err := LoadTable(content, filename)
	if err != nil {
		return nil, apperrors.NewUnreadableFileError(filename, err)
	}

	t := PruneLeadingRows(raw)

	// The classifier needs StartDate values aligned with the surviving
	// rows, so the snapshot happens after row pruning and before the
	// denylist drops the column.
	startDates, hasStartDate := t.ColumnValues(ColumnStartDate)
	if !hasStartDate {
		startDates = nil
	}

	t = PruneColumns(t, n.rules)
	t = RenameColumns(t, n.rules)

	t, err = ClassifyTemporal(t, startDates, meta, filename)
	if err != nil {
		if apperrors.IsMissingColumn(err) {
			return nil, err
		}
		return nil, apperrors.NewTransformError(filename, err)
	}

	slog.Debug("transformed file",
		slog.String("file", filename),
		slog.Int("rows", t.RowCount()),
		slog.Int("columns", t.ColumnCount()),
		slog.String("course", meta.Course),
		slog.String("semester", meta.Semester),
		slog.String("pre_post", meta.PrePost))

	return t, nil
}
