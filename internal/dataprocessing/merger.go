package dataprocessing

import (
	"context"

	"golang.org/x/sync/errgroup"

	apperrors "surveyprep/internal/errors"
)

// SourceFile pairs raw export bytes with the original filename the metadata
// is derived from.
type SourceFile struct {
	Name    string
	Content []byte
}

// MergeFiles transforms every file in the batch and concatenates the
// results into one combined table. Files transform concurrently up to the
// configured worker bound, but rows always land in input order, so output
// is deterministic. The first failing file fails the whole batch; no
// partial result is ever returned, since a silently shrunken merge would
// understate the dataset.
//
// A single-file batch returns that file's transformed table verbatim with
// no union logic run.
func (n *Normalizer) MergeFiles(ctx context.Context, files []SourceFile) (*Table, error) {
	if len(files) == 0 {
		return nil, apperrors.NewAppValidationError("at least one input file is required")
	}
	if len(files) == 1 {
		return n.TransformFile(files[0].Content, files[0].Name)
	}

	tables := make([]*Table, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(n.workers)
	for i, f := range files {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			t, err := n.TransformFile(f.Content, f.Name)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ConcatTables(tables), nil
}

// ConcatTables concatenates per-file tables into one. The combined column
// set is the union across all tables in first-seen order; rows append
// table by table in input order. A row's cell for a column its source
// table never had stays a missing marker rather than becoming an empty
// string, so merged-in gaps remain distinguishable from blank answers.
func ConcatTables(tables []*Table) *Table {
	var columns []string
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, col := range t.columns {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}

	out := NewTable(columns)
	for _, t := range tables {
		for _, row := range t.rows {
			out.AppendRow(row.Clone())
		}
	}
	return out
}
