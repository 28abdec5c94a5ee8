package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"surveyprep/internal/dataprocessing"
)

// utf8BOM helps Excel recognize UTF-8 encoded CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options configures CSV serialization behavior.
type Options struct {
	// BOM prepends a UTF-8 byte-order mark. HTTP responses leave it off;
	// the CLI turns it on so double-clicked files open cleanly in Excel.
	BOM bool
}

// CSVWriter serializes combined tables to CSV. The zero value writes plain
// UTF-8 without a BOM.
type CSVWriter struct {
	opts Options
}

// NewCSVWriter creates a CSV writer with the given options.
func NewCSVWriter(opts Options) *CSVWriter {
	return &CSVWriter{opts: opts}
}

// Write serializes a header row plus records to dst. Missing cells arrive
// here already rendered as empty fields; the writer adds no quoting policy
// beyond encoding/csv defaults.
func (w *CSVWriter) Write(dst io.Writer, headers []string, records [][]string) error {
	if w.opts.BOM {
		if _, err := dst.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(dst)
	if len(headers) > 0 {
		if err := cw.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range records {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable serializes a table to dst in the table's column order.
func (w *CSVWriter) WriteTable(dst io.Writer, t *dataprocessing.Table) error {
	return w.Write(dst, t.Columns(), t.Records())
}

// WriteTableFile serializes a table to a file, creating parent directories
// as needed. The file is written to a temp name first and renamed into
// place so readers never observe a half-written CSV.
func (w *CSVWriter) WriteTableFile(path string, t *dataprocessing.Table) error {
	slog.Info("writing combined CSV",
		slog.String("path", path),
		slog.Int("rows", t.RowCount()),
		slog.Int("columns", t.ColumnCount()))

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := w.WriteTable(tmp, t); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move CSV into place: %w", err)
	}
	return nil
}
