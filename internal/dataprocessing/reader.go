package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LoadTable decodes raw export bytes into a Table, dispatching on the
// filename extension. CSV content may carry a UTF-8 or UTF-16 byte order
// mark; workbooks are read from their first sheet only, which is where the
// survey tool places its export.
func LoadTable(content []byte, filename string) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return loadCSV(content)
	case ".xlsx", ".xls":
		return loadWorkbook(content)
	default:
		return nil, fmt.Errorf("unrecognized file extension %q", ext)
	}
}

func loadCSV(content []byte) (*Table, error) {
	// BOMOverride switches to UTF-16 when a BOM says so and strips a UTF-8
	// BOM, so exports saved from Excel parse the same as plain ones.
	decoder := transform.NewReader(bytes.NewReader(content), unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoder)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return tableFromRecords(records)
}

func loadWorkbook(content []byte) (*Table, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return tableFromRecords(rows)
}

// tableFromRecords builds a Table from a header record plus data records.
// Cells beyond a short record's length become missing markers; cells beyond
// the header width have no column and are dropped.
func tableFromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.New("no header row")
	}
	headers := dedupeHeaders(records[0])
	t := NewTable(headers)
	for _, rec := range records[1:] {
		row := make(Row, len(headers))
		for j, value := range rec {
			if j >= len(headers) {
				break
			}
			row[headers[j]] = value
		}
		t.AppendRow(row)
	}
	return t, nil
}

// dedupeHeaders disambiguates repeated header names with a numeric suffix
// (Name, Name.1, Name.2) so row maps cannot silently collapse columns.
func dedupeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		name := h
		for n := 1; seen[name]; n++ {
			name = h + "." + strconv.Itoa(n)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}
