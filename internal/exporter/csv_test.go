package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyprep/internal/dataprocessing"
)

func sampleTable(t *testing.T) *dataprocessing.Table {
	t.Helper()
	tbl := dataprocessing.NewTable([]string{"ID", "Q1", "Semester"})
	tbl.AppendRow(dataprocessing.Row{"ID": "S1", "Q1": "4", "Semester": "sp2024"})
	tbl.AppendRow(dataprocessing.Row{"ID": "S2", "Semester": "sp2024"})
	return tbl
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(Options{})

	require.NoError(t, w.WriteTable(&buf, sampleTable(t)))

	// Missing Q1 for the second row serializes as an empty field.
	assert.Equal(t, "ID,Q1,Semester\nS1,4,sp2024\nS2,,sp2024\n", buf.String())
}

func TestWriteBOM(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(Options{BOM: true})

	require.NoError(t, w.WriteTable(&buf, sampleTable(t)))

	got := buf.Bytes()
	require.True(t, len(got) > 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, got[:3])
	assert.Equal(t, byte('I'), got[3])
}

func TestWriteQuotesCommasInCells(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(Options{})

	err := w.Write(&buf, []string{"Attention Check"}, [][]string{{"yes, I am paying attention"}})

	require.NoError(t, err)
	assert.Equal(t, "Attention Check\n\"yes, I am paying attention\"\n", buf.String())
}

func TestWriteTableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "cleaned_master_data.csv")
	w := NewCSVWriter(Options{})

	require.NoError(t, w.WriteTableFile(path, sampleTable(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID,Q1,Semester\nS1,4,sp2024\nS2,,sp2024\n", string(data))

	// No temp file left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWriteTableFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))
	w := NewCSVWriter(Options{})

	require.NoError(t, w.WriteTableFile(path, sampleTable(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
}
