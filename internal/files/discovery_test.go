package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
}

func TestFindSpreadsheetFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"b-1501-fa2024-Post.csv",
		"a-1501-fa2024-Pre.xlsx",
		"notes.txt",
		"legacy.XLS",
		"~$open-in-excel.xlsx",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0755))

	got, err := NewDiscovery("").FindSpreadsheetFiles(dir)

	require.NoError(t, err)
	names := make([]string, len(got))
	for i, f := range got {
		names[i] = f.Name
	}
	// Sorted by name, extension match case-insensitive, lock files and
	// directories skipped.
	assert.Equal(t, []string{"a-1501-fa2024-Pre.xlsx", "b-1501-fa2024-Post.csv", "legacy.XLS"}, names)
}

func TestFindSpreadsheetFilesRelativeDir(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "in"), 0755))
	writeFiles(t, filepath.Join(base, "in"), "x.csv")

	got, err := NewDiscovery(base).FindSpreadsheetFiles("in")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(base, "in", "x.csv"), got[0].Path)
}

func TestFindSpreadsheetFilesMissingDir(t *testing.T) {
	_, err := NewDiscovery("").FindSpreadsheetFiles(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestFindFilesByPattern(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "cleaned_master_data.csv", "other.csv", "readme.md")

	got, err := NewDiscovery("").FindFilesByPattern(dir, "*.csv")

	require.NoError(t, err)
	assert.Len(t, got, 2)
}
