package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyprep/pkg/contracts/domain"
)

func TestSaveUpload(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, nil)

	staged, err := m.SaveUpload(strings.NewReader("Q35,Q1\na,b\n"), "EMCS-1501-sp2024-Pre.csv")

	require.NoError(t, err)
	assert.Equal(t, "EMCS-1501-sp2024-Pre.csv", staged.OriginalName)
	assert.Equal(t, int64(12), staged.Size)
	assert.True(t, strings.HasSuffix(staged.Path, "_EMCS-1501-sp2024-Pre.csv"))
	assert.Equal(t, dir, filepath.Dir(staged.Path))

	data, err := os.ReadFile(staged.Path)
	require.NoError(t, err)
	assert.Equal(t, "Q35,Q1\na,b\n", string(data))
}

func TestSaveUploadStripsClientPaths(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, nil)

	staged, err := m.SaveUpload(strings.NewReader("x"), "../../etc/passwd.csv")

	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(staged.Path))
	assert.True(t, strings.HasSuffix(staged.Path, "_passwd.csv"))
}

func TestSaveUploadCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	m := NewManager(dir, nil)

	_, err := m.SaveUpload(strings.NewReader("x"), "a.csv")

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRemoveBatch(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, nil)

	a, err := m.SaveUpload(strings.NewReader("x"), "a.csv")
	require.NoError(t, err)
	b, err := m.SaveUpload(strings.NewReader("y"), "b.csv")
	require.NoError(t, err)

	// A file already deleted by hand should not break cleanup.
	require.NoError(t, os.Remove(b.Path))
	m.RemoveBatch([]domain.StagedFile{a, b})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemoveMissingFileIsNoError(t *testing.T) {
	m := NewManager(t.TempDir(), nil)
	err := m.Remove(domain.StagedFile{Path: filepath.Join(t.TempDir(), "gone.csv")})
	assert.NoError(t, err)
}
