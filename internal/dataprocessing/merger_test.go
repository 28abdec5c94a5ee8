package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "surveyprep/internal/errors"
)

func TestConcatTables(t *testing.T) {
	a := NewTable([]string{"a", "b"})
	a.AppendRow(Row{"a": "1", "b": "2"})
	a.AppendRow(Row{"a": "3", "b": "4"})

	b := NewTable([]string{"b", "c"})
	b.AppendRow(Row{"b": "5", "c": "6"})

	got := ConcatTables([]*Table{a, b})

	assert.Equal(t, []string{"a", "b", "c"}, got.Columns())
	require.Equal(t, 3, got.RowCount())

	// Rows keep their file order and gaps stay missing, not empty.
	v, ok := got.Cell(0, "a")
	require.True(t, ok)
	assert.Equal(t, "1", v)
	_, ok = got.Cell(0, "c")
	assert.False(t, ok)
	_, ok = got.Cell(2, "a")
	assert.False(t, ok)
	v, ok = got.Cell(2, "c")
	require.True(t, ok)
	assert.Equal(t, "6", v)
}

func TestConcatTablesLeavesInputsUntouched(t *testing.T) {
	a := NewTable([]string{"a"})
	a.AppendRow(Row{"a": "1"})
	b := NewTable([]string{"b"})
	b.AppendRow(Row{"b": "2"})

	got := ConcatTables([]*Table{a, b})
	row := got.rows[0]
	row["b"] = "mutated"

	_, ok := a.Cell(0, "b")
	assert.False(t, ok)
	assert.Equal(t, []string{"a"}, a.Columns())
}

func TestMergeFiles(t *testing.T) {
	n := NewNormalizer(RemovalRuleSet(), 2)
	files := []SourceFile{
		{Name: "EMCS-1501-sp2024-Pre.csv", Content: []byte("Q35,Q1\nj,j\nj,j\nS1,4\nS2,5\n")},
		{Name: "EMCS-1501-sp2024-Post.csv", Content: []byte("Q35,Q2\nj,j\nj,j\nS3,2\n")},
	}

	got, err := n.MergeFiles(context.Background(), files)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"ID", "Q1", "Course Name", "Semester", "Pre/Post", "Q2",
	}, got.Columns())
	require.Equal(t, 3, got.RowCount())

	// First file's rows have no Q2 and the second's no Q1.
	_, ok := got.Cell(0, "Q2")
	assert.False(t, ok)
	_, ok = got.Cell(2, "Q1")
	assert.False(t, ok)

	id, _ := got.Cell(2, "ID")
	assert.Equal(t, "S3", id)
	prePost, _ := got.Cell(2, "Pre/Post")
	assert.Equal(t, "Post", prePost)
	prePost, _ = got.Cell(0, "Pre/Post")
	assert.Equal(t, "Pre", prePost)
}

func TestMergeFilesRowConservation(t *testing.T) {
	n := NewNormalizer(RemovalRuleSet(), 4)
	files := []SourceFile{
		{Name: "a-1501-sp2024-Pre.csv", Content: []byte("Q1\nj\nj\n1\n2\n3\n")},
		{Name: "b-1501-sp2024-Pre.csv", Content: []byte("Q1\nj\nj\n4\n")},
		{Name: "c-1501-sp2024-Pre.csv", Content: []byte("Q1\nj\nj\n")},
	}

	got, err := n.MergeFiles(context.Background(), files)

	require.NoError(t, err)
	assert.Equal(t, 4, got.RowCount())
}

func TestMergeFilesSingleFileVerbatim(t *testing.T) {
	n := NewNormalizer(RemovalRuleSet(), 2)
	file := SourceFile{Name: "EMCS-1501-sp2024-Pre.csv", Content: []byte("Q35,Q1\nj,j\nj,j\nS1,4\n")}

	merged, err := n.MergeFiles(context.Background(), []SourceFile{file})
	require.NoError(t, err)

	direct, err := n.TransformFile(file.Content, file.Name)
	require.NoError(t, err)

	assert.Equal(t, direct.Columns(), merged.Columns())
	assert.Equal(t, direct.Records(), merged.Records())
}

func TestMergeFilesEmptyBatch(t *testing.T) {
	n := NewNormalizer(RemovalRuleSet(), 2)

	_, err := n.MergeFiles(context.Background(), nil)

	require.Error(t, err)
}

func TestMergeFilesFailsWholeBatch(t *testing.T) {
	n := NewNormalizer(RemovalRuleSet(), 2)
	files := []SourceFile{
		{Name: "good-1501-sp2024-Pre.csv", Content: []byte("Q1\nj\nj\n1\n")},
		{Name: "bad.xlsx", Content: []byte("not a workbook")},
	}

	got, err := n.MergeFiles(context.Background(), files)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, apperrors.IsUnreadableFile(err))
	assert.Contains(t, err.Error(), "bad.xlsx")
}

func TestMergeFilesCanceledContext(t *testing.T) {
	n := NewNormalizer(RemovalRuleSet(), 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []SourceFile{
		{Name: "a-1501-sp2024-Pre.csv", Content: []byte("Q1\nj\nj\n1\n")},
		{Name: "b-1501-sp2024-Pre.csv", Content: []byte("Q1\nj\nj\n2\n")},
	}

	_, err := n.MergeFiles(ctx, files)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
