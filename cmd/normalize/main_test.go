package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunMergesDirectory(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeFixture(t, inDir, "EMCS-1501-sp2024-Pre.csv", "Q35,Q1\nj,j\nj,j\nS1,4\nS2,5\n")
	writeFixture(t, inDir, "EMCS-1501-sp2024-Post.csv", "Q35,Q2\nj,j\nj,j\nS3,2\n")

	output := filepath.Join(outDir, "cleaned_master_data.csv")
	opts := options{inputDir: inDir, output: output, ruleSet: "remove"}

	require.NoError(t, run(context.Background(), opts, discardLogger()))

	content, err := os.ReadFile(output)
	require.NoError(t, err)

	text := string(content)
	assert.True(t, strings.HasPrefix(text, "\ufeff"), "expected UTF-8 BOM")

	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 4) // header plus three student rows
	assert.Contains(t, lines[0], "Pre/Post")
}

func TestRunPositionalFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "EMCS-1501-sp2024-Pre.csv", "Q35,Q1\nj,j\nj,j\nS1,4\n")

	output := filepath.Join(dir, "out.csv")
	opts := options{inputs: []string{path}, output: output, ruleSet: "suffix"}

	require.NoError(t, run(context.Background(), opts, discardLogger()))

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
}

func TestRunUnknownRuleSet(t *testing.T) {
	opts := options{ruleSet: "bogus", output: filepath.Join(t.TempDir(), "out.csv")}

	err := run(context.Background(), opts, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestRunEmptyDirectory(t *testing.T) {
	opts := options{
		inputDir: t.TempDir(),
		output:   filepath.Join(t.TempDir(), "out.csv"),
		ruleSet:  "remove",
	}

	err := run(context.Background(), opts, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no spreadsheet files")
}

func TestRunRejectsTextFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "notes.txt", "plain text")

	opts := options{
		inputs:  []string{path},
		output:  filepath.Join(dir, "out.csv"),
		ruleSet: "remove",
	}

	err := run(context.Background(), opts, discardLogger())
	require.Error(t, err)
}

func TestRunMissingInputDirectory(t *testing.T) {
	opts := options{
		inputDir: filepath.Join(t.TempDir(), "does-not-exist"),
		output:   filepath.Join(t.TempDir(), "out.csv"),
		ruleSet:  "remove",
	}

	err := run(context.Background(), opts, discardLogger())
	require.Error(t, err)
}

func TestParseFlags(t *testing.T) {
	opts := parseFlags([]string{
		"-in", "exports",
		"-out", "master.csv",
		"-ruleset", "suffix",
		"-v",
		"extra.csv",
	})

	assert.Equal(t, "exports", opts.inputDir)
	assert.Equal(t, "master.csv", opts.output)
	assert.Equal(t, "suffix", opts.ruleSet)
	assert.True(t, opts.verbose)
	assert.Equal(t, []string{"extra.csv"}, opts.inputs)
}
