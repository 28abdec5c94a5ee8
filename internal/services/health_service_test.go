package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyprep/internal/config"
)

func newTestHealthService(t *testing.T, ruleSet string) *HealthService {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	paths := config.Paths{
		UploadsDir: filepath.Join(t.TempDir(), "uploads"),
	}
	return NewHealthService("1.2.3", paths, ruleSet, logger)
}

func TestHealthCheck(t *testing.T) {
	hs := newTestHealthService(t, "remove")

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestReadinessCheck(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		hs := newTestHealthService(t, "remove")

		status := hs.ReadinessCheck(context.Background())
		assert.Equal(t, "ready", status.Status)

		ruleset, ok := status.Services["ruleset"].(ServiceHealth)
		require.True(t, ok)
		assert.Equal(t, "ready", ruleset.Status)

		staging, ok := status.Services["staging"].(ServiceHealth)
		require.True(t, ok)
		assert.Equal(t, "ready", staging.Status)
	})

	t.Run("unknown rule set", func(t *testing.T) {
		hs := newTestHealthService(t, "bogus")

		status := hs.ReadinessCheck(context.Background())
		assert.Equal(t, "not_ready", status.Status)

		ruleset, ok := status.Services["ruleset"].(ServiceHealth)
		require.True(t, ok)
		assert.Equal(t, "not_ready", ruleset.Status)
	})
}

func TestLivenessCheck(t *testing.T) {
	hs := newTestHealthService(t, "remove")

	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	assert.NotEmpty(t, status.Runtime["go_version"])
}

func TestVersion(t *testing.T) {
	hs := NewHealthServiceWithBuildInfo("1.2.3", "2026-08-25T00:00:00Z", "abc123",
		config.Paths{UploadsDir: t.TempDir()}, "remove", nil)

	info := hs.Version()
	assert.Equal(t, "1.2.3", info["version"])
	assert.Equal(t, "remove", info["rule_set"])
	assert.Equal(t, "2026-08-25T00:00:00Z", info["build_time"])
	assert.Equal(t, "abc123", info["build_id"])
}
