package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"surveyprep/pkg/contracts/domain"
)

// Manager stages uploaded spreadsheets in the configured uploads directory
// for the duration of a single batch. Staged names carry a UUID prefix so
// concurrent requests never collide; the client's original filename is kept
// on the StagedFile record because the pipeline derives metadata from it.
type Manager struct {
	uploadsDir string
	logger     *slog.Logger
}

// NewManager creates a file manager staging into uploadsDir.
func NewManager(uploadsDir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{uploadsDir: uploadsDir, logger: logger}
}

// UploadsDir returns the staging directory.
func (m *Manager) UploadsDir() string { return m.uploadsDir }

// EnsureDirectory creates the uploads directory if it doesn't exist.
func (m *Manager) EnsureDirectory() error {
	if err := os.MkdirAll(m.uploadsDir, 0755); err != nil {
		return fmt.Errorf("failed to create uploads directory %s: %w", m.uploadsDir, err)
	}
	return nil
}

// SaveUpload copies one uploaded file into the staging directory and returns
// its StagedFile record. The staged name is the original base name behind a
// UUID prefix; path separators in the client-supplied name are stripped so
// an upload can never escape the staging directory.
func (m *Manager) SaveUpload(r io.Reader, originalName string) (domain.StagedFile, error) {
	if err := m.EnsureDirectory(); err != nil {
		return domain.StagedFile{}, err
	}

	base := filepath.Base(filepath.ToSlash(originalName))
	stagedName := uuid.New().String() + "_" + base
	path := filepath.Join(m.uploadsDir, stagedName)

	dst, err := os.Create(path)
	if err != nil {
		return domain.StagedFile{}, fmt.Errorf("failed to create staged file: %w", err)
	}

	size, err := io.Copy(dst, r)
	if err != nil {
		dst.Close()
		os.Remove(path)
		return domain.StagedFile{}, fmt.Errorf("failed to write staged file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return domain.StagedFile{}, fmt.Errorf("failed to close staged file: %w", err)
	}

	m.logger.Debug("staged upload",
		slog.String("original_name", originalName),
		slog.String("path", path),
		slog.Int64("size", size))

	return domain.StagedFile{
		OriginalName: originalName,
		Path:         path,
		Size:         size,
	}, nil
}

// Remove deletes one staged file. A file already gone is not an error.
func (m *Manager) Remove(staged domain.StagedFile) error {
	err := os.Remove(staged.Path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove staged file %s: %w", staged.Path, err)
	}
	return nil
}

// RemoveBatch deletes every staged file in the batch, continuing past
// individual failures. Called after each request regardless of outcome;
// leftovers are logged rather than surfaced since the response is already
// decided by then.
func (m *Manager) RemoveBatch(staged []domain.StagedFile) {
	for _, f := range staged {
		if err := m.Remove(f); err != nil {
			m.logger.Warn("failed to clean staged upload",
				slog.String("path", f.Path),
				slog.String("error", err.Error()))
		}
	}
}
