// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/example/storyforge/internal/ports/secondary"
)

// DocumentAdapter implements secondary.DocumentStore on the local filesystem.
type DocumentAdapter struct {
	baseDir string
}

// NewDocumentAdapter creates a new document adapter. Relative paths resolve
// against baseDir; an empty baseDir means the working directory.
func NewDocumentAdapter(baseDir string) *DocumentAdapter {
	return &DocumentAdapter{baseDir: baseDir}
}

// ReadDocument returns the contents of the file at path.
func (a *DocumentAdapter) ReadDocument(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(a.resolve(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("document %s: %w", path, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// WriteDocument writes data to a temp file in the target directory and
// renames it over path, so readers never see a partial document.
func (a *DocumentAdapter) WriteDocument(ctx context.Context, path string, data []byte) error {
	target := a.resolve(path)
	dir := filepath.Dir(target)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func (a *DocumentAdapter) resolve(path string) string {
	if a.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.baseDir, path)
}

var _ secondary.DocumentStore = (*DocumentAdapter)(nil)
