// Package dataset writes the per-post outputs: caption files and images,
// fanned out over a fixed-size worker pool.
package dataset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer saves caption files under a subset's output path.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a caption writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger}
}

// SaveCaption writes the caption for a post as <id>.<ext>. An existing file
// is left alone unless overwrite is set.
func (w *Writer) SaveCaption(dir string, postID int, ext, caption string, overwrite bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%d.%s", postID, ext))

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			w.logger.Debug("caption exists, skipping", "path", path)
			return nil
		}
	}

	if err := os.WriteFile(path, []byte(caption), 0o644); err != nil {
		return fmt.Errorf("write caption %s: %w", path, err)
	}
	return nil
}
