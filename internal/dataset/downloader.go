package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/tagpull/tagpull/internal/errors"
)

const downloadTimeout = 60 * time.Second

// Downloader fetches post images to disk.
type Downloader struct {
	http   *http.Client
	logger *slog.Logger
}

// NewDownloader creates an image downloader.
func NewDownloader(logger *slog.Logger) *Downloader {
	return &Downloader{
		http:   &http.Client{Timeout: downloadTimeout},
		logger: logger,
	}
}

// Download fetches url into dir as <id>.<ext>. A file that already exists is
// never re-fetched. The image is written to a temp file and renamed into
// place, so an interrupted download leaves no partial image behind.
func (d *Downloader) Download(ctx context.Context, url, dir string, postID int, ext string) error {
	if url == "" {
		return errors.Transportf("post %d: no file url", postID)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%d.%s", postID, ext))
	if _, err := os.Stat(path); err == nil {
		d.logger.Debug("image exists, skipping", "path", path)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Transportf("post %d: create request", postID).WithCause(err)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return errors.Transportf("post %d: download failed", postID).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Transportf("post %d: download status %d", postID, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(dir, "download-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return errors.Transportf("post %d: read image", postID).WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename image: %w", err)
	}

	d.logger.Debug("downloaded image", "path", path)
	return nil
}
