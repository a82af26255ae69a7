package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagpull/tagpull/internal/domain"
	"github.com/tagpull/tagpull/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSaveCaption(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewWriter(testLogger())

	require.NoError(t, w.SaveCaption(dir, 42, "txt", "1girl, smile", false))

	data, err := os.ReadFile(filepath.Join(dir, "42.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1girl, smile", string(data))
}

func TestSaveCaption_ExistingFileKept(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "42.txt")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	w := NewWriter(testLogger())
	require.NoError(t, w.SaveCaption(dir, 42, "txt", "replacement", false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestSaveCaption_Overwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "42.txt")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	w := NewWriter(testLogger())
	require.NoError(t, w.SaveCaption(dir, 42, "txt", "replacement", true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "replacement", string(data))
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	d := NewDownloader(testLogger())
	require.NoError(t, d.Download(context.Background(), server.URL+"/img.png", dir, 7, "png"))

	data, err := os.ReadFile(filepath.Join(dir, "7.png"))
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestDownload_ExistingFileSkipped(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("fresh"))
	}))
	defer server.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "7.png"), []byte("stale"), 0o644))

	d := NewDownloader(testLogger())
	require.NoError(t, d.Download(context.Background(), server.URL, dir, 7, "png"))

	assert.Zero(t, hits, "existing image is never re-fetched")
}

func TestDownload_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	dir := t.TempDir()
	d := NewDownloader(testLogger())
	err := d.Download(context.Background(), server.URL, dir, 7, "png")
	assert.ErrorIs(t, err, errors.ErrTransport)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestDownload_EmptyURL(t *testing.T) {
	d := NewDownloader(testLogger())
	err := d.Download(context.Background(), "", t.TempDir(), 7, "png")
	assert.ErrorIs(t, err, errors.ErrTransport)
}

func TestProcess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "image for %s", r.URL.Path)
	}))
	defer server.Close()

	items := make([]*domain.PostItem, 0, 7)
	for i := 1; i <= 7; i++ {
		items = append(items, domain.NewPostItem(domain.Post{
			ID:      i,
			MD5:     fmt.Sprintf("md5-%d", i),
			FileExt: "jpg",
			FileURL: fmt.Sprintf("%s/%d.jpg", server.URL, i),
		}, nil))
	}

	dir := t.TempDir()
	job := Job{Items: items, OutputPath: dir}
	require.NoError(t, Process(context.Background(), job, 3, testLogger()))

	for i := 1; i <= 7; i++ {
		data, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("%d.jpg", i)))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("image for /%d.jpg", i), string(data))
	}
}

func TestProcess_ItemFailuresAreCollected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/2.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	var items []*domain.PostItem
	for i := 1; i <= 3; i++ {
		items = append(items, domain.NewPostItem(domain.Post{
			ID:      i,
			FileExt: "jpg",
			FileURL: fmt.Sprintf("%s/%d.jpg", server.URL, i),
		}, nil))
	}

	dir := t.TempDir()
	err := Process(context.Background(), Job{Items: items, OutputPath: dir}, 1, testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTransport)

	// The failure did not stop the items after it.
	_, statErr := os.Stat(filepath.Join(dir, "3.jpg"))
	assert.NoError(t, statErr)
}

func TestProcess_NoItems(t *testing.T) {
	assert.NoError(t, Process(context.Background(), Job{}, 4, testLogger()))
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []*domain.PostItem{domain.NewPostItem(domain.Post{ID: 1, FileExt: "jpg"}, nil)}
	err := Process(ctx, Job{Items: items, OutputPath: t.TempDir()}, 1, testLogger())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitChunks(t *testing.T) {
	items := make([]*domain.PostItem, 10)
	for i := range items {
		items[i] = &domain.PostItem{}
	}

	tests := []struct {
		name  string
		n     int
		sizes []int
	}{
		{name: "even split", n: 5, sizes: []int{2, 2, 2, 2, 2}},
		{name: "remainder spreads forward", n: 3, sizes: []int{4, 3, 3}},
		{name: "single chunk", n: 1, sizes: []int{10}},
		{name: "more workers than items", n: 12, sizes: []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := splitChunks(items, tt.n)
			require.Len(t, chunks, len(tt.sizes))

			total := 0
			for i, chunk := range chunks {
				assert.Len(t, chunk, tt.sizes[i])
				total += len(chunk)
			}
			assert.Equal(t, len(items), total)
		})
	}
}
