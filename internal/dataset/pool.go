package dataset

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tagpull/tagpull/internal/domain"
	"github.com/tagpull/tagpull/internal/errors"
	"github.com/tagpull/tagpull/internal/tags"
)

// Job is the per-subset unit of output work: transform each item's tags,
// write its caption, and download its image.
type Job struct {
	Items      []*domain.PostItem
	OutputPath string

	// Pipeline is nil when captioning is disabled for the subset.
	Pipeline   *tags.Pipeline
	CaptionExt string
	Overwrite  bool
}

// Process fans the job's items out over a fixed-size worker pool. Each worker
// owns a disjoint chunk, so no item is ever touched by two goroutines. Item
// failures are collected, not fatal: the rest of the chunk keeps going and
// files already written stay on disk.
func Process(ctx context.Context, job Job, workers int, logger *slog.Logger) error {
	if len(job.Items) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(job.Items) {
		workers = len(job.Items)
	}

	writer := NewWriter(logger)
	downloader := NewDownloader(logger)
	tracker := NewTracker(len(job.Items), logger)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)

	for _, chunk := range splitChunks(job.Items, workers) {
		wg.Add(1)
		go func(items []*domain.PostItem) {
			defer wg.Done()
			for _, item := range items {
				if ctx.Err() != nil {
					return
				}
				if err := processItem(ctx, job, item, writer, downloader); err != nil {
					logger.Warn("post failed", "id", item.Post.ID, "error", err)
					mu.Lock()
					failures = append(failures, err)
					mu.Unlock()
					continue
				}
				tracker.Increment()
			}
		}(chunk)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Join(failures...)
}

func processItem(ctx context.Context, job Job, item *domain.PostItem, writer *Writer, downloader *Downloader) error {
	if job.Pipeline != nil {
		if _, err := job.Pipeline.Apply(item); err != nil {
			return err
		}
		caption := job.Pipeline.Caption(item)
		if err := writer.SaveCaption(job.OutputPath, item.Post.ID, job.CaptionExt, caption, job.Overwrite); err != nil {
			return err
		}
	}

	return downloader.Download(ctx, item.Post.DownloadURL(), job.OutputPath, item.Post.ID, item.Post.FileExt)
}

// splitChunks divides items into n contiguous chunks of near-equal size.
func splitChunks(items []*domain.PostItem, n int) [][]*domain.PostItem {
	chunks := make([][]*domain.PostItem, 0, n)
	size := len(items) / n
	rem := len(items) % n

	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rem {
			end++
		}
		if start == end {
			continue
		}
		chunks = append(chunks, items[start:end])
		start = end
	}
	return chunks
}
