package dataset

import (
	"log/slog"
	"sync"
)

// Tracker counts completed items across workers. Increments are append-only
// and safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	done   int
	total  int
	logger *slog.Logger
}

// NewTracker creates a tracker for total items.
func NewTracker(total int, logger *slog.Logger) *Tracker {
	return &Tracker{total: total, logger: logger}
}

// Increment records one completed item.
func (t *Tracker) Increment() {
	t.mu.Lock()
	t.done++
	done, total := t.done, t.total
	t.mu.Unlock()

	// Log every tenth item and the final one; per-item lines drown the output.
	if done == total || done%10 == 0 {
		t.logger.Info("progress", "done", done, "total", total)
	}
}

// Done returns the number of completed items.
func (t *Tracker) Done() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}
