// Package poll reconciles local state with backend-reported status for
// records still in flight. One watcher owns at most one polling loop per
// record id; loops stop on terminal status, on error, or on shutdown.
package poll

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval matches the fixed 2s re-check cadence of the web client.
const DefaultInterval = 2 * time.Second

// CheckFunc performs one status probe. It returns the reported status and
// whether that status is terminal. An error stops the loop for that id.
type CheckFunc func(ctx context.Context, id int64) (status string, terminal bool, err error)

// Config wires a watcher's dependencies.
type Config struct {
	Interval time.Duration
	Check    CheckFunc
	// OnUpdate fires after a non-terminal probe with the fresh status, so
	// callers can patch cached state in place without a full refetch.
	OnUpdate func(id int64, status string)
	// OnDone fires once when an id reaches terminal status, after the loop
	// has been removed. Callers typically refetch the full record here.
	OnDone func(id int64)
}

// Watcher runs one serialized polling loop per id. Probes happen inline on
// the tick, so a response that outlives the interval delays the next probe
// instead of overlapping it.
type Watcher struct {
	interval time.Duration
	check    CheckFunc
	onUpdate func(id int64, status string)
	onDone   func(id int64)

	mu      sync.Mutex
	cancels map[int64]context.CancelFunc
	closed  bool
	wg      sync.WaitGroup
}

// New constructs a watcher. Check is required.
func New(cfg Config) *Watcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		interval: interval,
		check:    cfg.Check,
		onUpdate: cfg.OnUpdate,
		onDone:   cfg.OnDone,
		cancels:  make(map[int64]context.CancelFunc),
	}
}

// Start begins polling id. It is idempotent: a second call for an id that is
// already being polled is a no-op and returns false.
func (w *Watcher) Start(ctx context.Context, id int64) bool {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return false
	}
	if _, exists := w.cancels[id]; exists {
		w.mu.Unlock()
		return false
	}
	loopCtx, cancel := context.WithCancel(ctx)
	w.cancels[id] = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go w.loop(loopCtx, id)
	return true
}

// Stop cancels the loop for id, if any.
func (w *Watcher) Stop(id int64) {
	w.mu.Lock()
	cancel, ok := w.cancels[id]
	if ok {
		delete(w.cancels, id)
	}
	w.mu.Unlock()
	if ok {
		cancel()
	}
}

// Active reports whether a loop currently exists for id.
func (w *Watcher) Active(id int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.cancels[id]
	return ok
}

// Len returns the number of active loops.
func (w *Watcher) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.cancels)
}

// Close cancels every loop and waits for them to exit. No callback fires
// after Close returns.
func (w *Watcher) Close() {
	w.mu.Lock()
	w.closed = true
	cancels := make([]context.CancelFunc, 0, len(w.cancels))
	for id, cancel := range w.cancels {
		cancels = append(cancels, cancel)
		delete(w.cancels, id)
	}
	w.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
	w.wg.Wait()
}

func (w *Watcher) loop(ctx context.Context, id int64) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		status, terminal, err := w.check(ctx, id)
		// A stop that raced the in-flight probe wins: no callback after it.
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			// Transient errors are not retried; the record goes stale until
			// the caller reloads. Matches the web client's silent stop.
			slog.Debug("status poll stopped on error", "id", id, "err", err)
			w.remove(id)
			return
		}
		if terminal {
			w.remove(id)
			if w.onDone != nil {
				w.onDone(id)
			}
			return
		}
		if w.onUpdate != nil {
			w.onUpdate(id, status)
		}
	}
}

func (w *Watcher) remove(id int64) {
	w.mu.Lock()
	if cancel, ok := w.cancels[id]; ok {
		delete(w.cancels, id)
		// Release the context; the loop is returning on its own.
		defer cancel()
	}
	w.mu.Unlock()
}
