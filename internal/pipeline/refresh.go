package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Refresher re-runs the pipeline on a fixed interval so the committed
// collection stays warm without client-triggered refreshes.
type Refresher struct {
	pipeline *Pipeline
	interval time.Duration
	log      *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRefresher creates a refresher. An interval of zero or less disables it.
func NewRefresher(p *Pipeline, interval time.Duration, log *slog.Logger) *Refresher {
	if log == nil {
		log = slog.Default()
	}
	return &Refresher{pipeline: p, interval: interval, log: log}
}

// Start launches the refresh loop. It is a no-op when the interval is
// disabled or the loop is already running.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.interval <= 0 || r.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.loop(ctx, r.done)
	r.log.Info("background refresh enabled", "interval", r.interval)
}

// Stop halts the refresh loop and waits for an in-flight run to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *Refresher) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.pipeline.Run(ctx, RunOptions{}); err != nil {
				r.log.Warn("background refresh failed", "error", err)
			}
		}
	}
}
