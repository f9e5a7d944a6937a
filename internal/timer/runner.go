package timer

import (
	"context"
	"log/slog"
	"time"
)

// Runner ticks a Timer once per interval until its context is cancelled.
type Runner struct {
	Timer    *Timer
	Interval time.Duration
	// OnTick receives a snapshot after every tick that changed the timer.
	OnTick func(Snapshot)
	Logger *slog.Logger
}

// Run blocks until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	interval := r.Interval
	if interval <= 0 {
		interval = time.Second
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Debug("timer runner started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			logger.Debug("timer runner stopped")
			return
		case <-ticker.C:
			if !r.Timer.Tick() {
				continue
			}
			if r.OnTick != nil {
				r.OnTick(r.Timer.Snapshot())
			}
		}
	}
}
