// Package scheduler runs a job at a fixed interval.
package scheduler

import (
	"context"
	"time"

	"github.com/mhittle/mikenews/internal/logger"
)

type Scheduler struct {
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func New(interval time.Duration) *Scheduler {
	return &Scheduler{
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the ticker loop. The first run happens one full
// interval after Start; callers wanting an immediate run trigger the
// job themselves. The loop exits when the context is cancelled or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context, job func(context.Context)) {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		logger.Info("scheduler started", "interval", s.interval.String())
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				job(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for it to exit. A job already in
// flight finishes first.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
	logger.Info("scheduler stopped")
}
