package auction

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler drives clock-based transitions: it periodically sweeps for
// rooms whose bidding deadline has elapsed and finalizes them. Clients
// observing expiry call ExpireAndFinalize themselves; both paths race
// safely because finalization is conditional on the bidding phase.
type Scheduler struct {
	engine   *Engine
	interval time.Duration
	ticker   *time.Ticker
	shutdown chan struct{}
}

func NewScheduler(engine *Engine, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Scheduler{
		engine:   engine,
		interval: interval,
		shutdown: make(chan struct{}),
	}
}

// Start begins the sweep loop.
func (s *Scheduler) Start() {
	s.ticker = time.NewTicker(s.interval)

	go func() {
		defer s.ticker.Stop()

		for {
			select {
			case <-s.ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				s.engine.SweepExpired(ctx)
				cancel()
			case <-s.shutdown:
				return
			}
		}
	}()

	slog.Info("Auction scheduler started",
		slog.Duration("interval", s.interval))
}

// Shutdown stops the sweep loop.
func (s *Scheduler) Shutdown() {
	close(s.shutdown)
	slog.Info("Auction scheduler shutdown completed")
}
