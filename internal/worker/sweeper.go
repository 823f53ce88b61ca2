package worker

import (
	"context"
	"log/slog"
	"time"

	"ticket-booking/internal/usecase/commands"
)

// Sweeper runs the booking expiry pass on a fixed interval until stopped.
type Sweeper struct {
	sweep    commands.SweeperCommands
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweeper(sweep commands.SweeperCommands, interval time.Duration) *Sweeper {
	return &Sweeper{
		sweep:    sweep,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.run(ctx)
	slog.Info("booking expiry sweeper started", "interval", s.interval.String())
}

// Stop cancels the loop and waits for an in-flight pass to finish.
func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("booking expiry sweeper stopped")
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.sweep.Sweep(ctx); err != nil {
				slog.Error("expiry sweep failed", "error", err.Error())
			}
		}
	}
}
