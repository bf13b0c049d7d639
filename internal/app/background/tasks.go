package background

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ExpirySweeper is the part of the payment usecase the sweep needs.
type ExpirySweeper interface {
	SweepExpiredPayments(ctx context.Context) (int, error)
}

type BackgroundTasks struct {
	Sweeper       ExpirySweeper
	SweepInterval time.Duration

	wg sync.WaitGroup
}

func NewBackgroundTasks(sweeper ExpirySweeper, sweepInterval time.Duration) *BackgroundTasks {
	if sweepInterval <= 0 {
		sweepInterval = 30 * time.Second
	}
	return &BackgroundTasks{
		Sweeper:       sweeper,
		SweepInterval: sweepInterval,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	bt.wg.Add(1)
	go func() {
		defer bt.wg.Done()
		bt.startExpirySweep(ctx)
	}()
}

// Wait blocks until every task has returned after ctx is cancelled.
func (bt *BackgroundTasks) Wait() {
	bt.wg.Wait()
}

func (bt *BackgroundTasks) startExpirySweep(ctx context.Context) {
	ticker := time.NewTicker(bt.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := bt.Sweeper.SweepExpiredPayments(ctx); err != nil && ctx.Err() == nil {
				slog.Error("expiry sweep failed", "error", err.Error())
			}
		}
	}
}
