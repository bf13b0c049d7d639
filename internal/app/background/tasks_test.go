package background

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) SweepExpiredPayments(ctx context.Context) (int, error) {
	s.calls.Add(1)
	return 0, s.err
}

func TestExpirySweepRunsUntilCancelled(t *testing.T) {
	sweeper := &countingSweeper{err: errors.New("db down")}
	tasks := NewBackgroundTasks(sweeper, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	tasks.StartAll(ctx)

	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	tasks.Wait()
	calls := sweeper.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, sweeper.calls.Load())
}

func TestNewBackgroundTasks_DefaultInterval(t *testing.T) {
	tasks := NewBackgroundTasks(&countingSweeper{}, 0)
	assert.Equal(t, 30*time.Second, tasks.SweepInterval)
}
