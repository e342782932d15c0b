package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingSweeper struct {
	calls atomic.Int32
	ttl   atomic.Int64
}

func (s *countingSweeper) Sweep(ttl time.Duration) int {
	s.ttl.Store(int64(ttl))
	s.calls.Add(1)
	return 1
}

func TestRunSessionSweeper(t *testing.T) {
	t.Run("SweepsUntilCancelled", func(t *testing.T) {
		sweeper := &countingSweeper{}
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			RunSessionSweeper(ctx, sweeper, 5*time.Millisecond, time.Minute, zap.NewNop())
		}()

		assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, time.Millisecond)
		cancel()
		<-done
		assert.Equal(t, int64(time.Minute), sweeper.ttl.Load())
	})

	t.Run("DisabledReturnsImmediately", func(t *testing.T) {
		sweeper := &countingSweeper{}
		RunSessionSweeper(context.Background(), sweeper, 0, time.Minute, zap.NewNop())
		RunSessionSweeper(context.Background(), sweeper, time.Second, 0, zap.NewNop())
		assert.Zero(t, sweeper.calls.Load())
	})
}

func TestStartAuditWorkerNil(t *testing.T) {
	assert.NotPanics(t, func() { StartAuditWorker(nil) })
}
