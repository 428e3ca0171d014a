package workerpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunSweepCompletesAllTasks(t *testing.T) {
	p := New(4, nil)
	defer p.Close()

	var counter atomic.Int64
	tasks := make([]func(), 20)
	for i := range tasks {
		tasks[i] = func() { counter.Add(1) }
	}

	require.NoError(t, p.RunSweep(context.Background(), tasks))
	require.Equal(t, int64(20), counter.Load())
}

func TestRunSweepIsBarrier(t *testing.T) {
	p := New(3, nil)
	defer p.Close()

	var done atomic.Bool
	tasks := []func(){
		func() { time.Sleep(20 * time.Millisecond); done.Store(true) },
	}
	require.NoError(t, p.RunSweep(context.Background(), tasks))
	require.True(t, done.Load())
}

func TestRunSweepAfterCloseFails(t *testing.T) {
	p := New(2, nil)
	p.Close()

	err := p.RunSweep(context.Background(), []func(){func() {}})
	require.ErrorIs(t, err, ErrPoolClosed)
}

func TestRunSweepRespectsContextCancellation(t *testing.T) {
	p := New(1, nil)
	defer p.Close()

	// Occupy the single helper with a long-running task so the second
	// RunSweep's dispatch blocks until the context is cancelled.
	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = p.RunSweep(context.Background(), []func(){func() {
			close(started)
			<-release
		}})
	}()
	<-started
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := p.RunSweep(ctx, []func(){func() {}, func() {}})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewDefaultsToNumCPU(t *testing.T) {
	p := New(0, nil)
	defer p.Close()
	require.Greater(t, p.Size(), 0)
}

func TestCloseIsIdempotent(t *testing.T) {
	p := New(2, nil)
	p.Close()
	require.NotPanics(t, func() { p.Close() })
}
