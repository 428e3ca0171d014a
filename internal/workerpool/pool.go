// Package workerpool provides a fixed-size goroutine pool used by the
// And-parallel tier of the solver: a single search worker's fixpoint
// sweep is partitioned across a small, constant number of helpers that
// synchronize at a barrier between sweeps (spec.md §4.5, §5).
//
// Unlike an elastic pool sized to queue depth, this pool never scales:
// the helper count H is fixed for the lifetime of a search worker, so
// the only operation needed is "run these N closures to completion".
package workerpool

import (
	"context"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrPoolClosed is returned by RunSweep after Close has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a fixed-size worker pool dedicated to running one fixpoint
// sweep's partitioned propagator tasks at a time.
type Pool struct {
	size   int
	tasks  chan func()
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
	log    *logrus.Logger
	closed bool
	mu     sync.Mutex
}

// New creates a pool with the given number of helper goroutines. A
// size <= 0 defaults to runtime.NumCPU(), matching the teacher's
// static-pool default.
func New(size int, log *logrus.Logger) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if log == nil {
		log = logrus.New()
	}
	p := &Pool{
		size:  size,
		tasks: make(chan func()),
		done:  make(chan struct{}),
		log:   log,
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			task()
		case <-p.done:
			return
		}
	}
}

// RunSweep dispatches each task and blocks until all have completed,
// acting as the barrier described in spec.md §5 between propagation
// sweeps. It is safe to call RunSweep repeatedly across many sweeps.
func (p *Pool) RunSweep(ctx context.Context, tasks []func()) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for _, t := range tasks {
		t := t
		wrapped := func() {
			defer wg.Done()
			t()
		}
		select {
		case p.tasks <- wrapped:
		case <-ctx.Done():
			wg.Done()
			return ctx.Err()
		case <-p.done:
			wg.Done()
			return ErrPoolClosed
		}
	}
	wg.Wait()
	return nil
}

// Size reports the fixed number of helper goroutines.
func (p *Pool) Size() int { return p.size }

// Close shuts the pool down. It is idempotent.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.done)
		p.wg.Wait()
		p.log.WithField("helpers", p.size).Debug("workerpool closed")
	})
}
