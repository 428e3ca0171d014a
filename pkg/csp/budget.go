package csp

import (
	"sync/atomic"
	"time"
)

// budget tracks the shared, cross-worker early-exit conditions of
// spec.md §5/§6.2: a node budget, a solution budget, a wall-clock
// timeout, and an explicit stop flag. stop_after_n_solutions and
// stop_after_n_nodes are independent conditions, each of which sets
// exhaustive = false when triggered (spec.md §9, Open Questions).
type budget struct {
	stop         atomic.Bool
	nodes        atomic.Int64
	solutions    atomic.Int64
	maxNodes     int64
	maxSolutions int
	deadline     time.Time
}

func newBudget(cfg Config, start time.Time) *budget {
	b := &budget{maxNodes: cfg.StopAfterNNodes, maxSolutions: cfg.StopAfterNSolutions}
	if cfg.Timeout > 0 {
		b.deadline = start.Add(cfg.Timeout)
	}
	return b
}

// Stop requests all workers halt at their next check point (spec.md §5,
// "Cancellation and timeouts").
func (b *budget) Stop() { b.stop.Store(true) }

// Exceeded reports whether any configured budget has been hit.
func (b *budget) Exceeded() bool {
	if b.stop.Load() {
		return true
	}
	if b.maxNodes > 0 && b.nodes.Load() >= b.maxNodes {
		return true
	}
	if b.maxSolutions > 0 && b.solutions.Load() >= int64(b.maxSolutions) {
		return true
	}
	if !b.deadline.IsZero() && time.Now().After(b.deadline) {
		return true
	}
	return false
}

func (b *budget) recordNode()     { b.nodes.Add(1) }
func (b *budget) recordSolution() { b.solutions.Add(1) }
