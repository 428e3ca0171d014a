package csp

import "sync/atomic"

// BestBound is the shared single-cell interval for the objective
// variable described in spec.md §3/§4.5: it starts at the full domain
// and monotonically tightens as workers publish improving candidates.
// Only the upper bound is ever published (minimization frontier, per
// spec.md §9's standardization of "best_bound" to an interval cell).
type BestBound struct {
	ub atomic.Int64
}

// NewBestBound creates a cell with no known candidate yet.
func NewBestBound() *BestBound {
	b := &BestBound{}
	b.ub.Store(int64(noBoundSentinel))
	return b
}

const noBoundSentinel = 1<<62 - 1

// UB returns the current upper bound, or (ok=false) if no candidate has
// been published yet.
func (b *BestBound) UB() (value int, ok bool) {
	v := b.ub.Load()
	if v == noBoundSentinel {
		return 0, false
	}
	return int(v), true
}

// TightenUpperBound attempts to publish candidate as the new upper
// bound via a CAS-retry loop, succeeding only if candidate is strictly
// smaller than the current value (spec.md §4.5's monotone CAS loop,
// §8's "monotone best-bound" property).
func (b *BestBound) TightenUpperBound(candidate int) bool {
	for {
		old := b.ub.Load()
		if old != noBoundSentinel && int64(candidate) >= old {
			return false
		}
		if b.ub.CompareAndSwap(old, int64(candidate)) {
			return true
		}
	}
}
