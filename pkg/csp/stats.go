package csp

import "fmt"

// Statistics is the per-worker counters of spec.md §3: nodes, fails,
// solutions, depth_max, exhaustive flag, fixpoint_iterations, and the
// best bound observed by that worker. It is combined across workers by
// the associative, commutative Join.
type Statistics struct {
	Nodes              int64
	Fails              int64
	Solutions          int64
	DepthMax           int
	Exhaustive         bool
	FixpointIterations int64

	// BestBound is the best (lowest, for minimization) objective upper
	// bound this worker observed, or nil if it found no candidate.
	BestBound *int
}

// Join combines two Statistics records: sums for counts, max for depth,
// min for best_bound, logical-and for exhaustive (spec.md §3).
func (s Statistics) Join(other Statistics) Statistics {
	out := Statistics{
		Nodes:              s.Nodes + other.Nodes,
		Fails:              s.Fails + other.Fails,
		Solutions:          s.Solutions + other.Solutions,
		FixpointIterations: s.FixpointIterations + other.FixpointIterations,
		Exhaustive:         s.Exhaustive && other.Exhaustive,
	}
	if s.DepthMax > other.DepthMax {
		out.DepthMax = s.DepthMax
	} else {
		out.DepthMax = other.DepthMax
	}
	out.BestBound = minBound(s.BestBound, other.BestBound)
	return out
}

func minBound(a, b *int) *int {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *a <= *b:
		return a
	default:
		return b
	}
}

// JoinAll folds Join across a slice, starting from an exhaustive-true
// identity element so an empty or single-worker run still reports
// correctly.
func JoinAll(stats []Statistics) Statistics {
	out := Statistics{Exhaustive: true}
	for _, s := range stats {
		out = out.Join(s)
	}
	return out
}

func (s Statistics) String() string {
	bb := "none"
	if s.BestBound != nil {
		bb = fmt.Sprintf("%d", *s.BestBound)
	}
	return fmt.Sprintf(
		"nodes=%d fails=%d solutions=%d depth_max=%d exhaustive=%v fixpoint_iterations=%d best_bound=%s",
		s.Nodes, s.Fails, s.Solutions, s.DepthMax, s.Exhaustive, s.FixpointIterations, bb,
	)
}
