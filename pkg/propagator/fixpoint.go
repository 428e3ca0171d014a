package propagator

import (
	"context"
	"sync/atomic"

	"github.com/gitrdm/ivcp/internal/workerpool"
	"github.com/gitrdm/ivcp/pkg/ivstore"
)

// Run iterates propagators in registration order until a full sweep
// makes no change, or the store becomes top (spec.md §4.3). It returns
// the number of sweeps performed, counted into fixpoint_iterations by
// the caller.
func Run(store *ivstore.VStore, props []Propagator) int {
	sweeps := 0
	for {
		sweeps++
		changed := false
		for _, p := range props {
			if p.Propagate(store) {
				changed = true
			}
			if store.IsTop() {
				return sweeps
			}
		}
		if !changed {
			return sweeps
		}
	}
}

// RunParallel is the And-parallel variant of Run: within each sweep,
// props is partitioned across pool's helper slots and each partition
// is propagated concurrently via pool, synchronizing at a barrier
// before the next sweep begins (spec.md §4.5, §5).
//
// The partitioner groups propagators into variable-disjoint buckets
// (connected components of the constraint hypergraph over shared
// variables, bin-packed across the available helper slots -- the same
// dependency-grouping idea the teacher's FD propagator coordinator
// uses to avoid cross-worker conflicts). Because no two concurrently
// running partitions ever narrow the same slot, ordinary VStore
// narrowing is race-free without a CAS loop on the hot path; the
// lock-free AtomicNarrowLB/AtomicNarrowUB updaters on VStore remain
// available for call sites that must share a slot across helpers
// (spec.md §9).
func RunParallel(ctx context.Context, store *ivstore.VStore, props []Propagator, pool *workerpool.Pool) (int, error) {
	sweeps := 0
	partitions := partitionByDependency(props, pool.Size())
	for {
		sweeps++
		var anyChanged atomic.Bool

		tasks := make([]func(), 0, len(partitions))
		for _, part := range partitions {
			part := part
			tasks = append(tasks, func() {
				for _, p := range part {
					if store.IsTop() {
						return
					}
					if p.Propagate(store) {
						anyChanged.Store(true)
					}
				}
			})
		}
		if err := pool.RunSweep(ctx, tasks); err != nil {
			return sweeps, err
		}
		if store.IsTop() {
			return sweeps, nil
		}
		if !anyChanged.Load() {
			return sweeps, nil
		}
	}
}

// partitionByDependency groups props into at most n variable-disjoint
// buckets. Propagators sharing a variable (by absolute index, so a
// view and its negation count as the same slot) always land in the
// same bucket; components are then bin-packed greedily by propagator
// count into whichever of the n buckets currently holds the fewest, so
// no bucket is starved when one component dominates.
func partitionByDependency(props []Propagator, n int) [][]Propagator {
	if n <= 0 {
		n = 1
	}
	parent := map[int]int{}
	var find func(int) int
	find = func(x int) int {
		if p, ok := parent[x]; ok && p != x {
			parent[x] = find(p)
			return parent[x]
		}
		parent[x] = x
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for _, p := range props {
		vs := p.Vars()
		for _, v := range vs {
			av := v
			if av < 0 {
				av = -av
			}
			find(av)
		}
		for i := 1; i < len(vs); i++ {
			a, b := vs[0], vs[i]
			if a < 0 {
				a = -a
			}
			if b < 0 {
				b = -b
			}
			union(a, b)
		}
	}

	components := map[int][]Propagator{}
	for _, p := range props {
		vs := p.Vars()
		if len(vs) == 0 {
			components[0] = append(components[0], p)
			continue
		}
		root := vs[0]
		if root < 0 {
			root = -root
		}
		root = find(root)
		components[root] = append(components[root], p)
	}

	buckets := make([][]Propagator, n)
	for _, comp := range components {
		smallest := 0
		for i := 1; i < n; i++ {
			if len(buckets[i]) < len(buckets[smallest]) {
				smallest = i
			}
		}
		buckets[smallest] = append(buckets[smallest], comp...)
	}

	out := make([][]Propagator, 0, n)
	for _, b := range buckets {
		if len(b) > 0 {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return [][]Propagator{{}}
	}
	return out
}
