package propagator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/ivcp/internal/workerpool"
	"github.com/gitrdm/ivcp/pkg/ivstore"
)

func TestRunFixpointIdempotence(t *testing.T) {
	store := ivstore.New(3)
	store.Dom(1, ivstore.Interval{Lb: 0, Ub: 10})
	store.Dom(2, ivstore.Interval{Lb: 0, Ub: 10})
	props := []Propagator{NewTemporal(1, 2, 1)}

	Run(store, props)
	snap := store.Clone()
	Run(store, props)
	require.Equal(t, snap.Get(1), store.Get(1))
	require.Equal(t, snap.Get(2), store.Get(2))
}

func TestRunStopsOnTop(t *testing.T) {
	store := ivstore.New(2)
	store.Dom(1, ivstore.Interval{Lb: 5, Ub: 10})
	props := []Propagator{NewLinearIneq([]int{1}, []int{1}, 4)}
	sweeps := Run(store, props)
	require.True(t, store.IsTop())
	require.Equal(t, 1, sweeps)
}

func TestRunTrivialSatScenario(t *testing.T) {
	// spec.md §8 scenario 1
	store := ivstore.New(3)
	store.Dom(1, ivstore.Interval{Lb: 0, Ub: 2})
	store.Dom(2, ivstore.Interval{Lb: 0, Ub: 2})
	props := []Propagator{NewTemporal(1, 2, 1)}
	Run(store, props)
	require.Equal(t, 0, store.Get(1).Lb)
	require.Equal(t, 1, store.Get(1).Ub) // x can be at most 1 (y<=2)
	require.Equal(t, 1, store.Get(2).Lb)
	require.Equal(t, 2, store.Get(2).Ub)
}

func TestRunParallelMatchesSequential(t *testing.T) {
	build := func() (*ivstore.VStore, []Propagator) {
		s := ivstore.New(5)
		s.Dom(1, ivstore.Interval{Lb: 0, Ub: 20})
		s.Dom(2, ivstore.Interval{Lb: 0, Ub: 20})
		s.Dom(3, ivstore.Interval{Lb: 0, Ub: 20})
		s.Dom(4, ivstore.Interval{Lb: 0, Ub: 20})
		props := []Propagator{
			NewTemporal(1, 2, 1),
			NewTemporal(2, 3, 1),
			NewLinearIneq([]int{3, 4}, []int{1, 1}, 25),
		}
		return s, props
	}

	seqStore, seqProps := build()
	Run(seqStore, seqProps)

	parStore, parProps := build()
	pool := workerpool.New(2, nil)
	defer pool.Close()
	_, err := RunParallel(context.Background(), parStore, parProps, pool)
	require.NoError(t, err)

	for v := 1; v <= 4; v++ {
		require.Equal(t, seqStore.Get(v), parStore.Get(v), "variable %d diverged", v)
	}
}

// TestRunParallelDisjointPartitionsConcurrentTop builds propagator
// groups over entirely disjoint variables, so partitionByDependency
// places them in separate buckets that genuinely run on concurrent
// goroutines within the same sweep (unlike
// TestRunParallelMatchesSequential, where every propagator shares a
// variable transitively and all land in one bucket). One partition
// drives its store to top; every partition's goroutine reads and can
// write VStore's shared top flag on every Propagate call. Run with
// `go test -race` to catch an unsynchronized top flag.
func TestRunParallelDisjointPartitionsConcurrentTop(t *testing.T) {
	s := ivstore.New(7)
	s.Dom(1, ivstore.Interval{Lb: 0, Ub: 10})
	s.Dom(2, ivstore.Interval{Lb: 0, Ub: 10})
	s.Dom(3, ivstore.Interval{Lb: 5, Ub: 10}) // will be driven to top
	s.Dom(4, ivstore.Interval{Lb: 0, Ub: 10})
	s.Dom(5, ivstore.Interval{Lb: 0, Ub: 10})
	s.Dom(6, ivstore.Interval{Lb: 0, Ub: 10})

	props := []Propagator{
		NewTemporal(1, 2, 1),                   // partition A: {1,2}
		NewLinearIneq([]int{3}, []int{1}, 4),   // partition B: {3} -- unsat
		NewTemporal(4, 5, 1),                   // partition C: {4,5}
		NewLinearIneq([]int{6}, []int{1}, 100), // partition D: {6}
	}

	pool := workerpool.New(4, nil)
	defer pool.Close()
	_, err := RunParallel(context.Background(), s, props, pool)
	require.NoError(t, err)
	require.True(t, s.IsTop())
}
