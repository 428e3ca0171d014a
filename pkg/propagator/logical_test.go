package propagator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/ivcp/pkg/ivstore"
)

func TestLogicalAndPropagatesBothConjuncts(t *testing.T) {
	store := ivstore.New(4)
	store.Dom(1, ivstore.Interval{Lb: 0, Ub: 10})
	store.Dom(2, ivstore.Interval{Lb: 0, Ub: 10})
	store.Dom(3, ivstore.Interval{Lb: 0, Ub: 10})
	t1 := NewTemporal(1, 2, 1) // x+1<=y
	t2 := NewTemporal(2, 3, 1) // y+1<=z
	and := NewLogicalAnd(t1, t2)

	changed := and.Propagate(store)
	require.True(t, changed)
	require.Equal(t, 1, store.Get(2).Lb)
	require.Equal(t, 2, store.Get(3).Lb)
}

func TestLogicalAndEntailmentRequiresBoth(t *testing.T) {
	store := ivstore.New(4)
	store.Dom(1, ivstore.Interval{Lb: 0, Ub: 0})
	store.Dom(2, ivstore.Interval{Lb: 5, Ub: 5})
	store.Dom(3, ivstore.Interval{Lb: 0, Ub: 0}) // violates y+1<=z
	t1 := NewTemporal(1, 2, 1)
	t2 := NewTemporal(2, 3, 1)
	and := NewLogicalAnd(t1, t2)

	require.True(t, t1.IsEntailed(store))
	require.False(t, and.IsEntailed(store))
	require.True(t, and.IsDisentailed(store))
}

func TestLogicalAndStopsEarlyOnTop(t *testing.T) {
	store := ivstore.New(3)
	store.Dom(1, ivstore.Interval{Lb: 5, Ub: 10})
	t1 := NewTemporal(1, 1, 4) // x + 4 <= x: unsatisfiable alone
	t2 := NewTemporal(1, 1, 0)
	and := NewLogicalAnd(t1, t2)
	and.Propagate(store)
	require.True(t, store.IsTop())
}
