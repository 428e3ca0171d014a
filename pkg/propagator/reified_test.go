package propagator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/ivcp/pkg/ivstore"
)

// Scenario 4 of spec.md §8: b <=> (x <= y-1 and y <= x+3).
func TestReifiedForcesBTrueWhenAssignmentSatisfies(t *testing.T) {
	store := ivstore.New(4) // 0:sentinel 1:b 2:x 3:y
	store.Dom(1, ivstore.Interval{Lb: 0, Ub: 1})
	store.Assign(2, 2)
	store.Assign(3, 4)
	t1 := NewTemporal(2, 3, 1)  // x+1<=y : 2+1<=4 true
	t2 := NewTemporal(3, 2, -3) // y-3<=x : 4-3<=2 true
	r := NewReified(1, t1, t2)

	r.Propagate(store)
	require.True(t, store.Get(1).IsAssigned())
	require.Equal(t, 1, store.Get(1).SingletonValue())
}

func TestReifiedForcesBFalseWhenAssignmentViolates(t *testing.T) {
	store := ivstore.New(4)
	store.Dom(1, ivstore.Interval{Lb: 0, Ub: 1})
	store.Assign(2, 3)
	store.Assign(3, 3)
	t1 := NewTemporal(2, 3, 1)  // x+1<=y : 3+1<=3 false -> disentailed
	t2 := NewTemporal(3, 2, -3) // y-3<=x : 0<=3 true
	r := NewReified(1, t1, t2)

	r.Propagate(store)
	require.True(t, store.Get(1).IsAssigned())
	require.Equal(t, 0, store.Get(1).SingletonValue())
}

func TestReifiedBTrueForcesConjunction(t *testing.T) {
	store := ivstore.New(4)
	store.Assign(1, 1)
	store.Dom(2, ivstore.Interval{Lb: 0, Ub: 10})
	store.Dom(3, ivstore.Interval{Lb: 0, Ub: 10})
	t1 := NewTemporal(2, 3, 1)
	t2 := NewTemporal(3, 2, -3)
	r := NewReified(1, t1, t2)

	r.Propagate(store)
	require.Equal(t, 1, store.Get(3).Lb) // y >= x+1 >= 1
}

func TestReifiedBFalseNarrowsUnentailedConjunct(t *testing.T) {
	store := ivstore.New(4)
	store.Assign(1, 0)
	store.Assign(2, 0) // x=0, makes t1 (x+1<=y) entailed once y>=1... force entailed directly
	store.Dom(3, ivstore.Interval{Lb: 1, Ub: 10})
	t1 := NewTemporal(2, 3, 1)  // x+1<=y: 0+1<=y, entailed since lb(y)=1
	t2 := NewTemporal(3, 2, -3) // y-3<=x: want to force negation (y-3>x) since t1 entailed
	r := NewReified(1, t1, t2)

	require.True(t, t1.IsEntailed(store))
	r.Propagate(store)
	// negation of t2 (y<=x+3) is y>=x+4; with x=0 that forces lb(y)>=4.
	require.Equal(t, 4, store.Get(3).Lb)
	require.False(t, store.IsTop())
}
