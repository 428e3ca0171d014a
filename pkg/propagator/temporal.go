package propagator

import "github.com/gitrdm/ivcp/pkg/ivstore"

// Temporal enforces x + k <= y over signed variable indices x, y
// (spec.md §3, §4.2). Because the indices are signed, the same
// constraint can also be written over negation views:
// (-y) + k <= (-x) is equivalent to x + k <= y.
type Temporal struct {
	uid  int64
	X, Y int
	K    int
}

// NewTemporal registers a new x + k <= y propagator.
func NewTemporal(x, y, k int) *Temporal {
	return &Temporal{uid: nextUID(), X: x, Y: y, K: k}
}

func (p *Temporal) UID() int64 { return p.uid }

// Propagate applies the two sound narrowing rules spec.md §4.2
// specifies for x + k <= y:
//
//	lb(y) := max(lb(y), lb(x) + k)
//	ub(x) := min(ub(x), ub(y) - k)
func (p *Temporal) Propagate(store *ivstore.VStore) bool {
	x := store.Get(p.X)
	y := store.Get(p.Y)
	changedY := store.UpdateLB(p.Y, x.Lb+p.K)
	if store.IsTop() {
		return changedY
	}
	changedX := store.UpdateUB(p.X, y.Ub-p.K)
	return changedY || changedX
}

// IsEntailed holds when ub(x) + k <= lb(y) (spec.md §4.2).
func (p *Temporal) IsEntailed(store *ivstore.VStore) bool {
	x := store.Get(p.X)
	y := store.Get(p.Y)
	return x.Ub+p.K <= y.Lb
}

// IsDisentailed holds when lb(x) + k > ub(y) (spec.md §4.2).
func (p *Temporal) IsDisentailed(store *ivstore.VStore) bool {
	x := store.Get(p.X)
	y := store.Get(p.Y)
	return x.Lb+p.K > y.Ub
}

func (p *Temporal) Vars() []int { return []int{p.X, p.Y} }
