package propagator

import "github.com/gitrdm/ivcp/pkg/ivstore"

// LogicalAnd is the conjunction of two propagators (spec.md §3, §4.2).
// It owns its sub-propagators; the overall propagator set stays a
// forest (spec.md §9, "Cyclic references: None required").
type LogicalAnd struct {
	uid    int64
	P1, P2 Propagator
}

// NewLogicalAnd registers a new conjunction propagator.
func NewLogicalAnd(p1, p2 Propagator) *LogicalAnd {
	return &LogicalAnd{uid: nextUID(), P1: p1, P2: p2}
}

func (p *LogicalAnd) UID() int64 { return p.uid }

// Propagate runs P1 then P2; changed iff either changed (spec.md §4.2).
func (p *LogicalAnd) Propagate(store *ivstore.VStore) bool {
	c1 := p.P1.Propagate(store)
	if store.IsTop() {
		return c1
	}
	c2 := p.P2.Propagate(store)
	return c1 || c2
}

// IsEntailed holds iff both conjuncts are entailed.
func (p *LogicalAnd) IsEntailed(store *ivstore.VStore) bool {
	return p.P1.IsEntailed(store) && p.P2.IsEntailed(store)
}

// IsDisentailed holds iff either conjunct is disentailed.
func (p *LogicalAnd) IsDisentailed(store *ivstore.VStore) bool {
	return p.P1.IsDisentailed(store) || p.P2.IsDisentailed(store)
}

func (p *LogicalAnd) Vars() []int {
	return append(append([]int{}, p.P1.Vars()...), p.P2.Vars()...)
}
