package propagator

import "github.com/gitrdm/ivcp/pkg/ivstore"

// Reified enforces b <=> (T1 and T2) where b is a 0/1 variable and T1,
// T2 are Temporal constraints (spec.md §3, §4.2). The RHS shape is
// restricted to LogicalAnd(Temporal, Temporal): spec.md §9 notes the
// general b=0 propagation rule is under-specified in the source, so
// this is the faithful, deliberately narrow restriction.
type Reified struct {
	uid    int64
	B      int
	T1, T2 *Temporal
	P      *LogicalAnd

	// negT1, negT2 propagate the negation of T1/T2 respectively, built
	// once at registration (spec.md §4.2: "strengthening whichever
	// conjunct's negation is currently forced").
	negT1, negT2 *Temporal
}

// negate returns the Temporal enforcing NOT(x + k <= y), i.e. x+k > y,
// rewritten as y + (1-k) <= x.
func negate(t *Temporal) *Temporal {
	return NewTemporal(t.Y, t.X, 1-t.K)
}

// NewReified registers a new reified propagator b <=> (t1 and t2).
func NewReified(b int, t1, t2 *Temporal) *Reified {
	return &Reified{
		uid:   nextUID(),
		B:     b,
		T1:    t1,
		T2:    t2,
		P:     NewLogicalAnd(t1, t2),
		negT1: negate(t1),
		negT2: negate(t2),
	}
}

func (p *Reified) UID() int64 { return p.uid }

// Propagate implements spec.md §4.2's reified rule:
//
//	b fixed to 1: propagate P.
//	b fixed to 0: propagate a negation witness -- if one conjunct is
//	  already entailed, narrow the other to its negation.
//	b free: assign b:=1 if P entailed, b:=0 if P disentailed.
func (p *Reified) Propagate(store *ivstore.VStore) bool {
	b := store.Get(p.B)
	if b.IsAssigned() {
		switch b.SingletonValue() {
		case 1:
			return p.P.Propagate(store)
		case 0:
			switch {
			case p.T1.IsEntailed(store):
				return p.negT2.Propagate(store)
			case p.T2.IsEntailed(store):
				return p.negT1.Propagate(store)
			default:
				return false
			}
		}
		return false
	}

	if p.P.IsEntailed(store) {
		return store.Assign(p.B, 1)
	}
	if p.P.IsDisentailed(store) {
		return store.Assign(p.B, 0)
	}
	return false
}

// IsEntailed holds once b is fixed consistently with P's current truth.
func (p *Reified) IsEntailed(store *ivstore.VStore) bool {
	b := store.Get(p.B)
	if !b.IsAssigned() {
		return false
	}
	if b.SingletonValue() == 1 {
		return p.P.IsEntailed(store)
	}
	return p.P.IsDisentailed(store)
}

// IsDisentailed holds if b is fixed inconsistently with P's current
// truth (e.g. b=1 but P already disentailed).
func (p *Reified) IsDisentailed(store *ivstore.VStore) bool {
	b := store.Get(p.B)
	if !b.IsAssigned() {
		return false
	}
	if b.SingletonValue() == 1 {
		return p.P.IsDisentailed(store)
	}
	return p.P.IsEntailed(store)
}

func (p *Reified) Vars() []int {
	return append([]int{p.B}, p.P.Vars()...)
}
