package propagator

import "github.com/gitrdm/ivcp/pkg/ivstore"

// LinearIneq enforces sum(coefs[i]*vars[i]) <= c (spec.md §3, §4.2).
type LinearIneq struct {
	uid   int64
	vars  []int
	coefs []int
	c     int
}

// NewLinearIneq registers a new linear-inequality propagator. vars and
// coefs must have equal length.
func NewLinearIneq(vars []int, coefs []int, c int) *LinearIneq {
	if len(vars) != len(coefs) {
		panic("propagator: NewLinearIneq requires len(vars) == len(coefs)")
	}
	return &LinearIneq{uid: nextUID(), vars: vars, coefs: coefs, c: c}
}

func (p *LinearIneq) UID() int64 { return p.uid }

// lowerContrib is cj*lb(xj) if cj >= 0, else cj*ub(xj) -- the minimal
// contribution term j can make to the sum, per spec.md §4.2.
func lowerContrib(store *ivstore.VStore, v, c int) int {
	itv := store.Get(v)
	if c >= 0 {
		return c * itv.Lb
	}
	return c * itv.Ub
}

// upperContrib is the maximal contribution term j can make.
func upperContrib(store *ivstore.VStore, v, c int) int {
	itv := store.Get(v)
	if c >= 0 {
		return c * itv.Ub
	}
	return c * itv.Lb
}

// Propagate implements the bound-consistency rule of spec.md §4.2: for
// each term i, slack = c - sum_{j != i} lowerContrib(j); then narrow
// xi's bound according to the sign of ci, with floor/ceil rounding.
func (p *LinearIneq) Propagate(store *ivstore.VStore) bool {
	n := len(p.vars)
	lows := make([]int, n)
	sumLow := 0
	for i := range p.vars {
		lows[i] = lowerContrib(store, p.vars[i], p.coefs[i])
		sumLow += lows[i]
	}

	changed := false
	for i := 0; i < n; i++ {
		if store.IsTop() {
			return changed
		}
		ci := p.coefs[i]
		if ci == 0 {
			continue
		}
		slack := p.c - (sumLow - lows[i])
		if ci > 0 {
			newUb := ivstore.FloorDiv(slack, ci)
			if store.UpdateUB(p.vars[i], newUb) {
				changed = true
			}
		} else {
			newLb := ivstore.CeilDiv(slack, ci)
			if store.UpdateLB(p.vars[i], newLb) {
				changed = true
			}
		}
	}
	return changed
}

func (p *LinearIneq) maxContrib(store *ivstore.VStore) int {
	total := 0
	for i := range p.vars {
		total += upperContrib(store, p.vars[i], p.coefs[i])
	}
	return total
}

func (p *LinearIneq) minContrib(store *ivstore.VStore) int {
	total := 0
	for i := range p.vars {
		total += lowerContrib(store, p.vars[i], p.coefs[i])
	}
	return total
}

// IsEntailed holds when maxContrib <= c (spec.md §4.2).
func (p *LinearIneq) IsEntailed(store *ivstore.VStore) bool {
	return p.maxContrib(store) <= p.c
}

// IsDisentailed holds when minContrib > c (spec.md §4.2).
func (p *LinearIneq) IsDisentailed(store *ivstore.VStore) bool {
	return p.minContrib(store) > p.c
}

func (p *LinearIneq) Vars() []int { return p.vars }
