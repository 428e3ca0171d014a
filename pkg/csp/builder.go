package csp

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/gitrdm/ivcp/pkg/ivstore"
	"github.com/gitrdm/ivcp/pkg/propagator"
)

// Op is the comparison operator surface the builder accepts (spec.md
// §6.1). Not every operation accepts every Op: strengthen_domain and
// add_temporal_constraint reject Neq and In; add_reified_constraint's
// sub-constraints further reject Eq (the restriction to a single
// Temporal per conjunct, spec.md §4.2's Reified contract).
type Op int

const (
	Le Op = iota
	Lt
	Ge
	Gt
	Eq
	Neq
	In
)

func (op Op) String() string {
	switch op {
	case Le:
		return "<="
	case Lt:
		return "<"
	case Ge:
		return ">="
	case Gt:
		return ">"
	case Eq:
		return "="
	case Neq:
		return "!="
	case In:
		return "in"
	default:
		return "?"
	}
}

// Problem is the builder's output (spec.md §6.1 build()): the root
// store, the registered propagators, the branching-variable list in
// registration order, and the optional minimize variable.
type Problem struct {
	Store        *ivstore.VStore
	Propagators  []propagator.Propagator
	BranchVars   []int
	MinimizeVar  int // 0 means "no objective" (0 is the reserved sentinel)
}

// Builder implements the problem-construction API of spec.md §6.1. It
// is fail-fast-recording: the first error from any call is retained and
// returned by Build, so call chains can be written without checking
// every intermediate error.
type Builder struct {
	names   map[string]int
	bounds  []ivstore.Interval
	props   []propagator.Propagator
	branch  []int
	minVar  int
	err     error
}

// NewBuilder creates a Builder with the reserved sentinel pre-registered
// at index 0 (spec.md §6.1, "the first registered variable is the
// reserved sentinel at index 0").
func NewBuilder() *Builder {
	b := &Builder{
		names:  map[string]int{"$sentinel": 0},
		bounds: []ivstore.Interval{{Lb: 0, Ub: 0}},
	}
	return b
}

// Err returns the first recorded build error, if any.
func (b *Builder) Err() error { return b.err }

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// AddVar registers a new variable with the given name and initial
// domain [lb, ub], returning its index.
func (b *Builder) AddVar(name string, lb, ub int) int {
	if b.err != nil {
		return 0
	}
	if _, exists := b.names[name]; exists {
		b.fail(errors.Errorf("add_var: variable %q already registered", name))
		return 0
	}
	idx := len(b.bounds)
	b.names[name] = idx
	b.bounds = append(b.bounds, ivstore.Interval{Lb: lb, Ub: ub})
	b.branch = append(b.branch, idx)
	return idx
}

func (b *Builder) resolve(name string) (int, error) {
	idx, ok := b.names[name]
	if !ok {
		return 0, errors.Errorf("unknown variable %q", name)
	}
	return idx, nil
}

// StrengthenDomain applies op/k directly to the named variable's
// current bounds (spec.md §6.1). Neq and In are rejected.
func (b *Builder) StrengthenDomain(name string, op Op, k int) {
	if b.err != nil {
		return
	}
	idx, err := b.resolve(name)
	if err != nil {
		b.fail(err)
		return
	}
	cur := b.bounds[idx]
	switch op {
	case Le:
		cur.Ub = min(cur.Ub, k)
	case Lt:
		cur.Ub = min(cur.Ub, k-1)
	case Ge:
		cur.Lb = max(cur.Lb, k)
	case Gt:
		cur.Lb = max(cur.Lb, k+1)
	case Eq:
		cur = cur.Join(ivstore.Single(k))
	case Neq, In:
		b.fail(errors.Errorf("strengthen_domain: operator %q not supported", op))
		return
	default:
		b.fail(errors.Errorf("strengthen_domain: unknown operator %v", op))
		return
	}
	b.bounds[idx] = cur
}

// normalizeTemporal rewrites a single x OP k y (meaning "x + k OP y")
// into zero, one, or two Temporal propagators in the x+k<=y canonical
// form, per spec.md §4.2's normalization rules. Eq yields two
// propagators (the conjuncts of the expanded and); every other
// supported Op yields exactly one.
func normalizeTemporal(x, y, k int, op Op) ([]*propagator.Temporal, error) {
	switch op {
	case Le:
		return []*propagator.Temporal{propagator.NewTemporal(x, y, k)}, nil
	case Lt:
		return []*propagator.Temporal{propagator.NewTemporal(x, y, k+1)}, nil
	case Ge:
		return []*propagator.Temporal{propagator.NewTemporal(y, x, -k)}, nil
	case Gt:
		return []*propagator.Temporal{propagator.NewTemporal(y, x, 1-k)}, nil
	case Eq:
		return []*propagator.Temporal{
			propagator.NewTemporal(x, y, k),
			propagator.NewTemporal(y, x, -k),
		}, nil
	case Neq, In:
		return nil, errors.Errorf("operator %q not supported in temporal position", op)
	default:
		return nil, errors.Errorf("unknown operator %v", op)
	}
}

// AddTemporalConstraint enforces "x + k OP y" (spec.md §6.1). x and y
// are signed variable indices as returned by AddVar (negate the result
// to reference a variable's negation view).
func (b *Builder) AddTemporalConstraint(x, k int, op Op, y int) {
	if b.err != nil {
		return
	}
	ps, err := normalizeTemporal(x, y, k, op)
	if err != nil {
		b.fail(errors.Wrap(err, "add_temporal_constraint"))
		return
	}
	for _, p := range ps {
		b.props = append(b.props, p)
	}
}

// AddLinearConstraint enforces sum(coefs[i]*vars[i]) <= c (spec.md
// §6.1). If vars is empty, the constraint degenerates to the tautology
// check "0 <= c"; a violated check is recorded as a root contradiction
// (spec.md §6.1's fake-empty-variable encoding) rather than an error.
func (b *Builder) AddLinearConstraint(vars []int, coefs []int, c int) {
	if b.err != nil {
		return
	}
	if len(vars) != len(coefs) {
		b.fail(errors.New("add_linear_constraint: len(vars) != len(coefs)"))
		return
	}
	if len(vars) == 0 {
		if 0 > c {
			b.markRootContradiction()
		}
		return
	}
	b.props = append(b.props, propagator.NewLinearIneq(vars, coefs, c))
}

// AddReifiedConstraint enforces b <=> (P1 and P2) where each Pi is
// specified as (xi, ki, opi, yi) with opi restricted to {<=,<,>=,>}
// (spec.md §4.2, §9: the RHS shape is restricted to two Temporals).
func (b *Builder) AddReifiedConstraint(bVar int, x1, k1 int, op1 Op, y1 int, x2, k2 int, op2 Op, y2 int) {
	if b.err != nil {
		return
	}
	t1, err := singleTemporal(x1, k1, op1, y1)
	if err != nil {
		b.fail(errors.Wrap(err, "add_reified_constraint: P1"))
		return
	}
	t2, err := singleTemporal(x2, k2, op2, y2)
	if err != nil {
		b.fail(errors.Wrap(err, "add_reified_constraint: P2"))
		return
	}
	b.props = append(b.props, propagator.NewReified(bVar, t1, t2))
}

func singleTemporal(x, k int, op Op, y int) (*propagator.Temporal, error) {
	if op == Eq {
		return nil, errors.New("reified sub-constraint must be a single temporal, not '='")
	}
	ps, err := normalizeTemporal(x, y, k, op)
	if err != nil {
		return nil, err
	}
	return ps[0], nil
}

// SetObjectiveMinimize marks idx as the variable to minimize (spec.md
// §6.1). Optional; 0 (unset) means a satisfaction-only search.
func (b *Builder) SetObjectiveMinimize(idx int) {
	b.minVar = idx
}

// markRootContradiction allocates the fake empty-domain variable spec.md
// §6.1 describes, so the root fixpoint immediately yields top.
func (b *Builder) markRootContradiction() {
	idx := len(b.bounds)
	name := fmt.Sprintf("$contradiction-%d", idx)
	b.names[name] = idx
	b.bounds = append(b.bounds, ivstore.Interval{Lb: 1, Ub: 0}) // empty
}

// Build materializes the store and propagator set. Returns the first
// recorded build error, if any, instead of a Problem.
func (b *Builder) Build() (*Problem, error) {
	if b.err != nil {
		return nil, b.err
	}
	store := ivstore.New(len(b.bounds))
	for i := 1; i < len(b.bounds); i++ {
		store.Dom(i, b.bounds[i])
	}
	return &Problem{
		Store:       store,
		Propagators: b.props,
		BranchVars:  append([]int{}, b.branch...),
		MinimizeVar: b.minVar,
	}, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
