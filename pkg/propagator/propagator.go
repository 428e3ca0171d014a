// Package propagator implements the closed set of propagator variants
// described in spec.md §3 and §4.2 (Temporal, LinearIneq, LogicalAnd,
// Reified) plus the fixpoint engine that drives them to a stable store
// (spec.md §4.3).
package propagator

import (
	"sync/atomic"

	"github.com/gitrdm/ivcp/pkg/ivstore"
)

// Propagator is implemented by every constraint variant. Propagate may
// narrow any variable in Vars(), never outside it, and must be
// idempotent on a fixed input store (spec.md §4.2 contract).
type Propagator interface {
	// UID returns the stable identifier assigned at registration.
	UID() int64

	// Propagate narrows store and reports whether it changed anything.
	Propagate(store *ivstore.VStore) bool

	// IsEntailed reports whether the constraint already holds.
	IsEntailed(store *ivstore.VStore) bool

	// IsDisentailed reports whether the constraint is already violated.
	IsDisentailed(store *ivstore.VStore) bool

	// Vars returns the (signed) variable indices in this propagator's
	// scope, used by the And-parallel partitioner (spec.md §4.5).
	Vars() []int
}

var uidCounter int64

// nextUID assigns the stable unique identifier described in spec.md §3
// ("each variant carries ... a stable unique identifier uid assigned at
// registration time").
func nextUID() int64 {
	return atomic.AddInt64(&uidCounter, 1)
}
