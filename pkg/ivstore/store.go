package ivstore

import (
	"fmt"
	"sync/atomic"
)

// VStore is the fixed-length interval vector described in spec.md §3.
// Index 0 is a reserved sentinel slot (never negated); a positive index
// v addresses variable v directly, a negative index -v addresses its
// negation view (-ub, -lb) of the same slot. Once Top is set it is
// never cleared except by Reset.
//
// Invariants (spec.md §3):
//
//	(i)   len(intervals) is fixed at construction.
//	(ii)  Top is monotone: once true, stays true until Reset.
//	(iii) every narrowing preserves new.Lb >= old.Lb, new.Ub <= old.Ub.
//	(iv)  an update producing Lb > Ub sets Top.
//	(v)   negated-index access never mutates the positive slot directly.
//
// top is an atomic.Bool, not a plain bool: And-parallel propagation
// (RunParallel, spec.md §4.5, §9) runs propagators for variable-disjoint
// partitions on separate goroutines within one sweep, and every
// partition's goroutine can independently detect emptiness and set top.
// A plain bool written from more than one goroutine with no
// synchronization would be a data race even though the interval slots
// themselves stay disjoint per partition.
type VStore struct {
	intervals []Interval
	top       atomic.Bool

	// mirror is an int64-packed shadow of intervals used only between a
	// BeginParallelSweep/EndParallelSweep pair, so that AtomicNarrowLB/UB
	// can use lock-free CAS instead of a mutex (spec.md §9, §5).
	mirror []int64
}

// New allocates n interval slots, each initialized to the full domain,
// with index 0 reserved as the dummy sentinel slot.
func New(n int) *VStore {
	if n < 1 {
		n = 1
	}
	intervals := make([]Interval, n)
	for i := range intervals {
		intervals[i] = Full()
	}
	return &VStore{intervals: intervals}
}

// Size returns the number of variable slots, including the sentinel.
func (s *VStore) Size() int { return len(s.intervals) }

// IsTop reports whether the store has become unsatisfiable. Safe to
// call concurrently with And-parallel narrowing within a sweep.
func (s *VStore) IsTop() bool { return s.top.Load() }

// SetTop forces the top flag. Exposed for builders that detect a
// root-level contradiction at construction time (spec.md §6.1).
func (s *VStore) SetTop() { s.top.Store(true) }

// Clone returns a structural copy preserving all invariants, used by
// the search tree to snapshot a node before branching (spec.md §4.4)
// and by the driver to give each worker its own store (spec.md §4.5).
func (s *VStore) Clone() *VStore {
	cp := make([]Interval, len(s.intervals))
	copy(cp, s.intervals)
	out := &VStore{intervals: cp}
	out.top.Store(s.top.Load())
	return out
}

// Reset overwrites every interval and the top flag from other. Used on
// backtrack to restore a parent snapshot (spec.md §3 Lifecycle). Panics
// if sizes differ: a size mismatch is an internal invariant violation
// per spec.md §7, not a recoverable error.
func (s *VStore) Reset(other *VStore) {
	if s.Size() != other.Size() {
		panic(fmt.Sprintf("ivstore: Reset size mismatch: %d != %d", s.Size(), other.Size()))
	}
	copy(s.intervals, other.intervals)
	s.top.Store(other.top.Load())
}

func checkIndex(v, size int) {
	if v == 0 {
		panic("ivstore: index 0 is the reserved sentinel and cannot be addressed")
	}
	av := v
	if av < 0 {
		av = -av
	}
	if av >= size {
		panic(fmt.Sprintf("ivstore: index %d out of range for store of size %d", v, size))
	}
}

// Get returns the interval for variable index v (positive or negative).
func (s *VStore) Get(v int) Interval {
	checkIndex(v, len(s.intervals))
	if v > 0 {
		return s.intervals[v]
	}
	return s.intervals[-v].Negate()
}

// setRaw writes itv into the positive slot addressed by v, transparently
// negating for a negative index (spec.md §4.1 indexing rule).
func (s *VStore) setRaw(v int, itv Interval) {
	if v > 0 {
		s.intervals[v] = itv
	} else {
		s.intervals[-v] = itv.Negate()
	}
}

// Dom unconditionally sets the domain of v. Builder-only operation
// (spec.md §4.1); sets Top if the resulting interval is empty.
func (s *VStore) Dom(v int, itv Interval) {
	checkIndex(v, len(s.intervals))
	s.setRaw(v, itv)
	if s.Get(v).IsEmpty() {
		s.top.Store(true)
	}
}

// UpdateLB narrows the lower bound of v to newLb if that is strictly
// tighter. Returns whether the store changed. Sets Top on emptiness.
func (s *VStore) UpdateLB(v int, newLb int) bool {
	checkIndex(v, len(s.intervals))
	cur := s.Get(v)
	if newLb <= cur.Lb {
		return false
	}
	s.setRaw(v, Interval{Lb: newLb, Ub: cur.Ub})
	if newLb > cur.Ub {
		s.top.Store(true)
	}
	return true
}

// UpdateUB narrows the upper bound of v to newUb if that is strictly
// tighter. Returns whether the store changed. Sets Top on emptiness.
func (s *VStore) UpdateUB(v int, newUb int) bool {
	checkIndex(v, len(s.intervals))
	cur := s.Get(v)
	if newUb >= cur.Ub {
		return false
	}
	s.setRaw(v, Interval{Lb: cur.Lb, Ub: newUb})
	if cur.Lb > newUb {
		s.top.Store(true)
	}
	return true
}

// Update narrows both bounds via interval Join, returning the
// disjunction of the two change bits (spec.md §4.1).
func (s *VStore) Update(v int, itv Interval) bool {
	checkIndex(v, len(s.intervals))
	cur := s.Get(v)
	joined := cur.Join(itv)
	if joined == cur {
		return false
	}
	s.setRaw(v, joined)
	if joined.IsEmpty() {
		s.top.Store(true)
	}
	return true
}

// Assign narrows v to the singleton {k}; equivalent to Update(v,
// Single(k)) per spec.md §4.1.
func (s *VStore) Assign(v int, k int) bool {
	return s.Update(v, Single(k))
}

// --- Lock-free monotone updaters for the And-parallel tier ---
//
// These pack (lb, ub) into a single int64 so concurrent helper
// goroutines narrowing distinct propagators over a shared variable can
// use compare-and-swap instead of a mutex, per spec.md §9 ("store_min_ub",
// "store_max_lb implemented via CAS"). They operate on the int64 mirror
// taken by BeginParallelSweep, not on the slots Get/Update use; their
// effects become visible to Get only after EndParallelSweep writes the
// mirror back. Callers must not mix atomic and non-atomic access to the
// same VStore from concurrent goroutines.

func pack(iv Interval) int64 {
	return int64(iv.Lb)<<32 | int64(uint32(iv.Ub))
}

func unpack(p int64) Interval {
	return Interval{Lb: int(int32(p >> 32)), Ub: int(int32(p))}
}

// AtomicNarrowUB performs a CAS-retry loop narrowing the upper bound of
// v to min(ub(v), newUb). Safe to call concurrently with
// AtomicNarrowLB/AtomicNarrowUB on other variables, or the same
// variable from other helpers, within one fixpoint sweep.
func (s *VStore) AtomicNarrowUB(v int, newUb int) bool {
	checkIndex(v, len(s.intervals))
	slot := s.slotFor(v)
	for {
		old := atomic.LoadInt64(slot)
		cur := unpack(old)
		if v < 0 {
			cur = cur.Negate()
		}
		if newUb >= cur.Ub {
			return false
		}
		next := Interval{Lb: cur.Lb, Ub: newUb}
		store := next
		if v < 0 {
			store = next.Negate()
		}
		if atomic.CompareAndSwapInt64(slot, old, pack(store)) {
			if next.IsEmpty() {
				s.setTopAtomic()
			}
			return true
		}
	}
}

// AtomicNarrowLB is the lower-bound counterpart of AtomicNarrowUB.
func (s *VStore) AtomicNarrowLB(v int, newLb int) bool {
	checkIndex(v, len(s.intervals))
	slot := s.slotFor(v)
	for {
		old := atomic.LoadInt64(slot)
		cur := unpack(old)
		if v < 0 {
			cur = cur.Negate()
		}
		if newLb <= cur.Lb {
			return false
		}
		next := Interval{Lb: newLb, Ub: cur.Ub}
		store := next
		if v < 0 {
			store = next.Negate()
		}
		if atomic.CompareAndSwapInt64(slot, old, pack(store)) {
			if next.IsEmpty() {
				s.setTopAtomic()
			}
			return true
		}
	}
}

// slotFor returns the int64 mirror slot backing variable v's positive
// slot. Callers must be inside a BeginParallelSweep/EndParallelSweep
// pair.
func (s *VStore) slotFor(v int) *int64 {
	av := v
	if av < 0 {
		av = -av
	}
	if s.mirror == nil {
		panic("ivstore: atomic narrowing used outside BeginParallelSweep")
	}
	return &s.mirror[av]
}

// BeginParallelSweep snapshots intervals into the lock-free int64
// mirror. Call once, sequentially, before fanning out And-parallel
// helpers for a fixpoint sweep (spec.md §4.5, §5).
func (s *VStore) BeginParallelSweep() {
	s.mirror = make([]int64, len(s.intervals))
	for i, iv := range s.intervals {
		s.mirror[i] = pack(iv)
	}
}

// EndParallelSweep writes the mirror back into intervals and clears it.
// Call once, sequentially, after all helpers for the sweep have joined
// at the barrier.
func (s *VStore) EndParallelSweep() {
	for i := range s.intervals {
		iv := unpack(s.mirror[i])
		s.intervals[i] = iv
		if iv.IsEmpty() {
			s.top.Store(true)
		}
	}
	s.mirror = nil
}

func (s *VStore) setTopAtomic() {
	s.top.Store(true)
}
