// Package ivstore implements the interval-domain variable store: the
// constraint store abstraction described in spec.md §3 and §4.1. A
// VStore is a fixed-length vector of Intervals plus a single monotone
// "top" flag; narrowing is the only mutation a propagator may perform.
package ivstore

import (
	"fmt"
	"math"
)

// MinInt and MaxInt bound the representable domain, matching the
// spec's INT_MIN/INT_MAX. Chosen so lb-1/ub+1 arithmetic used by
// operator normalization (spec.md §4.2, "<, >") never overflows.
const (
	MinInt = math.MinInt32 + 1
	MaxInt = math.MaxInt32 - 1
)

// Interval is a closed range [Lb, Ub] of integers. Lb > Ub denotes the
// empty ("top") interval, per spec.md §3.
type Interval struct {
	Lb, Ub int
}

// Full returns the unconstrained interval [MinInt, MaxInt].
func Full() Interval { return Interval{Lb: MinInt, Ub: MaxInt} }

// Single returns the singleton (assigned) interval [k, k].
func Single(k int) Interval { return Interval{Lb: k, Ub: k} }

// IsEmpty reports whether the interval represents "no value".
func (iv Interval) IsEmpty() bool { return iv.Lb > iv.Ub }

// IsAssigned reports whether the interval is a singleton.
func (iv Interval) IsAssigned() bool { return iv.Lb == iv.Ub }

// SingletonValue returns the bound value of an assigned interval.
// Behavior is unspecified if the interval is not assigned.
func (iv Interval) SingletonValue() int { return iv.Lb }

// Width returns Ub-Lb+1, or 0 for an empty interval. Used by the
// search to split a domain and to pick the smallest domain under
// free search.
func (iv Interval) Width() int {
	if iv.IsEmpty() {
		return 0
	}
	return iv.Ub - iv.Lb + 1
}

// Join is the interval intersection used by narrowing updates.
func (iv Interval) Join(other Interval) Interval {
	return Interval{Lb: max(iv.Lb, other.Lb), Ub: min(iv.Ub, other.Ub)}
}

// Negate returns the view-only negation (-ub, -lb), per spec.md §3.
func (iv Interval) Negate() Interval {
	return Interval{Lb: -iv.Ub, Ub: -iv.Lb}
}

func (iv Interval) String() string {
	if iv.IsEmpty() {
		return "{}"
	}
	return fmt.Sprintf("[%d,%d]", iv.Lb, iv.Ub)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// FloorDiv divides a by b rounding toward negative infinity, the
// rounding rule spec.md §4.2 requires for the linear propagator's
// upper-bound narrowing.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// CeilDiv divides a by b rounding toward positive infinity, the
// rounding rule spec.md §4.2 requires for the linear propagator's
// lower-bound narrowing.
func CeilDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}
