package ivstore

import (
	"testing"
)

func TestUpdateLBMonotone(t *testing.T) {
	tests := []struct {
		name      string
		start     Interval
		newLb     int
		wantLb    int
		wantTop   bool
		wantDirty bool
	}{
		{"tightens", Interval{0, 10}, 3, 3, false, true},
		{"no-op when not tighter", Interval{3, 10}, 2, 3, false, false},
		{"produces empty sets top", Interval{0, 10}, 11, 11, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(2)
			s.Dom(1, tt.start)
			changed := s.UpdateLB(1, tt.newLb)
			if changed != tt.wantDirty {
				t.Fatalf("changed = %v, want %v", changed, tt.wantDirty)
			}
			if got := s.Get(1).Lb; got != tt.wantLb {
				t.Fatalf("Lb = %d, want %d", got, tt.wantLb)
			}
			if s.IsTop() != tt.wantTop {
				t.Fatalf("IsTop() = %v, want %v", s.IsTop(), tt.wantTop)
			}
		})
	}
}

func TestTopMonotonicity(t *testing.T) {
	s := New(2)
	s.Dom(1, Interval{5, 10})
	s.UpdateLB(1, 20) // empties, sets top
	if !s.IsTop() {
		t.Fatal("expected top after emptying update")
	}
	s.UpdateUB(1, 30) // further updates must not clear top
	if !s.IsTop() {
		t.Fatal("top must remain set until Reset")
	}
	clean := New(2)
	clean.Dom(1, Interval{5, 10})
	s.Reset(clean)
	if s.IsTop() {
		t.Fatal("Reset must clear top")
	}
}

func TestNegationIdentity(t *testing.T) {
	s := New(3)
	s.Dom(1, Interval{-4, 7})
	neg := s.Get(-1)
	want := Interval{-4, 7}.Negate()
	if neg != want {
		t.Fatalf("Get(-1) = %v, want %v", neg, want)
	}
	if got := s.Get(1); got != (Interval{-4, 7}) {
		t.Fatalf("negated access mutated positive slot: %v", got)
	}
	// double negation is identity
	if got := s.Get(-(-1)); got != s.Get(1) {
		t.Fatalf("double negation mismatch: %v != %v", got, s.Get(1))
	}
}

func TestWriteThroughNegativeIndex(t *testing.T) {
	s := New(2)
	s.Dom(1, Interval{0, 10})
	s.UpdateUB(-1, -2) // -x <= -2  =>  x >= 2
	if got := s.Get(1); got.Lb != 2 {
		t.Fatalf("Lb = %d, want 2", got.Lb)
	}
}

func TestCloneIndependence(t *testing.T) {
	s := New(2)
	s.Dom(1, Interval{0, 10})
	cp := s.Clone()
	s.UpdateLB(1, 5)
	if cp.Get(1).Lb != 0 {
		t.Fatalf("clone observed mutation of original: %v", cp.Get(1))
	}
}

func TestResetSizeMismatchPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on size mismatch")
		}
	}()
	a := New(2)
	b := New(3)
	a.Reset(b)
}

func TestSentinelIndexPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic addressing sentinel index 0")
		}
	}()
	s := New(2)
	s.Get(0)
}

func TestFloorCeilDiv(t *testing.T) {
	cases := []struct {
		a, b, floor, ceil int
	}{
		{7, 2, 3, 4},
		{-7, 2, -4, -3},
		{7, -2, -4, -3},
		{-7, -2, 3, 4},
		{6, 2, 3, 3},
	}
	for _, c := range cases {
		if got := FloorDiv(c.a, c.b); got != c.floor {
			t.Errorf("FloorDiv(%d,%d) = %d, want %d", c.a, c.b, got, c.floor)
		}
		if got := CeilDiv(c.a, c.b); got != c.ceil {
			t.Errorf("CeilDiv(%d,%d) = %d, want %d", c.a, c.b, got, c.ceil)
		}
	}
}

func TestAtomicNarrowingUnderConcurrency(t *testing.T) {
	s := New(2)
	s.Dom(1, Interval{0, 1000})
	s.BeginParallelSweep()
	done := make(chan struct{})
	for i := 0; i < 100; i++ {
		i := i
		go func() {
			s.AtomicNarrowUB(1, 1000-i)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 100; i++ {
		<-done
	}
	s.EndParallelSweep()
	if got := s.Get(1).Ub; got != 901 {
		t.Fatalf("Ub = %d, want 901", got)
	}
}
