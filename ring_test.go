package preview

import (
	"errors"
	"testing"
)

func TestRing_NilSafe(t *testing.T) {
	var r *ring[error]

	// All operations should be safe on nil
	r.push(errors.New("test"))
	r.clear()

	if r.all() != nil {
		t.Error("expected nil from nil ring")
	}
}

func TestRing_ZeroSize(t *testing.T) {
	if r := newRing[error](0); r != nil {
		t.Error("expected nil ring for size 0")
	}
}

func TestRing_NegativeSize(t *testing.T) {
	if r := newRing[int](-1); r != nil {
		t.Error("expected nil ring for negative size")
	}
}

func TestRing_FillsWithoutWrapping(t *testing.T) {
	r := newRing[int](3)
	r.push(1)
	r.push(2)

	got := r.all()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected [1 2], got %v", got)
	}
}

func TestRing_WrapsOldestFirst(t *testing.T) {
	r := newRing[int](3)
	for i := 1; i <= 5; i++ {
		r.push(i)
	}

	got := r.all()
	want := []int{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestRing_Clear(t *testing.T) {
	r := newRing[error](2)
	r.push(errors.New("a"))
	r.push(errors.New("b"))
	r.clear()

	if r.all() != nil {
		t.Error("expected nil after clear")
	}

	r.push(errors.New("c"))
	got := r.all()
	if len(got) != 1 || got[0].Error() != "c" {
		t.Errorf("expected [c], got %v", got)
	}
}
