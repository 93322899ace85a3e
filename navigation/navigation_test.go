/*
DESCRIPTION
  navigation_test.go tests the picture navigation transitions.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package navigation

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// stub is an image identified only by the picture index it was loaded for.
type stub int

func (s stub) ColorModel() color.Model { return color.GrayModel }
func (s stub) Bounds() image.Rectangle { return image.Rect(0, 0, 1, 1) }
func (s stub) At(x, y int) color.Color { return color.Gray{Y: uint8(s)} }

type stubLoader struct {
	n        int
	loads    int
	prefetch []int
}

func (l *stubLoader) Len() int { return l.n }

func (l *stubLoader) Load(i int) image.Image {
	l.loads++
	if l.n == 0 {
		return nil
	}
	return stub(Normalize(i, l.n))
}

func (l *stubLoader) Prefetch(indices ...int) { l.prefetch = append(l.prefetch, indices...) }

// slots returns the state with images replaced by their indices, -1 for nil.
func slots(s State) [4]int {
	idx := func(img image.Image) int {
		if img == nil {
			return -1
		}
		return int(img.(stub))
	}
	return [4]int{s.Index, idx(s.Previous), idx(s.Current), idx(s.Next)}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{i: 0, n: 5, want: 0},
		{i: 4, n: 5, want: 4},
		{i: 5, n: 5, want: 0},
		{i: -1, n: 5, want: 4},
		{i: -5, n: 5, want: 0},
		{i: -6, n: 5, want: 4},
		{i: 12, n: 5, want: 2},
		{i: 3, n: 0, want: 0},
		{i: -3, n: 1, want: 0},
	}
	for _, test := range tests {
		got := Normalize(test.i, test.n)
		if got != test.want {
			t.Errorf("Normalize(%d, %d): got %d, want %d", test.i, test.n, got, test.want)
		}
	}

	for i := -50; i < 50; i++ {
		got := Normalize(i, 7)
		if got < 0 || got >= 7 || Normalize(got, 7) != got || (i-got)%7 != 0 {
			t.Fatalf("Normalize(%d, 7) gave %d, not a representative of i mod 7", i, got)
		}
	}
}

func TestNew(t *testing.T) {
	n := New(&stubLoader{n: 5})
	if got, want := slots(n.State()), [4]int{1, 0, 1, 2}; got != want {
		t.Errorf("unexpected initial state: got %v, want %v", got, want)
	}
}

func TestAdvance(t *testing.T) {
	l := &stubLoader{n: 5}
	n := New(l)
	n.Advance()
	if got, want := slots(n.State()), [4]int{2, 1, 2, 3}; got != want {
		t.Errorf("unexpected state after Advance: got %v, want %v", got, want)
	}
	if l.prefetch[len(l.prefetch)-1] != 4 {
		t.Errorf("expected index 4 to be prefetched after Advance, got: %v", l.prefetch)
	}
}

func TestRetreatWraps(t *testing.T) {
	n := New(&stubLoader{n: 5})
	n.Retreat()
	if got, want := slots(n.State()), [4]int{0, 4, 0, 1}; got != want {
		t.Errorf("unexpected state after Retreat: got %v, want %v", got, want)
	}
	n.Retreat()
	if got, want := slots(n.State()), [4]int{-1, 3, 4, 0}; got != want {
		t.Errorf("unexpected state after second Retreat: got %v, want %v", got, want)
	}
}

func TestAdvanceRetreatInverse(t *testing.T) {
	n := New(&stubLoader{n: 3})
	for i := 0; i < 7; i++ {
		before := slots(n.State())
		n.Advance()
		n.Retreat()
		if got := slots(n.State()); got != before {
			t.Fatalf("Advance then Retreat did not restore state: got %v, want %v", got, before)
		}
		n.Advance()
	}
	for i := 0; i < 7; i++ {
		before := slots(n.State())
		n.Retreat()
		n.Advance()
		if got := slots(n.State()); got != before {
			t.Fatalf("Retreat then Advance did not restore state: got %v, want %v", got, before)
		}
		n.Retreat()
	}
}

func TestSlotsConsistent(t *testing.T) {
	l := &stubLoader{n: 4}
	n := New(l)
	moves := []bool{true, true, false, true, true, true, false, false, false, false, false, true}
	for i, adv := range moves {
		if adv {
			n.Advance()
		} else {
			n.Retreat()
		}
		s := n.State()
		want := [4]int{s.Index, Normalize(s.Index-1, 4), Normalize(s.Index, 4), Normalize(s.Index+1, 4)}
		if got := slots(s); got != want {
			t.Fatalf("slots inconsistent after move %d: got %v, want %v", i, got, want)
		}
	}
}

func TestReset(t *testing.T) {
	n := New(&stubLoader{n: 5})
	for i := 0; i < 6; i++ {
		n.Advance()
	}
	n.Reset()
	if got, want := slots(n.State()), [4]int{1, 0, 1, 2}; got != want {
		t.Errorf("unexpected state after Reset: got %v, want %v", got, want)
	}
}

func TestEmpty(t *testing.T) {
	l := &stubLoader{}
	n := New(l)
	n.Advance()
	n.Retreat()
	n.Retreat()
	n.Reset()
	s := n.State()
	if s.Previous != nil || s.Current != nil || s.Next != nil {
		t.Errorf("expected all slots empty, got: %v", slots(s))
	}
	if l.loads != 0 {
		t.Errorf("expected no loads from an empty loader, got %d", l.loads)
	}
	if len(l.prefetch) != 0 {
		t.Errorf("expected no prefetches from an empty loader, got %v", l.prefetch)
	}
}

func TestLoadIdempotent(t *testing.T) {
	n := New(&stubLoader{n: 5})
	for i := -12; i < 12; i++ {
		if n.Load(i) != n.Load(i) {
			t.Fatalf("Load(%d) not idempotent", i)
		}
		if n.Load(i) != n.Load(Normalize(i, 5)) {
			t.Fatalf("Load(%d) differs from Load(%d)", i, Normalize(i, 5))
		}
	}
}

func TestSubscribe(t *testing.T) {
	n := New(&stubLoader{n: 5})
	var got [][4]int
	var order []string
	n.Subscribe(func(s State) { got = append(got, slots(s)); order = append(order, "a") })
	n.Subscribe(func(s State) { order = append(order, "b") })

	n.Advance()
	n.Retreat()
	n.Reset()

	want := [][4]int{{2, 1, 2, 3}, {1, 0, 1, 2}, {1, 0, 1, 2}}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected notifications\n%s", cmp.Diff(want, got))
	}
	if !cmp.Equal(order, []string{"a", "b", "a", "b", "a", "b"}) {
		t.Errorf("listeners not called in order: %v", order)
	}
}
