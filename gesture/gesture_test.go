/*
DESCRIPTION
  gesture_test.go tests swipe recognition.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package gesture

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ausocean/slideshow/skeleton"
)

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// body returns a tracked subject with the given hand offsets from the
// shoulder centre.
func body(id int, left, right r3.Vec) skeleton.Subject {
	centre := r3.Vec{X: 0, Y: 0.5, Z: 2}
	return skeleton.Subject{
		ID:       id,
		State:    skeleton.Tracked,
		Position: r3.Vec{Z: 2},
		Joints: map[skeleton.JointType]skeleton.Joint{
			skeleton.ShoulderCenter: {Position: centre, State: skeleton.JointTracked},
			skeleton.HandLeft:       {Position: r3.Add(centre, left), State: skeleton.JointTracked},
			skeleton.HandRight:      {Position: r3.Add(centre, right), State: skeleton.JointTracked},
		},
	}
}

// run feeds frames built by gen for n steps 50ms apart starting at start,
// and returns the events with the step they occurred at.
func run(s *Swipe, start time.Time, n int, gen func(i int) []skeleton.Subject) map[int][]Event {
	got := make(map[int][]Event)
	for i := 0; i < n; i++ {
		f := &skeleton.Frame{Timestamp: start.Add(time.Duration(i) * 50 * time.Millisecond), Subjects: gen(i)}
		if ev := s.Recognize(f); len(ev) != 0 {
			got[i] = ev
		}
	}
	return got
}

func TestSwipeLeft(t *testing.T) {
	s := NewSwipe(Config{})
	got := run(s, t0, 5, func(i int) []skeleton.Subject {
		return []skeleton.Subject{
			{State: skeleton.NotTracked},
			body(7, r3.Vec{X: -0.3}, r3.Vec{X: 0.3 - 0.125*float64(i)}),
		}
	})
	want := map[int][]Event{4: {{Kind: SwipeLeft, SubjectID: 7}}}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected events\n%s", cmp.Diff(want, got))
	}
}

func TestSwipeRight(t *testing.T) {
	s := NewSwipe(Config{})
	got := run(s, t0, 4, func(i int) []skeleton.Subject {
		return []skeleton.Subject{body(3, r3.Vec{X: -0.4 + 0.25*float64(i)}, r3.Vec{X: 0.3})}
	})
	want := map[int][]Event{2: {{Kind: SwipeRight, SubjectID: 3}}}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected events\n%s", cmp.Diff(want, got))
	}
}

func TestSwipeTooSlow(t *testing.T) {
	s := NewSwipe(Config{})
	// 0.5m over 1s never covers 0.4m within the 500ms window.
	got := run(s, t0, 21, func(i int) []skeleton.Subject {
		return []skeleton.Subject{body(1, r3.Vec{X: -0.3}, r3.Vec{X: 0.3 - 0.025*float64(i)})}
	})
	if len(got) != 0 {
		t.Errorf("expected no events for a slow movement, got: %v", got)
	}
}

func TestSwipeDrift(t *testing.T) {
	s := NewSwipe(Config{})
	got := run(s, t0, 5, func(i int) []skeleton.Subject {
		return []skeleton.Subject{body(1, r3.Vec{X: -0.3}, r3.Vec{X: 0.3 - 0.125*float64(i), Y: 0.1 * float64(i)})}
	})
	if len(got) != 0 {
		t.Errorf("expected no events for a diagonal movement, got: %v", got)
	}
}

func TestSwipeLockout(t *testing.T) {
	s := NewSwipe(Config{Lockout: time.Second})
	// Swing the right hand back and forth quickly; only the first leftward
	// swipe and the first after the lockout may fire.
	xs := []float64{0.3, 0.05, -0.2, 0.3, 0.05, -0.2, 0.3, 0.05, -0.2}
	got := run(s, t0, 30, func(i int) []skeleton.Subject {
		return []skeleton.Subject{body(5, r3.Vec{X: -0.3}, r3.Vec{X: xs[i%len(xs)]})}
	})
	var steps []int
	for i := 0; i < 30; i++ {
		if _, ok := got[i]; ok {
			steps = append(steps, i)
		}
	}
	for j := 1; j < len(steps); j++ {
		if time.Duration(steps[j]-steps[j-1])*50*time.Millisecond < time.Second {
			t.Errorf("events at steps %d and %d are within the lockout", steps[j-1], steps[j])
		}
	}
	if len(steps) == 0 || steps[0] != 2 {
		t.Errorf("expected first swipe at step 2, got events at: %v", steps)
	}
}

func TestEventPerSubject(t *testing.T) {
	s := NewSwipe(Config{})
	// Subject 1 swipes first in the frame; subject 2 listed after it must
	// still get its own event, with one event per subject per frame.
	got := run(s, t0, 3, func(i int) []skeleton.Subject {
		return []skeleton.Subject{
			body(1, r3.Vec{X: -0.3}, r3.Vec{X: 0.3 - 0.25*float64(i)}),
			body(2, r3.Vec{X: -0.3}, r3.Vec{X: 0.3 - 0.25*float64(i)}),
		}
	})
	want := map[int][]Event{2: {{Kind: SwipeLeft, SubjectID: 1}, {Kind: SwipeLeft, SubjectID: 2}}}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected events\n%s", cmp.Diff(want, got))
	}
}

func TestForgetLostSubjects(t *testing.T) {
	s := NewSwipe(Config{})
	s.Recognize(&skeleton.Frame{Timestamp: t0, Subjects: []skeleton.Subject{body(1, r3.Vec{}, r3.Vec{}), body(2, r3.Vec{}, r3.Vec{})}})
	if len(s.tracks) != 2 {
		t.Fatalf("expected two tracks, got %d", len(s.tracks))
	}
	lost := body(2, r3.Vec{}, r3.Vec{})
	lost.State = skeleton.PositionOnly
	s.Recognize(&skeleton.Frame{Timestamp: t0.Add(50 * time.Millisecond), Subjects: []skeleton.Subject{body(1, r3.Vec{}, r3.Vec{}), lost}})
	if _, ok := s.tracks[2]; ok || len(s.tracks) != 1 {
		t.Errorf("expected only subject 1 to be tracked, got: %v", s.tracks)
	}
	if ev := s.Recognize(nil); ev != nil {
		t.Errorf("expected no events for a nil frame, got: %v", ev)
	}
}

func TestUntimedFrame(t *testing.T) {
	s := NewSwipe(Config{})
	now := t0
	s.now = func() time.Time { return now }
	var got []Event
	for i := 0; i < 3; i++ {
		got = append(got, s.Recognize(&skeleton.Frame{Subjects: []skeleton.Subject{body(4, r3.Vec{X: -0.4 + 0.25*float64(i)}, r3.Vec{X: 0.3})}})...)
		now = now.Add(40 * time.Millisecond)
	}
	want := []Event{{Kind: SwipeRight, SubjectID: 4}}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected events\n%s", cmp.Diff(want, got))
	}
}
