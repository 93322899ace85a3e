/*
DESCRIPTION
  tracking_test.go tests nearest subject selection, presence, display mode
  and highlight expiry.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package tracking

import (
	"math/rand"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ausocean/slideshow/skeleton"
)

func subject(id int, s skeleton.TrackingState, x, y, z float64) skeleton.Subject {
	return skeleton.Subject{ID: id, State: s, Position: r3.Vec{X: x, Y: y, Z: z}}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		subjects []skeleton.Subject
		want     int
	}{
		{name: "empty", want: skeleton.NoID},
		{
			name: "none tracked",
			subjects: []skeleton.Subject{
				subject(1, skeleton.NotTracked, 0, 0, 1),
				subject(2, skeleton.PositionOnly, 0, 0, 0.5),
			},
			want: skeleton.NoID,
		},
		{
			name: "nearest tracked",
			subjects: []skeleton.Subject{
				subject(1, skeleton.Tracked, 0, 0, 3),
				subject(2, skeleton.PositionOnly, 0, 0, 0.5),
				subject(3, skeleton.Tracked, 0.5, 0, 1.5),
				subject(4, skeleton.Tracked, 0, 0, 2),
			},
			want: 3,
		},
		{
			name: "tie keeps first seen",
			subjects: []skeleton.Subject{
				subject(9, skeleton.Tracked, 1, 0, 2),
				subject(5, skeleton.Tracked, -1, 0, 2),
			},
			want: 9,
		},
		{
			name: "origin",
			subjects: []skeleton.Subject{
				subject(11, skeleton.Tracked, 0, 0, 0),
			},
			want: 11,
		},
	}

	for _, test := range tests {
		got := Select(test.subjects)
		if got != test.want {
			t.Errorf("%s: got %d, want %d", test.name, got, test.want)
		}
	}
}

func TestSelectIsNearest(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	states := []skeleton.TrackingState{skeleton.NotTracked, skeleton.PositionOnly, skeleton.Tracked}
	for n := 0; n < 500; n++ {
		subjects := make([]skeleton.Subject, 6)
		for i := range subjects {
			subjects[i] = subject(i+1, states[rng.Intn(len(states))], rng.Float64()*4-2, rng.Float64()*2-1, rng.Float64()*4)
		}

		id := Select(subjects)
		if !Present(subjects) {
			if id != skeleton.NoID {
				t.Fatalf("expected no selection when nobody is tracked, got %d", id)
			}
			if ModeOf(subjects) != LiveFeed {
				t.Fatalf("expected %v mode when nobody is tracked", LiveFeed)
			}
			continue
		}

		var nearest *skeleton.Subject
		for i := range subjects {
			if subjects[i].ID == id {
				nearest = &subjects[i]
			}
		}
		if nearest == nil || !nearest.IsTracked() {
			t.Fatalf("selected subject %d is not a tracked subject", id)
		}
		for i := range subjects {
			if subjects[i].IsTracked() && r3.Norm2(subjects[i].Position) < r3.Norm2(nearest.Position) {
				t.Fatalf("subject %d is nearer than selected subject %d", subjects[i].ID, id)
			}
		}
		if ModeOf(subjects) != Slideshow {
			t.Fatalf("expected %v mode when somebody is tracked", Slideshow)
		}
	}
}

func TestHighlight(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	h := Arm(7, now)

	tests := []struct {
		id   int
		at   time.Duration
		want bool
	}{
		{id: 7, at: 0, want: true},
		{id: 7, at: 400 * time.Millisecond, want: true},
		{id: 7, at: 500 * time.Millisecond, want: false},
		{id: 7, at: 600 * time.Millisecond, want: false},
		{id: 3, at: 100 * time.Millisecond, want: false},
	}
	for _, test := range tests {
		got := h.Active(test.id, now.Add(test.at))
		if got != test.want {
			t.Errorf("Active(%d, T+%v): got %v, want %v", test.id, test.at, got, test.want)
		}
	}

	var zero Highlight
	if zero.Active(0, time.Time{}) || zero.Active(0, now) {
		t.Error("zero highlight should never be active")
	}
	if NoHighlight.Active(skeleton.NoID, now) {
		t.Error("NoHighlight should never be active")
	}

	h = ArmFor(2, now, time.Second)
	if !h.Active(2, now.Add(900*time.Millisecond)) {
		t.Error("expected highlight armed for a second to be active after 900ms")
	}
}
