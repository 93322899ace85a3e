/*
DESCRIPTION
  tracking.go provides per frame selection of the subject nearest the sensor
  and the presence driven choice of display mode.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tracking provides the per frame decisions made about the subjects
// in view: which tracked subject is nearest, whether anyone is present, which
// display mode follows from that, and which subject is highlighted after a
// gesture.
package tracking

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ausocean/slideshow/skeleton"
)

// Select returns the tracking ID of the tracked subject nearest the sensor
// origin, or skeleton.NoID if no subject is tracked. Where two subjects are
// equally near, the first in subjects is selected.
func Select(subjects []skeleton.Subject) int {
	nearest := skeleton.NoID
	best := math.Inf(1)
	for i := range subjects {
		if !subjects[i].IsTracked() {
			continue
		}
		d := r3.Norm2(subjects[i].Position)
		if d < best {
			nearest = subjects[i].ID
			best = d
		}
	}
	return nearest
}

// Present returns true if at least one subject is tracked.
func Present(subjects []skeleton.Subject) bool {
	for i := range subjects {
		if subjects[i].IsTracked() {
			return true
		}
	}
	return false
}

// Mode is the display mode.
type Mode uint8

// Display modes.
const (
	// LiveFeed shows the colour camera feed; used while nobody is tracked.
	LiveFeed Mode = iota

	// Slideshow shows the pictures and hand indicators; used while at least
	// one subject is tracked.
	Slideshow
)

func (m Mode) String() string {
	if m == Slideshow {
		return "Slideshow"
	}
	return "LiveFeed"
}

// ModeOf returns the display mode for a frame holding subjects.
func ModeOf(subjects []skeleton.Subject) Mode {
	if Present(subjects) {
		return Slideshow
	}
	return LiveFeed
}
