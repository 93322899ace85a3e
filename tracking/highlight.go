/*
DESCRIPTION
  highlight.go provides the short lived emphasis given to a subject whose
  gesture was accepted.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package tracking

import (
	"time"

	"github.com/ausocean/slideshow/skeleton"
)

// DefaultHighlight is how long a subject stays highlighted after an accepted
// gesture.
const DefaultHighlight = 500 * time.Millisecond

// Highlight records which subject is highlighted and until when. The zero
// Highlight highlights nobody; an expired Highlight behaves the same way.
type Highlight struct {
	ID      int
	Expires time.Time
}

// NoHighlight is a Highlight that is never active.
var NoHighlight = Highlight{ID: skeleton.NoID}

// Arm returns a Highlight for the subject id lasting DefaultHighlight from
// now.
func Arm(id int, now time.Time) Highlight {
	return ArmFor(id, now, DefaultHighlight)
}

// ArmFor returns a Highlight for the subject id lasting d from now.
func ArmFor(id int, now time.Time, d time.Duration) Highlight {
	return Highlight{ID: id, Expires: now.Add(d)}
}

// Active returns true if subject id is highlighted at now.
func (h Highlight) Active(id int, now time.Time) bool {
	return h.ID == id && id != skeleton.NoID && now.Before(h.Expires)
}
