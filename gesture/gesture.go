/*
DESCRIPTION
  gesture.go provides the Recognizer interface through which skeleton frames
  are turned into swipe events, and Swipe, a recognizer based on horizontal
  hand travel.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package gesture provides recognition of left and right swipe gestures from
// skeleton frames.
package gesture

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ausocean/slideshow/skeleton"
)

// Kind is the kind of a recognised gesture.
type Kind uint8

// Gesture kinds.
const (
	SwipeLeft Kind = iota + 1
	SwipeRight
)

func (k Kind) String() string {
	switch k {
	case SwipeLeft:
		return "SwipeLeft"
	case SwipeRight:
		return "SwipeRight"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Event is a recognised gesture performed by the subject with tracking ID
// SubjectID.
type Event struct {
	Kind      Kind
	SubjectID int
}

// Recognizer turns skeleton frames into gesture events. Recognize is called
// once per frame and returns the events completed in that frame, if any.
type Recognizer interface {
	Recognize(f *skeleton.Frame) []Event
}

// Swipe defaults.
const (
	defaultMinDistance = 0.4 // Metres.
	defaultMaxDrift    = 0.15
	defaultWindow      = 500 * time.Millisecond
	defaultLockout     = 700 * time.Millisecond
)

// Config holds the parameters of a Swipe recognizer.
type Config struct {
	// MinDistance is the horizontal distance in metres a hand must travel
	// within Window for a swipe.
	MinDistance float64

	// MaxDrift is the vertical range in metres the hand may wander over
	// during a swipe.
	MaxDrift float64

	// Window is the time over which hand travel is measured.
	Window time.Duration

	// Lockout is the time after a swipe during which the same subject can not
	// swipe again.
	Lockout time.Duration
}

// DefaultConfig returns the default Swipe parameters.
func DefaultConfig() Config {
	return Config{
		MinDistance: defaultMinDistance,
		MaxDrift:    defaultMaxDrift,
		Window:      defaultWindow,
		Lockout:     defaultLockout,
	}
}

type sample struct {
	t time.Time
	p r3.Vec // Hand position relative to the shoulder centre.
}

type track struct {
	left, right []sample
	locked      time.Time
}

// Swipe recognises swipes from the travel of each hand relative to the
// shoulder centre. The right hand travelling towards -X gives SwipeLeft and
// the left hand travelling towards +X gives SwipeRight. At most one event is
// returned per subject per frame, in subject order. Swipe is not safe for
// concurrent use.
type Swipe struct {
	cfg    Config
	now    func() time.Time
	tracks map[int]*track
}

// NewSwipe returns a Swipe using c. Zero fields of c take their defaults.
func NewSwipe(c Config) *Swipe {
	d := DefaultConfig()
	if c.MinDistance <= 0 {
		c.MinDistance = d.MinDistance
	}
	if c.MaxDrift <= 0 {
		c.MaxDrift = d.MaxDrift
	}
	if c.Window <= 0 {
		c.Window = d.Window
	}
	if c.Lockout <= 0 {
		c.Lockout = d.Lockout
	}
	return &Swipe{cfg: c, now: time.Now, tracks: make(map[int]*track)}
}

// Recognize implements Recognizer. Frames without a timestamp are stamped
// with the current time.
func (s *Swipe) Recognize(f *skeleton.Frame) []Event {
	if f == nil {
		return nil
	}
	t := f.Timestamp
	if t.IsZero() {
		t = s.now()
	}

	seen := make(map[int]bool)
	var events []Event
	for i := range f.Subjects {
		sub := &f.Subjects[i]
		if !sub.IsTracked() {
			continue
		}
		seen[sub.ID] = true

		tr, ok := s.tracks[sub.ID]
		if !ok {
			tr = &track{}
			s.tracks[sub.ID] = tr
		}

		k, ok := s.update(tr, sub, t)
		if ok {
			events = append(events, Event{Kind: k, SubjectID: sub.ID})
		}
	}

	for id := range s.tracks {
		if !seen[id] {
			delete(s.tracks, id)
		}
	}
	return events
}

// update adds the hand positions of sub at t to tr and reports whether a
// swipe was completed.
func (s *Swipe) update(tr *track, sub *skeleton.Subject, t time.Time) (Kind, bool) {
	if t.Before(tr.locked) {
		return 0, false
	}

	centre := sub.Joint(skeleton.ShoulderCenter)
	if centre.State == skeleton.JointNotTracked {
		return 0, false
	}

	for _, h := range []struct {
		joint skeleton.JointType
		hist  *[]sample
		kind  Kind
		dir   float64
	}{
		{joint: skeleton.HandRight, hist: &tr.right, kind: SwipeLeft, dir: -1},
		{joint: skeleton.HandLeft, hist: &tr.left, kind: SwipeRight, dir: 1},
	} {
		j := sub.Joint(h.joint)
		if j.State == skeleton.JointNotTracked {
			*h.hist = (*h.hist)[:0]
			continue
		}
		*h.hist = s.push(*h.hist, sample{t: t, p: r3.Sub(j.Position, centre.Position)})
		if s.swiped(*h.hist, h.dir) {
			tr.left = tr.left[:0]
			tr.right = tr.right[:0]
			tr.locked = t.Add(s.cfg.Lockout)
			return h.kind, true
		}
	}
	return 0, false
}

// push appends smp to hist and drops samples older than the window.
func (s *Swipe) push(hist []sample, smp sample) []sample {
	hist = append(hist, smp)
	start := 0
	for start < len(hist) && smp.t.Sub(hist[start].t) > s.cfg.Window {
		start++
	}
	return append(hist[:0], hist[start:]...)
}

// swiped reports whether the hand in hist travelled at least MinDistance in
// direction dir along X without exceeding MaxDrift vertically.
func (s *Swipe) swiped(hist []sample, dir float64) bool {
	if len(hist) < 2 {
		return false
	}
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, smp := range hist {
		minY = math.Min(minY, smp.p.Y)
		maxY = math.Max(maxY, smp.p.Y)
	}
	if maxY-minY > s.cfg.MaxDrift {
		return false
	}
	travel := (hist[len(hist)-1].p.X - hist[0].p.X) * dir
	return travel >= s.cfg.MinDistance
}
