/*
DESCRIPTION
  render.go provides the draw lists describing stick figures and hand markers,
  and Surface, the interface through which the slideshow is displayed.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package render provides the drawing of tracked subjects as stick figures
// and a headless drawing surface for the slideshow.
package render

import (
	"image"
	"image/color"
	"time"

	"github.com/ausocean/slideshow/skeleton"
	"github.com/ausocean/slideshow/tracking"
)

// Stick figure colours.
var (
	WhiteSmoke = color.RGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}
	Red        = color.RGBA{R: 0xff, A: 0xff}
	Black      = color.RGBA{A: 0xff}
	Gray       = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// Stroke thicknesses of the two stick figure passes.
const (
	BackgroundThickness = 7
	ForegroundThickness = 3
)

// Segment is a round capped line between two surface points.
type Segment struct {
	From, To  skeleton.Point
	Color     color.RGBA
	Thickness float64
}

// DrawList holds the segments of a set of stick figures. All of Background is
// drawn before any of Foreground so that overlapping figures keep their
// outline.
type DrawList struct {
	Background []Segment
	Foreground []Segment
}

// Segments returns the segments in draw order.
func (d DrawList) Segments() []Segment {
	return append(append(make([]Segment, 0, len(d.Background)+len(d.Foreground)), d.Background...), d.Foreground...)
}

// StickMen returns the draw list for the tracked subjects projected onto a w
// by h surface. Every tracked subject gets a WhiteSmoke background stroke.
// The foreground stroke is Red for a subject highlighted at now, otherwise
// Black for the nearest subject and Gray for the rest.
func StickMen(subjects []skeleton.Subject, nearest int, hl tracking.Highlight, now time.Time, w, h float64) DrawList {
	var d DrawList
	for i := range subjects {
		if subjects[i].IsTracked() {
			d.Background = stickMan(d.Background, &subjects[i], WhiteSmoke, BackgroundThickness, w, h)
		}
	}
	for i := range subjects {
		s := &subjects[i]
		if !s.IsTracked() {
			continue
		}
		c := Gray
		switch {
		case hl.Active(s.ID, now):
			c = Red
		case s.ID == nearest:
			c = Black
		}
		d.Foreground = stickMan(d.Foreground, s, c, ForegroundThickness, w, h)
	}
	return d
}

func stickMan(dst []Segment, s *skeleton.Subject, c color.RGBA, thickness, w, h float64) []Segment {
	for _, run := range skeleton.SegmentRuns {
		next := skeleton.Project(s.Joint(run[0]).Position, w, h)
		for _, j := range run[1:] {
			prev := next
			next = skeleton.Project(s.Joint(j).Position, w, h)
			dst = append(dst, Segment{From: prev, To: next, Color: c, Thickness: thickness})
		}
	}
	return dst
}

// HandConfig holds the scaling of hand markers onto the surface.
type HandConfig struct {
	Width, Height int     // Surface size the markers are placed on.
	RangeX        float64 // Metres either side of the sensor reaching the surface edge.
	RangeY        float64 // Metres above or below the sensor reaching the surface edge.
}

// DefaultHands places markers on a 900 by 540 surface with 0.8m reaching the
// edges.
var DefaultHands = HandConfig{Width: 900, Height: 540, RangeX: 0.8, RangeY: 0.8}

// Hands returns the marker positions for the left and right hands of s.
func Hands(s *skeleton.Subject, c HandConfig) (left, right skeleton.Point) {
	left = skeleton.ScaleTo(s.Joint(skeleton.HandLeft).Position, c.Width, c.Height, c.RangeX, c.RangeY)
	right = skeleton.ScaleTo(s.Joint(skeleton.HandRight).Position, c.Width, c.Height, c.RangeX, c.RangeY)
	return left, right
}

// Direction is the direction of a slide transition.
type Direction uint8

// Slide directions. Advancing slides the pictures left, retreating slides
// them right.
const (
	SlideLeft Direction = iota + 1
	SlideRight
)

func (d Direction) String() string {
	switch d {
	case SlideLeft:
		return "SlideLeft"
	case SlideRight:
		return "SlideRight"
	default:
		return "None"
	}
}

// Surface displays the slideshow. Implementations must be safe for
// concurrent use.
type Surface interface {
	// Size returns the width and height stick figures are projected onto.
	Size() (w, h float64)

	// Draw replaces the stick figures with d.
	Draw(d DrawList)

	// PlaceHands positions the two hand markers.
	PlaceHands(left, right skeleton.Point)

	// SetMode shows the pictures and hand markers in Slideshow mode and the
	// colour feed in LiveFeed mode.
	SetMode(m tracking.Mode)

	// BeginTransition starts a slide animation in direction d.
	BeginTransition(d Direction)

	// ShowPictures sets the previous, current and next pictures. Any may be
	// nil.
	ShowPictures(prev, cur, next image.Image)

	// ShowColor sets the colour feed picture.
	ShowColor(img image.Image)

	// ShowDisconnected shows the disconnected notice with reason, or hides it
	// if disconnected is false.
	ShowDisconnected(disconnected bool, reason string)
}
