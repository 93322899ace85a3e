/*
DESCRIPTION
  project.go maps sensor space joint positions onto 2D drawing surface
  coordinates.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package skeleton

import "gonum.org/v1/gonum/spatial/r3"

// Point is a location on a drawing surface, in surface units with the origin
// at the top left and Y increasing downwards.
type Point struct {
	X, Y float64
}

// Project maps a joint position onto a drawing surface of width w and height
// h. The figure is centred and both axes are scaled by the surface height so
// that roughly +/-1.5m of movement spans the surface. The horizontal centre
// w/2 is used as the offset on both axes. Physical Y is inverted. No clipping
// is done.
func Project(p r3.Vec, w, h float64) Point {
	return Point{
		X: w/2 + h*p.X/3,
		Y: w/2 - h*p.Y/3,
	}
}

// ScaleTo maps a joint position onto a w by h surface such that maxX metres
// to either side of the sensor reaches the surface edge horizontally and maxY
// metres above or below reaches the edge vertically. The result is clamped to
// the surface.
func ScaleTo(p r3.Vec, w, h int, maxX, maxY float64) Point {
	return Point{
		X: scale(w, maxX, p.X),
		Y: scale(h, maxY, -p.Y),
	}
}

func scale(max int, maxSkeleton, pos float64) float64 {
	m := float64(max)
	v := (m/maxSkeleton)/2*pos + m/2
	switch {
	case v > m:
		return m
	case v < 0:
		return 0
	}
	return v
}
