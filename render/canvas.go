/*
DESCRIPTION
  canvas.go provides Canvas, a Surface that renders the slideshow into an
  in memory RGBA image.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ausocean/slideshow/skeleton"
	"github.com/ausocean/slideshow/tracking"
)

// Canvas colours.
var (
	Background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	HandColor  = color.RGBA{R: 0x1e, G: 0x90, B: 0xff, A: 0xff}
	NoticeBand = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xe0}
)

// HandRadius is the radius of a hand marker.
const HandRadius = 15

// DefaultTransition is the length of a slide animation.
const DefaultTransition = 400 * time.Millisecond

// kappa places cubic control points so that four curves approximate a
// circle.
const kappa = 0.5522847498

// Canvas is a headless Surface. Its setters record what to show and Render
// composes it into an image. Canvas is safe for concurrent use.
type Canvas struct {
	mu  sync.Mutex
	w   int
	h   int
	now func() time.Time

	transition time.Duration
	dir        Direction
	began      time.Time

	mode         tracking.Mode
	figures      DrawList
	left, right  skeleton.Point
	handsPlaced  bool // Hands placed since the last switch to LiveFeed.
	prev         image.Image
	cur          image.Image
	next         image.Image
	feed         image.Image
	disconnected bool
	reason       string

	z *vector.Rasterizer
}

// NewCanvas returns a w by h Canvas whose slide animations last transition.
// A transition of zero or less uses DefaultTransition.
func NewCanvas(w, h int, transition time.Duration) *Canvas {
	if transition <= 0 {
		transition = DefaultTransition
	}
	return &Canvas{
		w:          w,
		h:          h,
		now:        time.Now,
		transition: transition,
		mode:       tracking.LiveFeed,
		z:          vector.NewRasterizer(w, h),
	}
}

// Size implements Surface.
func (c *Canvas) Size() (w, h float64) { return float64(c.w), float64(c.h) }

// Draw implements Surface.
func (c *Canvas) Draw(d DrawList) {
	c.mu.Lock()
	c.figures = d
	c.mu.Unlock()
}

// PlaceHands implements Surface.
func (c *Canvas) PlaceHands(left, right skeleton.Point) {
	c.mu.Lock()
	c.left, c.right = left, right
	c.handsPlaced = true
	c.mu.Unlock()
}

// SetMode implements Surface. Switching to LiveFeed forgets the hand
// positions, so they are only drawn again once placed.
func (c *Canvas) SetMode(m tracking.Mode) {
	c.mu.Lock()
	c.mode = m
	if m == tracking.LiveFeed {
		c.handsPlaced = false
	}
	c.mu.Unlock()
}

// Mode returns the current view mode.
func (c *Canvas) Mode() tracking.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// BeginTransition implements Surface.
func (c *Canvas) BeginTransition(d Direction) {
	c.mu.Lock()
	c.dir = d
	c.began = c.now()
	c.mu.Unlock()
}

// ShowPictures implements Surface.
func (c *Canvas) ShowPictures(prev, cur, next image.Image) {
	c.mu.Lock()
	c.prev, c.cur, c.next = prev, cur, next
	c.mu.Unlock()
}

// Pictures returns the pictures last given to ShowPictures.
func (c *Canvas) Pictures() (prev, cur, next image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prev, c.cur, c.next
}

// ShowColor implements Surface.
func (c *Canvas) ShowColor(img image.Image) {
	c.mu.Lock()
	c.feed = img
	c.mu.Unlock()
}

// ShowDisconnected implements Surface.
func (c *Canvas) ShowDisconnected(disconnected bool, reason string) {
	c.mu.Lock()
	c.disconnected, c.reason = disconnected, reason
	c.mu.Unlock()
}

// Render composes the current state of the canvas into a new image: the
// pictures or colour feed, then the stick figures, the hand markers in
// Slideshow mode and finally any disconnected notice.
func (c *Canvas) Render() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()

	dst := image.NewRGBA(image.Rect(0, 0, c.w, c.h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	if c.mode == tracking.Slideshow {
		c.drawPictures(dst)
	} else {
		fit(dst, c.feed, 0)
	}

	for _, s := range c.figures.Segments() {
		c.stroke(dst, s)
	}

	if c.mode == tracking.Slideshow && c.handsPlaced {
		for _, p := range []skeleton.Point{c.left, c.right} {
			c.stroke(dst, Segment{From: p, To: p, Color: HandColor, Thickness: 2 * HandRadius})
		}
	}

	if c.disconnected {
		c.drawNotice(dst)
	}
	return dst
}

// drawPictures draws the current picture, or during a slide animation the
// outgoing and incoming pictures offset by the animation's progress.
func (c *Canvas) drawPictures(dst *image.RGBA) {
	p := 1.0
	if c.dir != 0 {
		p = float64(c.now().Sub(c.began)) / float64(c.transition)
	}
	if p >= 1 || p < 0 {
		fit(dst, c.cur, 0)
		return
	}

	w := float64(c.w)
	switch c.dir {
	case SlideLeft:
		// The old current picture is now previous.
		fit(dst, c.prev, int(-p*w))
		fit(dst, c.cur, int((1-p)*w))
	case SlideRight:
		fit(dst, c.next, int(p*w))
		fit(dst, c.cur, int(-(1-p)*w))
	}
}

// fit scales img into dst preserving its aspect ratio, centred and shifted
// right by dx.
func fit(dst *image.RGBA, img image.Image, dx int) {
	if img == nil || img.Bounds().Empty() {
		return
	}
	b := dst.Bounds()
	sb := img.Bounds()
	scale := math.Min(float64(b.Dx())/float64(sb.Dx()), float64(b.Dy())/float64(sb.Dy()))
	w := int(math.Round(float64(sb.Dx()) * scale))
	h := int(math.Round(float64(sb.Dy()) * scale))
	x := (b.Dx()-w)/2 + dx
	y := (b.Dy() - h) / 2
	draw.ApproxBiLinear.Scale(dst, image.Rect(x, y, x+w, y+h), img, sb, draw.Over, nil)
}

// stroke draws s as a line with round caps; a zero length segment is a disc.
func (c *Canvas) stroke(dst *image.RGBA, s Segment) {
	r := s.Thickness / 2
	if r <= 0 {
		return
	}
	bounds := image.Rect(
		int(math.Floor(math.Min(s.From.X, s.To.X)-r)), int(math.Floor(math.Min(s.From.Y, s.To.Y)-r)),
		int(math.Ceil(math.Max(s.From.X, s.To.X)+r)), int(math.Ceil(math.Max(s.From.Y, s.To.Y)+r)),
	)
	if !bounds.Overlaps(dst.Bounds()) {
		return
	}

	ux, uy := s.To.X-s.From.X, s.To.Y-s.From.Y
	l := math.Hypot(ux, uy)
	if l == 0 {
		ux, uy = 1, 0
	} else {
		ux, uy = ux/l, uy/l
	}
	nx, ny := -uy, ux
	a, b := s.From, s.To

	z := c.z
	z.Reset(c.w, c.h)
	z.MoveTo(f32(a.X+r*nx), f32(a.Y+r*ny))
	z.LineTo(f32(b.X+r*nx), f32(b.Y+r*ny))
	arc(z, b, r, nx, ny, ux, uy)
	arc(z, b, r, ux, uy, -nx, -ny)
	z.LineTo(f32(a.X-r*nx), f32(a.Y-r*ny))
	arc(z, a, r, -nx, -ny, -ux, -uy)
	arc(z, a, r, -ux, -uy, nx, ny)
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.NewUniform(s.Color), image.Point{})
}

// arc adds a quarter circle of radius r about c from direction (ax, ay) to the
// perpendicular direction (bx, by).
func arc(z *vector.Rasterizer, c skeleton.Point, r, ax, ay, bx, by float64) {
	k := kappa * r
	z.CubeTo(
		f32(c.X+r*ax+k*bx), f32(c.Y+r*ay+k*by),
		f32(c.X+r*bx+k*ax), f32(c.Y+r*by+k*ay),
		f32(c.X+r*bx), f32(c.Y+r*by),
	)
}

func f32(v float64) float32 { return float32(v) }

// drawNotice draws a band across the top of dst holding the disconnected
// reason.
func (c *Canvas) drawNotice(dst *image.RGBA) {
	face := basicfont.Face7x13
	band := image.Rect(0, 0, c.w, face.Height*3)
	draw.Draw(dst, band, image.NewUniform(NoticeBand), image.Point{}, draw.Over)

	msg := "Sensors disconnected"
	if c.reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, c.reason)
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(Background),
		Face: face,
		Dot:  fixed.P(face.Width, 2*face.Height),
	}
	d.DrawString(msg)
}

// WritePNG renders the canvas and writes it to w as a PNG.
func (c *Canvas) WritePNG(w io.Writer) error {
	return png.Encode(w, c.Render())
}

// Snapshot renders the canvas to a PNG file at path.
func (c *Canvas) Snapshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create snapshot: %w", err)
	}
	err = c.WritePNG(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("could not write snapshot: %w", err)
	}
	return f.Close()
}
