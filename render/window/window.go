//go:build withcv
// +build withcv

/*
DESCRIPTION
  window.go displays a render.Canvas in an OpenCV highgui window.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package window provides an on screen display of a render.Canvas.
package window

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ausocean/slideshow/render"
)

// Available reports whether windows can be shown in this build.
const Available = true

// Window shows a canvas in a highgui window. Show must be called from the
// goroutine that created the Window.
type Window struct {
	win    *gocv.Window
	canvas *render.Canvas
}

// New opens a window titled title displaying c.
func New(title string, c *render.Canvas) (*Window, error) {
	win := gocv.NewWindow(title)
	if win == nil {
		return nil, fmt.Errorf("could not open window %q", title)
	}
	return &Window{win: win, canvas: c}, nil
}

// Show renders the canvas into the window and services window events for up
// to delay milliseconds. It returns false once the window has been closed or
// escape pressed.
func (w *Window) Show(delay int) (bool, error) {
	mat, err := gocv.ImageToMatRGB(w.canvas.Render())
	if err != nil {
		return false, fmt.Errorf("could not convert canvas: %w", err)
	}
	defer mat.Close()
	w.win.IMShow(mat)

	const escape = 27
	if w.win.WaitKey(delay) == escape || !w.win.IsOpen() {
		return false, nil
	}
	return true, nil
}

// Close frees resources used by gocv.
func (w *Window) Close() error {
	return w.win.Close()
}
