//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  window_nocv.go replaces the highgui window when building without OpenCV.

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
	"errors"

	"github.com/ausocean/slideshow/render"
)

// Available reports whether windows can be shown in this build.
const Available = false

// ErrUnavailable is returned by New when built without OpenCV.
var ErrUnavailable = errors.New("window display requires the withcv build tag")

// Window is a placeholder for the highgui window.
type Window struct{}

// New returns ErrUnavailable.
func New(title string, c *render.Canvas) (*Window, error) { return nil, ErrUnavailable }

// Show reports that the window is closed.
func (w *Window) Show(delay int) (bool, error) { return false, ErrUnavailable }

// Close frees nothing.
func (w *Window) Close() error { return nil }
