/*
DESCRIPTION
  webcam.go provides an implementation of ColorSource for webcams.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package webcam provides an implementation of ColorSource for webcams. With
// the withcv build tag frames are captured through OpenCV, otherwise through
// an ffmpeg process.
package webcam

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/slideshow/device"
	"github.com/ausocean/slideshow/slideshow/config"
)

// Used to indicate package in logging.
const pkg = "webcam: "

// Configuration defaults.
const (
	defaultColorDevice = "/dev/video0"
	defaultFrameRate   = 30
	defaultWidth       = 640
	defaultHeight      = 480
)

// Configuration field errors.
var (
	errBadFrameRate   = errors.New("frame rate bad or unset, defaulting")
	errBadWidth       = errors.New("width bad or unset, defaulting")
	errBadHeight      = errors.New("height bad or unset, defaulting")
	errBadColorDevice = errors.New("colour device bad or unset, defaulting")
)

// capturer is the capture backend selected by build tags.
type capturer interface {
	open(c config.Config) error
	read() (*device.ColorFrame, error)
	close() error
}

// Webcam is an implementation of the ColorSource interface for a V4L camera.
type Webcam struct {
	log       logging.Logger
	mu        sync.Mutex
	cfg       config.Config
	cap       capturer
	isRunning bool
}

// New returns a new Webcam.
func New(l logging.Logger) *Webcam {
	return &Webcam{log: l}
}

// Name returns the name of the device.
func (w *Webcam) Name() string {
	return "Webcam"
}

// ID returns the device node of the camera.
func (w *Webcam) ID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cfg.ColorDevice == "" {
		return defaultColorDevice
	}
	return w.cfg.ColorDevice
}

// Set will validate the ColorDevice, ColorWidth, ColorHeight and ColorFPS
// fields of the given Config struct and assign the struct to the Webcam's
// Config. If fields are not valid, an error is added to the multiError and a
// default value is used.
func (w *Webcam) Set(c config.Config) error {
	var errs device.MultiError
	if c.ColorDevice == "" {
		errs = append(errs, errBadColorDevice)
		c.ColorDevice = defaultColorDevice
	}

	if c.ColorWidth == 0 {
		errs = append(errs, errBadWidth)
		c.ColorWidth = defaultWidth
	}

	if c.ColorHeight == 0 {
		errs = append(errs, errBadHeight)
		c.ColorHeight = defaultHeight
	}

	if c.ColorFPS == 0 {
		errs = append(errs, errBadFrameRate)
		c.ColorFPS = defaultFrameRate
	}

	w.mu.Lock()
	w.cfg = c
	w.mu.Unlock()
	if len(errs) != 0 {
		return errs
	}
	return nil
}

// Start opens the camera for capture.
func (w *Webcam) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isRunning {
		return nil
	}
	cfg := w.cfg
	if cfg.ColorDevice == "" {
		cfg.ColorDevice = defaultColorDevice
	}
	if cfg.ColorWidth == 0 || cfg.ColorHeight == 0 {
		cfg.ColorWidth, cfg.ColorHeight = defaultWidth, defaultHeight
	}
	if cfg.ColorFPS == 0 {
		cfg.ColorFPS = defaultFrameRate
	}

	w.log.Info(pkg+"starting webcam", "device", cfg.ColorDevice, "width", cfg.ColorWidth, "height", cfg.ColorHeight)
	c := newCapturer(w.log)
	err := c.open(cfg)
	if err != nil {
		return fmt.Errorf("could not open webcam %s: %w", cfg.ColorDevice, err)
	}
	w.cap = c
	w.isRunning = true
	w.log.Info(pkg + "webcam started")
	return nil
}

// Stop releases the camera. A ReadColor in progress returns io.EOF.
func (w *Webcam) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.isRunning {
		return nil
	}
	w.isRunning = false
	err := w.cap.close()
	if err != nil {
		return fmt.Errorf("could not close webcam: %w", err)
	}
	return nil
}

// ReadColor implements ColorSource.
func (w *Webcam) ReadColor() (*device.ColorFrame, error) {
	w.mu.Lock()
	c := w.cap
	running := w.isRunning
	w.mu.Unlock()
	if !running {
		return nil, device.ErrNotStarted
	}
	return c.read()
}

// IsRunning is used to determine if the webcam is running.
func (w *Webcam) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}
