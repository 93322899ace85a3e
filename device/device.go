/*
DESCRIPTION
  device.go provides Device, an interface that describes a configurable
  sensor that can be started and stopped from which frames may be obtained,
  and the manual sensors that are fed through software.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package device provides an interface and implementations for sensors
// that can be started and stopped from which skeleton or colour frames can be
// obtained.
package device

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ausocean/slideshow/slideshow/config"
)

// ErrNotStarted is returned by reads from a device that has not been started,
// or has been stopped.
var ErrNotStarted = errors.New("device not started")

// Device describes a configurable sensor from which frames can be obtained.
type Device interface {
	// Name returns the name of the Device.
	Name() string

	// ID returns the stable hardware identifier of the Device. The slideshow
	// selects its front and rear sensors by this identifier.
	ID() string

	// Set allows for configuration of the Device using a Config struct. All,
	// some or none of the fields of the Config struct may be used for
	// configuration by an implementation. An implementation should specify
	// what fields are considered.
	Set(c config.Config) error

	// Start will start the Device capturing; after which frames may be read.
	Start() error

	// Stop will stop the Device from capturing. From this point reads will no
	// longer be successful.
	Stop() error

	// IsRunning is used to determine if the device is running.
	IsRunning() bool
}

// SkeletonSource is a Device providing skeleton frames. Reads give
// newline-delimited JSON frames as decoded by skeleton.Decoder.
type SkeletonSource interface {
	Device
	io.Reader
}

// ColorSource is a Device providing colour frames.
type ColorSource interface {
	Device

	// ReadColor blocks until the next colour frame is available. A nil frame
	// with a nil error means no frame was ready and the caller should try
	// again. io.EOF is returned once the device has no more frames.
	ReadColor() (*ColorFrame, error)
}

// MultiError implements the built in error interface. MultiError is used here
// to collect multi errors during validation of configuration parameters for
// devices.
type MultiError []error

func (me MultiError) Error() string {
	if len(me) == 0 {
		panic("device: invalid use of MultiError")
	}
	return fmt.Sprintf("%v", []error(me))
}

// ManualInput is an implementation of SkeletonSource that represents a manual
// input mechanism, i.e. frames are written to this input manually through
// software (ManualInput also implements io.Writer, unlike other
// implementations). The ManualInput employs an io.Pipe, as such, every write
// must be accompanied by a full read (or reads) of the bytes, otherwise
// blocking will occur (and vice versa).
type ManualInput struct {
	id        string
	mu        sync.Mutex
	isRunning bool
	reader    *io.PipeReader
	writer    *io.PipeWriter
}

// NewManualInput provides a new ManualInput identified by id.
func NewManualInput(id string) *ManualInput {
	return &ManualInput{id: id}
}

// Read reads from the manual input and puts the bytes into p. Once stopped,
// reads return io.EOF.
func (m *ManualInput) Read(p []byte) (int, error) {
	m.mu.Lock()
	r := m.reader
	m.mu.Unlock()
	if r == nil {
		return 0, ErrNotStarted
	}
	return r.Read(p)
}

// Name returns the name of ManualInput i.e. "ManualInput".
func (m *ManualInput) Name() string { return "ManualInput" }

// ID implements Device.
func (m *ManualInput) ID() string { return m.id }

// Set is a stub to satisfy the Device interface; no configuration fields are
// required by ManualInput.
func (m *ManualInput) Set(c config.Config) error { return nil }

// Start sets the ManualInput isRunning flag to true and opens a new pipe.
func (m *ManualInput) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isRunning = true
	m.reader, m.writer = io.Pipe()
	return nil
}

// Stop closes the pipe and sets the isRunning flag to false. Reads blocked on
// the pipe return io.EOF.
func (m *ManualInput) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writer != nil {
		m.writer.Close()
	}
	m.isRunning = false
	return nil
}

// IsRunning returns the value of the isRunning flag to indicate if Start has
// been called (and Stop has not been called after).
func (m *ManualInput) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isRunning
}

// Write writes p to the ManualInput's writer side of its pipe.
func (m *ManualInput) Write(p []byte) (int, error) {
	m.mu.Lock()
	w := m.writer
	running := m.isRunning
	m.mu.Unlock()
	if !running {
		return 0, ErrNotStarted
	}
	return w.Write(p)
}

// ManualColor is an implementation of ColorSource whose frames are pushed
// through software using Push.
type ManualColor struct {
	id     string
	mu     sync.Mutex
	frames chan *ColorFrame
	done   chan struct{}
}

// NewManualColor provides a new ManualColor identified by id.
func NewManualColor(id string) *ManualColor { return &ManualColor{id: id} }

// Name returns the name of ManualColor i.e. "ManualColor".
func (m *ManualColor) Name() string { return "ManualColor" }

// ID implements Device.
func (m *ManualColor) ID() string { return m.id }

// Set is a stub to satisfy the Device interface.
func (m *ManualColor) Set(c config.Config) error { return nil }

// Start readies the ManualColor for Push and ReadColor.
func (m *ManualColor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done != nil {
		return nil
	}
	m.frames = make(chan *ColorFrame)
	m.done = make(chan struct{})
	return nil
}

// Stop unblocks any Push or ReadColor in progress.
func (m *ManualColor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done != nil {
		close(m.done)
		m.done = nil
	}
	return nil
}

// IsRunning implements Device.
func (m *ManualColor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done != nil
}

// Push blocks until f has been read or the ManualColor is stopped.
func (m *ManualColor) Push(f *ColorFrame) error {
	frames, done := m.chans()
	if done == nil {
		return ErrNotStarted
	}
	select {
	case frames <- f:
		return nil
	case <-done:
		return ErrNotStarted
	}
}

// ReadColor implements ColorSource. io.EOF is returned once stopped.
func (m *ManualColor) ReadColor() (*ColorFrame, error) {
	frames, done := m.chans()
	if done == nil {
		return nil, ErrNotStarted
	}
	select {
	case f := <-frames:
		return f, nil
	case <-done:
		return nil, io.EOF
	}
}

func (m *ManualColor) chans() (chan *ColorFrame, chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames, m.done
}
