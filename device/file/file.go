/*
DESCRIPTION
  file.go provides an implementation of the SkeletonSource interface for
  skeleton recordings.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package file provides an implementation of SkeletonSource for recordings of
// newline-delimited JSON skeleton frames.
package file

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/slideshow/device"
	"github.com/ausocean/slideshow/slideshow/config"
)

// Used to indicate package in logging.
const pkg = "file: "

// File is an implementation of the SkeletonSource interface for a file
// containing skeleton frames, one per line. Reads release whole lines, at
// most FileFPS lines per second if a rate is set.
type File struct {
	f         *os.File
	r         *bufio.Reader
	pending   []byte // Unread part of the current line.
	next      time.Time
	path      string
	loop      bool
	fps       uint
	isRunning bool
	log       logging.Logger
	set       bool
	mu        sync.Mutex
}

// New returns a new File.
func New(l logging.Logger) *File { return &File{log: l} }

// NewWith returns a new File with required params provided i.e. the Set
// method does not need to be called. An fps of zero replays as fast as the
// file is read.
func NewWith(l logging.Logger, path string, loop bool, fps uint) *File {
	return &File{log: l, path: path, loop: loop, fps: fps, set: true}
}

// Name returns the name of the device.
func (m *File) Name() string {
	return "File"
}

// ID returns the path of the recording, which identifies the device.
func (m *File) ID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path
}

// Set takes SkeletonPath, Loop and FileFPS from c.
func (m *File) Set(c config.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.SkeletonPath == "" {
		return errors.New("no skeleton recording path")
	}
	m.path = c.SkeletonPath
	m.loop = c.Loop
	m.fps = c.FileFPS
	m.set = true
	return nil
}

// Start will open the recording at the configured path.
func (m *File) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return errors.New("File has not been set with config")
	}
	var err error
	m.f, err = os.Open(m.path)
	if err != nil {
		return errors.Wrap(err, "could not open skeleton recording")
	}
	m.r = bufio.NewReader(m.f)
	m.pending = nil
	m.next = time.Time{}
	m.isRunning = true
	m.log.Debug(pkg+"opened skeleton recording", "path", m.path, "loop", m.loop, "fps", m.fps)
	return nil
}

// Stop will close the file such that any further reads will fail.
func (m *File) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return nil
	}
	err := m.f.Close()
	m.f = nil
	m.isRunning = false
	if err != nil {
		return errors.Wrap(err, "could not close skeleton recording")
	}
	return nil
}

// Read implements io.Reader. If Start has not been called, or Start has been
// called and Stop has since been called, device.ErrNotStarted is returned.
// When looping, the end of the recording is followed by its first line.
func (m *File) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return 0, device.ErrNotStarted
	}

	if len(m.pending) == 0 {
		line, err := m.line()
		if err != nil {
			return 0, err
		}
		m.pending = line
		m.wait()
	}

	n := copy(p, m.pending)
	m.pending = m.pending[n:]
	return n, nil
}

// line returns the next line of the recording including its newline.
func (m *File) line() ([]byte, error) {
	for rewound := false; ; rewound = true {
		line, err := m.r.ReadBytes('\n')
		if len(line) != 0 {
			if !bytes.HasSuffix(line, []byte("\n")) {
				line = append(line, '\n')
			}
			return line, nil
		}
		if err != io.EOF {
			return nil, errors.Wrap(err, "could not read skeleton recording")
		}

		// An empty recording ends even when looping.
		if !m.loop || rewound {
			return nil, io.EOF
		}
		m.log.Info(pkg + "looping skeleton recording")
		_, err = m.f.Seek(0, io.SeekStart)
		if err != nil {
			return nil, errors.Wrap(err, "could not seek to start of recording for loop")
		}
		m.r.Reset(m.f)
	}
}

// wait holds back the release of a line until the replay rate allows it.
func (m *File) wait() {
	if m.fps == 0 {
		return
	}
	now := time.Now()
	if m.next.After(now) {
		time.Sleep(m.next.Sub(now))
	} else {
		m.next = now
	}
	m.next = m.next.Add(time.Second / time.Duration(m.fps))
}

// IsRunning is used to determine if the File device is running.
func (m *File) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.f != nil && m.isRunning
}
