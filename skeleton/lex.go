/*
DESCRIPTION
  lex.go provides reading and writing of skeleton frames as newline delimited
  JSON, the format produced by skeleton sources and skeleton recordings.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package skeleton

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// MaxLine is the longest frame line accepted by a Decoder or Lex.
const MaxLine = 1 << 20

var null = []byte("null")

var noDelay = make(chan time.Time)

func init() {
	close(noDelay)
}

// Decoder reads frames from a newline delimited JSON stream.
type Decoder struct {
	s *bufio.Scanner
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4<<10), MaxLine)
	return &Decoder{s: s}
}

// Decode returns the next frame. A line holding null is a frame the sensor
// could not provide and is returned as a nil frame with a nil error. Blank
// lines are skipped. io.EOF is returned at the end of the stream.
func (d *Decoder) Decode() (*Frame, error) {
	for d.s.Scan() {
		line := bytes.TrimSpace(d.s.Bytes())
		if len(line) == 0 {
			continue
		}
		return Unmarshal(line)
	}
	if err := d.s.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Unmarshal decodes one frame line. A line holding null gives a nil frame and
// a nil error.
func Unmarshal(line []byte) (*Frame, error) {
	line = bytes.TrimSpace(line)
	if bytes.Equal(line, null) {
		return nil, nil
	}
	var f Frame
	err := json.Unmarshal(line, &f)
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal frame: %w", err)
	}
	return &f, nil
}

// Encoder writes frames as newline delimited JSON.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder { return &Encoder{w: w} }

// Encode writes f followed by a newline. A nil f is written as null.
func (e *Encoder) Encode(f *Frame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("could not marshal frame: %w", err)
	}
	_, err = e.w.Write(append(b, '\n'))
	return err
}

// Lex reads frame lines from src and writes each to dst in a single Write
// call, with successive writes being performed not earlier than the specified
// delay. Blank lines are skipped. Lex returns io.EOF when src is exhausted, or
// the first read or write error.
func Lex(dst io.Writer, src io.Reader, delay time.Duration) error {
	var tick <-chan time.Time
	if delay == 0 {
		tick = noDelay
	} else {
		ticker := time.NewTicker(delay)
		defer ticker.Stop()
		tick = ticker.C
	}

	s := bufio.NewScanner(src)
	s.Buffer(make([]byte, 0, 4<<10), MaxLine)
	for s.Scan() {
		line := bytes.TrimSpace(s.Bytes())
		if len(line) == 0 {
			continue
		}
		<-tick
		_, err := dst.Write(line)
		if err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		return err
	}
	return io.EOF
}
