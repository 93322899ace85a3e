/*
DESCRIPTION
  skeleton_test.go tests joint projection and the frame wire format.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package skeleton

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestProject(t *testing.T) {
	tests := []struct {
		p    r3.Vec
		w, h float64
		want Point
	}{
		{p: r3.Vec{}, w: 640, h: 480, want: Point{X: 320, Y: 320}},
		{p: r3.Vec{X: 1.5, Y: 1.5}, w: 640, h: 480, want: Point{X: 560, Y: 80}},
		{p: r3.Vec{X: -1.5, Y: -1.5, Z: 2}, w: 640, h: 480, want: Point{X: 80, Y: 560}},
		{p: r3.Vec{X: 3, Y: 0}, w: 300, h: 300, want: Point{X: 450, Y: 150}}, // Off surface, not clipped.
	}

	for i, test := range tests {
		got := Project(test.p, test.w, test.h)
		if !cmp.Equal(got, test.want, cmpopts.EquateApprox(0, 1e-9)) {
			t.Errorf("did not get expected result for test %d\ngot: %v\nwant: %v", i, got, test.want)
		}
	}
}

func TestScaleTo(t *testing.T) {
	tests := []struct {
		p    r3.Vec
		want Point
	}{
		{p: r3.Vec{}, want: Point{X: 450, Y: 270}},
		{p: r3.Vec{X: 0.4, Y: 0.4}, want: Point{X: 675, Y: 135}},
		{p: r3.Vec{X: 0.8, Y: -0.8}, want: Point{X: 900, Y: 540}},
		{p: r3.Vec{X: 5, Y: 5}, want: Point{X: 900, Y: 0}},
		{p: r3.Vec{X: -5, Y: -5}, want: Point{X: 0, Y: 540}},
	}

	for i, test := range tests {
		got := ScaleTo(test.p, 900, 540, 0.8, 0.8)
		if !cmp.Equal(got, test.want, cmpopts.EquateApprox(0, 1e-9)) {
			t.Errorf("did not get expected result for test %d\ngot: %v\nwant: %v", i, got, test.want)
		}
	}
}

func TestSegmentRuns(t *testing.T) {
	var segments int
	seen := make(map[JointType]bool)
	for _, run := range SegmentRuns {
		segments += len(run) - 1
		for _, j := range run {
			seen[j] = true
		}
	}
	const wantSegments = 2 + 8 + 8
	if segments != wantSegments {
		t.Errorf("unexpected number of segments: got %d, want %d", segments, wantSegments)
	}
	if seen[Spine] {
		t.Error("spine should not be part of the stick figure")
	}
	if len(seen) != int(NumJoints)-1 {
		t.Errorf("unexpected number of joints drawn: got %d, want %d", len(seen), NumJoints-1)
	}
}

func TestDecode(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	want := &Frame{
		Timestamp: ts,
		Subjects: []Subject{
			{
				ID:       7,
				State:    Tracked,
				Position: r3.Vec{X: 0.1, Y: 0.2, Z: 2},
				Joints: map[JointType]Joint{
					HandLeft:  {Position: r3.Vec{X: -0.4, Y: 0.1, Z: 1.8}, State: JointTracked},
					HandRight: {Position: r3.Vec{X: 0.4, Y: 0.1, Z: 1.8}, State: JointInferred},
				},
			},
			{State: NotTracked},
		},
	}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if err := enc.Encode(want); err != nil {
		t.Fatalf("did not expect error encoding frame: %v", err)
	}
	if err := enc.Encode(nil); err != nil {
		t.Fatalf("did not expect error encoding nil frame: %v", err)
	}
	buf.WriteString("\n\n")

	if !strings.Contains(buf.String(), `"HandLeft"`) {
		t.Errorf("expected joints to be keyed by name, got: %s", buf.String())
	}

	d := NewDecoder(&buf)
	got, err := d.Decode()
	if err != nil {
		t.Fatalf("did not expect error decoding frame: %v", err)
	}
	if !cmp.Equal(got, want) {
		t.Errorf("decoded frame not as expected\n%s", cmp.Diff(want, got))
	}

	got, err = d.Decode()
	if err != nil || got != nil {
		t.Errorf("expected nil frame and nil error for null line, got: %v, %v", got, err)
	}

	_, err = d.Decode()
	if err != io.EOF {
		t.Errorf("expected io.EOF, got: %v", err)
	}
}

// lines records each Write as one line, failing once limit lines are held.
type lines struct {
	got   []string
	limit int
}

var errFull = errors.New("full")

func (l *lines) Write(p []byte) (int, error) {
	if l.limit != 0 && len(l.got) == l.limit {
		return 0, errFull
	}
	l.got = append(l.got, string(p))
	return len(p), nil
}

func TestLex(t *testing.T) {
	const in = `{"subjects":[{"id":1,"state":"Tracked"}]}

null
{"subjects":[{"id":2,"state":"PositionOnly"}]}
`
	var dst lines
	err := Lex(&dst, strings.NewReader(in), 0)
	if err != io.EOF {
		t.Fatalf("expected io.EOF from Lex, got: %v", err)
	}
	want := []string{`{"subjects":[{"id":1,"state":"Tracked"}]}`, "null", `{"subjects":[{"id":2,"state":"PositionOnly"}]}`}
	if !cmp.Equal(dst.got, want) {
		t.Fatalf("unexpected lines\n%s", cmp.Diff(want, dst.got))
	}

	f, err := Unmarshal([]byte(dst.got[1]))
	if err != nil || f != nil {
		t.Errorf("expected unavailable frame for null line, got: %v, %v", f, err)
	}
	f, err = Unmarshal([]byte(dst.got[2]))
	if err != nil {
		t.Fatalf("could not unmarshal frame: %v", err)
	}
	if f.Subjects[0].State != PositionOnly {
		t.Errorf("unexpected state for third frame: %v", f.Subjects[0].State)
	}
	if _, err := Unmarshal([]byte("{")); err == nil {
		t.Error("expected error for malformed line")
	}

	limited := lines{limit: 1}
	start := time.Now()
	err = Lex(&limited, strings.NewReader(in), 20*time.Millisecond)
	if err != errFull || len(limited.got) != 1 {
		t.Errorf("expected Lex to stop on dst error after one line, got err: %v, lines: %d", err, len(limited.got))
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("writes not paced by delay: took %v", elapsed)
	}
}
