/*
DESCRIPTION
  skeleton.go provides the types describing the bodies reported by a skeletal
  tracking sensor for a single instant in time.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package skeleton provides the body, joint and frame types produced by a
// skeletal tracking sensor, the joint runs that make up a stick figure, the
// projection of joint positions onto a drawing surface and a line based wire
// format for recording and replaying frames.
package skeleton

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// NoID is the tracking ID used where no subject is selected.
const NoID = -1

// TrackingState describes how much of a subject the sensor could resolve.
type TrackingState uint8

// Subject tracking states.
const (
	NotTracked TrackingState = iota
	PositionOnly
	Tracked
)

func (s TrackingState) String() string {
	switch s {
	case NotTracked:
		return "NotTracked"
	case PositionOnly:
		return "PositionOnly"
	case Tracked:
		return "Tracked"
	default:
		return fmt.Sprintf("TrackingState(%d)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s TrackingState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TrackingState) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "nottracked", "":
		*s = NotTracked
	case "positiononly":
		*s = PositionOnly
	case "tracked":
		*s = Tracked
	default:
		return fmt.Errorf("unknown tracking state: %q", b)
	}
	return nil
}

// JointState describes the confidence the sensor has in a joint position.
type JointState uint8

// Joint tracking states.
const (
	JointNotTracked JointState = iota
	JointInferred
	JointTracked
)

// Joint is a single skeletal joint in sensor space. Positions are in metres
// with the sensor at the origin, X lateral, Y up and Z away from the sensor.
type Joint struct {
	Position r3.Vec     `json:"position"`
	State    JointState `json:"state"`
}

// Subject is one body reported by the sensor.
type Subject struct {
	ID       int                 `json:"id"`
	State    TrackingState       `json:"state"`
	Position r3.Vec              `json:"position"`
	Joints   map[JointType]Joint `json:"joints,omitempty"`
}

// IsTracked returns true if the full skeleton of the subject is available.
func (s *Subject) IsTracked() bool { return s.State == Tracked }

// Joint returns the joint of type j. A joint the sensor did not report is
// returned with a zero position and JointNotTracked state.
func (s *Subject) Joint(j JointType) Joint {
	return s.Joints[j]
}

// Frame is the set of subjects reported by the sensor at one instant. The
// length of Subjects is the sensor's fixed subject capacity; untracked slots
// are included.
type Frame struct {
	Timestamp time.Time `json:"timestamp"`
	Subjects  []Subject `json:"subjects"`
}
