/*
DESCRIPTION
  joints.go enumerates the skeletal joints reported by the sensor and the
  contiguous joint runs that are drawn as a stick figure.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package skeleton

import "fmt"

// JointType identifies a skeletal joint.
type JointType uint8

// The joints of a skeleton.
const (
	HipCenter JointType = iota
	Spine
	ShoulderCenter
	Head
	ShoulderLeft
	ElbowLeft
	WristLeft
	HandLeft
	ShoulderRight
	ElbowRight
	WristRight
	HandRight
	HipLeft
	KneeLeft
	AnkleLeft
	FootLeft
	HipRight
	KneeRight
	AnkleRight
	FootRight

	// NumJoints is the number of joint types.
	NumJoints
)

var jointNames = [NumJoints]string{
	HipCenter:      "HipCenter",
	Spine:          "Spine",
	ShoulderCenter: "ShoulderCenter",
	Head:           "Head",
	ShoulderLeft:   "ShoulderLeft",
	ElbowLeft:      "ElbowLeft",
	WristLeft:      "WristLeft",
	HandLeft:       "HandLeft",
	ShoulderRight:  "ShoulderRight",
	ElbowRight:     "ElbowRight",
	WristRight:     "WristRight",
	HandRight:      "HandRight",
	HipLeft:        "HipLeft",
	KneeLeft:       "KneeLeft",
	AnkleLeft:      "AnkleLeft",
	FootLeft:       "FootLeft",
	HipRight:       "HipRight",
	KneeRight:      "KneeRight",
	AnkleRight:     "AnkleRight",
	FootRight:      "FootRight",
}

func (j JointType) String() string {
	if j < NumJoints {
		return jointNames[j]
	}
	return fmt.Sprintf("JointType(%d)", j)
}

// MarshalText implements encoding.TextMarshaler so joint maps are keyed by
// name in recordings.
func (j JointType) MarshalText() ([]byte, error) {
	if j >= NumJoints {
		return nil, fmt.Errorf("invalid joint type: %d", j)
	}
	return []byte(jointNames[j]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (j *JointType) UnmarshalText(b []byte) error {
	for i, n := range jointNames {
		if n == string(b) {
			*j = JointType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown joint: %q", b)
}

// SegmentRuns holds runs of contiguous joints; consecutive joints in a run are
// joined by a line when drawing a stick figure.
var SegmentRuns = [][]JointType{
	{Head, ShoulderCenter, HipCenter},
	{
		HandLeft, WristLeft, ElbowLeft, ShoulderLeft,
		ShoulderCenter,
		ShoulderRight, ElbowRight, WristRight, HandRight,
	},
	{
		FootLeft, AnkleLeft, KneeLeft, HipLeft,
		HipCenter,
		HipRight, KneeRight, AnkleRight, FootRight,
	},
}
