/*
NAME
  config.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for the slideshow.
package config

import (
	"time"

	"github.com/ausocean/utils/logging"
)

// Config provides parameters relevant to a slideshow instance. A new config
// must be passed to the constructor. Default values for these fields are
// defined as consts in variables.go and applied by Validate.
type Config struct {
	// ColorDevice is the V4L device node the rear camera is captured from.
	ColorDevice string

	ColorFPS    uint // Capture rate of the rear camera.
	ColorHeight uint // Capture height of the rear camera.
	ColorWidth  uint // Capture width of the rear camera.

	// DeviceDir is the directory watched for sensors being plugged in while
	// the slideshow is disconnected.
	DeviceDir string

	FileFPS uint // Rate at which frames from a skeleton recording are replayed. 0 replays as fast as read.

	// FrameBuffer is the number of frames from each sensor that may be queued
	// for processing before the oldest are dropped.
	FrameBuffer uint

	// FrontID is the identifier of the front sensor, which provides skeleton
	// frames.
	FrontID string

	HandRangeX float64 // Metres either side of the sensor that reach the surface edge for hand markers.
	HandRangeY float64 // Metres above or below the sensor that reach the surface edge for hand markers.

	Height uint // Height of the drawing surface.

	// HighlightDuration is how long a subject whose gesture was accepted is
	// drawn in the emphasis colour.
	HighlightDuration time.Duration

	// Logger holds an implementation of the Logger interface. This must be set
	// for the slideshow to work correctly.
	Logger logging.Logger

	// LogLevel is the logging verbosity level.
	// Valid values are defined by enums from the logger package: logging.Debug,
	// logging.Info, logging.Warning logging.Error, logging.Fatal.
	LogLevel int8

	Loop bool // If true the skeleton recording is restarted after io.EOF.

	// PictureAltExt is the picture file extension searched for when no
	// pictures with PictureExt are found.
	PictureAltExt string

	PictureCache uint // Number of decoded pictures kept in memory.
	PictureExt   string

	// PictureFallback is searched for pictures if PicturePath holds none.
	PictureFallback string

	PicturePath string // Directory searched recursively for pictures.

	// RearID is the identifier of the rear sensor, which provides colour
	// frames.
	RearID string

	// SkeletonPath is the skeleton recording replayed by the file sensor.
	SkeletonPath string

	SwipeDistance float64       // Horizontal hand travel in metres for a swipe.
	SwipeDrift    float64       // Vertical hand range in metres allowed during a swipe.
	SwipeLockout  time.Duration // Time after a swipe before the same subject may swipe again.
	SwipeWindow   time.Duration // Time over which hand travel is measured.

	// TransitionDuration is the length of the slide animation after a
	// picture change.
	TransitionDuration time.Duration

	Width uint // Width of the drawing surface.
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

// LogInvalidField logs that the field name was bad or unset and is being
// defaulted to def.
func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
