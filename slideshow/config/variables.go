/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ausocean/utils/logging"
)

// Config map Keys.
const (
	KeyColorDevice        = "ColorDevice"
	KeyColorFPS           = "ColorFPS"
	KeyColorHeight        = "ColorHeight"
	KeyColorWidth         = "ColorWidth"
	KeyDeviceDir          = "DeviceDir"
	KeyFileFPS            = "FileFPS"
	KeyFrameBuffer        = "FrameBuffer"
	KeyFrontID            = "FrontID"
	KeyHandRangeX         = "HandRangeX"
	KeyHandRangeY         = "HandRangeY"
	KeyHeight             = "Height"
	KeyHighlightDuration  = "HighlightDuration"
	KeyLogging            = "logging"
	KeyLoop               = "Loop"
	KeyPictureAltExt      = "PictureAltExt"
	KeyPictureCache       = "PictureCache"
	KeyPictureExt         = "PictureExt"
	KeyPictureFallback    = "PictureFallback"
	KeyPicturePath        = "PicturePath"
	KeyRearID             = "RearID"
	KeySkeletonPath       = "SkeletonPath"
	KeySwipeDistance      = "SwipeDistance"
	KeySwipeDrift         = "SwipeDrift"
	KeySwipeLockout       = "SwipeLockout"
	KeySwipeWindow        = "SwipeWindow"
	KeyTransitionDuration = "TransitionDuration"
	KeyWidth              = "Width"
)

// Config map parameter types.
const (
	typeString   = "string"
	typeUint     = "uint"
	typeBool     = "bool"
	typeFloat    = "float"
	typeDuration = "duration"
)

// Default variable values.
const (
	defaultVerbosity = logging.Info

	// Sensors.
	defaultSkeletonPath = "skeletons.ndjson"
	defaultColorDevice  = "/dev/video0"
	defaultColorWidth   = 640
	defaultColorHeight  = 480
	defaultColorFPS     = 30
	defaultDeviceDir    = "/dev"
	defaultFrameBuffer  = 4

	// Pictures.
	defaultPicturePath   = "pictures"
	defaultPictureExt    = ".jpg"
	defaultPictureAltExt = ".png"
	defaultPictureCache  = 5

	// Surface and hand markers.
	defaultWidth      = 900
	defaultHeight     = 540
	defaultHandRangeX = 0.8
	defaultHandRangeY = 0.8

	// Timing.
	defaultHighlightDuration  = 500 * time.Millisecond
	defaultTransitionDuration = 400 * time.Millisecond

	// Swipe recognition.
	defaultSwipeDistance = 0.4
	defaultSwipeDrift    = 0.15
	defaultSwipeWindow   = 500 * time.Millisecond
	defaultSwipeLockout  = 700 * time.Millisecond
)

// Variables describes the variables that can be used for slideshow control.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyColorDevice,
		Type:   typeString,
		Update: func(c *Config, v string) { c.ColorDevice = v },
		Validate: func(c *Config) {
			if c.ColorDevice == "" {
				c.LogInvalidField(KeyColorDevice, defaultColorDevice)
				c.ColorDevice = defaultColorDevice
			}
		},
	},
	{
		Name:     KeyColorFPS,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.ColorFPS = parseUint(KeyColorFPS, v, c) },
		Validate: func(c *Config) { c.ColorFPS = lessThanOrEqual(KeyColorFPS, c.ColorFPS, 0, c, defaultColorFPS) },
	},
	{
		Name:     KeyColorHeight,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.ColorHeight = parseUint(KeyColorHeight, v, c) },
		Validate: func(c *Config) { c.ColorHeight = lessThanOrEqual(KeyColorHeight, c.ColorHeight, 0, c, defaultColorHeight) },
	},
	{
		Name:     KeyColorWidth,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.ColorWidth = parseUint(KeyColorWidth, v, c) },
		Validate: func(c *Config) { c.ColorWidth = lessThanOrEqual(KeyColorWidth, c.ColorWidth, 0, c, defaultColorWidth) },
	},
	{
		Name:   KeyDeviceDir,
		Type:   typeString,
		Update: func(c *Config, v string) { c.DeviceDir = v },
		Validate: func(c *Config) {
			if c.DeviceDir == "" {
				c.LogInvalidField(KeyDeviceDir, defaultDeviceDir)
				c.DeviceDir = defaultDeviceDir
			}
		},
	},
	{
		Name:   KeyFileFPS,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.FileFPS = parseUint(KeyFileFPS, v, c) },
	},
	{
		Name:     KeyFrameBuffer,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.FrameBuffer = parseUint(KeyFrameBuffer, v, c) },
		Validate: func(c *Config) { c.FrameBuffer = lessThanOrEqual(KeyFrameBuffer, c.FrameBuffer, 0, c, defaultFrameBuffer) },
	},
	{
		Name:   KeyFrontID,
		Type:   typeString,
		Update: func(c *Config, v string) { c.FrontID = v },
		Validate: func(c *Config) {
			if c.FrontID != "" {
				return
			}
			// The file sensor is identified by the recording it plays.
			def := c.SkeletonPath
			if def == "" {
				def = defaultSkeletonPath
			}
			c.LogInvalidField(KeyFrontID, def)
			c.FrontID = def
		},
	},
	{
		Name:     KeyHandRangeX,
		Type:     typeFloat,
		Update:   func(c *Config, v string) { c.HandRangeX = parseFloat(KeyHandRangeX, v, c) },
		Validate: func(c *Config) { c.HandRangeX = positiveFloat(KeyHandRangeX, c.HandRangeX, c, defaultHandRangeX) },
	},
	{
		Name:     KeyHandRangeY,
		Type:     typeFloat,
		Update:   func(c *Config, v string) { c.HandRangeY = parseFloat(KeyHandRangeY, v, c) },
		Validate: func(c *Config) { c.HandRangeY = positiveFloat(KeyHandRangeY, c.HandRangeY, c, defaultHandRangeY) },
	},
	{
		Name:     KeyHeight,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.Height = parseUint(KeyHeight, v, c) },
		Validate: func(c *Config) { c.Height = lessThanOrEqual(KeyHeight, c.Height, 0, c, defaultHeight) },
	},
	{
		Name:   KeyHighlightDuration,
		Type:   typeDuration,
		Update: func(c *Config, v string) { c.HighlightDuration = parseDuration(KeyHighlightDuration, v, c) },
		Validate: func(c *Config) {
			c.HighlightDuration = positiveDuration(KeyHighlightDuration, c.HighlightDuration, c, defaultHighlightDuration)
		},
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
	{
		Name:   KeyLoop,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Loop = parseBool(KeyLoop, v, c) },
	},
	{
		Name:   KeyPictureAltExt,
		Type:   typeString,
		Update: func(c *Config, v string) { c.PictureAltExt = v },
		Validate: func(c *Config) {
			if c.PictureAltExt == "" {
				c.LogInvalidField(KeyPictureAltExt, defaultPictureAltExt)
				c.PictureAltExt = defaultPictureAltExt
			}
		},
	},
	{
		Name:     KeyPictureCache,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.PictureCache = parseUint(KeyPictureCache, v, c) },
		Validate: func(c *Config) { c.PictureCache = lessThanOrEqual(KeyPictureCache, c.PictureCache, 0, c, defaultPictureCache) },
	},
	{
		Name:   KeyPictureExt,
		Type:   typeString,
		Update: func(c *Config, v string) { c.PictureExt = v },
		Validate: func(c *Config) {
			if c.PictureExt == "" {
				c.LogInvalidField(KeyPictureExt, defaultPictureExt)
				c.PictureExt = defaultPictureExt
			}
		},
	},
	{
		Name:   KeyPictureFallback,
		Type:   typeString,
		Update: func(c *Config, v string) { c.PictureFallback = v },
	},
	{
		Name:   KeyPicturePath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.PicturePath = v },
		Validate: func(c *Config) {
			if c.PicturePath == "" {
				c.LogInvalidField(KeyPicturePath, defaultPicturePath)
				c.PicturePath = defaultPicturePath
			}
		},
	},
	{
		Name:   KeyRearID,
		Type:   typeString,
		Update: func(c *Config, v string) { c.RearID = v },
		Validate: func(c *Config) {
			if c.RearID != "" {
				return
			}
			// The camera is identified by its device node.
			def := c.ColorDevice
			if def == "" {
				def = defaultColorDevice
			}
			c.LogInvalidField(KeyRearID, def)
			c.RearID = def
		},
	},
	{
		Name:   KeySkeletonPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.SkeletonPath = v },
		Validate: func(c *Config) {
			if c.SkeletonPath == "" {
				c.LogInvalidField(KeySkeletonPath, defaultSkeletonPath)
				c.SkeletonPath = defaultSkeletonPath
			}
		},
	},
	{
		Name:     KeySwipeDistance,
		Type:     typeFloat,
		Update:   func(c *Config, v string) { c.SwipeDistance = parseFloat(KeySwipeDistance, v, c) },
		Validate: func(c *Config) { c.SwipeDistance = positiveFloat(KeySwipeDistance, c.SwipeDistance, c, defaultSwipeDistance) },
	},
	{
		Name:     KeySwipeDrift,
		Type:     typeFloat,
		Update:   func(c *Config, v string) { c.SwipeDrift = parseFloat(KeySwipeDrift, v, c) },
		Validate: func(c *Config) { c.SwipeDrift = positiveFloat(KeySwipeDrift, c.SwipeDrift, c, defaultSwipeDrift) },
	},
	{
		Name:     KeySwipeLockout,
		Type:     typeDuration,
		Update:   func(c *Config, v string) { c.SwipeLockout = parseDuration(KeySwipeLockout, v, c) },
		Validate: func(c *Config) { c.SwipeLockout = positiveDuration(KeySwipeLockout, c.SwipeLockout, c, defaultSwipeLockout) },
	},
	{
		Name:     KeySwipeWindow,
		Type:     typeDuration,
		Update:   func(c *Config, v string) { c.SwipeWindow = parseDuration(KeySwipeWindow, v, c) },
		Validate: func(c *Config) { c.SwipeWindow = positiveDuration(KeySwipeWindow, c.SwipeWindow, c, defaultSwipeWindow) },
	},
	{
		Name:   KeyTransitionDuration,
		Type:   typeDuration,
		Update: func(c *Config, v string) { c.TransitionDuration = parseDuration(KeyTransitionDuration, v, c) },
		Validate: func(c *Config) {
			c.TransitionDuration = positiveDuration(KeyTransitionDuration, c.TransitionDuration, c, defaultTransitionDuration)
		},
	},
	{
		Name:     KeyWidth,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.Width = parseUint(KeyWidth, v, c) },
		Validate: func(c *Config) { c.Width = lessThanOrEqual(KeyWidth, c.Width, 0, c, defaultWidth) },
	},
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseFloat(n, v string, c *Config) float64 {
	_v, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected float for param %s", n), "value", v)
	}
	return _v
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
	}
	return
}

// parseDuration accepts a Go duration string such as "500ms", or a bare
// integer which is taken as milliseconds.
func parseDuration(n, v string, c *Config) time.Duration {
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected duration for param %s", n), "value", v)
	}
	return d
}

func lessThanOrEqual(n string, v, cmp uint, c *Config, def uint) uint {
	if v <= cmp {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}

func positiveFloat(n string, v float64, c *Config, def float64) float64 {
	if v <= 0 {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}

func positiveDuration(n string, v time.Duration, c *Config, def time.Duration) time.Duration {
	if v <= 0 {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}
