/*
DESCRIPTION
  slideshow is a gesture driven picture slideshow. People in front of the
  front sensor browse the pictures by swiping; while nobody is in view the
  rear camera feed is shown.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Slideshow is the command running the gesture slideshow.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/slideshow/device"
	"github.com/ausocean/slideshow/device/file"
	"github.com/ausocean/slideshow/device/webcam"
	"github.com/ausocean/slideshow/picture"
	"github.com/ausocean/slideshow/render"
	"github.com/ausocean/slideshow/render/window"
	"github.com/ausocean/slideshow/slideshow"
	"github.com/ausocean/slideshow/slideshow/config"
	"github.com/ausocean/utils/logging"
)

// Current software version.
const version = "v0.1.0"

// Logging configuration.
const (
	logPath      = "/var/log/slideshow/slideshow.log"
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

// Misc constants.
const (
	profilePath = "slideshow.prof"
	pkg         = "slideshow: "
	frameDelay  = 15 // Milliseconds between window refreshes.
)

// This is set to true if the 'profile' build tag is provided on build.
var canProfile = false

// vars collects repeated -set Key=Value flags.
type vars map[string]string

func (v vars) String() string {
	var s []string
	for k, val := range v {
		s = append(s, k+"="+val)
	}
	return strings.Join(s, ",")
}

func (v vars) Set(s string) error {
	k, val, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("expected Key=Value, got %q", s)
	}
	v[k] = val
	return nil
}

func main() {
	set := make(vars)
	showVersion := flag.Bool("version", false, "show version")
	logFile := flag.String("log", logPath, "log file path")
	toStderr := flag.Bool("stderr", false, "also write logs to stderr")
	pictures := flag.String("pictures", "", "picture directory, overrides the PicturePath variable")
	skeletons := flag.String("skeletons", "", "skeleton recording, overrides the SkeletonPath variable")
	snapshot := flag.String("snapshot", "", "write the canvas to this PNG file periodically instead of opening a window")
	period := flag.Duration("period", time.Second, "snapshot period")
	flag.Var(set, "set", "set a config variable as Key=Value, may be repeated")
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Create lumberjack logger to handle logging to file.
	fileLog := &lumberjack.Logger{
		Filename:   *logFile,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	var w io.Writer = fileLog
	if *toStderr {
		w = io.MultiWriter(fileLog, os.Stderr)
	}
	log := logging.New(logVerbosity, w, logSuppress)
	log.Info("starting slideshow", "version", version)

	// If built with the profile tag, then we'll start a CPU profile.
	if canProfile {
		profile(log)
		defer pprof.StopCPUProfile()
		log.Info("profiling started")
	}

	if *pictures != "" {
		set[config.KeyPicturePath] = *pictures
	}
	if *skeletons != "" {
		set[config.KeySkeletonPath] = *skeletons
	}
	cfg := config.Config{Logger: log}
	cfg.Update(set)
	err := cfg.Validate()
	if err != nil {
		log.Fatal(pkg+"invalid config", "error", err.Error())
	}
	log.SetLevel(cfg.LogLevel)

	paths, err := picture.Discover(cfg.PicturePath, cfg.PictureFallback, cfg.PictureExt, cfg.PictureAltExt)
	switch {
	case errors.Is(err, picture.ErrNoPictures):
		log.Warning(pkg+"no pictures found, showing blank slides", "path", cfg.PicturePath, "fallback", cfg.PictureFallback)
	case err != nil:
		log.Fatal(pkg+"could not discover pictures", "error", err.Error())
	}
	log.Info(pkg+"pictures discovered", "count", len(paths))
	store := picture.New(log, paths, int(cfg.PictureCache))

	reg := device.NewRegistry()
	for _, d := range []device.Device{file.New(log), webcam.New(log)} {
		err = d.Set(cfg)
		if err != nil {
			log.Warning(pkg+"errors from configuring device", "device", d.Name(), "errors", err.Error())
		}
		reg.Add(d)
	}

	canvas := render.NewCanvas(int(cfg.Width), int(cfg.Height), cfg.TransitionDuration)

	log.Debug("initialising slideshow")
	ss, err := slideshow.New(cfg, reg, store, canvas, nil)
	if err != nil {
		log.Fatal(pkg+"could not initialise slideshow", "error", err.Error())
	}
	ss.Subscribe(func(st slideshow.Status) {
		log.Info(pkg+"sensor status changed", "disconnected", st.Disconnected, "reason", st.Reason)
	})

	err = ss.Start()
	if err != nil {
		log.Warning(pkg+"sensors unavailable, waiting for hot plug", "error", err.Error())
	}
	err = ss.Watch(cfg.DeviceDir)
	if err != nil {
		log.Warning(pkg+"could not watch for sensors", "error", err.Error())
	}

	ok, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		log.Warning(pkg+"could not notify systemd", "error", err.Error())
	} else if ok {
		log.Debug(pkg + "notified systemd of readiness")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	log.Debug("beginning main loop")
	if *snapshot == "" && window.Available {
		show(canvas, sig, log)
	} else {
		snap(canvas, *snapshot, *period, sig, log)
	}

	daemon.SdNotify(false, daemon.SdNotifyStopping)
	ss.Stop()
	store.Wait()
	log.Info("slideshow stopped")
}

// show displays the canvas in a window until it is closed or a signal is
// received. The window is serviced on the main goroutine.
func show(c *render.Canvas, sig chan os.Signal, l logging.Logger) {
	win, err := window.New("slideshow", c)
	if err != nil {
		l.Error(pkg+"could not open window", "error", err.Error())
		<-sig
		return
	}
	defer win.Close()
	for {
		select {
		case s := <-sig:
			l.Info(pkg+"received signal", "signal", s.String())
			return
		default:
		}
		open, err := win.Show(frameDelay)
		if err != nil {
			l.Error(pkg+"could not show canvas", "error", err.Error())
		}
		if !open {
			l.Info(pkg + "window closed")
			return
		}
	}
}

// snap writes the canvas to path every period until a signal is received.
// Nothing is written if path is empty.
func snap(c *render.Canvas, path string, period time.Duration, sig chan os.Signal, l logging.Logger) {
	if path == "" {
		l.Info(pkg + "running headless")
		s := <-sig
		l.Info(pkg+"received signal", "signal", s.String())
		return
	}
	tick := time.NewTicker(period)
	defer tick.Stop()
	for {
		select {
		case s := <-sig:
			l.Info(pkg+"received signal", "signal", s.String())
			return
		case <-tick.C:
			err := c.Snapshot(path)
			if err != nil {
				l.Error(pkg+"could not write snapshot", "error", err.Error())
			}
		}
	}
}

// profile opens a file to hold CPU profiling metrics and then starts the
// CPU profiler.
func profile(l logging.Logger) {
	f, err := os.Create(profilePath)
	if err != nil {
		l.Fatal(pkg+"could not create CPU profile", "error", err.Error())
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		l.Fatal(pkg+"could not start CPU profile", "error", err.Error())
	}
}
