//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  capture_ffmpeg.go captures webcam frames by piping raw video from an ffmpeg
  process.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package webcam

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/slideshow/device"
	"github.com/ausocean/slideshow/slideshow/config"
)

// ffmpegCapture reads fixed size BGR32 frames from the stdout of ffmpeg.
type ffmpegCapture struct {
	log  logging.Logger
	cmd  *exec.Cmd
	out  io.ReadCloser
	w, h int
}

func newCapturer(l logging.Logger) capturer { return &ffmpegCapture{log: l} }

func (c *ffmpegCapture) open(cfg config.Config) error {
	c.w, c.h = int(cfg.ColorWidth), int(cfg.ColorHeight)
	args := []string{
		"-f", "v4l2",
		"-framerate", fmt.Sprint(cfg.ColorFPS),
		"-video_size", fmt.Sprintf("%dx%d", c.w, c.h),
		"-i", cfg.ColorDevice,
		"-f", "rawvideo",
		"-pix_fmt", "bgr0",
		"-",
	}
	c.log.Info(pkg+"ffmpeg args", "args", strings.Join(args, " "))
	c.cmd = exec.Command("ffmpeg", args...)

	var err error
	c.out, err = c.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create pipe: %w", err)
	}

	stderr, err := c.cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("could not pipe command error: %w", err)
	}

	err = c.cmd.Start()
	if err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	go func() {
		s := bufio.NewScanner(stderr)
		for s.Scan() {
			c.log.Debug(pkg+"ffmpeg", "stderr", s.Text())
		}
	}()
	return nil
}

func (c *ffmpegCapture) read() (*device.ColorFrame, error) {
	f := device.NewColorFrame(c.w, c.h)
	_, err := io.ReadFull(c.out, f.Pix)
	if err != nil {
		// The process exiting or being killed ends the stream.
		return nil, io.EOF
	}
	f.Timestamp = time.Now()
	return f, nil
}

func (c *ffmpegCapture) close() error {
	if c.cmd == nil || c.cmd.Process == nil {
		return errors.New("ffmpeg process was never started")
	}
	err := c.cmd.Process.Kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("could not kill ffmpeg process: %w", err)
	}
	c.cmd.Wait()
	return nil
}
