//go:build withcv
// +build withcv

/*
DESCRIPTION
  capture_cv.go captures webcam frames through an OpenCV VideoCapture.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package webcam

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"

	"github.com/ausocean/slideshow/device"
	"github.com/ausocean/slideshow/slideshow/config"
)

// cvCapture reads frames from a gocv.VideoCapture. The mutex keeps close from
// releasing the capture during a read.
type cvCapture struct {
	log  logging.Logger
	mu   sync.Mutex
	vc   *gocv.VideoCapture
	img  gocv.Mat
	bgra gocv.Mat
}

func newCapturer(l logging.Logger) capturer { return &cvCapture{log: l} }

func (c *cvCapture) open(cfg config.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	vc, err := gocv.OpenVideoCapture(cfg.ColorDevice)
	if err != nil {
		return err
	}
	vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.ColorWidth))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.ColorHeight))
	vc.Set(gocv.VideoCaptureFPS, float64(cfg.ColorFPS))
	c.vc = vc
	c.img = gocv.NewMat()
	c.bgra = gocv.NewMat()
	return nil
}

func (c *cvCapture) read() (*device.ColorFrame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vc == nil {
		return nil, io.EOF
	}
	if ok := c.vc.Read(&c.img); !ok {
		return nil, io.EOF
	}
	if c.img.Empty() {
		// Nothing ready from the camera yet.
		return nil, nil
	}
	gocv.CvtColor(c.img, &c.bgra, gocv.ColorBGRToBGRA)
	return &device.ColorFrame{
		Width:     c.bgra.Cols(),
		Height:    c.bgra.Rows(),
		Stride:    c.bgra.Cols() * device.BytesPerPixel,
		Pix:       c.bgra.ToBytes(),
		Timestamp: time.Now(),
	}, nil
}

func (c *cvCapture) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vc == nil {
		return nil
	}
	err := errors.Join(c.img.Close(), c.bgra.Close(), c.vc.Close())
	c.vc = nil
	return err
}
