/*
DESCRIPTION
  color.go provides ColorFrame, a single frame from a colour camera, and its
  conversion to an image.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package device

import (
	"errors"
	"fmt"
	"image"
	"time"
)

// BytesPerPixel is the size of a BGR32 pixel.
const BytesPerPixel = 4

// ErrShortFrame is returned when a ColorFrame holds fewer bytes than its
// dimensions require.
var ErrShortFrame = errors.New("colour frame pixel buffer too short")

// ColorFrame is a colour camera frame in BGR32 layout: four bytes per pixel
// ordered blue, green, red and an unused byte. Stride is the number of bytes
// per row.
type ColorFrame struct {
	Width, Height int
	Stride        int
	Pix           []byte
	Timestamp     time.Time
}

// NewColorFrame returns a black w by h frame with a packed stride.
func NewColorFrame(w, h int) *ColorFrame {
	return &ColorFrame{
		Width:  w,
		Height: h,
		Stride: w * BytesPerPixel,
		Pix:    make([]byte, w*h*BytesPerPixel),
	}
}

// Image converts the frame to an opaque RGBA image.
func (f *ColorFrame) Image() (*image.RGBA, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("invalid colour frame dimensions %dx%d", f.Width, f.Height)
	}
	if f.Stride < f.Width*BytesPerPixel {
		return nil, fmt.Errorf("colour frame stride %d less than row size %d", f.Stride, f.Width*BytesPerPixel)
	}
	if len(f.Pix) < (f.Height-1)*f.Stride+f.Width*BytesPerPixel {
		return nil, ErrShortFrame
	}

	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		src := f.Pix[y*f.Stride : y*f.Stride+f.Width*BytesPerPixel]
		dst := img.Pix[y*img.Stride : y*img.Stride+f.Width*4]
		for x := 0; x < len(src); x += BytesPerPixel {
			dst[x] = src[x+2]
			dst[x+1] = src[x+1]
			dst[x+2] = src[x]
			dst[x+3] = 0xff
		}
	}
	return img, nil
}
