// This file is part of Syncline.
//
// Syncline is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Syncline is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Syncline.  If not, see <https://www.gnu.org/licenses/>.

// Package renderers contains implementations of the monitor.FrameRenderer
// interface that don't need a display.
package renderers

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io/fs"
	"os"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/monitor"
)

// Sentinel errors returned by Save().
const (
	NoFrame      = "image renderer: no frame to save"
	ImageExists  = "image renderer: image file (%s) already exists"
	imageFailure = "image renderer: %v"
)

// Image is an implementation of the monitor.FrameRenderer interface. It keeps
// a copy of the most recent frame and saves it to disk on request.
type Image struct {
	// only keep frames that the monitor is synchronised with
	SyncedOnly bool

	// save the active area of the frame rather than the entire scan
	Crop bool

	frame *image.RGBA
	info  monitor.FrameInfo
}

// NewImage is the preferred method of initialisation for the Image type.
func NewImage() *Image {
	return &Image{
		SyncedOnly: true,
		Crop:       true,
	}
}

// Render implements the monitor.FrameRenderer interface.
func (imr *Image) Render(img *image.RGBA, info monitor.FrameInfo) error {
	if imr.SyncedOnly && !info.IsSynced {
		return nil
	}

	if imr.frame == nil || imr.frame.Bounds() != img.Bounds() {
		imr.frame = image.NewRGBA(img.Bounds())
	}
	copy(imr.frame.Pix, img.Pix)
	imr.info = info

	return nil
}

// Frame returns the most recent frame and its information. The image is nil
// if no frame has been kept.
func (imr *Image) Frame() (*image.RGBA, monitor.FrameInfo) {
	return imr.frame, imr.info
}

// Image returns the most recent frame, cropped if the Crop field is true. The
// returned image has an origin of (0, 0).
func (imr *Image) Image() (*image.RGBA, error) {
	if imr.frame == nil {
		return nil, curated.Errorf(NoFrame)
	}

	r := imr.frame.Bounds()
	if imr.Crop {
		r = imr.info.Crop().Intersect(r)
	}

	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), imr.frame, r.Min, draw.Src)

	return out, nil
}

// Save the most recent frame as a PNG file. An existing file will not be
// overwritten.
func (imr *Image) Save(filename string) error {
	img, err := imr.Image()
	if err != nil {
		return err
	}

	_, err = os.Stat(filename)
	if err == nil {
		return curated.Errorf(ImageExists, filename)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return curated.Errorf(imageFailure, err)
	}

	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf(imageFailure, err)
	}
	defer f.Close()

	err = png.Encode(f, img)
	if err != nil {
		return curated.Errorf(imageFailure, err)
	}

	return nil
}

func (imr *Image) String() string {
	if imr.frame == nil {
		return "no frame"
	}
	return fmt.Sprintf("%s: %v", imr.info, imr.info.Crop())
}
