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

// Package pixelator converts images into framebuffers. Any image that can be
// decoded by the image package can be converted. PNG, JPEG, GIF, BMP, TIFF and
// WebP decoders are registered by this package.
//
// The image is scaled to the height of the framebuffer and centred
// horizontally. The pixels of the framebuffer are not square so the image is
// narrowed by a per-strategy stretch factor.
//
// For a serial profile each pixel is lit if the mean of its colour channels is
// above the threshold. The last pixel of each row is always lit, to balance
// the lit column at the start of each line caused by the settle interval of
// the USART. For a port profile each channel is quantised to the four levels
// of the DAC and the last pixel of each row is blanked.
package pixelator

import (
	"image"
	"image/color"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/framebuffer"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
)

// AutoThreshold selects a threshold equal to the mean level of the scaled
// image.
const AutoThreshold = -1

// Default stretch factors.
const (
	SerialStretch = 0.7
	PortStretch   = 0.4
)

// Options for Convert().
type Options struct {
	// threshold for the serial strategy in the range 0 to 255 or
	// AutoThreshold
	Threshold int

	// factor applied to the width of the image after it has been scaled to
	// the height of the framebuffer. zero selects the default for the
	// strategy
	Stretch float64

	// the scaler to use. nil selects draw.ApproxBiLinear
	Scaler draw.Scaler
}

// DefaultOptions for Convert().
var DefaultOptions = Options{
	Threshold: AutoThreshold,
}

// Result of a conversion.
type Result struct {
	Framebuffer *framebuffer.Framebuffer

	// the scaled image before it was reduced to the framebuffer
	Scaled *image.RGBA

	// the threshold used. zero for the port strategy
	Threshold int
}

// Unsupported is returned by Decode() when the image format is not
// recognised.
const Unsupported = "pixelator: %v"

// Decode an image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, curated.Errorf(Unsupported, err)
	}
	return img, nil
}

// Open and decode an image file.
func Open(filename string) (image.Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, curated.Errorf("pixelator: %v", err)
	}
	defer f.Close()
	return Decode(f)
}

// Scale the image to the dimensions of the framebuffer for the profile.
func Scale(img image.Image, p profile.Profile, opts Options) *image.RGBA {
	w := p.Columns()
	h := p.Rows()

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	b := img.Bounds()
	if b.Empty() {
		return dst
	}

	stretch := opts.Stretch
	if stretch == 0 {
		if p.Channel == profile.Port {
			stretch = PortStretch
		} else {
			stretch = SerialStretch
		}
	}

	sw := int(float64(b.Dx()) * float64(h) / float64(b.Dy()) * stretch)
	sw = max(sw, 1)
	x := (w - sw) / 2

	scaler := opts.Scaler
	if scaler == nil {
		scaler = draw.ApproxBiLinear
	}
	scaler.Scale(dst, image.Rect(x, 0, x+sw, h), img, b, draw.Over, nil)

	return dst
}

func mean(c color.RGBA) int {
	return (int(c.R) + int(c.G) + int(c.B)) / 3
}

// Threshold returns the mean level of the image.
func Threshold(img *image.RGBA) int {
	b := img.Bounds()
	if b.Empty() {
		return 0
	}

	var sum int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sum += mean(img.RGBAAt(x, y))
		}
	}
	return sum / (b.Dx() * b.Dy())
}

// ThresholdRange is returned by Convert() when the threshold is invalid.
const ThresholdRange = "pixelator: threshold of %d is outside the range 0 to 255"

// Convert an image into a framebuffer for the profile.
func Convert(img image.Image, p profile.Profile, opts Options) (Result, error) {
	if opts.Threshold != AutoThreshold && (opts.Threshold < 0 || opts.Threshold > 255) {
		return Result{}, curated.Errorf(ThresholdRange, opts.Threshold)
	}

	res := Result{
		Framebuffer: framebuffer.New(p),
		Scaled:      Scale(img, p, opts),
	}

	fb := res.Framebuffer
	last := fb.Width() - 1

	switch p.Channel {
	case profile.Serial:
		res.Threshold = opts.Threshold
		if res.Threshold == AutoThreshold {
			res.Threshold = Threshold(res.Scaled)
		}

		on := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
		for y := range fb.Height() {
			for x := range last {
				if mean(res.Scaled.RGBAAt(x, y)) > res.Threshold {
					fb.Set(x, y, on)
				}
			}
			fb.Set(last, y, on)
		}

	case profile.Port:
		for y := range fb.Height() {
			for x := range last {
				fb.Set(x, y, res.Scaled.RGBAAt(x, y))
			}
		}
	}

	return res, nil
}
