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

// Package framebuffer is the bitmap streamed by the signal generator. A
// framebuffer is row-major with BytesPerRow bytes per row. For a serial
// profile each byte carries eight pixels, the most significant bit being the
// leftmost. For a port profile each byte is one pixel arranged as 0b00RRGGBB
// in the order of the DAC wiring.
//
// The file format is the raw byte blob with no header.
package framebuffer

import (
	"image"
	"image/color"
	"os"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/hardware/ports"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
)

// Framebuffer for a profile.
type Framebuffer struct {
	Profile profile.Profile
	Data    []uint8
}

// WrongSize is returned when data does not match the size of the framebuffer
// required by the profile.
const WrongSize = "framebuffer: %d bytes is the wrong size for %s (expecting %d)"

// New returns an empty framebuffer for the profile.
func New(p profile.Profile) *Framebuffer {
	return &Framebuffer{
		Profile: p,
		Data:    make([]uint8, p.FramebufferSize()),
	}
}

// FromBytes returns a framebuffer using the data. The data is not copied.
func FromBytes(p profile.Profile, data []uint8) (*Framebuffer, error) {
	if len(data) != p.FramebufferSize() {
		return nil, curated.Errorf(WrongSize, len(data), p.ID, p.FramebufferSize())
	}
	return &Framebuffer{
		Profile: p,
		Data:    data,
	}, nil
}

// Load a raw framebuffer file.
func Load(p profile.Profile, filename string) (*Framebuffer, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, curated.Errorf("framebuffer: %v", err)
	}
	return FromBytes(p, data)
}

// Save the framebuffer as a raw file.
func (fb *Framebuffer) Save(filename string) error {
	err := os.WriteFile(filename, fb.Data, 0o644)
	if err != nil {
		return curated.Errorf("framebuffer: %v", err)
	}
	return nil
}

// Width in pixels.
func (fb *Framebuffer) Width() int {
	return fb.Profile.Columns()
}

// Height in pixels. This is the number of rows.
func (fb *Framebuffer) Height() int {
	return fb.Profile.Rows()
}

// Row returns the bytes of a single row.
func (fb *Framebuffer) Row(row int) []uint8 {
	n := fb.Profile.BytesPerRow
	return fb.Data[row*n : (row+1)*n]
}

func (fb *Framebuffer) serial() bool {
	return fb.Profile.Channel == profile.Serial
}

// Pixel returns the colour of the pixel. Pixels outside the framebuffer are
// black.
func (fb *Framebuffer) Pixel(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= fb.Width() || y >= fb.Height() {
		return color.RGBA{A: 0xff}
	}

	if fb.serial() {
		b := fb.Data[y*fb.Profile.BytesPerRow+x/8]
		if b&(0x80>>(x%8)) != 0 {
			return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
		}
		return color.RGBA{A: 0xff}
	}

	r, g, b := ports.DAC(fb.Data[y*fb.Profile.BytesPerRow+x])
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Set the pixel to the colour. For a serial profile the pixel is lit if any
// channel is non-zero. For a port profile each channel is quantised to the
// DAC levels. Pixels outside the framebuffer are ignored.
func (fb *Framebuffer) Set(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= fb.Width() || y >= fb.Height() {
		return
	}

	if fb.serial() {
		idx := y*fb.Profile.BytesPerRow + x/8
		bit := uint8(0x80 >> (x % 8))
		if c.R|c.G|c.B != 0 {
			fb.Data[idx] |= bit
		} else {
			fb.Data[idx] &^= bit
		}
		return
	}

	fb.Data[y*fb.Profile.BytesPerRow+x] = Encode(c)
}

// Encode a colour as a port profile pixel.
func Encode(c color.RGBA) uint8 {
	return ports.DACEncode(c.R)<<4 | ports.DACEncode(c.G)<<2 | ports.DACEncode(c.B)
}

// Image returns the framebuffer as an image, one image pixel per framebuffer
// pixel.
func (fb *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width(), fb.Height()))
	for y := range fb.Height() {
		for x := range fb.Width() {
			img.SetRGBA(x, y, fb.Pixel(x, y))
		}
	}
	return img
}

// Lit returns the number of pixels that are not black.
func (fb *Framebuffer) Lit() int {
	var n int
	for y := range fb.Height() {
		for x := range fb.Width() {
			c := fb.Pixel(x, y)
			if c.R|c.G|c.B != 0 {
				n++
			}
		}
	}
	return n
}
