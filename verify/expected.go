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

package verify

import (
	"image"
	"image/color"

	"github.com/jetsetilly/syncline/framebuffer"
	"github.com/jetsetilly/syncline/hardware/vga/burst"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
)

var (
	black = color.RGBA{A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Expected returns the frame the monitor should see for the framebuffer. The
// geometry of the image is the same as a monitor frame: one pixel for every
// system clock of a line and one row for every line of the frame. The first
// row is the first line of the vertical sync pulse and the first column is
// the first clock of the horizontal sync pulse.
func Expected(pl burst.Plan, fb *framebuffer.Framebuffer) *image.RGBA {
	p := pl.Profile
	img := image.NewRGBA(image.Rect(0, 0, pl.LineCycles, p.Vertical.Total))

	// the output of a single line of the framebuffer. starts as a line outside
	// of the visible area
	line := make([]color.RGBA, pl.LineCycles)
	scanline(line, pl, fb, -1)

	prev := -1
	for y := range p.Vertical.Total {
		row, ok := p.Row(y)
		if !ok {
			row = -1
		}
		if row != prev {
			scanline(line, pl, fb, row)
			prev = row
		}
		for x, c := range line {
			img.SetRGBA(x, y, c)
		}
	}

	return img
}

// the output for the framebuffer row. a row of -1 is a line outside of the
// visible area
func scanline(line []color.RGBA, pl burst.Plan, fb *framebuffer.Framebuffer, row int) {
	for x := range line {
		line[x] = black
	}
	if row < 0 {
		return
	}

	serial := pl.Strategy == profile.Serial
	n := pl.Profile.BytesPerRow
	bitClocks := pl.Slot / pl.Profile.PixelsPerByte()

	for i := range pl.Window {
		x := pl.ActiveStart + i
		if x >= len(line) {
			break
		}

		// a serial line idles high during the settle interval and after the
		// last byte
		o := i - pl.Settle
		if o < 0 {
			if serial {
				line[x] = white
			}
			continue
		}

		k := o / pl.Slot
		if k >= n {
			if serial {
				line[x] = white
			} else {
				line[x] = fb.Pixel(n-1, row)
			}
			continue
		}

		if serial {
			line[x] = fb.Pixel(k*8+(o%pl.Slot)/bitClocks, row)
		} else {
			line[x] = fb.Pixel(k, row)
		}
	}
}

// Compare two images. Returns the number of pixels that differ and the
// position of the first difference. Images of different sizes are compared
// over the area they have in common and the pixels outside that area are
// counted as different.
func Compare(a, b *image.RGBA) (int, image.Point) {
	ab := a.Bounds()
	bb := b.Bounds()
	common := ab.Intersect(bb)

	diff := ab.Dx()*ab.Dy() + bb.Dx()*bb.Dy() - 2*common.Dx()*common.Dy()
	first := image.Pt(-1, -1)
	found := false

	for y := common.Min.Y; y < common.Max.Y; y++ {
		for x := common.Min.X; x < common.Max.X; x++ {
			if a.RGBAAt(x, y) != b.RGBAAt(x, y) {
				if !found {
					first = image.Pt(x, y)
					found = true
				}
				diff++
			}
		}
	}

	if !found && diff > 0 {
		first = common.Max
	}

	return diff, first
}
