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

package framebuffer

import (
	"image/color"
	"slices"
	"strings"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
)

// UnknownPattern is returned by Pattern() when the name is not recognised.
const UnknownPattern = "framebuffer: unknown pattern (%s). available patterns: %s"

var patterns = map[string]func(fb *Framebuffer){
	"border":  border,
	"checker": checker,
	"bars":    bars,
	"ramp":    ramp,
}

// PatternNames returns the names of the built-in test patterns in
// alphabetical order.
func PatternNames() []string {
	var n []string
	for k := range patterns {
		n = append(n, k)
	}
	slices.Sort(n)
	return n
}

// Pattern returns a framebuffer with a built-in test pattern.
func Pattern(p profile.Profile, name string) (*Framebuffer, error) {
	f, ok := patterns[strings.ToLower(name)]
	if !ok {
		return nil, curated.Errorf(UnknownPattern, name, strings.Join(PatternNames(), ", "))
	}
	fb := New(p)
	f(fb)
	return fb, nil
}

var white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// single pixel frame around the edge of the framebuffer with a cross through
// the centre
func border(fb *Framebuffer) {
	w := fb.Width()
	h := fb.Height()
	for x := range w {
		fb.Set(x, 0, white)
		fb.Set(x, h-1, white)
		fb.Set(x, h/2, white)
	}
	for y := range h {
		fb.Set(0, y, white)
		fb.Set(w-1, y, white)
		fb.Set(w/2, y, white)
	}
}

// eight pixel squares
func checker(fb *Framebuffer) {
	for y := range fb.Height() {
		for x := range fb.Width() {
			if (x/8+y/8)%2 == 0 {
				fb.Set(x, y, white)
			}
		}
	}
}

// colour bars in the usual order. on a serial profile the bars are alternately
// lit and unlit
var barColours = []color.RGBA{
	{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	{R: 0xff, G: 0xff, A: 0xff},
	{G: 0xff, B: 0xff, A: 0xff},
	{G: 0xff, A: 0xff},
	{R: 0xff, B: 0xff, A: 0xff},
	{R: 0xff, A: 0xff},
	{B: 0xff, A: 0xff},
	{A: 0xff},
}

func bars(fb *Framebuffer) {
	w := fb.Width()
	for y := range fb.Height() {
		for x := range w {
			i := x * len(barColours) / w
			c := barColours[i]
			if fb.serial() && i%2 == 1 {
				c = color.RGBA{A: 0xff}
			}
			fb.Set(x, y, c)
		}
	}
}

// every level of every channel. on a serial profile this is a sequence of
// vertical lines of increasing width
func ramp(fb *Framebuffer) {
	w := fb.Width()
	h := fb.Height()
	levels := []uint8{0, 85, 170, 255}

	for y := range h {
		band := y * 3 / h
		for x := range w {
			l := levels[x*len(levels)/w]
			var c color.RGBA
			switch band {
			case 0:
				c = color.RGBA{R: l, A: 0xff}
			case 1:
				c = color.RGBA{G: l, A: 0xff}
			default:
				c = color.RGBA{B: l, A: 0xff}
			}
			if fb.serial() {
				if x%(1+x*len(levels)/w) == 0 {
					c = white
				} else {
					c = color.RGBA{A: 0xff}
				}
			}
			fb.Set(x, y, c)
		}
	}
}
