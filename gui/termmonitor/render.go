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

package termmonitor

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"

	"github.com/jetsetilly/syncline/gui"
)

// each character cell shows two pixels, one above the other. the upper pixel
// is the foreground colour of the half block and the lower pixel is the
// background colour
const halfBlock = "▀"

const (
	home  = "\x1b[H"
	reset = "\x1b[0m"
)

var statusStyle = lipgloss.NewStyle().Reverse(true)

// geometry returns the size in pixels of the picture that best fits the
// frame into the number of character cells
func geometry(f gui.Frame, cols, rows int) (int, int) {
	b := f.Image.Bounds()
	dispW := float64(b.Dx()) * f.Aspect()
	dispH := float64(b.Dy())
	if dispW <= 0 || dispH <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}

	scale := min(float64(cols)/dispW, float64(rows*2)/dispH)
	w := min(int(dispW*scale+0.5), cols)
	h := min(int(dispH*scale+0.5), rows*2)

	return max(w, 1), max(h&^1, 2)
}

// Render writes the frame to the terminal as 24-bit colour half blocks. The
// picture fits inside cols by rows character cells. A status line is written
// after the picture.
func Render(w io.Writer, f gui.Frame, cols, rows int, status string) error {
	pw, ph := geometry(f, cols, rows)
	if pw == 0 {
		return nil
	}

	pic := image.NewRGBA(image.Rect(0, 0, pw, ph))
	draw.NearestNeighbor.Scale(pic, pic.Bounds(), f.Image, f.Image.Bounds(), draw.Src, nil)

	s := strings.Builder{}
	s.WriteString(home)

	for y := 0; y < ph; y += 2 {
		var fg, bg color.RGBA
		for x := range pw {
			u := pic.RGBAAt(x, y)
			l := pic.RGBAAt(x, y+1)
			if x == 0 || u != fg {
				fmt.Fprintf(&s, "\x1b[38;2;%d;%d;%dm", u.R, u.G, u.B)
				fg = u
			}
			if x == 0 || l != bg {
				fmt.Fprintf(&s, "\x1b[48;2;%d;%d;%dm", l.R, l.G, l.B)
				bg = l
			}
			s.WriteString(halfBlock)
		}
		s.WriteString(reset)
		s.WriteString("\n")
	}

	if status != "" {
		if len(status) > cols {
			status = status[:cols]
		}
		s.WriteString(statusStyle.Render(status))
		s.WriteString("\x1b[K")
	}

	_, err := io.WriteString(w, s.String())
	return err
}
