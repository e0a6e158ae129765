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

// Package gui connects the monitor, running in the simulation goroutine, with
// a display running on the main thread. The display implementations are in
// the sub-packages.
package gui

import (
	"image"
	"image/draw"
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/syncline/monitor"
)

// Frame is a monitor frame prepared for display. The image has an origin of
// (0, 0).
type Frame struct {
	Image *image.RGBA
	Info  monitor.FrameInfo
}

// Aspect returns the horizontal stretch needed to show the frame with the
// proportions of the matched mode. One sample of the signal is rarely one
// pixel of the mode. Returns 1.0 if no mode was matched.
func (f Frame) Aspect() float64 {
	if !f.Info.Matched || f.Info.LineSamples == 0 {
		return 1.0
	}
	return float64(f.Info.Mode.H.Total) / float64(f.Info.LineSamples)
}

// the number of frames that can be waiting for the display
const queueLen = 2

// GUI is shared by the board side and the display side. The board side adds
// the GUI to the monitor as a FrameRenderer. The display side receives from
// the Frames channel.
type GUI struct {
	Title string
	Scale int

	// show only the active area of the frame
	Crop bool

	// frames ready for display. frames are dropped if the display is behind
	Frames chan Frame

	// closed by the board side to ask the display to close
	End chan bool

	// closed by the display side when the user closes the window
	Quit chan bool
	quit sync.Once

	// called by Presented(). normally used to nudge the board limiter
	Nudge func()

	recycle chan *image.RGBA

	rendered atomic.Int64
	dropped  atomic.Int64
}

// NewGUI is the preferred method of initialisation for the GUI type.
func NewGUI(title string, scale int) *GUI {
	return &GUI{
		Title:   title,
		Scale:   max(scale, 1),
		Crop:    true,
		Frames:  make(chan Frame, queueLen),
		End:     make(chan bool),
		Quit:    make(chan bool),
		recycle: make(chan *image.RGBA, queueLen+1),
	}
}

// Render implements the monitor.FrameRenderer interface.
func (g *GUI) Render(img *image.RGBA, info monitor.FrameInfo) error {
	g.rendered.Add(1)

	r := img.Bounds()
	if g.Crop && info.IsSynced {
		r = info.Crop().Intersect(r)
	}
	if r.Empty() {
		return nil
	}

	var out *image.RGBA
	select {
	case out = <-g.recycle:
		if out.Bounds().Dx() != r.Dx() || out.Bounds().Dy() != r.Dy() {
			out = nil
		}
	default:
	}
	if out == nil {
		out = image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	}

	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)

	select {
	case g.Frames <- Frame{Image: out, Info: info}:
	default:
		g.dropped.Add(1)
		g.Recycle(out)
	}

	return nil
}

// Recycle returns an image received from the Frames channel once the display
// has finished with it.
func (g *GUI) Recycle(img *image.RGBA) {
	select {
	case g.recycle <- img:
	default:
	}
}

// Presented should be called by the display after a frame has been shown.
func (g *GUI) Presented() {
	if g.Nudge != nil {
		g.Nudge()
	}
}

// Close is called by the display side when the user asks to quit. It is safe
// to call more than once.
func (g *GUI) Close() {
	g.quit.Do(func() {
		close(g.Quit)
	})
}

// Rendered returns the number of frames received from the monitor.
func (g *GUI) Rendered() int {
	return int(g.rendered.Load())
}

// Dropped returns the number of frames dropped because the display was behind.
func (g *GUI) Dropped() int {
	return int(g.dropped.Load())
}
