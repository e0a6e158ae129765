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

package monitor

import (
	"fmt"
	"image"
)

// FrameInfo describes a frame reconstructed by the monitor. Coordinates in the
// frame are relative to the leading edge of the horizontal sync pulse (x) and
// the line in which the leading edge of the vertical sync pulse occurred (y).
// One unit of x is one sample of the signal.
type FrameInfo struct {
	FrameNum int

	// samples per line and lines in the frame
	LineSamples int
	Lines       int

	// measured frequencies in Hz
	HFreq float64
	VFreq float64

	// width of the sync pulses. in samples for hsync and in lines for vsync
	HSyncWidth int
	VSyncWidth int

	HPolarity Polarity
	VPolarity Polarity

	// the matched mode. the Matched field is false if no mode matched
	Mode    Mode
	Matched bool

	// whether the monitor is synchronised with the signal
	IsSynced bool

	// Stable is true once the frame geometry has been consistent for a
	// number of frames
	Stable bool

	// extent of non-black samples in the frame. empty if the frame is
	// entirely black
	Content image.Rectangle
}

func (info FrameInfo) String() string {
	s := fmt.Sprintf("frame %d: %dx%d %.3fkHz %.2fHz sync %d/%d %s%s",
		info.FrameNum, info.LineSamples, info.Lines, info.HFreq/1000, info.VFreq,
		info.HSyncWidth, info.VSyncWidth, info.HPolarity, info.VPolarity)
	if info.Matched {
		s = fmt.Sprintf("%s %s", s, info.Mode.ID)
	}
	if info.Stable {
		s = fmt.Sprintf("%s stable", s)
	}
	return s
}

// Crop returns the active area of the frame. If a mode was matched the active
// area is taken from the mode, scaled to the measured line length, and
// extended to include any content outside of it. Otherwise the active area is
// the extent of the content.
func (info FrameInfo) Crop() image.Rectangle {
	if !info.Matched {
		if info.Content.Empty() {
			return image.Rect(0, 0, info.LineSamples, info.Lines)
		}
		return info.Content
	}

	h := info.Mode.H
	scale := func(v int) int {
		return (v*info.LineSamples + h.Total/2) / h.Total
	}
	v := info.Mode.V

	r := image.Rect(
		scale(h.Sync+h.BackPorch), v.Sync+v.BackPorch,
		scale(h.Sync+h.BackPorch+h.Visible), v.Sync+v.BackPorch+v.Visible,
	)

	if !info.Content.Empty() {
		r = r.Union(info.Content)
	}

	return r
}

// IsDifferent returns true if the geometry of the two frames is different.
func (info FrameInfo) IsDifferent(cmp FrameInfo) bool {
	return info.LineSamples != cmp.LineSamples ||
		info.Lines != cmp.Lines ||
		info.HSyncWidth != cmp.HSyncWidth ||
		info.VSyncWidth != cmp.VSyncWidth ||
		info.HPolarity != cmp.HPolarity ||
		info.VPolarity != cmp.VPolarity
}

// FrameRenderer implementations receive each frame reconstructed by the
// monitor. The image is only valid for the duration of the call.
type FrameRenderer interface {
	Render(img *image.RGBA, info FrameInfo) error
}
