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

// Package monitor is a simulated display. It consumes the wire signal one
// sample at a time, synchronises with the sync pulses, measures the timing of
// the signal and reconstructs each frame as an image.
//
// The polarity of each sync line is not assumed. The active level of a sync
// line is the level that is held for the shorter time. Until the polarity of
// both sync lines is known the monitor is not synchronised and no frames are
// produced.
//
// A frame begins with the line in which the leading edge of the vertical sync
// pulse occurs. A line begins with the leading edge of the horizontal sync
// pulse. The reconstructed frame therefore includes the blanking intervals.
// The FrameInfo.Crop() function gives the active area.
package monitor

import (
	"fmt"
	"image"

	"github.com/jetsetilly/syncline/hardware/signal"
	"github.com/jetsetilly/syncline/logger"
)

// MaxLineSamples is the longest line the monitor accepts. Samples beyond the
// limit are discarded.
const MaxLineSamples = 4096

// MaxLines is the largest number of lines in a frame the monitor accepts.
// Lines beyond the limit are discarded.
const MaxLines = 2048

// the number of consecutive lines with the same period required for the
// horizontal lock
const hLockLines = 8

// StableFrames is the number of consecutive frames with the same geometry
// required before a frame is considered stable.
const StableFrames = 3

// edge detector for a sync line.
type sync struct {
	level bool
	init  bool

	// time since the previous edge
	since int

	// duration of the previous phase at each level
	phase [2]int
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// returns true if the level has changed
func (s *sync) update(level bool) bool {
	if !s.init {
		s.init = true
		s.level = level
		return false
	}
	if level == s.level {
		return false
	}
	s.phase[b2i(s.level)] = s.since
	s.since = 0
	s.level = level
	return true
}

// the polarity is known once a phase at each level has been measured
func (s *sync) polarity() Polarity {
	if s.phase[0] == 0 || s.phase[1] == 0 || s.phase[0] == s.phase[1] {
		return PolarityUnknown
	}
	if s.phase[0] < s.phase[1] {
		return Negative
	}
	return Positive
}

func (s *sync) width() int {
	switch s.polarity() {
	case Negative:
		return s.phase[0]
	case Positive:
		return s.phase[1]
	}
	return 0
}

// active returns true if the level is the active level of the sync line
func (s *sync) active(level bool) bool {
	switch s.polarity() {
	case Negative:
		return !level
	case Positive:
		return level
	}
	return false
}

// Monitor implements the signal.Sink interface.
type Monitor struct {
	perm logger.Permission

	// samples per second
	rate float64

	hsync sync
	vsync sync

	// current line. three bytes per sample
	line []uint8

	// extent of content in the current line
	lineMinX int
	lineMaxX int

	// the vertical sync leading edge occurred during the current line. the
	// current line is the first line of the next frame
	vEdge bool

	// period of the previous line and the number of consecutive lines with
	// the same period
	period  int
	hStable int

	// lines of the current frame
	rows  [][]uint8
	nrows int

	// whether the current frame began with a vertical sync
	inFrame bool

	// extent of content in the current frame
	content image.Rectangle

	frameNum int
	info     FrameInfo
	stable   int
	synced   bool

	img *image.RGBA

	renderers []FrameRenderer
}

// NewMonitor is the preferred method of initialisation for the Monitor type.
// The rate is the number of samples per second.
func NewMonitor(perm logger.Permission, rate float64) *Monitor {
	return &Monitor{
		perm:     perm,
		rate:     rate,
		line:     make([]uint8, 0, MaxLineSamples*3),
		lineMinX: MaxLineSamples,
		lineMaxX: -1,
		rows:     make([][]uint8, MaxLines),
	}
}

func (mon *Monitor) String() string {
	if !mon.synced {
		return "monitor: no sync"
	}
	return fmt.Sprintf("monitor: %s", mon.info)
}

// AddRenderer adds a consumer of reconstructed frames.
func (mon *Monitor) AddRenderer(r FrameRenderer) {
	mon.renderers = append(mon.renderers, r)
}

// Rate returns the number of samples per second.
func (mon *Monitor) Rate() float64 {
	return mon.rate
}

// IsSynced returns true if the monitor is synchronised with the signal.
func (mon *Monitor) IsSynced() bool {
	return mon.synced
}

// LastFrame returns the information for the most recent frame.
func (mon *Monitor) LastFrame() FrameInfo {
	return mon.info
}

// Signal implements the signal.Sink interface.
func (mon *Monitor) Signal(sig signal.Attributes) error {
	mon.hsync.since++

	// the sample belongs to the new line so the line is ended before looking
	// at the vertical sync
	if mon.hsync.update(sig.HSync) && mon.hsync.active(sig.HSync) {
		if err := mon.newLine(); err != nil {
			return err
		}
	}

	if mon.vsync.update(sig.VSync) && mon.vsync.active(sig.VSync) {
		mon.vEdge = true
	}

	if len(mon.line) < cap(mon.line) {
		if !sig.Black() {
			x := len(mon.line) / 3
			mon.lineMinX = min(mon.lineMinX, x)
			mon.lineMaxX = max(mon.lineMaxX, x)
		}
		mon.line = append(mon.line, sig.R, sig.G, sig.B)
	}

	return nil
}

func (mon *Monitor) newLine() error {
	period := len(mon.line) / 3
	if period == mon.period {
		mon.hStable++
	} else {
		mon.hStable = 0
	}
	mon.period = period

	var err error

	// the line that has just ended contained the vertical sync edge
	if mon.vEdge {
		mon.vEdge = false
		if mon.inFrame {
			err = mon.endFrame()
		}
		mon.inFrame = true
		mon.nrows = 0
		mon.content = image.Rectangle{}
	}

	mon.vsync.since++

	if mon.inFrame && mon.nrows < len(mon.rows) {
		mon.rows[mon.nrows] = append(mon.rows[mon.nrows][:0], mon.line...)
		if mon.lineMinX <= mon.lineMaxX {
			r := image.Rect(mon.lineMinX, mon.nrows, mon.lineMaxX+1, mon.nrows+1)
			if mon.content.Empty() {
				mon.content = r
			} else {
				mon.content = mon.content.Union(r)
			}
		}
		mon.nrows++
	}

	mon.line = mon.line[:0]
	mon.lineMinX = MaxLineSamples
	mon.lineMaxX = -1

	return err
}

func (mon *Monitor) endFrame() error {
	mon.frameNum++

	info := FrameInfo{
		FrameNum:    mon.frameNum,
		LineSamples: mon.period,
		Lines:       mon.nrows,
		HSyncWidth:  mon.hsync.width(),
		VSyncWidth:  mon.vsync.width(),
		HPolarity:   mon.hsync.polarity(),
		VPolarity:   mon.vsync.polarity(),
		Content:     mon.content,
	}

	if info.LineSamples > 0 && info.Lines > 0 {
		info.HFreq = mon.rate / float64(info.LineSamples)
		info.VFreq = info.HFreq / float64(info.Lines)
	}

	info.IsSynced = mon.hStable >= hLockLines && info.Lines == mon.info.Lines &&
		info.HPolarity != PolarityUnknown && info.VPolarity != PolarityUnknown

	if info.IsSynced && !info.IsDifferent(mon.info) {
		mon.stable++
	} else {
		mon.stable = 0
	}
	info.Stable = mon.stable >= StableFrames

	info.Mode, info.Matched = Match(info.HFreq, info.VFreq, info.Lines)

	if info.IsSynced != mon.synced {
		if info.IsSynced {
			logger.Logf(mon.perm, "monitor", "sync lock: %s", info)
		} else {
			logger.Log(mon.perm, "monitor", "sync lost")
		}
		mon.synced = info.IsSynced
	}

	mon.info = info

	if len(mon.renderers) == 0 {
		return nil
	}

	img := mon.image(info)
	for _, r := range mon.renderers {
		if err := r.Render(img, info); err != nil {
			return err
		}
	}

	return nil
}

// image of the current frame. the image is reused if the geometry has not
// changed
func (mon *Monitor) image(info FrameInfo) *image.RGBA {
	w := min(info.LineSamples, MaxLineSamples)
	h := info.Lines

	if mon.img == nil || mon.img.Bounds().Dx() != w || mon.img.Bounds().Dy() != h {
		mon.img = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	for y := range h {
		row := mon.rows[y]
		pix := mon.img.Pix[y*mon.img.Stride : y*mon.img.Stride+w*4]
		for x := range w {
			i := x * 3
			if i+2 < len(row) {
				pix[x*4] = row[i]
				pix[x*4+1] = row[i+1]
				pix[x*4+2] = row[i+2]
			} else {
				pix[x*4] = 0
				pix[x*4+1] = 0
				pix[x*4+2] = 0
			}
			pix[x*4+3] = 0xff
		}
	}

	return mon.img
}
