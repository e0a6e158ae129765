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

// Package profile defines the timing profiles of the signal generator. A
// profile is the complete description of a video mode: the horizontal timing in
// Timer0 ticks, the vertical timing in lines, the row repeat shift, the size of
// a framebuffer row and the output channel used to carry the pixels.
//
// Profiles are values. They are never mutated once created and every value
// derived from a profile (for example, the register values returned by the
// Registers() function) is a pure function of the profile.
package profile

import (
	"fmt"
	"time"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/hardware/clocks"
	"github.com/jetsetilly/syncline/hardware/timers"
)

// Axis is the four phase timing of one axis of the picture. For the
// horizontal axis the units are Timer0 ticks and for the vertical axis the
// units are lines.
type Axis struct {
	Total      int
	Sync       int
	BackPorch  int
	Visible    int
	FrontPorch int
}

// Sum of the four phases. For a valid axis this is equal to Total.
func (a Axis) Sum() int {
	return a.Sync + a.BackPorch + a.Visible + a.FrontPorch
}

// FirstVisible is the first unit of the visible phase, counting from the start
// of the sync phase.
func (a Axis) FirstVisible() int {
	return a.Sync + a.BackPorch
}

func (a Axis) String() string {
	return fmt.Sprintf("%d (%d/%d/%d/%d)", a.Total, a.Sync, a.BackPorch, a.Visible, a.FrontPorch)
}

// Strategy is the type of output channel used to carry pixel data.
type Strategy int

// List of valid Strategy values.
const (
	Serial Strategy = iota
	Port
)

func (s Strategy) String() string {
	switch s {
	case Serial:
		return "serial"
	case Port:
		return "port"
	}
	return "unknown"
}

// Profile is a timing profile.
type Profile struct {
	ID          string
	Description string

	// the VESA mode that the profile generates
	Mode string

	// system clock and the Timer0 prescaler
	ClockHz   float64
	Prescaler int

	Horizontal Axis
	Vertical   Axis

	// number of bits a visible line index is shifted by to get the
	// framebuffer row. the row repeat factor is 1<<RowRepeat
	RowRepeat int

	BytesPerRow int

	Channel Strategy

	// baud rate divisor (UBRR0) for the Serial strategy
	BaudDivisor uint16

	// number of output pins for the Port strategy
	PortWidth int

	// accepted range of the frame period
	MinFrame time.Duration
	MaxFrame time.Duration
}

func (p Profile) String() string {
	return p.ID
}

// LineCycles is the length of a line in system clocks.
func (p Profile) LineCycles() int {
	return p.Horizontal.Total * p.Prescaler
}

// Cycles converts a number of Timer0 ticks to system clocks.
func (p Profile) Cycles(ticks int) int {
	return ticks * p.Prescaler
}

// FrameCycles is the length of a frame in system clocks.
func (p Profile) FrameCycles() int {
	return p.LineCycles() * p.Vertical.Total
}

// LinePeriod is the duration of one line.
func (p Profile) LinePeriod() time.Duration {
	return clocks.Duration(p.LineCycles(), p.ClockHz)
}

// FramePeriod is the duration of one frame.
func (p Profile) FramePeriod() time.Duration {
	return clocks.Duration(p.FrameCycles(), p.ClockHz)
}

// LineFrequency is the number of lines per second.
func (p Profile) LineFrequency() float64 {
	return p.ClockHz / float64(p.LineCycles())
}

// FrameFrequency is the number of frames per second.
func (p Profile) FrameFrequency() float64 {
	return p.ClockHz / float64(p.FrameCycles())
}

// RowRepeatFactor is the number of lines each framebuffer row is displayed
// for.
func (p Profile) RowRepeatFactor() int {
	return 1 << p.RowRepeat
}

// Rows is the number of rows in the framebuffer.
func (p Profile) Rows() int {
	return p.Vertical.Visible >> p.RowRepeat
}

// FramebufferSize is the size of the framebuffer in bytes.
func (p Profile) FramebufferSize() int {
	return p.Rows() * p.BytesPerRow
}

// PixelsPerByte is the number of pixels carried by one framebuffer byte.
func (p Profile) PixelsPerByte() int {
	if p.Channel == Serial {
		return 8
	}
	return 1
}

// Columns is the number of pixels in a framebuffer row.
func (p Profile) Columns() int {
	return p.BytesPerRow * p.PixelsPerByte()
}

// Row returns the framebuffer row for the line index. The line index is counted
// from the start of vertical sync. Returns false if the line is not in the
// visible window.
func (p Profile) Row(line int) (int, bool) {
	first := p.Vertical.FirstVisible()
	if line < first || line >= first+p.Vertical.Visible {
		return 0, false
	}
	return (line - first) >> p.RowRepeat, true
}

// Sentinel errors returned by Validate().
const (
	PhasesMismatch   = "profile: %s: %s phases sum to %d (total is %d)"
	PhaseInvalid     = "profile: %s: %s %s phase of %d is not allowed"
	RegisterOverflow = "profile: %s: %s value of %d does not fit a %d-bit counter"
	FramePeriod      = "profile: %s: frame period of %v is outside %v to %v"
	PrescalerInvalid = "profile: %s: prescaler of %d is not available"
	RowsInvalid      = "profile: %s: %d rows of %d bytes is not a usable framebuffer"
	ChannelInvalid   = "profile: %s: %s"
)

func (p Profile) validateAxis(name string, a Axis) error {
	if a.Sum() != a.Total {
		return curated.Errorf(PhasesMismatch, p.ID, name, a.Sum(), a.Total)
	}
	if a.Sync < 1 {
		return curated.Errorf(PhaseInvalid, p.ID, name, "sync", a.Sync)
	}
	if a.BackPorch < 0 {
		return curated.Errorf(PhaseInvalid, p.ID, name, "back porch", a.BackPorch)
	}
	if a.Visible < 1 {
		return curated.Errorf(PhaseInvalid, p.ID, name, "visible", a.Visible)
	}
	if a.FrontPorch < 0 {
		return curated.Errorf(PhaseInvalid, p.ID, name, "front porch", a.FrontPorch)
	}
	return nil
}

// Validate checks the profile for timing derivation errors.
func (p Profile) Validate() error {
	if err := p.validateAxis("horizontal", p.Horizontal); err != nil {
		return err
	}
	if err := p.validateAxis("vertical", p.Vertical); err != nil {
		return err
	}

	if _, ok := timers.ClockSelect(p.Prescaler); !ok {
		return curated.Errorf(PrescalerInvalid, p.ID, p.Prescaler)
	}

	if p.Horizontal.Total-1 > 0xff {
		return curated.Errorf(RegisterOverflow, p.ID, "OCR0A", p.Horizontal.Total-1, 8)
	}
	if p.Vertical.Total-1 > 0xffff {
		return curated.Errorf(RegisterOverflow, p.ID, "OCR1A", p.Vertical.Total-1, 16)
	}

	if f := p.FramePeriod(); f < p.MinFrame || f > p.MaxFrame {
		return curated.Errorf(FramePeriod, p.ID, f, p.MinFrame, p.MaxFrame)
	}

	if p.RowRepeat < 0 || p.Rows() < 1 || p.BytesPerRow < 1 {
		return curated.Errorf(RowsInvalid, p.ID, p.Rows(), p.BytesPerRow)
	}

	switch p.Channel {
	case Serial:
	case Port:
		if p.PortWidth < 1 || p.PortWidth > 8 {
			return curated.Errorf(ChannelInvalid, p.ID, fmt.Sprintf("port width of %d bits", p.PortWidth))
		}
	default:
		return curated.Errorf(ChannelInvalid, p.ID, fmt.Sprintf("unknown strategy (%d)", p.Channel))
	}

	return nil
}
