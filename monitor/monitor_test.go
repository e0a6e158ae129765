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

package monitor_test

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/jetsetilly/syncline/framebuffer"
	"github.com/jetsetilly/syncline/hardware"
	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/signal"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
	"github.com/jetsetilly/syncline/logger"
	"github.com/jetsetilly/syncline/monitor"
	"github.com/jetsetilly/syncline/test"
)

// keeps a copy of the most recent frame
type last struct {
	img    *image.RGBA
	info   monitor.FrameInfo
	frames int
}

func (l *last) Render(img *image.RGBA, info monitor.FrameInfo) error {
	l.img = image.NewRGBA(img.Bounds())
	copy(l.img.Pix, img.Pix)
	l.info = info
	l.frames++
	return nil
}

// generate a signal with active high sync pulses
func generate(mon *monitor.Monitor, frames int) error {
	const (
		lineSamples = 100
		hsyncWidth  = 10
		lines       = 50
		vsyncWidth  = 3
	)

	for range frames {
		for y := range lines {
			for x := range lineSamples {
				sig := signal.Attributes{
					HSync: x < hsyncWidth,
					VSync: y < vsyncWidth,
				}
				if x >= 30 && x < 40 && y >= 20 && y <= 30 {
					sig.R, sig.G, sig.B = 0xff, 0x80, 0x00
				}
				if err := mon.Signal(sig); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func TestPolarity(t *testing.T) {
	mon := monitor.NewMonitor(logger.Allow, 3000000)
	l := &last{}
	mon.AddRenderer(l)

	test.DemandSuccess(t, generate(mon, 8))
	test.ExpectSuccess(t, mon.IsSynced())

	info := l.info
	test.ExpectEquality(t, info.HPolarity, monitor.Positive)
	test.ExpectEquality(t, info.VPolarity, monitor.Positive)
	test.ExpectEquality(t, info.LineSamples, 100)
	test.ExpectEquality(t, info.Lines, 50)
	test.ExpectEquality(t, info.HSyncWidth, 10)
	test.ExpectEquality(t, info.VSyncWidth, 3)
	test.ExpectApproximate(t, info.HFreq, 30000.0, 0.0001)
	test.ExpectApproximate(t, info.VFreq, 600.0, 0.0001)
	test.ExpectSuccess(t, info.Stable)
	test.ExpectFailure(t, info.Matched)

	test.ExpectEquality(t, info.Content, image.Rect(30, 20, 40, 31))
	test.ExpectEquality(t, info.Crop(), info.Content)

	test.ExpectEquality(t, l.img.RGBAAt(35, 25), color.RGBA{R: 0xff, G: 0x80, A: 0xff})
	test.ExpectEquality(t, l.img.RGBAAt(29, 25), color.RGBA{A: 0xff})
	test.ExpectEquality(t, l.img.RGBAAt(35, 31), color.RGBA{A: 0xff})
}

func TestNoSignal(t *testing.T) {
	mon := monitor.NewMonitor(logger.Allow, 3000000)
	l := &last{}
	mon.AddRenderer(l)

	for range 100000 {
		test.DemandSuccess(t, mon.Signal(signal.Attributes{HSync: true, VSync: true}))
	}
	test.ExpectFailure(t, mon.IsSynced())
	test.ExpectEquality(t, l.frames, 0)
}

func TestMatch(t *testing.T) {
	m, ok := monitor.Match(31746, 60.47, 525)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, m.ID, "640x480@60")

	// same frequencies but the wrong number of lines
	_, ok = monitor.Match(31746, 60.47, 524)
	test.ExpectFailure(t, ok)

	// too far from the nominal frequency
	_, ok = monitor.Match(31469*1.04, 59.94*1.04, 525)
	test.ExpectFailure(t, ok)

	m, ok = monitor.Lookup("800x600@60")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, m.V.Total, 628)
}

// the monitor must lock to the signal of each profile and identify the mode
func TestProfiles(t *testing.T) {
	expected := map[string]string{
		profile.VGA640x480.ID:     "640x480@60",
		profile.SVGA800x600.ID:    "800x600@60",
		profile.VGA640x480Port.ID: "640x480@60",
	}

	for _, p := range profile.All() {
		fb, err := framebuffer.Pattern(p, "border")
		test.DemandSuccess(t, err, p.ID)

		b, err := hardware.NewBoard(logger.Allow, p, cycles.ATmega328P_16MHz, fb.Data)
		test.DemandSuccess(t, err, p.ID)

		mon := monitor.NewMonitor(logger.Allow, p.ClockHz)
		l := &last{}
		mon.AddRenderer(l)
		b.AddSink(mon)

		test.DemandSuccess(t, b.Run(context.Background(), 8), p.ID)

		info := l.info
		test.ExpectSuccess(t, mon.IsSynced(), p.ID)
		test.ExpectSuccess(t, info.Stable, p.ID)
		test.ExpectSuccess(t, info.Matched, p.ID)
		test.ExpectEquality(t, info.Mode.ID, expected[p.ID], p.ID)
		test.ExpectEquality(t, info.LineSamples, p.LineCycles(), p.ID)
		test.ExpectEquality(t, info.Lines, p.Vertical.Total, p.ID)
		test.ExpectEquality(t, info.HSyncWidth, p.Cycles(p.Horizontal.Sync), p.ID)
		test.ExpectEquality(t, info.VSyncWidth, p.Vertical.Sync, p.ID)
		test.ExpectEquality(t, info.HPolarity, monitor.Negative, p.ID)
		test.ExpectEquality(t, info.VPolarity, monitor.Negative, p.ID)

		// the border pattern lights the first and last framebuffer rows
		first := p.Vertical.FirstVisible()
		test.ExpectEquality(t, info.Content.Min.Y, first, p.ID)
		test.ExpectEquality(t, info.Content.Max.Y, first+p.Vertical.Visible, p.ID)
	}
}
