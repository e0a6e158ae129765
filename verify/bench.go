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
	"context"
	"image"
	"math"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/framebuffer"
	"github.com/jetsetilly/syncline/hardware"
	"github.com/jetsetilly/syncline/hardware/mcu"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
	"github.com/jetsetilly/syncline/logger"
	"github.com/jetsetilly/syncline/monitor"
)

// MinFrames is the shortest bench run. The monitor needs this many frames to
// report a stable picture.
const MinFrames = monitor.StableFrames + 5

// measured frequencies must be within this fraction of the frequencies of
// the profile
const rateTolerance = 0.001

// keeps a copy of the most recent synchronised frame
type lastFrame struct {
	img  *image.RGBA
	info monitor.FrameInfo
}

func (l *lastFrame) Render(img *image.RGBA, info monitor.FrameInfo) error {
	if !info.IsSynced {
		return nil
	}
	if l.img == nil || l.img.Bounds() != img.Bounds() {
		l.img = image.NewRGBA(img.Bounds())
	}
	copy(l.img.Pix, img.Pix)
	l.info = info
	return nil
}

func within(measured, expected float64) bool {
	return math.Abs(measured-expected) <= expected*rateTolerance
}

func bench(ctx context.Context, perm logger.Permission, r *Report, fb *framebuffer.Framebuffer, frames int) error {
	p := r.Profile
	frames = max(frames, MinFrames)

	b, err := hardware.NewBoard(perm, p, r.Costs, fb.Data)
	if err != nil {
		return curated.Errorf("verify: %v", err)
	}

	mon := monitor.NewMonitor(perm, p.ClockHz)
	last := &lastFrame{}
	mon.AddRenderer(last)
	b.AddSink(mon)

	// the first frame starts part way through and the handler statistics for
	// it are not representative
	err = b.Run(ctx, 1)
	if err != nil {
		return curated.Errorf("verify: %v", err)
	}
	b.MCU.ResetStats()
	b.MCU.USART.ResetCounters()
	b.Engine.Relay().Overwrites = 0
	b.Engine.Relay().Underruns = 0

	err = b.Run(ctx, frames)
	if err != nil {
		return curated.Errorf("verify: %v", err)
	}
	if ctx.Err() != nil {
		r.add("bench", false, "cancelled")
		return nil
	}
	r.Frames = frames

	info := last.info
	r.add("sync lock", mon.IsSynced() && info.Stable, "%s", mon.LastFrame())

	if info.Matched {
		r.add("mode", true, "%s", info.Mode)
	} else {
		r.add("mode", false, "no matching mode")
	}

	r.add("line rate",
		info.LineSamples == p.LineCycles() && within(info.HFreq, p.LineFrequency()),
		"%d clocks %.3fkHz (expected %d clocks %.3fkHz)",
		info.LineSamples, info.HFreq/1000, p.LineCycles(), p.LineFrequency()/1000)

	r.add("frame rate",
		info.Lines == p.Vertical.Total && within(info.VFreq, p.FrameFrequency()),
		"%d lines %.3fHz (expected %d lines %.3fHz)",
		info.Lines, info.VFreq, p.Vertical.Total, p.FrameFrequency())

	dispatch := b.MCU.Stats(mcu.TIMER0_OVF)
	burst := b.MCU.Stats(mcu.TIMER0_COMPB)
	r.add("jitter",
		dispatch.Count > 0 && burst.Count > 0 && dispatch.Jitter() == 0 && burst.Jitter() == 0,
		"dispatch %d (%s) burst %d (%s)", dispatch.Jitter(), dispatch, burst.Jitter(), burst)

	if p.Channel == profile.Serial {
		u := b.MCU.USART
		r.add("usart", u.Dropped == 0 && u.Gaps == 0, "%d dropped %d gaps", u.Dropped, u.Gaps)
	}

	rl := b.Engine.Relay()
	r.add("relay", rl.Overwrites == 0 && rl.Underruns == 0,
		"%d overwrites %d underruns", rl.Overwrites, rl.Underruns)

	if last.img == nil {
		r.add("pixels", false, "no synchronised frame")
		return nil
	}

	expected := Expected(b.Engine.Plan, fb)
	n, first := Compare(last.img, expected)
	if n == 0 {
		r.add("pixels", true, "%d samples of frame %d match", expected.Bounds().Dx()*expected.Bounds().Dy(), info.FrameNum)
	} else {
		r.add("pixels", false, "%d samples of frame %d differ (first at line %d clock %d)", n, info.FrameNum, first.Y, first.X)
	}

	return nil
}
