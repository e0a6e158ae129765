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

package digest_test

import (
	"context"
	"testing"

	"github.com/jetsetilly/syncline/digest"
	"github.com/jetsetilly/syncline/framebuffer"
	"github.com/jetsetilly/syncline/hardware"
	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
	"github.com/jetsetilly/syncline/logger"
	"github.com/jetsetilly/syncline/monitor"
	"github.com/jetsetilly/syncline/test"
)

func run(t *testing.T, pattern string) (*digest.Video, *digest.Signal) {
	t.Helper()

	p := profile.VGA640x480
	fb, err := framebuffer.Pattern(p, pattern)
	test.DemandSuccess(t, err)

	b, err := hardware.NewBoard(logger.Allow, p, cycles.ATmega328P_16MHz, fb.Data)
	test.DemandSuccess(t, err)

	mon := monitor.NewMonitor(logger.Allow, p.ClockHz)
	vid := digest.NewVideo()
	mon.AddRenderer(vid)

	sig := digest.NewSignal()
	b.AddSink(sig)
	b.AddSink(mon)

	test.DemandSuccess(t, b.Run(context.Background(), 4))
	sig.Flush()

	return vid, sig
}

func TestDigest(t *testing.T) {
	vidA, sigA := run(t, "checker")
	vidB, sigB := run(t, "checker")
	vidC, sigC := run(t, "border")

	test.ExpectSuccess(t, vidA.Frames() > 0)
	test.ExpectEquality(t, vidA.Frames(), vidB.Frames())

	test.ExpectEquality(t, vidA.Hash(), vidB.Hash())
	test.ExpectEquality(t, sigA.Hash(), sigB.Hash())
	test.ExpectInequality(t, vidA.Hash(), vidC.Hash())
	test.ExpectInequality(t, sigA.Hash(), sigC.Hash())

	var d digest.Digest = vidA
	d.ResetDigest()
	test.ExpectEquality(t, d.Hash(), "0000000000000000000000000000000000000000")
	test.ExpectEquality(t, vidA.Frames(), 0)
}
