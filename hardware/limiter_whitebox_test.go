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

package hardware

import (
	"testing"
	"time"

	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
	"github.com/jetsetilly/syncline/logger"
	"github.com/jetsetilly/syncline/test"
)

// nudge the limiter until it has changed over to the ticker
func startTicker(t *testing.T, l *limiter) {
	t.Helper()
	for range 3 {
		l.Nudge()
		l.Wait()
	}
	test.DemandSuccess(t, l.tick != nil)
}

func TestLimiterStop(t *testing.T) {
	const period = time.Millisecond

	l := newLimiter(period)
	startTicker(t, l)

	select {
	case <-l.tick.C:
	case <-time.After(period * 100):
		t.Fatalf("ticker has not ticked")
	}

	l.stop()
	select {
	case <-l.tick.C:
		t.Errorf("ticker has ticked after being stopped")
	case <-time.After(period * 10):
	}

	// stopping a limiter that never started the ticker is fine
	newLimiter(period).stop()
}

func TestSetLimit(t *testing.T) {
	p := profile.VGA640x480
	b, err := NewBoard(logger.Allow, p, cycles.ATmega328P_16MHz, make([]uint8, p.FramebufferSize()))
	test.DemandSuccess(t, err)

	b.SetLimit(true)
	prev := b.limiter
	test.DemandSuccess(t, prev != nil)
	prev.tick = time.NewTicker(time.Millisecond)

	// replacing the limiter stops the previous ticker
	b.SetLimit(true)
	test.ExpectSuccess(t, b.limiter != prev)
	select {
	case <-prev.tick.C:
		t.Errorf("previous ticker has ticked after being replaced")
	case <-time.After(10 * time.Millisecond):
	}

	b.SetLimit(false)
	test.ExpectSuccess(t, b.limiter == nil)
}
