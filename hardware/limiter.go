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
	"time"
)

// limiter paces the board to real time one frame at a time.
type limiter struct {
	tick  *time.Ticker
	nudge chan bool

	// the payload function for the Wait() method
	wait func()
}

func newLimiter(period time.Duration) *limiter {
	l := &limiter{
		nudge: make(chan bool, 1),
	}

	// the wait() function starts slightly slow and changes to the ticker after
	// a few nudges. this gives a monitor window time to open
	var ct int
	l.wait = func() {
		select {
		case <-time.After(time.Duration(float64(period) * 1.025)):
		case <-l.nudge:
			ct++
			if ct > 2 {
				l.tick = time.NewTicker(period)
				l.wait = func() {
					select {
					case <-l.tick.C:
					case <-l.nudge:
					}
				}
			}
		}
	}

	return l
}

// Wait for the next frame.
func (l *limiter) Wait() {
	l.wait()
}

// stop the limiter. the limiter must not be used after stopping
func (l *limiter) stop() {
	if l.tick != nil {
		l.tick.Stop()
	}
}

// Nudge causes the current Wait() to return immediately.
func (l *limiter) Nudge() {
	select {
	case l.nudge <- true:
	default:
	}
}

// Nudge the limiter. A GUI nudges the limiter when it has presented a frame.
// Has no effect if the board is not limited.
func (b *Board) Nudge() {
	if b.limiter != nil {
		b.limiter.Nudge()
	}
}
