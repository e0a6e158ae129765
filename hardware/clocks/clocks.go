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

// Package clocks defines the constant values that define the speed of the
// system clock of the target microcontroller, and helper functions for
// converting between clock cycles and wall-clock time.
package clocks

import (
	"math"
	"time"
)

const Mhz = 1000000

// System clock speeds of supported targets.
const (
	ATmega328P_16MHz = 16 * Mhz
	ATmega328P_20MHz = 20 * Mhz
)

// Duration returns the wall-clock time taken by the number of cycles at the
// clock speed.
func Duration(cycles int, hz float64) time.Duration {
	return time.Duration(math.Round(float64(cycles) * float64(time.Second) / hz))
}

// Microseconds returns the number of microseconds taken by the number of
// cycles at the clock speed.
func Microseconds(cycles int, hz float64) float64 {
	return float64(cycles) * 1000000 / hz
}

// Cycles returns the number of clock cycles that fit into the duration,
// rounded to the nearest cycle.
func Cycles(d time.Duration, hz float64) int {
	return int(d.Seconds()*hz + 0.5)
}
