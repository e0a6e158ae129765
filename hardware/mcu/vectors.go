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

package mcu

import (
	"fmt"

	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/hardware/timers"
)

// Vector is an interrupt vector number. Numbering follows the datasheet, where
// the reset vector is number one. A lower number has a higher priority.
type Vector int

// List of the interrupt vectors that can be raised by the emulated
// peripherals.
const (
	TIMER1_COMPA Vector = 12
	TIMER1_COMPB Vector = 13
	TIMER1_OVF   Vector = 14
	TIMER0_COMPA Vector = 15
	TIMER0_COMPB Vector = 16
	TIMER0_OVF   Vector = 17
)

// NumVectors is the number of interrupt vectors (including reset).
const NumVectors = 26

var vectorNames = map[Vector]string{
	TIMER1_COMPA: "TIMER1_COMPA",
	TIMER1_COMPB: "TIMER1_COMPB",
	TIMER1_OVF:   "TIMER1_OVF",
	TIMER0_COMPA: "TIMER0_COMPA",
	TIMER0_COMPB: "TIMER0_COMPB",
	TIMER0_OVF:   "TIMER0_OVF",
}

func (v Vector) String() string {
	if s, ok := vectorNames[v]; ok {
		return s
	}
	return fmt.Sprintf("vector %d", int(v))
}

// an interrupt source is a flag in a timer's flag register
type source struct {
	vector Vector
	timer  *timers.Timer
	flag   int
}

// the sources in priority order
func (m *MCU) interruptSources() []source {
	return []source{
		{vector: TIMER1_COMPA, timer: m.Timer1, flag: addresses.OCFnA},
		{vector: TIMER1_COMPB, timer: m.Timer1, flag: addresses.OCFnB},
		{vector: TIMER1_OVF, timer: m.Timer1, flag: addresses.TOVn},
		{vector: TIMER0_COMPA, timer: m.Timer0, flag: addresses.OCFnA},
		{vector: TIMER0_COMPB, timer: m.Timer0, flag: addresses.OCFnB},
		{vector: TIMER0_OVF, timer: m.Timer0, flag: addresses.TOVn},
	}
}
