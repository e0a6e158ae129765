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

package cycles_test

import (
	"testing"

	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/test"
)

func TestRegisterCosts(t *testing.T) {
	tab := cycles.ATmega328P_16MHz

	// PORTC is in the I/O space and UDR0 is not
	test.ExpectEquality(t, tab.Write(addresses.PORTC), tab.Cost(cycles.OUT))
	test.ExpectEquality(t, tab.Write(addresses.UDR0), tab.Cost(cycles.STS))
	test.ExpectEquality(t, tab.Read(addresses.TCNT0), 1)
	test.ExpectEquality(t, tab.Read16(addresses.TCNT1), 4)
	test.ExpectEquality(t, tab.Write16(addresses.OCR1A), 4)
}

func TestLookup(t *testing.T) {
	tab, ok := cycles.Lookup("atmega328p-16mhz")
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, tab.Cost(cycles.LPM), 3)
	test.ExpectEquality(t, tab.String(), "atmega328p-16mhz (v1)")

	_, ok = cycles.Lookup("atmega328p-5mhz")
	test.ExpectFailure(t, ok)

	test.ExpectEquality(t, len(cycles.IDs()), 1)
}

func TestNoFreeInstructions(t *testing.T) {
	tab := cycles.ATmega328P_16MHz
	for op := cycles.NOP; op <= cycles.Idle; op++ {
		test.ExpectInequality(t, tab.Cost(op), 0, op)
	}
}
