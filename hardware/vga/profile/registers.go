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

package profile

import (
	"fmt"

	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/hardware/timers"
)

// Registers are the timer register values for a profile.
type Registers struct {
	// horizontal timing generator
	OCR0A  uint8
	OCR0B  uint8
	TCCR0A uint8
	TCCR0B uint8
	TIMSK0 uint8

	// vertical timing generator
	OCR1A  uint16
	OCR1B  uint16
	TCCR1A uint8
	TCCR1B uint8
}

func (r Registers) String() string {
	return fmt.Sprintf("OCR0A=%d OCR0B=%d TCCR0A=%08b TCCR0B=%08b TIMSK0=%08b OCR1A=%d OCR1B=%d TCCR1A=%08b TCCR1B=%08b",
		r.OCR0A, r.OCR0B, r.TCCR0A, r.TCCR0B, r.TIMSK0, r.OCR1A, r.OCR1B, r.TCCR1A, r.TCCR1B)
}

// fast PWM with an inverting output on compare unit B. WGMn1 and WGMn0 are in
// TCCRnA for both timers
const fastPWMInvertingB = 1<<addresses.COMnB1 | 1<<addresses.COMnB0 | 1<<addresses.WGMn1 | 1<<addresses.WGMn0

// Registers derives the register values from the profile.
//
// Both timers run in fast PWM mode with TOP set by OCRnA. A counter in this
// mode has a period of TOP+1 so the TOP value is one less than the total. The
// inverting compare output is low from BOTTOM to the compare value inclusive,
// so the compare value is one less than the sync width.
func (p Profile) Registers() (Registers, error) {
	if err := p.Validate(); err != nil {
		return Registers{}, err
	}

	// Validate() has checked that the prescaler is available
	cs, _ := timers.ClockSelect(p.Prescaler)

	return Registers{
		OCR0A:  uint8(p.Horizontal.Total - 1),
		OCR0B:  uint8(p.Horizontal.Sync - 1),
		TCCR0A: fastPWMInvertingB,
		TCCR0B: 1<<addresses.WGM02 | cs,
		TIMSK0: 1<<addresses.TOIEn | 1<<addresses.OCIEnB,

		OCR1A:  uint16(p.Vertical.Total - 1),
		OCR1B:  uint16(p.Vertical.Sync - 1),
		TCCR1A: fastPWMInvertingB,
		TCCR1B: 1<<addresses.WGM13 | 1<<addresses.WGM12 | timers.ClockExternalFall,
	}, nil
}
