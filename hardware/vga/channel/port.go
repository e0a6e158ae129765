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

package channel

import (
	"fmt"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/hardware/mcu"
	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
)

// PortPins is the number of port C pins available for output. PC6 is the
// reset pin.
const PortPins = 6

// Port outputs pixels by writing directly to PORTC. Each byte is a pixel and
// the output is immediate. There is no hardware blanking so the port must be
// zeroed explicitly.
type Port struct {
	width int
	mask  uint8

	// the staged byte. on the hardware this is a register reserved for the
	// purpose
	staged uint8
}

// NewPort is the preferred method of initialisation for the Port type.
func NewPort(width int) (*Port, error) {
	if width < 1 || width > PortPins {
		return nil, curated.Errorf(Misconfigured, "port", fmt.Sprintf("width of %d bits is not possible with %d pins", width, PortPins))
	}
	return &Port{
		width: width,
		mask:  uint8(1<<width) - 1,
	}, nil
}

func (ch *Port) String() string {
	return fmt.Sprintf("port (%d bits)", ch.width)
}

func (ch *Port) Strategy() profile.Strategy {
	return profile.Port
}

func (ch *Port) Width() int {
	return ch.width
}

func (ch *Port) Settle() int {
	return 0
}

func (ch *Port) Slot() int {
	return 0
}

func (ch *Port) Setup(ex mcu.Executor) {
	ex.Write(addresses.PORTC, 0)
	ex.Write(addresses.DDRC, ch.mask)
}

// bits above the width of the channel are never written to the port. PC6 is
// the reset pin
func (ch *Port) Stage(ex mcu.Executor, data uint8) {
	ex.Spend(cycles.MOV, 1)
	ch.staged = data & ch.mask
}

func (ch *Port) Enable(ex mcu.Executor) {
}

func (ch *Port) Release(ex mcu.Executor) {
	ex.Write(addresses.PORTC, ch.staged)
}

func (ch *Port) Write(ex mcu.Executor, data uint8) {
	ex.Write(addresses.PORTC, data&ch.mask)
}

func (ch *Port) Disable(ex mcu.Executor) {
	ex.Write(addresses.PORTC, 0)
}

func (ch *Port) Costs(tab cycles.Table) Costs {
	return Costs{
		Stage:   tab.Cost(cycles.MOV),
		Enable:  0,
		Release: tab.Write(addresses.PORTC),
		Write:   tab.Write(addresses.PORTC),
		Disable: tab.Write(addresses.PORTC),
	}
}
