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

// Package bus defines the memory bus concept. For an explanation see the
// memory package documentation.
package bus

import (
	"github.com/jetsetilly/syncline/hardware/memory/addresses"
)

// Bus defines the operations for the peripheral registers when accessed from
// the CPU. Reads and writes have side effects, exactly as they would on the
// real hardware. For example, reading the low byte of a 16-bit register latches
// the high byte.
type Bus interface {
	Read(reg addresses.Register) uint8
	Write(reg addresses.Register, data uint8)
}

// Peripheral implementations own a range of registers. The bool return value
// indicates whether the peripheral responded to the address.
type Peripheral interface {
	Label() string
	Read(reg addresses.Register) (uint8, bool)
	Write(reg addresses.Register, data uint8) bool
}

// Write16 writes a 16-bit value to the register pair starting at the low byte
// address. The high byte is written first, as required by the shared TEMP
// register of the 16-bit timer.
func Write16(b Bus, reg addresses.Register, data uint16) {
	b.Write(reg.High(), uint8(data>>8))
	b.Write(reg, uint8(data))
}

// Read16 reads a 16-bit value from the register pair starting at the low byte
// address. The low byte is read first.
func Read16(b Bus, reg addresses.Register) uint16 {
	lo := b.Read(reg)
	hi := b.Read(reg.High())
	return uint16(hi)<<8 | uint16(lo)
}
