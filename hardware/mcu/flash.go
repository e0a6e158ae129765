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
	"github.com/jetsetilly/syncline/curated"
)

// FlashSize is the size of program memory in bytes.
const FlashSize = 32 * 1024

// ProgramTooLarge is returned when data does not fit in program memory.
const ProgramTooLarge = "flash: %d bytes at %#04x does not fit in %d bytes of program memory"

// Flash is the program memory.
type Flash struct {
	data [FlashSize]uint8
	used int
}

// Load data into program memory at the address.
func (f *Flash) Load(addr uint16, data []uint8) error {
	if int(addr)+len(data) > FlashSize {
		return curated.Errorf(ProgramTooLarge, len(data), addr, FlashSize)
	}
	copy(f.data[addr:], data)
	f.used = max(f.used, int(addr)+len(data))
	return nil
}

// Read a byte from program memory. Addresses wrap at the end of memory.
func (f *Flash) Read(addr uint16) uint8 {
	return f.data[int(addr)%FlashSize]
}

// Used returns the address following the highest byte loaded.
func (f *Flash) Used() int {
	return f.used
}
