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

// Package memory implements the data space of the microcontroller as seen by
// the CPU. Peripheral registers are dispatched to the peripheral that owns
// them. Addresses not owned by any peripheral are backed by SRAM if they fall
// in the SRAM range and are otherwise unmapped.
//
// Accesses to unmapped registers are not errors on the real hardware (writes
// are ignored and reads return zero) but they almost certainly indicate a
// defect so they are logged and counted.
package memory

import (
	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/hardware/memory/bus"
	"github.com/jetsetilly/syncline/logger"
)

// SRAM range of the ATmega328P.
const (
	SRAMOrigin = 0x0100
	SRAMMemtop = 0x08ff
)

// Memory is the data space and implements the bus.Bus interface.
type Memory struct {
	perm logger.Permission

	peripherals []bus.Peripheral

	// cache of register to peripheral mapping. filled on first access
	owner map[addresses.Register]bus.Peripheral

	sram [SRAMMemtop - SRAMOrigin + 1]uint8

	// number of accesses to unmapped registers
	Unmapped int
}

// NewMemory is the preferred method of initialisation for the Memory type.
func NewMemory(perm logger.Permission) *Memory {
	return &Memory{
		perm:  perm,
		owner: make(map[addresses.Register]bus.Peripheral),
	}
}

// Attach a peripheral to the data space.
func (mem *Memory) Attach(p bus.Peripheral) {
	mem.peripherals = append(mem.peripherals, p)
	clear(mem.owner)
}

func (mem *Memory) lookup(reg addresses.Register) bus.Peripheral {
	if p, ok := mem.owner[reg]; ok {
		return p
	}
	return nil
}

// Read implements the bus.Bus interface.
func (mem *Memory) Read(reg addresses.Register) uint8 {
	if p := mem.lookup(reg); p != nil {
		v, _ := p.Read(reg)
		return v
	}

	for _, p := range mem.peripherals {
		if v, ok := p.Read(reg); ok {
			mem.owner[reg] = p
			return v
		}
	}

	if reg >= SRAMOrigin && reg <= SRAMMemtop {
		return mem.sram[reg-SRAMOrigin]
	}

	mem.Unmapped++
	logger.Logf(mem.perm, "memory", "read from unmapped register %s", reg)
	return 0
}

// Write implements the bus.Bus interface.
func (mem *Memory) Write(reg addresses.Register, data uint8) {
	if p := mem.lookup(reg); p != nil {
		p.Write(reg, data)
		return
	}

	for _, p := range mem.peripherals {
		if p.Write(reg, data) {
			mem.owner[reg] = p
			return
		}
	}

	if reg >= SRAMOrigin && reg <= SRAMMemtop {
		mem.sram[reg-SRAMOrigin] = data
		return
	}

	mem.Unmapped++
	logger.Logf(mem.perm, "memory", "write to unmapped register %s", reg)
}
