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
	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/hardware/memory/bus"
)

// Executor is the interface through which code running on the MCU issues
// instructions. Every method advances the system clock by the cost of the
// instruction, as found in the cost table, before the effect of the
// instruction takes place. This means that the effect of an instruction is
// seen by the peripherals from the clock after the instruction completes.
type Executor interface {
	// Read and Write access a register in the data space. The cost depends on
	// whether the register is in the I/O space
	Read(reg addresses.Register) uint8
	Write(reg addresses.Register, data uint8)

	// Read16 reads a 16-bit register pair. Low byte first
	Read16(reg addresses.Register) uint16

	// LoadProgram reads a byte from program memory
	LoadProgram(addr uint16) uint8

	// Spend advances the clock by n instructions of the class
	Spend(op cycles.Op, n int)

	// Wait advances the clock by n NOP instructions
	Wait(n int)

	// Now returns the number of system clocks since reset
	Now() uint64

	// Costs returns the cost table in use
	Costs() cycles.Table
}

// Handler is the code for an interrupt vector or for the main line.
type Handler func(ex Executor)

type executor struct {
	m *MCU
}

func (ex executor) Read(reg addresses.Register) uint8 {
	ex.m.tick(ex.m.costs.Read(reg))
	return ex.m.Mem.Read(reg)
}

func (ex executor) Write(reg addresses.Register, data uint8) {
	ex.m.tick(ex.m.costs.Write(reg))
	ex.m.Mem.Write(reg, data)
}

func (ex executor) Read16(reg addresses.Register) uint16 {
	lo := ex.Read(reg)
	hi := ex.Read(reg.High())
	return uint16(hi)<<8 | uint16(lo)
}

func (ex executor) LoadProgram(addr uint16) uint8 {
	ex.m.tick(ex.m.costs.Cost(cycles.LPM))
	return ex.m.Flash.Read(addr)
}

func (ex executor) Spend(op cycles.Op, n int) {
	ex.m.tick(ex.m.costs.Cost(op) * n)
}

func (ex executor) Wait(n int) {
	ex.m.tick(ex.m.costs.Cost(cycles.NOP) * n)
}

func (ex executor) Now() uint64 {
	return ex.m.cycle
}

func (ex executor) Costs() cycles.Table {
	return ex.m.costs
}

// Dry is an Executor that is not connected to an MCU. Register accesses are
// passed to a bus.Bus and the clock only advances by the cost of the
// instructions executed. Useful for counting the cost of handler code and for
// testing code that programs peripherals.
type Dry struct {
	Bus   bus.Bus
	Flash *Flash

	costs cycles.Table
	cycle uint64
}

// NewDry is the preferred method of initialisation for the Dry type. The flash
// argument can be nil, in which case LoadProgram() returns zero.
func NewDry(b bus.Bus, flash *Flash, costs cycles.Table) *Dry {
	return &Dry{
		Bus:   b,
		Flash: flash,
		costs: costs,
	}
}

func (ex *Dry) Read(reg addresses.Register) uint8 {
	ex.cycle += uint64(ex.costs.Read(reg))
	return ex.Bus.Read(reg)
}

func (ex *Dry) Write(reg addresses.Register, data uint8) {
	ex.cycle += uint64(ex.costs.Write(reg))
	ex.Bus.Write(reg, data)
}

func (ex *Dry) Read16(reg addresses.Register) uint16 {
	lo := ex.Read(reg)
	hi := ex.Read(reg.High())
	return uint16(hi)<<8 | uint16(lo)
}

func (ex *Dry) LoadProgram(addr uint16) uint8 {
	ex.cycle += uint64(ex.costs.Cost(cycles.LPM))
	if ex.Flash == nil {
		return 0
	}
	return ex.Flash.Read(addr)
}

func (ex *Dry) Spend(op cycles.Op, n int) {
	ex.cycle += uint64(ex.costs.Cost(op) * n)
}

func (ex *Dry) Wait(n int) {
	ex.cycle += uint64(ex.costs.Cost(cycles.NOP) * n)
}

func (ex *Dry) Now() uint64 {
	return ex.cycle
}

func (ex *Dry) Costs() cycles.Table {
	return ex.costs
}
