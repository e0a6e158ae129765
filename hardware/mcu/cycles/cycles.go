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

// Package cycles is the instruction cost table for the microcontroller. Costs
// are in system clocks and are taken from the instruction set manual.
//
// Both the static burst plan and the simulated Executor take their costs from
// a Table. A table is identified by an ID and a version number. Any change to
// a cost must increment the version.
package cycles

import (
	"fmt"
	"maps"
	"slices"

	"github.com/jetsetilly/syncline/hardware/clocks"
	"github.com/jetsetilly/syncline/hardware/memory/addresses"
)

// Op is an instruction class.
type Op int

// List of valid Op values.
const (
	NOP Op = iota
	LPM
	LDS
	STS
	IN
	OUT
	LD
	ST
	LDI
	MOV
	PUSH
	POP
	Compare
	Arithmetic
	Shift
	Word
	Branch
	BranchTaken
	Jump
	Call
	Return
	Idle
	numOps
)

var opNames = [numOps]string{
	"NOP", "LPM", "LDS", "STS", "IN", "OUT", "LD", "ST", "LDI", "MOV", "PUSH", "POP",
	"compare", "arithmetic", "shift", "word", "branch", "branch taken",
	"jump", "call", "return", "idle",
}

func (op Op) String() string {
	if op < 0 || op >= numOps {
		return fmt.Sprintf("op(%d)", int(op))
	}
	return opNames[op]
}

// Table of costs for a specific target.
type Table struct {
	ID      string
	Version int

	// system clock of the target
	ClockHz float64

	// clocks from the interrupt flag being seen to the first instruction of
	// the vector being executed
	InterruptEntry int

	// return from interrupt
	RETI int

	ops [numOps]int
}

func (tab Table) String() string {
	return fmt.Sprintf("%s (v%d)", tab.ID, tab.Version)
}

// Cost of the instruction class.
func (tab Table) Cost(op Op) int {
	return tab.ops[op]
}

// Read returns the cost of reading the register. Registers in the I/O space
// are reached with the single cycle IN instruction.
func (tab Table) Read(reg addresses.Register) int {
	if reg.IOSpace() {
		return tab.ops[IN]
	}
	return tab.ops[LDS]
}

// Write returns the cost of writing the register.
func (tab Table) Write(reg addresses.Register) int {
	if reg.IOSpace() {
		return tab.ops[OUT]
	}
	return tab.ops[STS]
}

// Read16 returns the cost of reading a 16-bit register pair.
func (tab Table) Read16(reg addresses.Register) int {
	return tab.Read(reg) + tab.Read(reg.High())
}

// Write16 returns the cost of writing a 16-bit register pair.
func (tab Table) Write16(reg addresses.Register) int {
	return tab.Write(reg) + tab.Write(reg.High())
}

// ATmega328P at 16MHz.
var ATmega328P_16MHz = Table{
	ID:             "atmega328p-16mhz",
	Version:        1,
	ClockHz:        clocks.ATmega328P_16MHz,
	InterruptEntry: 7,
	RETI:           4,
	ops: [numOps]int{
		NOP:         1,
		LPM:         3,
		LDS:         2,
		STS:         2,
		IN:          1,
		OUT:         1,
		LD:          2,
		ST:          2,
		LDI:         1,
		MOV:         1,
		PUSH:        2,
		POP:         2,
		Compare:     1,
		Arithmetic:  1,
		Shift:       1,
		Word:        2,
		Branch:      1,
		BranchTaken: 2,
		Jump:        2,
		Call:        3,
		Return:      4,
		Idle:        1,
	},
}

var tables = map[string]Table{
	ATmega328P_16MHz.ID: ATmega328P_16MHz,
}

// Lookup a table by ID.
func Lookup(id string) (Table, bool) {
	tab, ok := tables[id]
	return tab, ok
}

// IDs returns the IDs of all tables in sorted order.
func IDs() []string {
	return slices.Sorted(maps.Keys(tables))
}
