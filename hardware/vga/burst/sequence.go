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

package burst

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/syncline/hardware/mcu"
	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
)

// Instr is a run of instructions of the same class.
type Instr struct {
	Op cycles.Op
	N  int
}

// Sequence is a straight line run of instructions that have no effect other
// than the time they take. The handlers execute sequences and the plan counts
// the cost of the same sequences.
type Sequence []Instr

// Cost of the sequence in system clocks.
func (s Sequence) Cost(tab cycles.Table) int {
	var n int
	for _, i := range s {
		n += tab.Cost(i.Op) * i.N
	}
	return n
}

// Execute the sequence.
func (s Sequence) Execute(ex mcu.Executor) {
	for _, i := range s {
		ex.Spend(i.Op, i.N)
	}
}

func (s Sequence) String() string {
	var b strings.Builder
	for i, n := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fmt.Sprintf("%s x%d", n.Op, n.N))
	}
	return b.String()
}

// The handlers keep their working values in registers reserved for the
// purpose so only SREG needs to be saved and restored.
var (
	Prologue = Sequence{{cycles.IN, 1}}
	Epilogue = Sequence{{cycles.OUT, 1}}
)

// Sequences of the dispatch handler.
var (
	// comparison of the 16-bit line index with one of the bounds of the
	// visible window. followed by a branch
	BoundCheck = Sequence{{cycles.Compare, 2}}

	// publishing a visible scan. the row and the visible flag
	PublishVisible = Sequence{{cycles.STS, 1}, {cycles.LDI, 1}, {cycles.STS, 1}}

	// publishing a non-visible scan. the visible flag only
	PublishNotVisible = Sequence{{cycles.STS, 1}}
)

// RowCompute is the subtraction of the first visible line from the line index
// and the 16-bit shift by the row repeat shift.
func RowCompute(shift int) Sequence {
	return Sequence{{cycles.Arithmetic, 2}, {cycles.Shift, 2 * shift}}
}

// Sequences of the burst handler.
var (
	// reading the visible flag of the scan. followed by a branch
	ConsumeCheck = Sequence{{cycles.LDS, 1}}

	// reading the row of the scan
	ConsumeRow = Sequence{{cycles.LDS, 1}}
)

// RowPointer is the calculation of the program memory address of a row.
// Multiplication of the row by the row length and the addition of the
// framebuffer origin.
var RowPointer = Sequence{{cycles.Word, 1}, {cycles.MOV, 1}, {cycles.Arithmetic, 2}}
