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

package bus

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/syncline/hardware/memory/addresses"
)

// Access is a single recorded register access.
type Access struct {
	Write bool
	Reg   addresses.Register
	Data  uint8
}

func (a Access) String() string {
	if a.Write {
		return fmt.Sprintf("%s <- %#02x", a.Reg, a.Data)
	}
	return fmt.Sprintf("%s -> %#02x", a.Reg, a.Data)
}

// Recorder is an implementation of the Bus interface that remembers every
// access. Values written are returned by subsequent reads. Useful for testing
// code that programs peripherals without needing the peripherals themselves.
type Recorder struct {
	Log    []Access
	values map[addresses.Register]uint8
}

// NewRecorder is the preferred method of initialisation for the Recorder type.
func NewRecorder() *Recorder {
	return &Recorder{
		values: make(map[addresses.Register]uint8),
	}
}

// Read implements the Bus interface.
func (r *Recorder) Read(reg addresses.Register) uint8 {
	v := r.values[reg]
	r.Log = append(r.Log, Access{Reg: reg, Data: v})
	return v
}

// Write implements the Bus interface.
func (r *Recorder) Write(reg addresses.Register, data uint8) {
	r.values[reg] = data
	r.Log = append(r.Log, Access{Write: true, Reg: reg, Data: data})
}

// Value returns the most recent value written to the register and whether it
// was written at all.
func (r *Recorder) Value(reg addresses.Register) (uint8, bool) {
	v, ok := r.values[reg]
	return v, ok
}

// Value16 returns the most recent 16-bit value written to the register pair.
func (r *Recorder) Value16(reg addresses.Register) uint16 {
	return uint16(r.values[reg.High()])<<8 | uint16(r.values[reg])
}

// Writes returns the sequence of registers written to, in order.
func (r *Recorder) Writes() []addresses.Register {
	var w []addresses.Register
	for _, a := range r.Log {
		if a.Write {
			w = append(w, a.Reg)
		}
	}
	return w
}

func (r *Recorder) String() string {
	var s strings.Builder
	for _, a := range r.Log {
		s.WriteString(a.String())
		s.WriteString("\n")
	}
	return s.String()
}
