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

// Package channel implements the output channels that turn framebuffer bytes
// into pixels on the wire. There are two strategies: the Serial channel repurposes
// the USART as a shift register and the Port channel writes directly to the
// parallel output register of port C.
//
// All channel operations are instructions issued through an mcu.Executor. The
// cost of each operation is available without executing it, so that the burst
// plan can be built statically.
package channel

import (
	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/hardware/mcu"
	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
)

// Channel is the output channel contract.
type Channel interface {
	Strategy() profile.Strategy

	// Width is the number of bits carried by each write
	Width() int

	// Settle is the number of system clocks after Enable() before the
	// first staged byte appears on the wire
	Settle() int

	// Slot is the number of system clocks the channel takes to output a
	// byte. Zero if the channel outputs a byte immediately
	Slot() int

	// Setup configures the peripheral. Called once before the timing
	// generators are started
	Setup(ex mcu.Executor)

	// Stage makes a byte ready to be output as soon as the channel is
	// enabled. Called by the dispatch handler
	Stage(ex mcu.Executor, data uint8)

	// Enable arms the channel
	Enable(ex mcu.Executor)

	// Release outputs the staged byte. This is a no-op for channels that
	// output the staged byte when enabled
	Release(ex mcu.Executor)

	// Write outputs a byte
	Write(ex mcu.Executor, data uint8)

	// Disable blanks the channel
	Disable(ex mcu.Executor)

	// Cost of each operation in system clocks
	Costs(tab cycles.Table) Costs
}

// Costs of the channel operations.
type Costs struct {
	Stage   int
	Enable  int
	Release int
	Write   int
	Disable int
}

// Misconfigured is returned when a channel cannot be created for a profile.
const Misconfigured = "channel: %s: %s"

// New returns the output channel required by the profile.
func New(p profile.Profile) (Channel, error) {
	switch p.Channel {
	case profile.Serial:
		return NewSerial(p.BaudDivisor), nil
	case profile.Port:
		return NewPort(p.PortWidth)
	}
	return nil, curated.Errorf(Misconfigured, p.ID, "unknown strategy")
}
