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

// Package relay is a one-slot single-producer/single-consumer relay between
// the two interrupt handlers of the signal generator.
//
// The relay uses no synchronisation primitive. It relies on the scheduling
// contract of the MCU: handlers are not reentrant and the dispatch handler
// for a line always completes before the burst handler for the same line
// begins. The producer publishes exactly once per line and the consumer
// consumes exactly once per line.
//
// Violations of the contract are counted rather than being errors. A publish
// to a slot that has not been consumed is an Overwrite and a consume of an
// empty slot is an Underrun. Either indicates that the cycle budget has been
// broken.
package relay

import "fmt"

// Slot holds at most one value.
type Slot[T any] struct {
	value T
	full  bool

	Overwrites int
	Underruns  int
}

// Publish a value to the slot.
func (s *Slot[T]) Publish(v T) {
	if s.full {
		s.Overwrites++
	}
	s.value = v
	s.full = true
}

// Consume the value in the slot. Returns false if the slot is empty, in which
// case the zero value of T is returned.
func (s *Slot[T]) Consume() (T, bool) {
	if !s.full {
		s.Underruns++
		var z T
		return z, false
	}
	s.full = false
	return s.value, true
}

// Full returns true if a value has been published and not consumed.
func (s *Slot[T]) Full() bool {
	return s.full
}

func (s *Slot[T]) String() string {
	return fmt.Sprintf("full=%v overwrites=%d underruns=%d", s.full, s.Overwrites, s.Underruns)
}

// Scan is the state published by the dispatch handler for the current line.
type Scan struct {
	Row     int
	Visible bool
}

func (s Scan) String() string {
	if !s.Visible {
		return "not visible"
	}
	return fmt.Sprintf("row %d", s.Row)
}
