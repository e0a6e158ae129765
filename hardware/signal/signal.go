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

// Package signal exposes the interface between the board and anything that
// consumes the wire signal on the VGA connector, for example the monitor or a
// signal capture.
package signal

import (
	"fmt"
	"strings"
)

// Attributes represents the state of the VGA connector for a single system
// clock. Sync lines are represented by their electrical level, true being
// high.
type Attributes struct {
	HSync bool
	VSync bool

	// colour levels after the DAC. zero is black
	R uint8
	G uint8
	B uint8
}

func (a Attributes) String() string {
	s := strings.Builder{}
	if !a.HSync {
		s.WriteString("HSYNC ")
	}
	if !a.VSync {
		s.WriteString("VSYNC ")
	}
	s.WriteString(fmt.Sprintf("#%02x%02x%02x", a.R, a.G, a.B))
	return s.String()
}

// Black returns true if all colour channels are zero.
func (a Attributes) Black() bool {
	return a.R == 0 && a.G == 0 && a.B == 0
}

// Sink implementations consume the signal one system clock at a time.
type Sink interface {
	Signal(sig Attributes) error
}

// Sinks is a list of Sink implementations. It is itself a Sink.
type Sinks []Sink

// Signal implements the Sink interface. Every sink is sent the signal even if
// an earlier sink returned an error. The first error is returned.
func (s Sinks) Signal(sig Attributes) error {
	var err error
	for _, k := range s {
		if e := k.Signal(sig); e != nil && err == nil {
			err = e
		}
	}
	return err
}

