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

package hardware

import (
	"context"
	"fmt"
	"strings"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/hardware/mcu"
	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/hardware/ports"
	"github.com/jetsetilly/syncline/hardware/signal"
	"github.com/jetsetilly/syncline/hardware/vga"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
	"github.com/jetsetilly/syncline/logger"
)

// Wire connects a pin of the MCU to a line of the VGA connector.
type Wire struct {
	Line string
	Port string
	Pin  int

	// pin number of the DE-15 connector
	Connector int
}

func (w Wire) String() string {
	return fmt.Sprintf("%-10s P%s%d -> DE-15 pin %d", w.Line, w.Port, w.Pin, w.Connector)
}

// Wiring for each output channel strategy. The wiring is static. The sync
// lines are the same for all strategies.
var (
	syncWiring = []Wire{
		{Line: "hsync", Port: "D", Pin: addresses.PD5, Connector: 13},
		{Line: "vsync", Port: "B", Pin: addresses.PB2, Connector: 14},
	}

	SerialWiring = append(syncWiring[:2:2],
		Wire{Line: "red", Port: "D", Pin: addresses.PD1, Connector: 1},
		Wire{Line: "green", Port: "D", Pin: addresses.PD1, Connector: 2},
		Wire{Line: "blue", Port: "D", Pin: addresses.PD1, Connector: 3},
	)

	PortWiring = append(syncWiring[:2:2],
		Wire{Line: "red w1", Port: "C", Pin: 5, Connector: 1},
		Wire{Line: "red w2", Port: "C", Pin: 4, Connector: 1},
		Wire{Line: "green w1", Port: "C", Pin: 3, Connector: 2},
		Wire{Line: "green w2", Port: "C", Pin: 2, Connector: 2},
		Wire{Line: "blue w1", Port: "C", Pin: 1, Connector: 3},
		Wire{Line: "blue w2", Port: "C", Pin: 0, Connector: 3},
	)
)

// Wiring returns the wiring table for the strategy.
func Wiring(s profile.Strategy) []Wire {
	if s == profile.Port {
		return PortWiring
	}
	return SerialWiring
}

// WiringSummary returns the wiring table as a multiline string.
func WiringSummary(s profile.Strategy) string {
	var b strings.Builder
	for _, w := range Wiring(s) {
		b.WriteString(w.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Board is the MCU with the signal generator installed and the VGA connector
// attached.
type Board struct {
	perm logger.Permission

	Profile profile.Profile
	MCU     *mcu.MCU
	Engine  *vga.Engine

	sinks signal.Sinks
	err   error

	// the previous signal sent to the sinks
	sig signal.Attributes

	frame int

	limiter *limiter
}

// NewBoard is the preferred method of initialisation for the Board type. The
// framebuffer must be the correct size for the profile.
func NewBoard(perm logger.Permission, p profile.Profile, costs cycles.Table, framebuffer []uint8) (*Board, error) {
	b := &Board{
		perm:    perm,
		Profile: p,
		MCU:     mcu.NewMCU(perm, costs),
	}

	var err error
	b.Engine, err = vga.NewEngine(perm, p, costs)
	if err != nil {
		return nil, curated.Errorf("board: %v", err)
	}

	err = b.Engine.Install(b.MCU, framebuffer)
	if err != nil {
		return nil, curated.Errorf("board: %v", err)
	}

	b.MCU.AddTicker(b.sample)

	return b, nil
}

// AddSink adds a consumer of the wire signal.
func (b *Board) AddSink(s signal.Sink) {
	b.sinks = append(b.sinks, s)
}

// Signal returns the state of the VGA connector.
func (b *Board) Signal() signal.Attributes {
	sig := signal.Attributes{
		HSync: b.MCU.PortD.Level(addresses.PD5),
		VSync: b.MCU.PortB.Level(addresses.PB2),
	}

	switch b.Profile.Channel {
	case profile.Serial:
		// the TxD line drives all three colour inputs through a resistor
		if b.MCU.PortD.Level(addresses.PD1) {
			sig.R, sig.G, sig.B = 0xff, 0xff, 0xff
		}
	case profile.Port:
		sig.R, sig.G, sig.B = ports.DAC(b.MCU.PortC.Levels() & 0x3f)
	}

	return sig
}

func (b *Board) sample() {
	sig := b.Signal()

	// count frames on the falling edge of vsync
	if b.sig.VSync && !sig.VSync {
		b.frame++
	}
	b.sig = sig

	if len(b.sinks) == 0 || b.err != nil {
		return
	}
	b.err = b.sinks.Signal(sig)
}

// Frame returns the number of vertical sync pulses since the board started.
func (b *Board) Frame() int {
	return b.frame
}

// SetLimit paces Run() to the frame rate of the profile.
func (b *Board) SetLimit(limit bool) {
	if b.limiter != nil {
		b.limiter.stop()
	}
	if limit {
		b.limiter = newLimiter(b.Profile.FramePeriod())
	} else {
		b.limiter = nil
	}
}

// RunCycles runs the board for at least n system clocks. Returns the first
// error from a sink.
func (b *Board) RunCycles(n uint64) error {
	b.MCU.Run(n)
	if b.err != nil {
		err := b.err
		b.err = nil
		return curated.Errorf("board: %v", err)
	}
	return nil
}

// Run the board for the number of frames. If frames is zero or less the board
// runs until the context is cancelled. The context is checked once per frame.
func (b *Board) Run(ctx context.Context, frames int) error {
	fc := uint64(b.Profile.FrameCycles())

	logger.Logf(b.perm, "board", "running %s (%s)", b.Profile.ID, b.Profile.FramePeriod())

	for n := 0; frames <= 0 || n < frames; n++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := b.RunCycles(fc); err != nil {
			return err
		}

		if b.limiter != nil {
			b.limiter.Wait()
		}
	}

	return nil
}
