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

package ports_test

import (
	"testing"

	"github.com/jetsetilly/syncline/hardware/memory"
	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/hardware/ports"
	"github.com/jetsetilly/syncline/logger"
	"github.com/jetsetilly/syncline/test"
)

func TestDataDirection(t *testing.T) {
	p := ports.NewPortC()
	mem := memory.NewMemory(logger.Allow)
	mem.Attach(p)

	mem.Write(addresses.DDRC, 0x0f)
	mem.Write(addresses.PORTC, 0xff)
	test.ExpectEquality(t, p.Levels(), 0xff)

	// input pins without external input take the level of the pull-up
	mem.Write(addresses.PORTC, 0x33)
	test.ExpectEquality(t, mem.Read(addresses.PINC), 0x33)

	p.Input = func() uint8 { return 0xf0 }
	test.ExpectEquality(t, mem.Read(addresses.PINC), 0xf3)

	// writing to PINx toggles PORTx
	mem.Write(addresses.PINC, 0x01)
	test.ExpectEquality(t, mem.Read(addresses.PORTC), 0x32)
}

func TestOverride(t *testing.T) {
	p := ports.NewPortD()
	mem := memory.NewMemory(logger.Allow)
	mem.Attach(p)

	var level, active bool
	p.SetOverride(addresses.PD5, func() (bool, bool) { return level, active }, true)

	// override requires DDR
	active = true
	level = true
	test.ExpectFailure(t, p.Level(addresses.PD5))

	mem.Write(addresses.DDRD, 1<<addresses.PD5)
	test.ExpectSuccess(t, p.Level(addresses.PD5))

	// inactive override reverts to PORTx
	active = false
	test.ExpectFailure(t, p.Level(addresses.PD5))

	// override without DDR
	p.SetOverride(addresses.PD1, func() (bool, bool) { return true, true }, false)
	test.ExpectSuccess(t, p.Level(addresses.PD1))
}

func TestDACWeights(t *testing.T) {
	r, g, b := ports.DAC(0b00_10_01_11)
	test.ExpectEquality(t, r, 85)
	test.ExpectEquality(t, g, 170)
	test.ExpectEquality(t, b, 255)

	r, g, b = ports.DAC(0b11_00_00_00)
	test.ExpectEquality(t, r, 0)
	test.ExpectEquality(t, g, 0)
	test.ExpectEquality(t, b, 0)

	for _, level := range []uint8{0, 85, 170, 255} {
		e := ports.DACEncode(level)
		r, _, _ := ports.DAC(e << 4)
		test.ExpectEquality(t, r, level)
	}

	test.ExpectEquality(t, ports.DACEncode(100), 0b10)
	test.ExpectEquality(t, ports.DACEncode(200), 0b01)
	test.ExpectEquality(t, ports.DACEncode(41), 0b00)
	test.ExpectEquality(t, ports.DACEncode(42), 0b10)
	test.ExpectEquality(t, ports.DACEncode(127), 0b01)
	test.ExpectEquality(t, ports.DACEncode(213), 0b11)
}
