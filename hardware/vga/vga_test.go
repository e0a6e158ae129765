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

package vga_test

import (
	"slices"
	"testing"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/hardware/mcu"
	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/hardware/memory/bus"
	"github.com/jetsetilly/syncline/hardware/vga"
	"github.com/jetsetilly/syncline/hardware/vga/burst"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
	"github.com/jetsetilly/syncline/hardware/vga/relay"
	"github.com/jetsetilly/syncline/logger"
	"github.com/jetsetilly/syncline/test"
)

func filled(p profile.Profile, v uint8) []uint8 {
	fb := make([]uint8, p.FramebufferSize())
	for i := range fb {
		fb[i] = v
	}
	return fb
}

func TestSetup(t *testing.T) {
	p := profile.VGA640x480
	e, err := vga.NewEngine(logger.Allow, p, cycles.ATmega328P_16MHz)
	test.DemandSuccess(t, err)

	rec := bus.NewRecorder()
	e.Setup(mcu.NewDry(rec, nil, cycles.ATmega328P_16MHz))

	v, _ := rec.Value(addresses.OCR0A)
	test.ExpectEquality(t, v, uint8(62))
	v, _ = rec.Value(addresses.OCR0B)
	test.ExpectEquality(t, v, uint8(7))
	test.ExpectEquality(t, rec.Value16(addresses.OCR1A), uint16(524))
	test.ExpectEquality(t, rec.Value16(addresses.OCR1B), uint16(1))
	test.ExpectEquality(t, rec.Value16(addresses.TCNT1), uint16(0))

	v, _ = rec.Value(addresses.TCCR0B)
	test.ExpectEquality(t, v, e.Registers.TCCR0B)
	v, _ = rec.Value(addresses.TCCR1B)
	test.ExpectEquality(t, v, e.Registers.TCCR1B)
	v, _ = rec.Value(addresses.DDRD)
	test.ExpectEquality(t, v&(1<<addresses.PD5), uint8(1<<addresses.PD5))
	v, _ = rec.Value(addresses.DDRB)
	test.ExpectEquality(t, v&(1<<addresses.PB2), uint8(1<<addresses.PB2))

	// the vertical timing generator is started before the horizontal timing
	// generator and interrupts are enabled last
	w := rec.Writes()
	test.ExpectSuccess(t, slices.Index(w, addresses.TCCR0A) > slices.Index(w, addresses.UCSR0C))
	last := func(reg addresses.Register) int {
		n := -1
		for i, r := range w {
			if r == reg {
				n = i
			}
		}
		return n
	}
	test.ExpectSuccess(t, last(addresses.TCCR1B) < last(addresses.TCCR0B))
	test.ExpectEquality(t, last(addresses.SREG), len(w)-1)
}

func TestFramebufferSize(t *testing.T) {
	p := profile.VGA640x480
	e, err := vga.NewEngine(logger.Allow, p, cycles.ATmega328P_16MHz)
	test.DemandSuccess(t, err)

	m := mcu.NewMCU(logger.Allow, cycles.ATmega328P_16MHz)
	err = e.Install(m, make([]uint8, p.FramebufferSize()-1))
	test.ExpectSuccess(t, curated.Is(err, vga.FramebufferSize))
	test.ExpectFailure(t, m.InterruptsEnabled())
}

// the cost of the handlers when run in isolation must be what the plan
// expects them to be
func TestHandlerCosts(t *testing.T) {
	tab := cycles.ATmega328P_16MHz

	for _, p := range profile.All() {
		e, err := vga.NewEngine(logger.Allow, p, tab)
		test.DemandSuccess(t, err, p.ID)

		rec := bus.NewRecorder()
		ex := mcu.NewDry(rec, nil, tab)

		// visible line
		bus.Write16(rec, addresses.TCNT1, uint16(p.Vertical.FirstVisible()))
		start := ex.Now()
		e.Dispatch(ex)
		test.ExpectEquality(t, int(ex.Now()-start), e.Plan.DispatchVisible, p.ID)

		start = ex.Now()
		e.Burst(ex)
		test.ExpectEquality(t, int(ex.Now()-start),
			burst.BurstEntryCost(tab)+e.Plan.Duration()+burst.Epilogue.Cost(tab), p.ID)

		// last line of the frame takes the slowest path through the dispatch
		// handler
		bus.Write16(rec, addresses.TCNT1, uint16(p.Vertical.Total-1))
		start = ex.Now()
		e.Dispatch(ex)
		test.ExpectEquality(t, int(ex.Now()-start), e.Plan.DispatchNotVisible, p.ID)

		start = ex.Now()
		e.Burst(ex)
		test.ExpectEquality(t, int(ex.Now()-start),
			burst.Prologue.Cost(tab)+burst.ConsumeCheck.Cost(tab)+tab.Cost(cycles.BranchTaken)+burst.Epilogue.Cost(tab), p.ID)

		test.ExpectEquality(t, e.Relay().Underruns, 0, p.ID)
		test.ExpectEquality(t, e.Relay().Overwrites, 0, p.ID)
	}
}

type scanRecord struct {
	line int
	scan relay.Scan

	// number of clocks the output was lit since the previous scan
	lit int
}

// run the engine with a framebuffer of lit pixels and check that the scans
// follow the vertical counter and that every visible line is lit for exactly
// the visible window
func TestEngine(t *testing.T) {
	tab := cycles.ATmega328P_16MHz

	for _, p := range profile.All() {
		e, err := vga.NewEngine(logger.Allow, p, tab)
		test.DemandSuccess(t, err, p.ID)

		m := mcu.NewMCU(logger.Allow, tab)

		var fill uint8 = 0xff
		if p.Channel == profile.Port {
			fill = 0x3f
		}

		var lit int
		m.AddTicker(func() {
			if p.Channel == profile.Port {
				if m.PortC.Levels()&0x3f != 0 {
					lit++
				}
			} else if m.PortD.Level(addresses.PD1) {
				lit++
			}
		})

		var records []scanRecord
		e.OnScan = func(line int, scan relay.Scan) {
			records = append(records, scanRecord{line: line, scan: scan, lit: lit})
			lit = 0
		}

		test.DemandSuccess(t, e.Install(m, filled(p, fill)), p.ID)
		test.ExpectSuccess(t, m.InterruptsEnabled(), p.ID)

		// discard everything from the first frame
		m.Run(uint64(p.FrameCycles()))
		records = records[:0]
		m.ResetStats()
		m.USART.ResetCounters()
		e.Relay().Underruns = 0
		e.Relay().Overwrites = 0

		m.Run(uint64(p.FrameCycles() * 2))

		test.DemandSuccess(t, len(records) > p.Vertical.Total*2-2, p.ID)

		first := p.Vertical.FirstVisible()
		var visible int
		for i := 1; i < len(records); i++ {
			r := records[i]
			prev := records[i-1]

			if !test.ExpectEquality(t, r.line, (prev.line+1)%p.Vertical.Total, p.ID, i) {
				break
			}

			vis := r.line >= first && r.line < first+p.Vertical.Visible
			test.ExpectEquality(t, r.scan.Visible, vis, p.ID, r.line)
			if vis {
				visible++
				row, _ := p.Row(r.line)
				test.ExpectEquality(t, r.scan.Row, row, p.ID, r.line)
			}

			expected := 0
			if prev.scan.Visible {
				expected = e.Plan.Window
			}
			test.ExpectEquality(t, r.lit, expected, p.ID, prev.line)
		}
		test.ExpectSuccess(t, visible >= p.Vertical.Visible, p.ID)

		test.ExpectEquality(t, m.Stats(mcu.TIMER0_OVF).Jitter(), 0, p.ID)
		test.ExpectEquality(t, m.Stats(mcu.TIMER0_COMPB).Jitter(), 0, p.ID)
		test.ExpectEquality(t, m.USART.Dropped, 0, p.ID)
		test.ExpectEquality(t, m.USART.Gaps, 0, p.ID)
		test.ExpectEquality(t, e.Relay().Underruns, 0, p.ID)
		test.ExpectEquality(t, e.Relay().Overwrites, 0, p.ID)
	}
}

// a framebuffer of unlit pixels must never light the output
func TestBlank(t *testing.T) {
	tab := cycles.ATmega328P_16MHz
	p := profile.VGA640x480

	e, err := vga.NewEngine(logger.Allow, p, tab)
	test.DemandSuccess(t, err)

	m := mcu.NewMCU(logger.Allow, tab)
	test.DemandSuccess(t, e.Install(m, filled(p, 0x00)))

	// the transmitter idles high during the settle interval and after the
	// last byte of the row
	var lit int
	m.AddTicker(func() {
		if m.PortD.Level(addresses.PD1) {
			lit++
		}
	})

	var lines int
	e.OnScan = func(_ int, scan relay.Scan) {
		if scan.Visible {
			lines++
		}
	}

	m.Run(uint64(p.FrameCycles()))
	test.ExpectSuccess(t, lines > 0)
	test.ExpectSuccess(t, lit <= lines*(e.Plan.Settle+e.Plan.Tail))
}
