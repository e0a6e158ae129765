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

// Package vga is the signal generator. The Engine programs the two timing
// generators from a profile and implements the two interrupt handlers that
// stream the framebuffer to the output channel.
//
// The engine is parametric. Every supported video mode is produced by the same
// code from a profile.Profile, the output channel required by the profile and
// the burst.Plan built from them.
//
// The horizontal timing generator is Timer0 in fast PWM mode with the sync
// pulse on OC0B (PD5). The vertical timing generator is Timer1 in fast PWM
// mode, clocked by the falling edge of its external clock input T1. T1 is the
// same pin as OC0B so Timer1 counts lines. The vertical sync pulse is on OC1B
// (PB2).
//
// The Scanline Dispatch handler is bound to the Timer0 overflow interrupt,
// which is raised at the start of the horizontal sync pulse. The Pixel Burst
// handler is bound to the Timer0 compare B interrupt, which is raised at the
// end of the horizontal sync pulse.
package vga

import (
	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/hardware/mcu"
	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/hardware/vga/burst"
	"github.com/jetsetilly/syncline/hardware/vga/channel"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
	"github.com/jetsetilly/syncline/hardware/vga/relay"
	"github.com/jetsetilly/syncline/logger"
)

// FramebufferOrigin is the program memory address of the framebuffer.
const FramebufferOrigin = 0x0400

// FramebufferSize is returned by Install() when the framebuffer is the wrong
// size for the profile.
const FramebufferSize = "vga: framebuffer of %d bytes does not match %s (%d bytes)"

// Engine is the signal generator.
type Engine struct {
	perm logger.Permission

	Profile   profile.Profile
	Channel   channel.Channel
	Plan      burst.Plan
	Registers profile.Registers

	relay relay.Slot[relay.Scan]

	// OnScan is called by the dispatch handler after the scan for a line has
	// been published. The line argument is the value of the vertical counter.
	// It takes no time on the MCU. Can be nil
	OnScan func(line int, scan relay.Scan)
}

// NewEngine is the preferred method of initialisation for the Engine type.
func NewEngine(perm logger.Permission, p profile.Profile, costs cycles.Table) (*Engine, error) {
	regs, err := p.Registers()
	if err != nil {
		return nil, curated.Errorf("vga: %v", err)
	}

	ch, err := channel.New(p)
	if err != nil {
		return nil, curated.Errorf("vga: %v", err)
	}

	pl, err := burst.Build(p, ch, costs)
	if err != nil {
		return nil, curated.Errorf("vga: %v", err)
	}

	return &Engine{
		perm:      perm,
		Profile:   p,
		Channel:   ch,
		Plan:      pl,
		Registers: regs,
	}, nil
}

// Install the engine in the MCU. The framebuffer is loaded into program
// memory, the handlers are bound to their vectors and the setup code is
// executed. The timing generators are running and interrupts are enabled
// when Install() returns.
func (e *Engine) Install(m *mcu.MCU, framebuffer []uint8) error {
	if len(framebuffer) != e.Profile.FramebufferSize() {
		return curated.Errorf(FramebufferSize, len(framebuffer), e.Profile.ID, e.Profile.FramebufferSize())
	}

	if err := m.Flash.Load(FramebufferOrigin, framebuffer); err != nil {
		return curated.Errorf("vga: %v", err)
	}

	m.Bind(mcu.TIMER0_OVF, e.Dispatch)
	m.Bind(mcu.TIMER0_COMPB, e.Burst)
	m.Execute(e.Setup)

	logger.Logf(e.perm, "vga", "installed %s with %s channel", e.Profile.ID, e.Profile.Channel)

	return nil
}

// Relay returns the relay between the two handlers.
func (e *Engine) Relay() *relay.Slot[relay.Scan] {
	return &e.relay
}

func write16(ex mcu.Executor, reg addresses.Register, data uint16) {
	ex.Write(reg.High(), uint8(data>>8))
	ex.Write(reg, uint8(data))
}

// Setup is the initialisation code. The vertical timing generator is started
// before the horizontal timing generator so that it sees the first line.
func (e *Engine) Setup(ex mcu.Executor) {
	r := e.Registers

	// sync outputs
	ex.Write(addresses.DDRD, ex.Read(addresses.DDRD)|1<<addresses.PD5)
	ex.Write(addresses.DDRB, ex.Read(addresses.DDRB)|1<<addresses.PB2)

	e.Channel.Setup(ex)

	// vertical timing generator
	ex.Write(addresses.TCCR1B, 0)
	ex.Write(addresses.TCCR1A, r.TCCR1A)
	write16(ex, addresses.OCR1A, r.OCR1A)
	write16(ex, addresses.OCR1B, r.OCR1B)
	write16(ex, addresses.TCNT1, 0)
	ex.Write(addresses.TCCR1B, r.TCCR1B)

	// horizontal timing generator
	ex.Write(addresses.TCCR0B, 0)
	ex.Write(addresses.TCCR0A, r.TCCR0A)
	ex.Write(addresses.OCR0A, r.OCR0A)
	ex.Write(addresses.OCR0B, r.OCR0B)
	ex.Write(addresses.TCNT0, 0)
	ex.Write(addresses.TIFR0, 0x07)
	ex.Write(addresses.TIMSK0, r.TIMSK0)
	ex.Write(addresses.TCCR0B, r.TCCR0B)

	ex.Write(addresses.SREG, 1<<addresses.SREG_I)
}

func (e *Engine) rowAddress(row int) uint16 {
	return uint16(FramebufferOrigin + row*e.Profile.BytesPerRow)
}

// Dispatch is the Scanline Dispatch handler.
func (e *Engine) Dispatch(ex mcu.Executor) {
	burst.Prologue.Execute(ex)

	// colour channels must be at zero level during sync
	e.Channel.Disable(ex)

	line := int(ex.Read16(addresses.TCNT1))
	first := e.Profile.Vertical.FirstVisible()

	burst.BoundCheck.Execute(ex)
	if line < first {
		ex.Spend(cycles.BranchTaken, 1)
		e.notVisible(ex, line)
		return
	}
	ex.Spend(cycles.Branch, 1)

	burst.BoundCheck.Execute(ex)
	if line >= first+e.Profile.Vertical.Visible {
		ex.Spend(cycles.BranchTaken, 1)
		e.notVisible(ex, line)
		return
	}
	ex.Spend(cycles.Branch, 1)

	burst.RowCompute(e.Profile.RowRepeat).Execute(ex)
	scan := relay.Scan{
		Row:     (line - first) >> e.Profile.RowRepeat,
		Visible: true,
	}

	burst.PublishVisible.Execute(ex)
	e.relay.Publish(scan)
	if e.OnScan != nil {
		e.OnScan(line, scan)
	}

	// stage the first byte of the row
	burst.RowPointer.Execute(ex)
	e.Channel.Stage(ex, ex.LoadProgram(e.rowAddress(scan.Row)))

	burst.Epilogue.Execute(ex)
}

func (e *Engine) notVisible(ex mcu.Executor, line int) {
	burst.PublishNotVisible.Execute(ex)
	e.relay.Publish(relay.Scan{})
	if e.OnScan != nil {
		e.OnScan(line, relay.Scan{})
	}
	burst.Epilogue.Execute(ex)
}

// Burst is the Pixel Burst handler.
func (e *Engine) Burst(ex mcu.Executor) {
	burst.Prologue.Execute(ex)

	burst.ConsumeCheck.Execute(ex)
	scan, ok := e.relay.Consume()
	if !ok || !scan.Visible {
		ex.Spend(cycles.BranchTaken, 1)
		burst.Epilogue.Execute(ex)
		return
	}
	ex.Spend(cycles.Branch, 1)

	burst.ConsumeRow.Execute(ex)
	burst.RowPointer.Execute(ex)
	addr := e.rowAddress(scan.Row)

	var data uint8
	for _, s := range e.Plan.Steps {
		switch s.Kind {
		case burst.Pad, burst.Settle:
			ex.Wait(s.Cycles)
		case burst.Enable:
			e.Channel.Enable(ex)
		case burst.Release:
			e.Channel.Release(ex)
		case burst.Load:
			data = ex.LoadProgram(addr + uint16(s.Byte))
		case burst.Write:
			e.Channel.Write(ex, data)
		case burst.Disable:
			e.Channel.Disable(ex)
		}
	}

	burst.Epilogue.Execute(ex)
}
