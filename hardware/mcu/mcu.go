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

// Package mcu is a cycle stepped model of the microcontroller. It is not an
// instruction set emulator. Code running on the MCU is written in Go and
// issues timed instructions through the Executor interface. The cost of each
// instruction is taken from a cycles.Table.
//
// The peripherals are stepped once per system clock in the following order:
// Timer0, Timer1, USART. The external clock of Timer1 is connected to the same
// pin as the compare output B of Timer0 (PD5) so the order is significant.
//
// Interrupts are serviced between instructions. While an interrupt handler is
// running the I flag is clear and no other interrupt can be serviced. After
// the RETI instruction at least one main line instruction is executed before
// another interrupt is serviced.
package mcu

import (
	"fmt"

	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/memory"
	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/hardware/ports"
	"github.com/jetsetilly/syncline/hardware/timers"
	"github.com/jetsetilly/syncline/hardware/usart"
	"github.com/jetsetilly/syncline/logger"
)

// MCU is the microcontroller.
type MCU struct {
	perm  logger.Permission
	costs cycles.Table

	Mem    *memory.Memory
	Flash  Flash
	Timer0 *timers.Timer
	Timer1 *timers.Timer
	USART  *usart.USART
	PortB  *ports.Port
	PortC  *ports.Port
	PortD  *ports.Port

	// the status register. only the I flag is meaningful
	sreg uint8

	cycle uint64

	handlers [NumVectors]Handler
	sources  []source

	// the clock on which an interrupt flag was raised. zero if the flag is
	// not raised
	raised [NumVectors]uint64

	// whether a handler is running
	servicing bool

	// whether the previous instruction was a RETI
	reti bool

	stats [NumVectors]Stats

	tickers []func()
}

// NewMCU is the preferred method of initialisation for the MCU type.
func NewMCU(perm logger.Permission, costs cycles.Table) *MCU {
	m := &MCU{
		perm:   perm,
		costs:  costs,
		Mem:    memory.NewMemory(perm),
		Timer0: timers.NewTimer(perm, "timer0", timers.Bits8, timers.Timer0Registers),
		Timer1: timers.NewTimer(perm, "timer1", timers.Bits16, timers.Timer1Registers),
		USART:  usart.NewUSART(perm),
		PortB:  ports.NewPortB(),
		PortC:  ports.NewPortC(),
		PortD:  ports.NewPortD(),
	}

	m.Mem.Attach(status{m: m})
	m.Mem.Attach(m.Timer0)
	m.Mem.Attach(m.Timer1)
	m.Mem.Attach(m.USART)
	m.Mem.Attach(m.PortB)
	m.Mem.Attach(m.PortC)
	m.Mem.Attach(m.PortD)

	// alternate pin functions
	m.PortD.SetOverride(addresses.PD5, m.Timer0.OutputB, true)
	m.PortD.SetOverride(addresses.PD6, m.Timer0.OutputA, true)
	m.PortB.SetOverride(addresses.PB1, m.Timer1.OutputA, true)
	m.PortB.SetOverride(addresses.PB2, m.Timer1.OutputB, true)
	m.PortD.SetOverride(addresses.PD1, func() (bool, bool) {
		return m.USART.TxD(), m.USART.Enabled()
	}, false)

	// T1 shares the pin with OC0B
	m.Timer1.ExternalInput = func() bool {
		return m.PortD.Level(addresses.PD5)
	}

	m.sources = m.interruptSources()

	return m
}

func (m *MCU) String() string {
	return fmt.Sprintf("mcu: %s cycle=%d I=%v", m.costs, m.cycle, m.InterruptsEnabled())
}

// Costs returns the cost table in use.
func (m *MCU) Costs() cycles.Table {
	return m.costs
}

// Cycle returns the number of system clocks since reset.
func (m *MCU) Cycle() uint64 {
	return m.cycle
}

// InterruptsEnabled returns true if the I flag of SREG is set.
func (m *MCU) InterruptsEnabled() bool {
	return m.sreg&(1<<addresses.SREG_I) != 0
}

// Bind a handler to an interrupt vector. A nil handler unbinds the vector.
// Interrupts raised for a vector without a handler are acknowledged by
// an empty handler.
func (m *MCU) Bind(v Vector, h Handler) {
	m.handlers[v] = h
}

// AddTicker adds a function that is called at the end of every system clock.
// Tickers are called in the order they were added.
func (m *MCU) AddTicker(fn func()) {
	m.tickers = append(m.tickers, fn)
}

// Executor returns an Executor for main line code.
func (m *MCU) Executor() Executor {
	return executor{m: m}
}

// Execute runs main line code. Intended for initialisation code before
// interrupts are enabled.
func (m *MCU) Execute(h Handler) {
	h(executor{m: m})
}

// Step executes a single main line instruction or services an interrupt. The
// main line instruction is always the idle instruction.
func (m *MCU) Step() {
	if m.InterruptsEnabled() && !m.reti {
		for _, s := range m.sources {
			if s.timer.Pending()&(1<<s.flag) != 0 {
				m.service(s)
				return
			}
		}
	}

	m.reti = false
	m.tick(m.costs.Cost(cycles.Idle))
}

// Run steps the MCU until at least n clocks have elapsed.
func (m *MCU) Run(n uint64) {
	end := m.cycle + n
	for m.cycle < end {
		m.Step()
	}
}

func (m *MCU) service(s source) {
	start := m.cycle

	m.servicing = true
	m.sreg &^= 1 << addresses.SREG_I

	s.timer.Acknowledge(s.flag)
	m.tick(m.costs.InterruptEntry)

	latency := int(m.cycle - m.raised[s.vector])
	m.raised[s.vector] = 0

	if h := m.handlers[s.vector]; h != nil {
		h(executor{m: m})
	} else {
		logger.Logf(m.perm, "mcu", "no handler for %s", s.vector)
	}

	m.tick(m.costs.RETI)
	m.sreg |= 1 << addresses.SREG_I
	m.servicing = false
	m.reti = true

	m.stats[s.vector].record(latency, int(m.cycle-start))
}

// Servicing returns true if an interrupt handler is running.
func (m *MCU) Servicing() bool {
	return m.servicing
}

func (m *MCU) tick(n int) {
	for range n {
		m.cycle++

		m.Timer0.Step()
		m.Timer1.Step()
		m.USART.Step()

		for _, s := range m.sources {
			if m.raised[s.vector] == 0 && s.timer.Pending()&(1<<s.flag) != 0 {
				m.raised[s.vector] = m.cycle
			}
		}

		for _, fn := range m.tickers {
			fn()
		}
	}
}

// Stats returns the service statistics for the vector.
func (m *MCU) Stats(v Vector) Stats {
	return m.stats[v]
}

// ResetStats clears the service statistics of all vectors.
func (m *MCU) ResetStats() {
	clear(m.stats[:])
}

// status is the SREG register as seen on the memory bus.
type status struct {
	m *MCU
}

func (s status) Label() string {
	return "sreg"
}

func (s status) Read(reg addresses.Register) (uint8, bool) {
	if reg != addresses.SREG {
		return 0, false
	}
	return s.m.sreg, true
}

func (s status) Write(reg addresses.Register, data uint8) bool {
	if reg != addresses.SREG {
		return false
	}

	// setting the I flag in a handler would allow nested interrupts. this is
	// not supported and the I flag is restored by the RETI
	if s.m.servicing && data&(1<<addresses.SREG_I) != 0 {
		logger.Log(s.m.perm, "mcu", "nested interrupts are not supported")
		data &^= 1 << addresses.SREG_I
	}

	s.m.sreg = data
	return true
}
