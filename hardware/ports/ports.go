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

// Package ports emulates the general purpose I/O ports of the
// microcontroller. Each port has a data direction register (DDRx), a data
// register (PORTx) and an input register (PINx).
//
// Peripherals take control of a pin with an Override. For example, the compare
// output of a timer overrides the pin when the compare output mode is not
// zero.
package ports

import (
	"fmt"

	"github.com/jetsetilly/syncline/hardware/memory/addresses"
)

// Override returns the level of the pin and whether the peripheral is
// currently driving it.
type Override func() (level bool, active bool)

type override struct {
	fn Override

	// the override only takes effect if the pin is configured as an output
	needsDDR bool
}

// Port implements the bus.Peripheral interface.
type Port struct {
	label string

	pin  addresses.Register
	ddr  addresses.Register
	port addresses.Register

	ddrV  uint8
	portV uint8

	overrides [8]override

	// Input returns the external level of the pins. Only consulted for pins
	// that are not outputs. Can be nil
	Input func() uint8
}

// NewPort is the preferred method of initialisation for the Port type.
func NewPort(label string, pin, ddr, port addresses.Register) *Port {
	return &Port{
		label: label,
		pin:   pin,
		ddr:   ddr,
		port:  port,
	}
}

// NewPortB returns port B.
func NewPortB() *Port {
	return NewPort("portb", addresses.PINB, addresses.DDRB, addresses.PORTB)
}

// NewPortC returns port C.
func NewPortC() *Port {
	return NewPort("portc", addresses.PINC, addresses.DDRC, addresses.PORTC)
}

// NewPortD returns port D.
func NewPortD() *Port {
	return NewPort("portd", addresses.PIND, addresses.DDRD, addresses.PORTD)
}

// Label implements the bus.Peripheral interface.
func (p *Port) Label() string {
	return p.label
}

func (p *Port) String() string {
	return fmt.Sprintf("%s: DDR=%08b PORT=%08b PIN=%08b", p.label, p.ddrV, p.portV, p.Levels())
}

// SetOverride assigns a peripheral override to the pin. If needsDDR is true
// the override only takes effect when the pin is an output.
func (p *Port) SetOverride(pin int, fn Override, needsDDR bool) {
	p.overrides[pin] = override{fn: fn, needsDDR: needsDDR}
}

// Level returns the level of a single pin.
func (p *Port) Level(pin int) bool {
	mask := uint8(1) << pin
	output := p.ddrV&mask != 0

	if o := p.overrides[pin]; o.fn != nil && (output || !o.needsDDR) {
		if level, active := o.fn(); active {
			return level
		}
	}

	if output {
		return p.portV&mask != 0
	}

	if p.Input != nil {
		return p.Input()&mask != 0
	}

	// the internal pull-up is enabled when PORTx is set for an input pin
	return p.portV&mask != 0
}

// Levels returns the levels of all pins.
func (p *Port) Levels() uint8 {
	var v uint8
	for i := range 8 {
		if p.Level(i) {
			v |= 1 << i
		}
	}
	return v
}

// Read implements the bus.Peripheral interface.
func (p *Port) Read(reg addresses.Register) (uint8, bool) {
	switch reg {
	case p.pin:
		return p.Levels(), true
	case p.ddr:
		return p.ddrV, true
	case p.port:
		return p.portV, true
	}
	return 0, false
}

// Write implements the bus.Peripheral interface.
func (p *Port) Write(reg addresses.Register, data uint8) bool {
	switch reg {
	case p.pin:
		// writing one to PINx toggles the corresponding PORTx bit
		p.portV ^= data
	case p.ddr:
		p.ddrV = data
	case p.port:
		p.portV = data
	default:
		return false
	}
	return true
}

// Levels produced by the resistor DAC. A weight-1 pin contributes DACWeight1
// and a weight-2 pin contributes DACWeight2.
const (
	DACWeight1 = 85
	DACWeight2 = 170
)

// DAC converts the six low bits of a port value into colour channel levels.
// The value is arranged as 0b00RRGGBB. The higher bit of each pair is the
// weight-1 pin.
func DAC(v uint8) (r, g, b uint8) {
	channel := func(shift int) uint8 {
		return DACWeight1*(v>>(shift+1)&0x01) + DACWeight2*(v>>shift&0x01)
	}
	return channel(4), channel(2), channel(0)
}

// DACEncode is the inverse of DAC for a single channel. The level is
// quantised to one of the four DAC levels.
func DACEncode(level uint8) uint8 {
	switch {
	case level < 42:
		return 0b00
	case level < 127:
		return 0b10
	case level < 213:
		return 0b01
	}
	return 0b11
}
