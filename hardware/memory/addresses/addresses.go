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

// Package addresses lists the memory mapped peripheral registers of the
// ATmega328P, by data space address. Register bit positions used by the
// emulation are also listed here.
package addresses

import "fmt"

// Register is the data space address of a peripheral register.
type Register uint16

// Data space addresses. Note that the first 32 bytes of data space are the
// general purpose registers so the addresses of the I/O registers are offset by
// 0x20 from the I/O space addresses used by the IN and OUT instructions.
const (
	PINB  Register = 0x23
	DDRB  Register = 0x24
	PORTB Register = 0x25
	PINC  Register = 0x26
	DDRC  Register = 0x27
	PORTC Register = 0x28
	PIND  Register = 0x29
	DDRD  Register = 0x2a
	PORTD Register = 0x2b

	TIFR0 Register = 0x35
	TIFR1 Register = 0x36

	GTCCR  Register = 0x43
	TCCR0A Register = 0x44
	TCCR0B Register = 0x45
	TCNT0  Register = 0x46
	OCR0A  Register = 0x47
	OCR0B  Register = 0x48

	SREG Register = 0x5f

	TIMSK0 Register = 0x6e
	TIMSK1 Register = 0x6f

	TCCR1A Register = 0x80
	TCCR1B Register = 0x81
	TCCR1C Register = 0x82
	TCNT1L Register = 0x84
	TCNT1H Register = 0x85
	ICR1L  Register = 0x86
	ICR1H  Register = 0x87
	OCR1AL Register = 0x88
	OCR1AH Register = 0x89
	OCR1BL Register = 0x8a
	OCR1BH Register = 0x8b

	UCSR0A Register = 0xc0
	UCSR0B Register = 0xc1
	UCSR0C Register = 0xc2
	UBRR0L Register = 0xc4
	UBRR0H Register = 0xc5
	UDR0   Register = 0xc6
)

// The 16-bit registers are referred to by their low byte.
const (
	TCNT1 = TCNT1L
	ICR1  = ICR1L
	OCR1A = OCR1AL
	OCR1B = OCR1BL
	UBRR0 = UBRR0L
)

// Symbols maps register addresses to the canonical names for those
// addresses.
var Symbols = map[Register]string{
	PINB:   "PINB",
	DDRB:   "DDRB",
	PORTB:  "PORTB",
	PINC:   "PINC",
	DDRC:   "DDRC",
	PORTC:  "PORTC",
	PIND:   "PIND",
	DDRD:   "DDRD",
	PORTD:  "PORTD",
	TIFR0:  "TIFR0",
	TIFR1:  "TIFR1",
	GTCCR:  "GTCCR",
	TCCR0A: "TCCR0A",
	TCCR0B: "TCCR0B",
	TCNT0:  "TCNT0",
	OCR0A:  "OCR0A",
	OCR0B:  "OCR0B",
	SREG:   "SREG",
	TIMSK0: "TIMSK0",
	TIMSK1: "TIMSK1",
	TCCR1A: "TCCR1A",
	TCCR1B: "TCCR1B",
	TCCR1C: "TCCR1C",
	TCNT1L: "TCNT1L",
	TCNT1H: "TCNT1H",
	ICR1L:  "ICR1L",
	ICR1H:  "ICR1H",
	OCR1AL: "OCR1AL",
	OCR1AH: "OCR1AH",
	OCR1BL: "OCR1BL",
	OCR1BH: "OCR1BH",
	UCSR0A: "UCSR0A",
	UCSR0B: "UCSR0B",
	UCSR0C: "UCSR0C",
	UBRR0L: "UBRR0L",
	UBRR0H: "UBRR0H",
	UDR0:   "UDR0",
}

func (r Register) String() string {
	if s, ok := Symbols[r]; ok {
		return s
	}
	return fmt.Sprintf("$%04x", uint16(r))
}

// IOSpace returns true if the register can be reached by the single cycle IN
// and OUT instructions.
func (r Register) IOSpace() bool {
	return r >= 0x20 && r <= 0x5f
}

// High returns the address of the high byte of a 16-bit register.
func (r Register) High() Register {
	return r + 1
}
