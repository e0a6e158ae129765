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

// Package usart emulates the USART0 peripheral in master SPI mode (MSPIM). In
// this mode the transmitter shifts bytes out of the TxD pin without start or
// stop bits, which makes it suitable as a pixel shift register.
//
// The transmitter is double buffered. A byte written to UDR0 waits in the
// buffer while the previous byte is shifted. If the buffer is empty when a byte
// completes the line idles high until more data arrives. A write to UDR0 when
// the buffer is full is dropped.
//
// On the real hardware the line does not start shifting the moment the
// transmitter is enabled. It idles high for a short interval first. This settle
// interval is emulated and is configurable with the SettleBits field. Disabling
// the transmitter returns the pin to the port, which is driven low.
package usart

import (
	"fmt"

	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/logger"
)

// DefaultSettleBits is the number of bit periods the line idles high after the
// transmitter is enabled.
const DefaultSettleBits = 2

// USART implements the bus.Peripheral interface.
type USART struct {
	perm logger.Permission

	ucsrA uint8
	ucsrB uint8
	ucsrC uint8
	ubrr  uint16

	// the transmit buffer
	udr     uint8
	udrFull bool

	// the shift register
	shift    uint8
	bitsLeft int
	bitClock int

	// cycles remaining of the settle interval
	settle int

	// state of the TxD line
	line bool

	// whether the line has been idle since the previous byte completed
	idle bool

	// whether any byte has been shifted since the transmitter was enabled
	started bool

	// SettleBits is the length of the settle interval in bit periods
	SettleBits int

	// Bytes is the number of bytes shifted out
	Bytes int

	// Dropped is the number of writes to a full transmit buffer
	Dropped int

	// Gaps is the number of times shifting resumed after the line went idle
	// between bytes
	Gaps int

	loggedMode bool
}

// NewUSART is the preferred method of initialisation for the USART type.
func NewUSART(perm logger.Permission) *USART {
	return &USART{
		perm:       perm,
		SettleBits: DefaultSettleBits,
	}
}

// Label implements the bus.Peripheral interface.
func (u *USART) Label() string {
	return "usart"
}

func (u *USART) String() string {
	return fmt.Sprintf("usart: enabled=%v bytes=%d dropped=%d gaps=%d", u.Enabled(), u.Bytes, u.Dropped, u.Gaps)
}

// Enabled returns true if the transmitter is enabled.
func (u *USART) Enabled() bool {
	return u.ucsrB&(1<<addresses.TXEN0) != 0
}

// BitPeriod returns the number of system clocks per bit.
func (u *USART) BitPeriod() int {
	return 2 * (int(u.ubrr) + 1)
}

// TxD returns the level of the TxD line.
func (u *USART) TxD() bool {
	return u.line
}

// ResetCounters sets the Bytes, Dropped and Gaps fields to zero.
func (u *USART) ResetCounters() {
	u.Bytes = 0
	u.Dropped = 0
	u.Gaps = 0
}

func (u *USART) msbFirst() bool {
	return u.ucsrC&(1<<addresses.UDORD0) == 0
}

// Step the USART by one system clock.
func (u *USART) Step() {
	if !u.Enabled() {
		u.line = false
		return
	}

	if u.settle > 0 {
		u.settle--
		u.line = true
		return
	}

	if u.bitsLeft == 0 {
		if !u.udrFull {
			u.line = true
			if u.started {
				u.idle = true
			}
			return
		}

		if u.idle {
			u.Gaps++
			u.idle = false
		}

		u.shift = u.udr
		u.udrFull = false
		u.bitsLeft = 8
		u.bitClock = 0
		u.started = true

		// clear TXC0. UDRE0 is derived from the state of the buffer
		u.ucsrA &^= 1 << addresses.TXC0
	}

	if u.msbFirst() {
		u.line = u.shift&0x80 != 0
	} else {
		u.line = u.shift&0x01 != 0
	}

	u.bitClock++
	if u.bitClock >= u.BitPeriod() {
		u.bitClock = 0
		if u.msbFirst() {
			u.shift <<= 1
		} else {
			u.shift >>= 1
		}
		u.bitsLeft--
		if u.bitsLeft == 0 {
			u.Bytes++
			if !u.udrFull {
				u.ucsrA |= 1 << addresses.TXC0
			}
		}
	}
}

// Read implements the bus.Peripheral interface.
func (u *USART) Read(reg addresses.Register) (uint8, bool) {
	switch reg {
	case addresses.UCSR0A:
		v := u.ucsrA
		if !u.udrFull {
			v |= 1 << addresses.UDRE0
		}
		return v, true
	case addresses.UCSR0B:
		return u.ucsrB, true
	case addresses.UCSR0C:
		return u.ucsrC, true
	case addresses.UBRR0L:
		return uint8(u.ubrr), true
	case addresses.UBRR0H:
		return uint8(u.ubrr >> 8), true
	case addresses.UDR0:
		// there is no receiver
		return 0, true
	}
	return 0, false
}

// Write implements the bus.Peripheral interface.
func (u *USART) Write(reg addresses.Register, data uint8) bool {
	switch reg {
	case addresses.UCSR0A:
		// writing one to TXC0 clears it
		u.ucsrA &^= data & (1 << addresses.TXC0)
	case addresses.UCSR0B:
		u.writeControl(data)
	case addresses.UCSR0C:
		u.ucsrC = data
		if data>>addresses.UMSEL00&0x03 != 0x03 && !u.loggedMode {
			u.loggedMode = true
			logger.Log(u.perm, "usart", "only master SPI mode is supported")
		}
	case addresses.UBRR0L:
		u.ubrr = u.ubrr&0x0f00 | uint16(data)
	case addresses.UBRR0H:
		u.ubrr = u.ubrr&0x00ff | uint16(data&0x0f)<<8
	case addresses.UDR0:
		// the buffer accepts data while the transmitter is disabled. this
		// allows the first byte to be staged in advance of the transmitter
		// being enabled
		if u.udrFull {
			u.Dropped++
			logger.Log(u.perm, "usart", "write to full transmit buffer")
			return true
		}
		u.udr = data
		u.udrFull = true
	default:
		return false
	}
	return true
}

func (u *USART) writeControl(data uint8) {
	was := u.Enabled()
	u.ucsrB = data
	now := u.Enabled()

	if !was && now {
		u.settle = u.SettleBits * u.BitPeriod()
		u.idle = false
		u.started = false
	} else if !now {
		// pending data is lost and the pin reverts to the port
		u.udrFull = false
		u.bitsLeft = 0
		u.bitClock = 0
		u.settle = 0
		u.idle = false
		u.line = false
	}
}
