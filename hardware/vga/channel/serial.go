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

package channel

import (
	"github.com/jetsetilly/syncline/hardware/mcu"
	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/hardware/usart"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
)

// Serial outputs pixels through the USART in master SPI mode. Each bit is a
// pixel.
//
// The TxD line idles high. When the transmitter is enabled the line is high for
// a short interval before the first byte is shifted, which shows as a white
// column at the left edge of the picture. Disabling the transmitter returns
// the pin to port D where it is driven low.
type Serial struct {
	baud uint16
}

// NewSerial is the preferred method of initialisation for the Serial type.
func NewSerial(baud uint16) *Serial {
	return &Serial{baud: baud}
}

func (ch *Serial) String() string {
	return "serial"
}

func (ch *Serial) Strategy() profile.Strategy {
	return profile.Serial
}

func (ch *Serial) Width() int {
	return 8
}

func (ch *Serial) bitPeriod() int {
	return 2 * (int(ch.baud) + 1)
}

func (ch *Serial) Settle() int {
	return usart.DefaultSettleBits * ch.bitPeriod()
}

func (ch *Serial) Slot() int {
	return ch.Width() * ch.bitPeriod()
}

func (ch *Serial) Setup(ex mcu.Executor) {
	// TxD reverts to an output driven low when the transmitter is disabled
	ex.Write(addresses.DDRD, ex.Read(addresses.DDRD)|1<<addresses.PD1)
	ex.Write(addresses.PORTD, ex.Read(addresses.PORTD)&^(1<<addresses.PD1))

	ex.Write(addresses.UCSR0B, 0)
	ex.Write(addresses.UCSR0C, 1<<addresses.UMSEL01|1<<addresses.UMSEL00|1<<addresses.UCPHA0|1<<addresses.UCPOL0)
	ex.Write(addresses.UBRR0H, uint8(ch.baud>>8))
	ex.Write(addresses.UBRR0L, uint8(ch.baud))
}

func (ch *Serial) Stage(ex mcu.Executor, data uint8) {
	ex.Write(addresses.UDR0, data)
}

func (ch *Serial) Enable(ex mcu.Executor) {
	ex.Write(addresses.UCSR0B, 1<<addresses.TXEN0)
}

func (ch *Serial) Release(ex mcu.Executor) {
}

func (ch *Serial) Write(ex mcu.Executor, data uint8) {
	ex.Write(addresses.UDR0, data)
}

func (ch *Serial) Disable(ex mcu.Executor) {
	ex.Write(addresses.UCSR0B, 0)
}

func (ch *Serial) Costs(tab cycles.Table) Costs {
	return Costs{
		Stage:   tab.Write(addresses.UDR0),
		Enable:  tab.Write(addresses.UCSR0B),
		Release: 0,
		Write:   tab.Write(addresses.UDR0),
		Disable: tab.Write(addresses.UCSR0B),
	}
}
