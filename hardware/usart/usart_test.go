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

package usart_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/syncline/hardware/memory"
	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/hardware/usart"
	"github.com/jetsetilly/syncline/logger"
	"github.com/jetsetilly/syncline/test"
)

func mspim() (*usart.USART, *memory.Memory) {
	u := usart.NewUSART(logger.Allow)
	mem := memory.NewMemory(logger.Allow)
	mem.Attach(u)
	mem.Write(addresses.UBRR0L, 0)
	mem.Write(addresses.UCSR0C, 1<<addresses.UMSEL01|1<<addresses.UMSEL00|1<<addresses.UCPHA0|1<<addresses.UCPOL0)
	return u, mem
}

// sample the TxD line for n cycles. high levels are represented by '1'
func sample(u *usart.USART, n int) string {
	var s strings.Builder
	for range n {
		u.Step()
		if u.TxD() {
			s.WriteRune('1')
		} else {
			s.WriteRune('0')
		}
	}
	return s.String()
}

func TestShift(t *testing.T) {
	u, mem := mspim()
	test.ExpectEquality(t, u.BitPeriod(), 2)

	// stage the first byte before enabling
	mem.Write(addresses.UDR0, 0xa5)
	test.ExpectEquality(t, mem.Read(addresses.UCSR0A)&(1<<addresses.UDRE0), 0)

	mem.Write(addresses.UCSR0B, 1<<addresses.TXEN0)

	// settle interval is two bit periods of high level
	test.ExpectEquality(t, sample(u, 4), "1111")
	test.ExpectEquality(t, sample(u, 16), "1100110000110011")

	// line idles high once the buffer is empty
	test.ExpectEquality(t, sample(u, 4), "1111")
	test.ExpectEquality(t, u.Bytes, 1)
	test.ExpectInequality(t, mem.Read(addresses.UCSR0A)&(1<<addresses.TXC0), 0)

	// resuming after the line went idle is counted as a gap
	mem.Write(addresses.UDR0, 0x0f)
	test.ExpectEquality(t, sample(u, 16), "0000000011111111")
	test.ExpectEquality(t, u.Gaps, 1)
	test.ExpectEquality(t, u.Dropped, 0)
}

func TestContinuousShift(t *testing.T) {
	u, mem := mspim()
	mem.Write(addresses.UDR0, 0xff)
	mem.Write(addresses.UCSR0B, 1<<addresses.TXEN0)
	sample(u, 4)

	// the buffer empties as soon as the first byte starts shifting
	sample(u, 1)
	test.ExpectInequality(t, mem.Read(addresses.UCSR0A)&(1<<addresses.UDRE0), 0)
	mem.Write(addresses.UDR0, 0x00)
	mem.Write(addresses.UDR0, 0x55)
	test.ExpectEquality(t, u.Dropped, 1)

	test.ExpectEquality(t, sample(u, 15+16), "111111111111111"+"0000000000000000")
	test.ExpectEquality(t, u.Gaps, 0)
	test.ExpectEquality(t, u.Bytes, 2)
}

func TestLSBFirst(t *testing.T) {
	u, mem := mspim()
	mem.Write(addresses.UCSR0C, 1<<addresses.UMSEL01|1<<addresses.UMSEL00|1<<addresses.UDORD0)
	mem.Write(addresses.UDR0, 0x01)
	mem.Write(addresses.UCSR0B, 1<<addresses.TXEN0)
	sample(u, 4)
	test.ExpectEquality(t, sample(u, 16), "1100000000000000")
}

func TestBaudRate(t *testing.T) {
	u, mem := mspim()
	mem.Write(addresses.UBRR0L, 1)
	test.ExpectEquality(t, u.BitPeriod(), 4)

	u.SettleBits = 0
	mem.Write(addresses.UDR0, 0x80)
	mem.Write(addresses.UCSR0B, 1<<addresses.TXEN0)
	test.ExpectEquality(t, sample(u, 8), "11110000")
}

func TestDisable(t *testing.T) {
	u, mem := mspim()
	mem.Write(addresses.UDR0, 0xff)
	mem.Write(addresses.UCSR0B, 1<<addresses.TXEN0)
	test.ExpectEquality(t, sample(u, 8), "11111111")

	// disabling forces the line low immediately. the remainder of the byte is
	// lost
	mem.Write(addresses.UCSR0B, 0)
	test.ExpectFailure(t, u.TxD())
	test.ExpectEquality(t, sample(u, 8), "00000000")
	test.ExpectEquality(t, u.Bytes, 0)

	// staged data is flushed by a write to the control register
	mem.Write(addresses.UDR0, 0xff)
	mem.Write(addresses.UCSR0B, 0)
	test.ExpectInequality(t, mem.Read(addresses.UCSR0A)&(1<<addresses.UDRE0), 0)

	// while disabled writes are accepted but the buffer does not drain
	mem.Write(addresses.UDR0, 0x01)
	mem.Write(addresses.UDR0, 0x02)
	sample(u, 32)
	test.ExpectEquality(t, u.Dropped, 1)

	test.ExpectEquality(t, mem.Unmapped, 0)
}
