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

package addresses

// TCCRnA bits.
const (
	COMnA1 = 7
	COMnA0 = 6
	COMnB1 = 5
	COMnB0 = 4
	WGMn1  = 1
	WGMn0  = 0
)

// TCCR0B bits. The clock select bits CSn2..CSn0 are shared with TCCR1B.
const (
	FOC0A = 7
	FOC0B = 6
	WGM02 = 3
	CSn2  = 2
	CSn1  = 1
	CSn0  = 0
)

// TCCR1B bits.
const (
	ICNC1 = 7
	ICES1 = 6
	WGM13 = 4
	WGM12 = 3
)

// TIMSKn and TIFRn bits.
const (
	OCIEnB = 2
	OCIEnA = 1
	TOIEn  = 0

	OCFnB = 2
	OCFnA = 1
	TOVn  = 0
)

// UCSR0A bits.
const (
	RXC0  = 7
	TXC0  = 6
	UDRE0 = 5
)

// UCSR0B bits.
const (
	RXEN0 = 4
	TXEN0 = 3
)

// UCSR0C bits.
const (
	UMSEL01 = 7
	UMSEL00 = 6
	UDORD0  = 2
	UCPHA0  = 1
	UCPOL0  = 0
)

// SREG bits.
const (
	SREG_I = 7
)

// Port pin numbers of interest.
const (
	PB1 = 1
	PB2 = 2
	PD1 = 1
	PD4 = 4
	PD5 = 5
	PD6 = 6
)
