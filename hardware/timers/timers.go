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

// Package timers emulates the Timer/Counter peripherals of the
// microcontroller. The 8-bit Timer/Counter0 and the 16-bit Timer/Counter1 are
// both implemented by the Timer type.
//
// Only the waveform generation modes required for signal generation are
// emulated: normal, clear timer on compare (CTC) and fast PWM. The phase
// correct modes are treated as normal mode and a log entry is made.
//
// Compare matches take effect in the timer clock cycle after the counter equals
// the compare value. As a consequence, an inverting compare output in fast PWM
// mode is low for OCR+1 timer clocks and a counter with TOP value N has a period
// of N+1 timer clocks.
package timers

import (
	"fmt"

	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/logger"
)

// Width of the counter.
type Width int

// List of valid Width values.
const (
	Bits8  Width = 8
	Bits16 Width = 16
)

func (w Width) max() uint16 {
	if w == Bits8 {
		return 0xff
	}
	return 0xffff
}

// Registers lists the data space addresses of a timer's registers. Registers
// that the timer does not have are left as zero.
type Registers struct {
	TCCRA addresses.Register
	TCCRB addresses.Register
	TCNT  addresses.Register
	OCRA  addresses.Register
	OCRB  addresses.Register
	ICR   addresses.Register
	TIMSK addresses.Register
	TIFR  addresses.Register
}

// Timer0Registers are the registers of Timer/Counter0.
var Timer0Registers = Registers{
	TCCRA: addresses.TCCR0A,
	TCCRB: addresses.TCCR0B,
	TCNT:  addresses.TCNT0,
	OCRA:  addresses.OCR0A,
	OCRB:  addresses.OCR0B,
	TIMSK: addresses.TIMSK0,
	TIFR:  addresses.TIFR0,
}

// Timer1Registers are the registers of Timer/Counter1.
var Timer1Registers = Registers{
	TCCRA: addresses.TCCR1A,
	TCCRB: addresses.TCCR1B,
	TCNT:  addresses.TCNT1,
	OCRA:  addresses.OCR1A,
	OCRB:  addresses.OCR1B,
	ICR:   addresses.ICR1,
	TIMSK: addresses.TIMSK1,
	TIFR:  addresses.TIFR1,
}

// Clock select values. Shared by both timers.
const (
	ClockStopped      = 0
	ClockPrescale1    = 1
	ClockPrescale8    = 2
	ClockPrescale64   = 3
	ClockPrescale256  = 4
	ClockPrescale1024 = 5
	ClockExternalFall = 6
	ClockExternalRise = 7
)

var prescaleDivisors = [...]int{0, 1, 8, 64, 256, 1024}

// ClockSelect returns the clock select value for the prescale divisor. Returns
// false if the divisor is not available.
func ClockSelect(divisor int) (uint8, bool) {
	for i, d := range prescaleDivisors {
		if i > 0 && d == divisor {
			return uint8(i), true
		}
	}
	return 0, false
}

type waveform int

const (
	normal waveform = iota
	ctc
	fastPWM
)

func (w waveform) String() string {
	switch w {
	case normal:
		return "normal"
	case ctc:
		return "CTC"
	case fastPWM:
		return "fast PWM"
	}
	return "unknown"
}

// Timer is a Timer/Counter peripheral. It implements the bus.Peripheral
// interface.
type Timer struct {
	perm  logger.Permission
	label string
	width Width
	regs  Registers

	tccrA uint8
	tccrB uint8
	tcnt  uint16
	ocrA  uint16
	ocrB  uint16
	icr   uint16
	timsk uint8
	tifr  uint8

	// the TEMP register used for 16-bit access
	temp uint8

	// cycles counted towards the next prescaled timer clock
	prescale int

	// ExternalInput is sampled every system clock when the external clock
	// source is selected. The sample passes through a two stage synchroniser
	ExternalInput func() bool
	sync          [2]bool
	synced        bool

	outA bool
	outB bool

	// the mode that was most recently logged as unsupported
	unsupported uint8
}

// NewTimer is the preferred method of initialisation for the Timer type.
func NewTimer(perm logger.Permission, label string, width Width, regs Registers) *Timer {
	return &Timer{
		perm:  perm,
		label: label,
		width: width,
		regs:  regs,
	}
}

// Label implements the bus.Peripheral interface.
func (tm *Timer) Label() string {
	return tm.label
}

func (tm *Timer) String() string {
	wf, top := tm.mode()
	return fmt.Sprintf("%s: %s TCNT=%d TOP=%d OCRA=%d OCRB=%d", tm.label, wf, tm.tcnt, top, tm.ocrA, tm.ocrB)
}

// the waveform generation mode selected by the control registers, and the TOP
// value of that mode
func (tm *Timer) mode() (waveform, uint16) {
	if tm.width == Bits8 {
		wgm := (tm.tccrB>>addresses.WGM02&0x01)<<2 | tm.tccrA&0x03
		switch wgm {
		case 0:
			return normal, 0xff
		case 2:
			return ctc, tm.ocrA
		case 3:
			return fastPWM, 0xff
		case 7:
			return fastPWM, tm.ocrA
		}
		tm.logUnsupported(wgm)
		return normal, 0xff
	}

	wgm := (tm.tccrB>>addresses.WGM12&0x03)<<2 | tm.tccrA&0x03
	switch wgm {
	case 0:
		return normal, 0xffff
	case 4:
		return ctc, tm.ocrA
	case 5:
		return fastPWM, 0x00ff
	case 6:
		return fastPWM, 0x01ff
	case 7:
		return fastPWM, 0x03ff
	case 12:
		return ctc, tm.icr
	case 14:
		return fastPWM, tm.icr
	case 15:
		return fastPWM, tm.ocrA
	}
	tm.logUnsupported(wgm)
	return normal, 0xffff
}

func (tm *Timer) logUnsupported(wgm uint8) {
	if tm.unsupported != wgm {
		tm.unsupported = wgm
		logger.Logf(tm.perm, tm.label, "unsupported waveform generation mode (%d). using normal mode", wgm)
	}
}

// Step the timer by one system clock.
func (tm *Timer) Step() {
	cs := tm.tccrB & 0x07

	switch cs {
	case ClockStopped:
		return

	case ClockExternalFall, ClockExternalRise:
		var pin bool
		if tm.ExternalInput != nil {
			pin = tm.ExternalInput()
		}

		prev := tm.synced
		tm.synced = tm.sync[1]
		tm.sync[1] = tm.sync[0]
		tm.sync[0] = pin

		if cs == ClockExternalFall && prev && !tm.synced {
			tm.tick()
		} else if cs == ClockExternalRise && !prev && tm.synced {
			tm.tick()
		}

	default:
		tm.prescale++
		if tm.prescale >= prescaleDivisors[cs] {
			tm.prescale = 0
			tm.tick()
		}
	}
}

// a single timer clock
func (tm *Timer) tick() {
	wf, top := tm.mode()

	prev := tm.tcnt
	bottom := false

	switch {
	case prev == top:
		tm.tcnt = 0
		bottom = true
		if wf != ctc || top == tm.width.max() {
			tm.tifr |= 1 << addresses.TOVn
		}
	case prev == tm.width.max():
		// counter has passed TOP. this can only happen if the TOP value was
		// lowered while the counter was running
		tm.tcnt = 0
		bottom = true
		tm.tifr |= 1 << addresses.TOVn
	default:
		tm.tcnt = prev + 1
	}

	if prev == tm.ocrA {
		tm.tifr |= 1 << addresses.OCFnA
		tm.outA = compare(wf, tm.tccrA>>addresses.COMnA0&0x03, tm.outA)
	}
	if prev == tm.ocrB {
		tm.tifr |= 1 << addresses.OCFnB
		tm.outB = compare(wf, tm.tccrA>>addresses.COMnB0&0x03, tm.outB)
	}

	if bottom && wf == fastPWM {
		tm.outA = atBottom(tm.tccrA>>addresses.COMnA0&0x03, tm.outA)
		tm.outB = atBottom(tm.tccrA>>addresses.COMnB0&0x03, tm.outB)
	}
}

// the output level after a compare match for the compare output mode
func compare(wf waveform, com uint8, out bool) bool {
	if wf == fastPWM {
		switch com {
		case 2:
			return false
		case 3:
			return true
		}
		return out
	}

	switch com {
	case 1:
		return !out
	case 2:
		return false
	case 3:
		return true
	}
	return out
}

// the output level at BOTTOM in fast PWM mode
func atBottom(com uint8, out bool) bool {
	switch com {
	case 2:
		return true
	case 3:
		return false
	}
	return out
}

// OutputA returns the level of the compare output A and whether the compare unit
// is connected to the pin.
func (tm *Timer) OutputA() (bool, bool) {
	return tm.outA, tm.tccrA>>addresses.COMnA0&0x03 != 0
}

// OutputB returns the level of the compare output B and whether the compare unit
// is connected to the pin.
func (tm *Timer) OutputB() (bool, bool) {
	return tm.outB, tm.tccrA>>addresses.COMnB0&0x03 != 0
}

// Counter returns the current counter value.
func (tm *Timer) Counter() uint16 {
	return tm.tcnt
}

// Pending returns the interrupt flags that are both set and enabled.
func (tm *Timer) Pending() uint8 {
	return tm.tifr & tm.timsk & 0x07
}

// Acknowledge clears an interrupt flag. Called by the CPU when the interrupt
// vector for the flag is executed.
func (tm *Timer) Acknowledge(flag int) {
	tm.tifr &^= 1 << flag
}

// Read implements the bus.Peripheral interface.
func (tm *Timer) Read(reg addresses.Register) (uint8, bool) {
	if reg == 0 {
		return 0, false
	}

	switch reg {
	case tm.regs.TCCRA:
		return tm.tccrA, true
	case tm.regs.TCCRB:
		return tm.tccrB, true
	case tm.regs.TIMSK:
		return tm.timsk, true
	case tm.regs.TIFR:
		return tm.tifr, true
	}

	if tm.width == Bits8 {
		switch reg {
		case tm.regs.TCNT:
			return uint8(tm.tcnt), true
		case tm.regs.OCRA:
			return uint8(tm.ocrA), true
		case tm.regs.OCRB:
			return uint8(tm.ocrB), true
		}
		return 0, false
	}

	switch reg {
	case tm.regs.TCNT:
		// reading the low byte latches the high byte into TEMP
		tm.temp = uint8(tm.tcnt >> 8)
		return uint8(tm.tcnt), true
	case tm.regs.TCNT.High():
		return tm.temp, true
	case tm.regs.ICR:
		tm.temp = uint8(tm.icr >> 8)
		return uint8(tm.icr), true
	case tm.regs.ICR.High():
		return tm.temp, true
	case tm.regs.OCRA:
		return uint8(tm.ocrA), true
	case tm.regs.OCRA.High():
		return uint8(tm.ocrA >> 8), true
	case tm.regs.OCRB:
		return uint8(tm.ocrB), true
	case tm.regs.OCRB.High():
		return uint8(tm.ocrB >> 8), true
	}

	return 0, false
}

// Write implements the bus.Peripheral interface.
func (tm *Timer) Write(reg addresses.Register, data uint8) bool {
	if reg == 0 {
		return false
	}

	switch reg {
	case tm.regs.TCCRA:
		tm.tccrA = data
		return true
	case tm.regs.TCCRB:
		if data&0x07 == ClockStopped {
			tm.prescale = 0
		}
		tm.tccrB = data
		return true
	case tm.regs.TIMSK:
		tm.timsk = data & 0x07
		return true
	case tm.regs.TIFR:
		// writing a logical one clears the flag
		tm.tifr &^= data
		return true
	}

	if tm.width == Bits8 {
		switch reg {
		case tm.regs.TCNT:
			tm.tcnt = uint16(data)
		case tm.regs.OCRA:
			tm.ocrA = uint16(data)
		case tm.regs.OCRB:
			tm.ocrB = uint16(data)
		default:
			return false
		}
		return true
	}

	// writing the high byte of a 16-bit register goes to TEMP. the value is
	// transferred when the low byte is written
	w := uint16(tm.temp)<<8 | uint16(data)

	switch reg {
	case tm.regs.TCNT.High(), tm.regs.ICR.High(), tm.regs.OCRA.High(), tm.regs.OCRB.High():
		tm.temp = data
	case tm.regs.TCNT:
		tm.tcnt = w
	case tm.regs.ICR:
		tm.icr = w
	case tm.regs.OCRA:
		tm.ocrA = w
	case tm.regs.OCRB:
		tm.ocrB = w
	default:
		return false
	}

	return true
}
