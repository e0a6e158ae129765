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

package digest

import (
	"crypto/sha1"
	"fmt"

	"github.com/jetsetilly/syncline/hardware/signal"
)

// the length of the buffer. the value is arbitrary
const signalBufferLength = 1024 * 4 * 64

// the buffer is prefixed with the previous digest value
const signalBufferStart = sha1.Size

// Signal is an implementation of the signal.Sink interface. It generates a
// sha1 value of the raw wire signal. Unlike the Video digest this includes
// every sample, whether the monitor would be synchronised with it or not.
type Signal struct {
	digest   [sha1.Size]byte
	buffer   []uint8
	bufferCt int
}

// NewSignal is the preferred method of initialisation for the Signal type.
func NewSignal() *Signal {
	return &Signal{
		buffer:   make([]uint8, signalBufferLength),
		bufferCt: signalBufferStart,
	}
}

func (dig *Signal) String() string {
	return dig.Hash()
}

// Hash implements digest.Digest interface. Samples that have not yet been
// flushed are not included in the hash.
func (dig *Signal) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements digest.Digest interface.
func (dig *Signal) ResetDigest() {
	clear(dig.digest[:])
	dig.bufferCt = signalBufferStart
}

// Signal implements the signal.Sink interface.
func (dig *Signal) Signal(sig signal.Attributes) error {
	var sync uint8
	if sig.HSync {
		sync |= 0x01
	}
	if sig.VSync {
		sync |= 0x02
	}

	// a sample is four bytes so the buffer length is a multiple of the
	// sample size
	dig.buffer[dig.bufferCt] = sync
	dig.buffer[dig.bufferCt+1] = sig.R
	dig.buffer[dig.bufferCt+2] = sig.G
	dig.buffer[dig.bufferCt+3] = sig.B
	dig.bufferCt += 4

	if dig.bufferCt >= signalBufferLength {
		dig.Flush()
	}

	return nil
}

// Flush any buffered samples into the digest.
func (dig *Signal) Flush() {
	if dig.bufferCt == signalBufferStart {
		return
	}
	dig.digest = sha1.Sum(dig.buffer[:dig.bufferCt])
	copy(dig.buffer, dig.digest[:])
	dig.bufferCt = signalBufferStart
}
