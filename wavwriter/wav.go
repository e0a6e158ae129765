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

// Package wavwriter captures the wire signal to disk as a WAV file, in the
// manner of a logic analyser, and replays WAV files as a signal.
//
// A capture has five 8-bit channels: horizontal sync, vertical sync, red,
// green and blue. Sync channels are 0 or 255. The sample rate is the rate of
// the signal, normally the system clock of the MCU. Samples are written to
// disk as they arrive.
package wavwriter

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/hardware/signal"
	"github.com/jetsetilly/syncline/logger"
)

// Channels in a capture.
const (
	ChanHSync = iota
	ChanVSync
	ChanRed
	ChanGreen
	ChanBlue
	NumChans
)

const bitDepth = 8

// the number of samples buffered before being written to disk
const chunkSamples = 64 * 1024

// WavWriter implements the signal.Sink interface.
type WavWriter struct {
	perm     logger.Permission
	filename string

	f   *os.File
	enc *wav.Encoder
	buf *audio.IntBuffer

	samples int
}

// New is the preferred method of initialisation for the WavWriter type. The
// rate is the number of samples per second.
func New(perm logger.Permission, filename string, rate int) (*WavWriter, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, curated.Errorf("wavwriter: %v", err)
	}

	aw := &WavWriter{
		perm:     perm,
		filename: filename,
		f:        f,
		enc:      wav.NewEncoder(f, rate, bitDepth, NumChans, 1),
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: NumChans,
				SampleRate:  rate,
			},
			Data:           make([]int, 0, chunkSamples*NumChans),
			SourceBitDepth: bitDepth,
		},
	}

	return aw, nil
}

func level(b bool) int {
	if b {
		return 0xff
	}
	return 0
}

// Signal implements the signal.Sink interface.
func (aw *WavWriter) Signal(sig signal.Attributes) error {
	aw.buf.Data = append(aw.buf.Data, level(sig.HSync), level(sig.VSync), int(sig.R), int(sig.G), int(sig.B))
	aw.samples++

	if len(aw.buf.Data) >= cap(aw.buf.Data) {
		return aw.flush()
	}
	return nil
}

func (aw *WavWriter) flush() error {
	if len(aw.buf.Data) == 0 {
		return nil
	}
	err := aw.enc.Write(aw.buf)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	aw.buf.Data = aw.buf.Data[:0]
	return nil
}

// Samples returns the number of samples captured.
func (aw *WavWriter) Samples() int {
	return aw.samples
}

// Close flushes buffered samples and finalises the file. The WavWriter
// should be considered unusable after Close() has been called.
func (aw *WavWriter) Close() (rerr error) {
	defer func() {
		err := aw.f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	if err := aw.flush(); err != nil {
		return err
	}

	if err := aw.enc.Close(); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	logger.Logf(aw.perm, "wavwriter", "wrote %d samples to %s", aw.samples, aw.filename)

	return nil
}
