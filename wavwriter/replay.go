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

package wavwriter

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/hardware/signal"
)

// Sentinel errors returned by NewReplay().
const (
	NotWav          = "wavwriter: not a valid wav file"
	UnsupportedWav  = "wavwriter: unsupported wav file: %s"
	replayChunkSize = 64 * 1024
)

// Replay sends the samples of a WAV file to a signal.Sink.
//
// Files with five channels are treated as a capture made by the WavWriter.
// Files with three channels are treated as horizontal sync, vertical sync and
// a single video channel, which is sent as a grey level. Files with 8-bit or
// 16-bit samples are accepted. Negative 16-bit samples are treated as zero. A
// sync channel is high if its level is in the upper half of the range.
type Replay struct {
	f   io.ReadSeeker
	dec *wav.Decoder

	SampleRate int
	NumChans   int
	BitDepth   int
}

// NewReplay is the preferred method of initialisation for the Replay type.
func NewReplay(f io.ReadSeeker) (*Replay, error) {
	dec := wav.NewDecoder(f)
	if dec == nil || !dec.IsValidFile() {
		return nil, curated.Errorf(NotWav)
	}

	r := &Replay{
		f:          f,
		dec:        dec,
		SampleRate: int(dec.SampleRate),
		NumChans:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}

	if r.NumChans != NumChans && r.NumChans != 3 {
		return nil, curated.Errorf(UnsupportedWav, "must have 3 or 5 channels")
	}
	if r.BitDepth != 8 && r.BitDepth != 16 {
		return nil, curated.Errorf(UnsupportedWav, "must have 8 or 16 bit samples")
	}

	return r, nil
}

// OpenReplay opens a WAV file for replay. The file is closed by the close
// function returned with the Replay.
func OpenReplay(filename string) (*Replay, func() error, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, curated.Errorf("wavwriter: %v", err)
	}

	r, err := NewReplay(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	return r, f.Close, nil
}

func (r *Replay) level(v int) uint8 {
	if r.BitDepth == 16 {
		return uint8(max(v, 0) >> 7)
	}
	return uint8(v)
}

// Run sends every sample in the file to the sink. Returns the number of
// samples sent. The context is checked between chunks of samples.
func (r *Replay) Run(ctx context.Context, sink signal.Sink) (int, error) {
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: r.NumChans,
			SampleRate:  r.SampleRate,
		},
		Data: make([]int, replayChunkSize*r.NumChans),
	}

	var samples int

	for {
		select {
		case <-ctx.Done():
			return samples, nil
		default:
		}

		n, err := r.dec.PCMBuffer(buf)
		end := n == 0 || errors.Is(err, io.EOF)
		if err != nil && !end {
			return samples, curated.Errorf("wavwriter: %v", err)
		}

		for i := 0; i+r.NumChans <= n; i += r.NumChans {
			s := buf.Data[i : i+r.NumChans]
			sig := signal.Attributes{
				HSync: r.level(s[ChanHSync]) >= 0x80,
				VSync: r.level(s[ChanVSync]) >= 0x80,
			}
			if r.NumChans == NumChans {
				sig.R = r.level(s[ChanRed])
				sig.G = r.level(s[ChanGreen])
				sig.B = r.level(s[ChanBlue])
			} else {
				v := r.level(s[2])
				sig.R, sig.G, sig.B = v, v, v
			}

			if err := sink.Signal(sig); err != nil {
				return samples, err
			}
			samples++
		}

		if end {
			return samples, nil
		}
	}
}
