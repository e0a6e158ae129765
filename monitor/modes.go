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

package monitor

import (
	"fmt"
	"math"
)

// Polarity of a sync line.
type Polarity int

// List of valid Polarity values.
const (
	PolarityUnknown Polarity = iota
	Negative
	Positive
)

func (p Polarity) String() string {
	switch p {
	case Negative:
		return "-"
	case Positive:
		return "+"
	}
	return "?"
}

// Timing of one axis of a mode. Horizontal values are in pixels and vertical
// values are in lines.
type Timing struct {
	Total     int
	Sync      int
	BackPorch int
	Visible   int
}

// Mode is an entry in the table of display modes.
type Mode struct {
	ID string

	// frequencies in Hz
	HFreq float64
	VFreq float64

	H Timing
	V Timing

	HPolarity Polarity
	VPolarity Polarity
}

func (m Mode) String() string {
	return fmt.Sprintf("%s (%.3fkHz %.2fHz %s%s)", m.ID, m.HFreq/1000, m.VFreq, m.HPolarity, m.VPolarity)
}

// Modes is the table of modes recognised by the monitor. These are the
// standard VESA (DMT) timings.
var Modes = []Mode{
	{ID: "640x350@70", HFreq: 31469, VFreq: 70.086,
		H: Timing{800, 96, 48, 640}, V: Timing{449, 2, 60, 350}, HPolarity: Positive, VPolarity: Negative},
	{ID: "640x400@70", HFreq: 31469, VFreq: 70.086,
		H: Timing{800, 96, 48, 640}, V: Timing{449, 2, 35, 400}, HPolarity: Negative, VPolarity: Positive},
	{ID: "720x400@70", HFreq: 31469, VFreq: 70.087,
		H: Timing{900, 108, 54, 720}, V: Timing{449, 2, 34, 400}, HPolarity: Negative, VPolarity: Positive},
	{ID: "640x480@60", HFreq: 31469, VFreq: 59.940,
		H: Timing{800, 96, 48, 640}, V: Timing{525, 2, 33, 480}, HPolarity: Negative, VPolarity: Negative},
	{ID: "640x480@72", HFreq: 37861, VFreq: 72.809,
		H: Timing{832, 40, 128, 640}, V: Timing{520, 3, 28, 480}, HPolarity: Negative, VPolarity: Negative},
	{ID: "640x480@75", HFreq: 37500, VFreq: 75.000,
		H: Timing{840, 64, 120, 640}, V: Timing{500, 3, 16, 480}, HPolarity: Negative, VPolarity: Negative},
	{ID: "800x600@56", HFreq: 35156, VFreq: 56.250,
		H: Timing{1024, 72, 128, 800}, V: Timing{625, 2, 22, 600}, HPolarity: Positive, VPolarity: Positive},
	{ID: "800x600@60", HFreq: 37879, VFreq: 60.317,
		H: Timing{1056, 128, 88, 800}, V: Timing{628, 4, 23, 600}, HPolarity: Positive, VPolarity: Positive},
	{ID: "800x600@72", HFreq: 48077, VFreq: 72.188,
		H: Timing{1040, 120, 64, 800}, V: Timing{666, 6, 23, 600}, HPolarity: Positive, VPolarity: Positive},
	{ID: "800x600@75", HFreq: 46875, VFreq: 75.000,
		H: Timing{1056, 80, 160, 800}, V: Timing{625, 3, 21, 600}, HPolarity: Positive, VPolarity: Positive},
	{ID: "1024x768@60", HFreq: 48363, VFreq: 60.004,
		H: Timing{1344, 136, 160, 1024}, V: Timing{806, 6, 29, 768}, HPolarity: Negative, VPolarity: Negative},
}

// Tolerance is the fractional difference from the nominal frequencies that is
// accepted when matching a mode.
const Tolerance = 0.03

// Match the measured frequencies to a mode. The number of lines per frame must
// match exactly because a number of modes share a horizontal frequency.
func Match(hfreq float64, vfreq float64, lines int) (Mode, bool) {
	within := func(v, nominal float64) bool {
		return math.Abs(v-nominal) <= nominal*Tolerance
	}

	for _, m := range Modes {
		if m.V.Total == lines && within(hfreq, m.HFreq) && within(vfreq, m.VFreq) {
			return m, true
		}
	}
	return Mode{}, false
}

// Lookup a mode by ID.
func Lookup(id string) (Mode, bool) {
	for _, m := range Modes {
		if m.ID == id {
			return m, true
		}
	}
	return Mode{}, false
}
