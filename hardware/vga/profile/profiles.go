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

package profile

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/hardware/clocks"
)

// the display accepts a frame period in this range for 60Hz modes
const (
	minFrame60Hz = 16500 * time.Microsecond
	maxFrame60Hz = 16700 * time.Microsecond
)

// The built-in profiles. Horizontal values are in ticks of Timer0, which is
// clocked at 2MHz (16MHz with a prescaler of eight). One tick is sixteen
// pixels of the nominal mode.
var (
	VGA640x480 = Profile{
		ID:          "640x480@60",
		Description: "640x480 at 60Hz. monochrome, 192x240 pixels",
		Mode:        "640x480@60",
		ClockHz:     clocks.ATmega328P_16MHz,
		Prescaler:   8,
		Horizontal:  Axis{Total: 63, Sync: 8, BackPorch: 4, Visible: 49, FrontPorch: 2},
		Vertical:    Axis{Total: 525, Sync: 2, BackPorch: 33, Visible: 480, FrontPorch: 10},
		RowRepeat:   1,
		BytesPerRow: 24,
		Channel:     Serial,
		BaudDivisor: 0,
		MinFrame:    minFrame60Hz,
		MaxFrame:    maxFrame60Hz,
	}

	SVGA800x600 = Profile{
		ID:          "800x600@60",
		Description: "800x600 at 60Hz. monochrome, 160x300 pixels",
		Mode:        "800x600@60",
		ClockHz:     clocks.ATmega328P_16MHz,
		Prescaler:   8,
		Horizontal:  Axis{Total: 53, Sync: 6, BackPorch: 4, Visible: 41, FrontPorch: 2},
		Vertical:    Axis{Total: 628, Sync: 4, BackPorch: 23, Visible: 600, FrontPorch: 1},
		RowRepeat:   1,
		BytesPerRow: 20,
		Channel:     Serial,
		BaudDivisor: 0,
		MinFrame:    minFrame60Hz,
		MaxFrame:    maxFrame60Hz,
	}

	VGA640x480Port = Profile{
		ID:          "640x480@60-port",
		Description: "640x480 at 60Hz. 64 colours, 56x120 pixels",
		Mode:        "640x480@60",
		ClockHz:     clocks.ATmega328P_16MHz,
		Prescaler:   8,
		Horizontal:  Axis{Total: 63, Sync: 8, BackPorch: 4, Visible: 49, FrontPorch: 2},
		Vertical:    Axis{Total: 525, Sync: 2, BackPorch: 33, Visible: 480, FrontPorch: 10},
		RowRepeat:   2,
		BytesPerRow: 56,
		Channel:     Port,
		PortWidth:   6,
		MinFrame:    minFrame60Hz,
		MaxFrame:    maxFrame60Hz,
	}
)

var builtin = []Profile{VGA640x480, SVGA800x600, VGA640x480Port}

// the built-in profiles are constants of the program. an invalid profile is a
// programming error
func init() {
	for _, p := range builtin {
		if err := p.Validate(); err != nil {
			panic(err)
		}
	}
}

// Default is the profile used when no profile is specified.
var Default = VGA640x480

// UnknownProfile is returned by Lookup() when no profile has the ID.
const UnknownProfile = "profile: unknown profile (%s). available profiles: %s"

// Lookup a built-in profile by ID. The comparison is not case sensitive.
func Lookup(id string) (Profile, error) {
	for _, p := range builtin {
		if strings.EqualFold(p.ID, id) {
			return p, nil
		}
	}
	return Profile{}, curated.Errorf(UnknownProfile, id, strings.Join(IDs(), ", "))
}

// IDs returns the IDs of the built-in profiles in the order they are defined.
func IDs() []string {
	ids := make([]string, 0, len(builtin))
	for _, p := range builtin {
		ids = append(ids, p.ID)
	}
	return ids
}

// All returns a copy of the list of built-in profiles.
func All() []Profile {
	return slices.Clone(builtin)
}

// Summary returns a single line description of the profile timing.
func (p Profile) Summary() string {
	return fmt.Sprintf("%-16s %-8s H %-16s V %-18s rows %3d x %2d bytes  %.3fms",
		p.ID, p.Channel, p.Horizontal, p.Vertical, p.Rows(), p.BytesPerRow,
		float64(p.FramePeriod())/float64(time.Millisecond))
}
