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

// Package preferences collates the preference values of the board and the
// monitor windows.
package preferences

import (
	"sync/atomic"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
	"github.com/jetsetilly/syncline/paths"
	"github.com/jetsetilly/syncline/prefs"
)

// Sentinel error returned when the cost table preference is not a known
// table.
const UnknownCosts = "preferences: unknown cost table (%s)"

// Preferences defines and collates all the preference values used by the
// board and the monitor windows.
type Preferences struct {
	dsk *prefs.Disk

	// the timing profile and cycle cost table used when none is given on the
	// command line
	Profile prefs.String
	Costs   prefs.String

	// pace the simulation to the frame rate of the profile when running
	// interactively
	Limit prefs.Bool

	// the display used by the RUN mode and its scaling
	GUI   prefs.String
	Scale prefs.Int

	// prefer live values in performance critical code
	Live struct {
		Limit atomic.Bool
	}
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the preferences file in the
// resource directory.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return NewPreferencesFile(pth)
}

// NewPreferencesFile is like NewPreferences() but loads values from the named
// file.
func NewPreferencesFile(pth string) (*Preferences, error) {
	p := &Preferences{}

	p.Profile.SetDefault(profile.Default.ID)
	p.Costs.SetDefault(cycles.ATmega328P_16MHz.ID)
	p.Limit.SetDefault(true)
	p.Live.Limit.Store(true)
	p.GUI.SetDefault("ebiten")
	p.Scale.SetDefault(2)

	p.Profile.SetHookPost(func(v prefs.Value) error {
		_, err := profile.Lookup(v.(string))
		return err
	})
	p.Costs.SetHookPost(func(v prefs.Value) error {
		if _, ok := cycles.Lookup(v.(string)); !ok {
			return curated.Errorf(UnknownCosts, v)
		}
		return nil
	})
	p.Limit.SetHookPost(func(v prefs.Value) error {
		p.Live.Limit.Store(v.(bool))
		return nil
	})
	p.Scale.SetHookPost(func(v prefs.Value) error {
		if v.(int) < 1 {
			return p.Scale.Set(1)
		}
		return nil
	})

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	for _, e := range []struct {
		key string
		v   interface {
			Set(prefs.Value) error
			Get() prefs.Value
			Reset() error
			String() string
		}
	}{
		{"hardware.profile", &p.Profile},
		{"hardware.costs", &p.Costs},
		{"hardware.limit", &p.Limit},
		{"gui.display", &p.GUI},
		{"gui.scale", &p.Scale},
	} {
		if err := p.dsk.Add(e.key, e.v); err != nil {
			return nil, err
		}
	}

	err = p.dsk.Load(true)
	if err != nil {
		// a missing prefs file is not a problem
		if !curated.Is(err, prefs.NoPrefsFile) {
			return nil, err
		}
	}

	return p, nil
}

// ProfileValue returns the timing profile named by the Profile preference.
func (p *Preferences) ProfileValue() (profile.Profile, error) {
	return profile.Lookup(p.Profile.String())
}

// CostsValue returns the cost table named by the Costs preference.
func (p *Preferences) CostsValue() (cycles.Table, error) {
	tab, ok := cycles.Lookup(p.Costs.String())
	if !ok {
		return cycles.Table{}, curated.Errorf(UnknownCosts, p.Costs.String())
	}
	return tab, nil
}

// Reset all preferences to the default values.
func (p *Preferences) Reset() error {
	return p.dsk.Reset()
}

// Load current preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load(false)
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
