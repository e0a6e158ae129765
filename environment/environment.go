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

// Package environment provides the context for a board. More than one board
// can exist at once, for example when verifying every profile, and each has
// its own environment.
package environment

import (
	"sync/atomic"

	"github.com/jetsetilly/syncline/hardware/preferences"
)

// Label is used to name the environment.
type Label string

// MainEmulation is the label of the board that is shown to the user.
const MainEmulation = Label("")

// Environment is used to provide context for a board. It implements the
// logger.Permission interface.
type Environment struct {
	Label Label

	// the preferences are shared by every environment created with the same
	// instance
	Prefs *preferences.Preferences

	quiet atomic.Bool
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type.
//
// The prefs argument can be nil, in which case a new Preferences instance
// will be created.
func NewEnvironment(label Label, prefs *preferences.Preferences) (*Environment, error) {
	env := &Environment{
		Label: label,
	}

	if prefs == nil {
		var err error
		prefs, err = preferences.NewPreferences()
		if err != nil {
			return nil, err
		}
	}
	env.Prefs = prefs

	return env, nil
}

// Quiet stops log entries being made for the environment.
func (env *Environment) Quiet(quiet bool) {
	env.quiet.Store(quiet)
}

// AllowLogging implements the logger.Permission interface.
func (env *Environment) AllowLogging() bool {
	return !env.quiet.Load()
}

// IsMainEmulation returns true if the environment is intended for the main
// board in the system.
func (env *Environment) IsMainEmulation() bool {
	return env.Label == MainEmulation
}

// IsEmulation checks the environment label and returns true if it matches.
func (env *Environment) IsEmulation(label Label) bool {
	return env.Label == label
}

func (env *Environment) String() string {
	if env.IsMainEmulation() {
		return "main"
	}
	return string(env.Label)
}
