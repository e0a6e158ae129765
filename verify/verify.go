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

// Package verify checks that a profile produces a stable picture. The static
// checks look at the profile, the register values derived from it and the
// burst plan. The bench checks run the board into a monitor and look at what
// the monitor sees.
//
// Verification never stops at the first failure. Every check that can be
// made is made and recorded in the Report. Bench checks are skipped if the
// static checks found a problem that prevents the board from being built.
package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/framebuffer"
	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
	"github.com/jetsetilly/syncline/logger"
)

// Check is the result of a single verification step.
type Check struct {
	Name   string
	Passed bool
	Detail string
}

func (c Check) String() string {
	s := "ok"
	if !c.Passed {
		s = "FAIL"
	}
	return fmt.Sprintf("%-4s %s: %s", s, c.Name, c.Detail)
}

// Report is the collection of checks for a profile.
type Report struct {
	Profile profile.Profile
	Costs   cycles.Table

	// number of frames in the bench run. zero if there was no bench run
	Frames int

	Checks []Check
}

func (r *Report) add(name string, passed bool, detail string, values ...any) {
	r.Checks = append(r.Checks, Check{
		Name:   name,
		Passed: passed,
		Detail: fmt.Sprintf(detail, values...),
	})
}

// Passed returns true if every check passed.
func (r Report) Passed() bool {
	return len(r.Failed()) == 0
}

// Failed returns the checks that did not pass.
func (r Report) Failed() []Check {
	var f []Check
	for _, c := range r.Checks {
		if !c.Passed {
			f = append(f, c)
		}
	}
	return f
}

// Lookup returns the named check.
func (r Report) Lookup(name string) (Check, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return Check{}, false
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", r.Profile.ID, r.Costs)
	for _, c := range r.Checks {
		b.WriteString(c.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Sentinel errors returned by Verify().
const (
	WrongFramebuffer = "verify: framebuffer is for %s not %s"
)

// DefaultFrames is the number of frames in a bench run if no other value is
// specified.
const DefaultFrames = 10

// Verify the profile with the framebuffer. The number of frames is the length
// of the bench run. If the framebuffer is nil the bench run is skipped.
//
// The returned error is for problems that prevent verification, not for
// failed checks.
func Verify(ctx context.Context, perm logger.Permission, p profile.Profile, tab cycles.Table, fb *framebuffer.Framebuffer, frames int) (Report, error) {
	if fb != nil && fb.Profile.ID != p.ID {
		return Report{}, curated.Errorf(WrongFramebuffer, fb.Profile.ID, p.ID)
	}

	r := Report{
		Profile: p,
		Costs:   tab,
	}

	ok := static(&r, p, tab)
	if fb == nil {
		return r, nil
	}

	if !ok {
		r.add("bench", false, "skipped because of earlier failures")
		return r, nil
	}

	err := bench(ctx, perm, &r, fb, frames)
	if err != nil {
		return r, err
	}

	if r.Passed() {
		logger.Logf(perm, "verify", "%s passed %d checks", p.ID, len(r.Checks))
	} else {
		logger.Logf(perm, "verify", "%s failed %d of %d checks", p.ID, len(r.Failed()), len(r.Checks))
	}

	return r, nil
}
