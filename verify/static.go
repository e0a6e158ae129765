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

package verify

import (
	"github.com/jetsetilly/syncline/hardware/mcu"
	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/hardware/memory/bus"
	"github.com/jetsetilly/syncline/hardware/vga"
	"github.com/jetsetilly/syncline/hardware/vga/burst"
	"github.com/jetsetilly/syncline/hardware/vga/channel"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
	"github.com/jetsetilly/syncline/logger"
)

// static checks add to the report. returns false if a board could not be
// built for the profile
func static(r *Report, p profile.Profile, tab cycles.Table) bool {
	if err := p.Validate(); err != nil {
		r.add("profile", false, "%v", err)
		return false
	}
	r.add("profile", true, "%s", p.Summary())

	regs, err := p.Registers()
	if err != nil {
		r.add("registers", false, "%v", err)
		return false
	}
	r.add("registers", true, "%s", regs)

	ch, err := channel.New(p)
	if err != nil {
		r.add("channel", false, "%v", err)
		return false
	}
	r.add("channel", true, "%s", ch)

	pl, err := burst.Build(p, ch, tab)
	if err != nil {
		r.add("plan", false, "%v", err)
		return false
	}
	r.add("plan", true, "window %d settle %d slot %d padding %d tail %d lead-in %d",
		pl.Window, pl.Settle, pl.Slot, pl.Padding, pl.Tail, pl.LeadIn)

	r.add("burst cost", pl.Cost() == pl.Window-pl.Settle,
		"%d cycles for a window of %d with settle of %d", pl.Cost(), pl.Window, pl.Settle)

	r.add("dispatch deadline", pl.DispatchEnd <= pl.Compare,
		"ends at %d, compare event at %d", pl.DispatchEnd, pl.Compare)

	r.add("burst deadline", pl.BurstEnd <= pl.LineCycles,
		"ends at %d, line is %d", pl.BurstEnd, pl.LineCycles)

	return handlerCosts(r, p, tab)
}

// run the handlers on a dry executor and compare the number of clocks to the
// plan
func handlerCosts(r *Report, p profile.Profile, tab cycles.Table) bool {
	e, err := vga.NewEngine(logger.Deny, p, tab)
	if err != nil {
		r.add("handler costs", false, "%v", err)
		return false
	}

	rec := bus.NewRecorder()
	ex := mcu.NewDry(rec, nil, tab)

	measure := func(line int, h mcu.Handler) int {
		bus.Write16(rec, addresses.TCNT1, uint16(line))
		start := ex.Now()
		h(ex)
		return int(ex.Now() - start)
	}

	visible := measure(p.Vertical.FirstVisible(), e.Dispatch)
	burstVisible := measure(p.Vertical.FirstVisible(), e.Burst)
	notVisible := measure(p.Vertical.Total-1, e.Dispatch)
	measure(p.Vertical.Total-1, e.Burst)

	expectedBurst := burst.BurstEntryCost(tab) + e.Plan.Duration() + burst.Epilogue.Cost(tab)

	r.add("handler costs",
		visible == e.Plan.DispatchVisible && notVisible == e.Plan.DispatchNotVisible && burstVisible == expectedBurst,
		"dispatch %d/%d (planned %d/%d) burst %d (planned %d)",
		visible, notVisible, e.Plan.DispatchVisible, e.Plan.DispatchNotVisible, burstVisible, expectedBurst)

	return true
}
