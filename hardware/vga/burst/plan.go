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

// Package burst builds the cycle accounting for the two interrupt handlers of
// the signal generator. The central product is the Plan, the ordered list of
// steps executed by the pixel burst handler.
//
// Times in a plan are in system clocks and are relative to the clock on which
// the overflow event of the line is raised. The start of the sync pulse
// coincides with the overflow event.
//
// The plan is static. It is derived from the profile, the output channel and
// the cost table and it is checked when it is built. A plan that would not
// produce a stable picture is never returned.
package burst

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/memory/addresses"
	"github.com/jetsetilly/syncline/hardware/vga/channel"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
)

// Kind of step in the plan.
type Kind int

// List of valid Kind values.
const (
	Pad Kind = iota
	Enable
	Release
	Settle
	Load
	Write
	Disable
)

func (k Kind) String() string {
	switch k {
	case Pad:
		return "pad"
	case Enable:
		return "enable"
	case Release:
		return "release"
	case Settle:
		return "settle"
	case Load:
		return "load"
	case Write:
		return "write"
	case Disable:
		return "disable"
	}
	return "unknown"
}

// Step of the plan.
type Step struct {
	Kind   Kind
	Cycles int

	// index of the byte in the row for Load and Write steps
	Byte int
}

func (s Step) String() string {
	switch s.Kind {
	case Load, Write:
		return fmt.Sprintf("%s %d (%d)", s.Kind, s.Byte, s.Cycles)
	}
	return fmt.Sprintf("%s (%d)", s.Kind, s.Cycles)
}

// Plan is the static cycle accounting for a profile and output channel.
type Plan struct {
	Profile  profile.Profile
	Strategy profile.Strategy
	Costs    cycles.Table

	// the visible window and the settle interval of the channel
	Window int
	Settle int

	// clocks allotted to each byte. the clocks of each slot not used by
	// loading and writing the byte are padding
	Slot    int
	Padding int

	// clocks after the last slot and before the channel is disabled
	Tail int

	// padding at the start of the burst handler
	LeadIn int

	Steps []Step

	// events relative to the overflow event
	Compare     int
	ActiveStart int
	LineCycles  int

	// clocks from the overflow event to the first main line instruction after
	// the dispatch handler
	DispatchEnd int

	// the same for the burst handler
	BurstEnd int

	// cost of the dispatch handler body for both outcomes
	DispatchVisible    int
	DispatchNotVisible int
}

// Sentinel errors returned by Build().
const (
	SlotOverrun   = "burst: %s: a byte needs %d cycles but the slot is %d cycles"
	BudgetOverrun = "burst: %s: %d bytes need %d cycles but %d cycles are available"
	LeadInShort   = "burst: %s: back porch is %d cycles too short"
	DispatchLate  = "burst: %s: dispatch handler ends %d cycles after the compare event"
	BurstLate     = "burst: %s: burst handler ends %d cycles after the end of the line"
)

// DispatchCost returns the cost of the body of the dispatch handler when the
// line is visible and when it is not. The cost of the not visible outcome is
// for the slower of the two paths.
func DispatchCost(p profile.Profile, costs channel.Costs, tab cycles.Table) (int, int) {
	common := Prologue.Cost(tab) + costs.Disable + tab.Read16(addresses.TCNT1) + BoundCheck.Cost(tab) + tab.Cost(cycles.Branch) + BoundCheck.Cost(tab)

	visible := common + tab.Cost(cycles.Branch) +
		RowCompute(p.RowRepeat).Cost(tab) + PublishVisible.Cost(tab) + RowPointer.Cost(tab) +
		tab.Cost(cycles.LPM) + costs.Stage + Epilogue.Cost(tab)

	notVisible := common + tab.Cost(cycles.BranchTaken) + PublishNotVisible.Cost(tab) + Epilogue.Cost(tab)

	return visible, notVisible
}

// BurstEntryCost returns the cost of the burst handler for a visible line from
// the first instruction of the handler to the lead-in.
func BurstEntryCost(tab cycles.Table) int {
	return Prologue.Cost(tab) + ConsumeCheck.Cost(tab) + tab.Cost(cycles.Branch) + ConsumeRow.Cost(tab) + RowPointer.Cost(tab)
}

// Build the plan for the profile.
func Build(p profile.Profile, ch channel.Channel, tab cycles.Table) (Plan, error) {
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}

	costs := ch.Costs(tab)

	pl := Plan{
		Profile:     p,
		Strategy:    ch.Strategy(),
		Costs:       tab,
		Window:      p.Cycles(p.Horizontal.Visible),
		Settle:      ch.Settle(),
		Compare:     p.Cycles(p.Horizontal.Sync),
		ActiveStart: p.Cycles(p.Horizontal.FirstVisible()),
		LineCycles:  p.LineCycles(),
	}

	n := p.BytesPerRow
	available := pl.Window - pl.Settle

	// a channel without a fixed output rate is given an equal share of the
	// window for each byte
	immediate := ch.Slot() == 0
	pl.Slot = ch.Slot()
	if immediate {
		pl.Slot = available / n
	}

	perByte := tab.Cost(cycles.LPM) + costs.Write
	if perByte > pl.Slot {
		return Plan{}, curated.Errorf(SlotOverrun, p.ID, perByte, pl.Slot)
	}
	if n*pl.Slot > available {
		return Plan{}, curated.Errorf(BudgetOverrun, p.ID, n, n*pl.Slot, available)
	}

	pl.Padding = pl.Slot - perByte
	pl.Tail = available - n*pl.Slot

	// the enable and release steps must complete on the clock before the
	// start of active video. the effect of an instruction is seen on the
	// clock after it completes
	pl.LeadIn = pl.ActiveStart - 1 - pl.Compare - tab.InterruptEntry - BurstEntryCost(tab) - costs.Enable - costs.Release
	if pl.LeadIn < 0 {
		return Plan{}, curated.Errorf(LeadInShort, p.ID, -pl.LeadIn)
	}

	pl.DispatchVisible, pl.DispatchNotVisible = DispatchCost(p, costs, tab)
	pl.DispatchEnd = tab.InterruptEntry + max(pl.DispatchVisible, pl.DispatchNotVisible) + tab.RETI + tab.Cost(cycles.Idle)
	if pl.DispatchEnd > pl.Compare {
		return Plan{}, curated.Errorf(DispatchLate, p.ID, pl.DispatchEnd-pl.Compare)
	}

	pl.BurstEnd = pl.ActiveStart - 1 + pl.Window + Epilogue.Cost(tab) + tab.RETI + tab.Cost(cycles.Idle)
	if pl.BurstEnd > pl.LineCycles {
		return Plan{}, curated.Errorf(BurstLate, p.ID, pl.BurstEnd-pl.LineCycles)
	}

	pad := func(c int) {
		if c > 0 {
			pl.Steps = append(pl.Steps, Step{Kind: Pad, Cycles: c})
		}
	}

	pad(pl.LeadIn)
	pl.Steps = append(pl.Steps, Step{Kind: Enable, Cycles: costs.Enable})
	pl.Steps = append(pl.Steps, Step{Kind: Release, Cycles: costs.Release})
	if pl.Settle > 0 {
		pl.Steps = append(pl.Steps, Step{Kind: Settle, Cycles: pl.Settle})
	}

	// the first byte was staged by the dispatch handler. the remaining bytes
	// are loaded and written one slot at a time. a buffered channel is
	// written as early as possible in the slot and an immediate channel is
	// written at the end of the slot
	for k := 1; k < n; k++ {
		pl.Steps = append(pl.Steps, Step{Kind: Load, Cycles: tab.Cost(cycles.LPM), Byte: k})
		if immediate {
			pad(pl.Padding)
			pl.Steps = append(pl.Steps, Step{Kind: Write, Cycles: costs.Write, Byte: k})
		} else {
			pl.Steps = append(pl.Steps, Step{Kind: Write, Cycles: costs.Write, Byte: k})
			pad(pl.Padding)
		}
	}

	// the last byte occupies a full slot and is followed by the tail
	drain := pl.Slot + pl.Tail - costs.Disable
	if drain < 0 {
		return Plan{}, curated.Errorf(SlotOverrun, p.ID, costs.Disable, pl.Slot+pl.Tail)
	}
	pad(drain)
	pl.Steps = append(pl.Steps, Step{Kind: Disable, Cycles: costs.Disable})

	return pl, nil
}

// Cost is the number of clocks from the end of the release step to the end of
// the disable step, not counting the settle interval. This is the visible
// window less the settle interval of the channel.
func (pl Plan) Cost() int {
	var n int
	var counting bool
	for _, s := range pl.Steps {
		if counting && s.Kind != Settle {
			n += s.Cycles
		}
		if s.Kind == Release {
			counting = true
		}
	}
	return n
}

// Duration is the number of clocks of all steps in the plan.
func (pl Plan) Duration() int {
	var n int
	for _, s := range pl.Steps {
		n += s.Cycles
	}
	return n
}

func (pl Plan) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s (%s, %s)\n", pl.Profile.ID, pl.Strategy, pl.Costs))
	b.WriteString(fmt.Sprintf("window %d settle %d slot %d padding %d tail %d lead-in %d\n",
		pl.Window, pl.Settle, pl.Slot, pl.Padding, pl.Tail, pl.LeadIn))
	b.WriteString(fmt.Sprintf("dispatch ends %d (compare at %d) burst ends %d (line is %d)",
		pl.DispatchEnd, pl.Compare, pl.BurstEnd, pl.LineCycles))
	return b.String()
}
