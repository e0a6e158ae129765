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
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title  lipgloss.Style
	pass   lipgloss.Style
	fail   lipgloss.Style
	name   lipgloss.Style
	detail lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)),
		pass:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(2)),
		fail:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
		name:   lipgloss.NewStyle().Width(18),
		detail: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
	}
}

// Render writes the report to the writer with colour and alignment.
func (r Report) Render(w io.Writer) error {
	st := newStyles()

	var b strings.Builder

	b.WriteString(st.title.Render(fmt.Sprintf("%s (%s)", r.Profile.ID, r.Costs)))
	b.WriteString("\n")

	for _, c := range r.Checks {
		if c.Passed {
			b.WriteString(st.pass.Render(" ok "))
		} else {
			b.WriteString(st.fail.Render("FAIL"))
		}
		b.WriteString(" ")
		b.WriteString(st.name.Render(c.Name))
		b.WriteString(st.detail.Render(c.Detail))
		b.WriteString("\n")
	}

	var summary string
	if r.Passed() {
		summary = st.pass.Render(fmt.Sprintf("%d checks passed", len(r.Checks)))
	} else {
		summary = st.fail.Render(fmt.Sprintf("%d of %d checks failed", len(r.Failed()), len(r.Checks)))
	}
	if r.Frames > 0 {
		summary = fmt.Sprintf("%s %s", summary, st.detail.Render(fmt.Sprintf("(bench run of %d frames)", r.Frames)))
	}
	b.WriteString(summary)
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
