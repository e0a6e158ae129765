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

package environment_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/syncline/environment"
	"github.com/jetsetilly/syncline/hardware/preferences"
	"github.com/jetsetilly/syncline/logger"
	"github.com/jetsetilly/syncline/prefs"
	"github.com/jetsetilly/syncline/test"
)

func TestEnvironment(t *testing.T) {
	p, err := preferences.NewPreferencesFile(filepath.Join(t.TempDir(), prefs.DefaultPrefsFile))
	test.DemandSuccess(t, err)

	main, err := environment.NewEnvironment(environment.MainEmulation, p)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, main.IsMainEmulation())
	test.ExpectEquality(t, main.String(), "main")

	bench, err := environment.NewEnvironment("bench", p)
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, bench.IsMainEmulation())
	test.ExpectSuccess(t, bench.IsEmulation("bench"))
	test.ExpectSuccess(t, main.Prefs == bench.Prefs)

	log := logger.NewLogger(10)
	w := &strings.Builder{}

	log.Log(bench, "vga", "visible")
	bench.Quiet(true)
	log.Log(bench, "vga", "not visible")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "vga: visible\n")
}
