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

package paths

import (
	"fmt"
	"strings"
	"time"
)

// UniqueFilename creates a filename that, assuming a functioning clock, should
// not collide with any existing file. The function does not check for this.
//
// Used to name captures when no filename is given. The format is:
//
//	prepend_profile_YYYYMMDD_HHMMSS.ext
//
// Characters in the profile ID that are awkward in filenames are replaced.
// If the profile is empty then that part is omitted.
func UniqueFilename(prepend string, profile string, ext string) string {
	n := time.Now()
	timestamp := fmt.Sprintf("%04d%02d%02d_%02d%02d%02d", n.Year(), n.Month(), n.Day(), n.Hour(), n.Minute(), n.Second())

	p := strings.TrimSpace(profile)
	p = strings.NewReplacer("@", "_", "/", "_", " ", "_").Replace(p)

	var fn string
	if p != "" {
		fn = fmt.Sprintf("%s_%s_%s", prepend, p, timestamp)
	} else {
		fn = fmt.Sprintf("%s_%s", prepend, timestamp)
	}

	if ext != "" {
		fn = fmt.Sprintf("%s.%s", fn, strings.TrimPrefix(ext, "."))
	}

	return fn
}
