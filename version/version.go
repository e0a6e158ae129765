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

// Package version reports the version of the program. Values are read from
// the build information where possible.
package version

import (
	"fmt"
	"runtime/debug"
)

// The name to use when referring to the application.
const ApplicationName = "Syncline"

// if number is empty then the project was probably not built using the
// makefile. set with -ldflags "-X github.com/jetsetilly/syncline/version.number=v0.1.0"
var number string

var (
	version   string
	revision  string
	goVersion string
)

// Version returns the version string, the revision string and whether this
// is a numbered release.
//
// If the version string is "unreleased" then the project has been built
// without a version number but with vcs information. If the version string
// is "local" then there is neither, which happens with "go run .".
//
// The revision string is suffixed with "+dirty" if the source has been
// modified but has not been committed.
func Version() (string, string, bool) {
	return version, revision, number != "" && version == number
}

// Banner returns a single line description of the program version, suitable
// for the VERSION mode and the title of monitor windows.
func Banner() string {
	v, r, release := Version()
	if release {
		return fmt.Sprintf("%s %s", ApplicationName, v)
	}
	return fmt.Sprintf("%s %s (%s) %s", ApplicationName, v, r, goVersion)
}

func init() {
	var vcs bool
	var vcsRevision string
	var vcsModified bool

	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
		for _, v := range info.Settings {
			switch v.Key {
			case "vcs":
				vcs = true
			case "vcs.revision":
				vcsRevision = v.Value
			case "vcs.modified":
				vcsModified = v.Value == "true"
			}
		}
	}

	switch {
	case vcsRevision == "":
		revision = "no revision information"
	case vcsModified:
		revision = fmt.Sprintf("%s+dirty", vcsRevision)
	default:
		revision = vcsRevision
	}

	switch {
	case number != "":
		version = number
	case vcs:
		version = "unreleased"
	default:
		version = "local"
	}
}
