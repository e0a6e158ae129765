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

package paths_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/jetsetilly/syncline/paths"
	"github.com/jetsetilly/syncline/test"
)

func TestPaths(t *testing.T) {
	t.Chdir(t.TempDir())
	test.DemandSuccess(t, os.Mkdir(".syncline", 0o700))

	pth, err := paths.ResourcePath("foo/bar", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".syncline", "foo", "bar", "baz"))

	fi, err := os.Stat(filepath.Join(".syncline", "foo", "bar"))
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, fi.IsDir())

	pth, err = paths.ResourcePath("", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".syncline", "baz"))

	pth, err = paths.ResourcePath("", "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".syncline")
}

func TestUniqueFilename(t *testing.T) {
	fn := paths.UniqueFilename("capture", "640x480@60", "png")
	test.ExpectSuccess(t, regexp.MustCompile(`^capture_640x480_60_\d{8}_\d{6}\.png$`).MatchString(fn), fn)

	fn = paths.UniqueFilename("capture", "", ".wav")
	test.ExpectSuccess(t, regexp.MustCompile(`^capture_\d{8}_\d{6}\.wav$`).MatchString(fn), fn)
}
