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

package prefs_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/prefs"
	"github.com/jetsetilly/syncline/test"
)

func prefsFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), prefs.DefaultPrefsFile)
}

func cmpFile(t *testing.T, fn string, expected string) {
	t.Helper()

	data, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)

	expected = fmt.Sprintf("%s\n%s", prefs.WarningBoilerPlate, expected)
	test.ExpectEquality(t, string(data), expected)
}

func TestBool(t *testing.T) {
	fn := prefsFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v, w, x prefs.Bool
	test.ExpectSuccess(t, dsk.Add("test", &v))
	test.ExpectSuccess(t, dsk.Add("testB", &w))
	test.ExpectSuccess(t, dsk.Add("testC", &x))

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectSuccess(t, w.Set("foo"))
	test.ExpectSuccess(t, x.Set("true"))
	test.ExpectFailure(t, x.Set(1))

	test.DemandSuccess(t, dsk.Save())
	cmpFile(t, fn, "test :: true\ntestB :: false\ntestC :: true\n")
}

func TestInt(t *testing.T) {
	fn := prefsFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v, w prefs.Int
	test.ExpectSuccess(t, dsk.Add("number", &v))
	test.ExpectSuccess(t, dsk.Add("numberB", &w))

	test.ExpectSuccess(t, v.Set(10))
	test.ExpectSuccess(t, w.Set("99"))

	test.DemandSuccess(t, dsk.Save())
	cmpFile(t, fn, "number :: 10\nnumberB :: 99\n")

	test.ExpectFailure(t, v.Set("---"))
	test.ExpectFailure(t, v.Set(1.0))
	test.ExpectEquality(t, v.Get(), prefs.Value(10))
}

func TestFloat(t *testing.T) {
	var v prefs.Float
	test.ExpectEquality(t, v.String(), "0")

	test.ExpectSuccess(t, v.Set(0.5))
	test.ExpectEquality(t, v.String(), "0.5")
	test.ExpectSuccess(t, v.Set("2.25"))
	test.ExpectEquality(t, v.Get(), prefs.Value(2.25))
	test.ExpectSuccess(t, v.Set(3))
	test.ExpectEquality(t, v.Get(), prefs.Value(3.0))
	test.ExpectFailure(t, v.Set("x"))

	v.SetDefault(1.5)
	test.ExpectSuccess(t, v.Set(4.0))
	test.ExpectSuccess(t, v.Reset())
	test.ExpectEquality(t, v.Get(), prefs.Value(1.5))
}

func TestLoad(t *testing.T) {
	fn := prefsFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var s prefs.String
	var i prefs.Int
	s.SetDefault("640x480@60")
	test.ExpectSuccess(t, dsk.Add("profile", &s))
	test.ExpectSuccess(t, dsk.Add("scale", &i))

	// loading a missing file creates it when asked to
	err = dsk.Load(true)
	test.ExpectSuccess(t, curated.Is(err, prefs.NoPrefsFile))
	cmpFile(t, fn, "profile :: 640x480@60\nscale :: 0\n")

	test.ExpectSuccess(t, s.Set("800x600@60"))
	test.ExpectSuccess(t, i.Set(3))
	test.DemandSuccess(t, dsk.Save())

	test.ExpectSuccess(t, dsk.Reset())
	test.ExpectEquality(t, s.String(), "640x480@60")
	test.ExpectEquality(t, i.String(), "0")

	test.DemandSuccess(t, dsk.Load(false))
	test.ExpectEquality(t, s.String(), "800x600@60")
	test.ExpectEquality(t, i.String(), "3")

	test.ExpectSuccess(t, curated.Is(dsk.Add("scale", &i), prefs.DuplicateKey))
}

func TestInvalidFile(t *testing.T) {
	fn := prefsFile(t)
	test.DemandSuccess(t, os.WriteFile(fn, []byte("profile :: 640x480@60\n"), 0o600))

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, curated.Is(dsk.Load(false), prefs.InvalidFile))
}

func TestGeneric(t *testing.T) {
	fn := prefsFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var w, h int

	v := prefs.NewGeneric(
		func(s string) error {
			_, err := fmt.Sscanf(s, "%d,%d", &w, &h)
			return err
		},
		func() string {
			return fmt.Sprintf("%d,%d", w, h)
		},
	)
	test.ExpectSuccess(t, dsk.Add("window", v))

	w = 640
	h = 480
	test.DemandSuccess(t, dsk.Save())
	cmpFile(t, fn, "window :: 640,480\n")

	w = 0
	h = 0
	test.DemandSuccess(t, dsk.Load(false))
	test.ExpectEquality(t, w, 640)
	test.ExpectEquality(t, h, 480)
}

// write a bool and then a string from a different prefs.Disk instance. the
// second write mustn't clobber the results of the first
func TestSharedFile(t *testing.T) {
	fn := prefsFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Bool
	test.ExpectSuccess(t, dsk.Add("test", &v))
	test.ExpectSuccess(t, v.Set(true))
	test.DemandSuccess(t, dsk.Save())

	dsk, err = prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var s prefs.String
	test.ExpectSuccess(t, dsk.Add("foo", &s))
	test.ExpectSuccess(t, s.Set("bar"))
	test.DemandSuccess(t, dsk.Save())

	cmpFile(t, fn, "foo :: bar\ntest :: true\n")
}

func TestMaxStringLength(t *testing.T) {
	var s prefs.String
	test.ExpectSuccess(t, s.Set("123456789"))
	test.ExpectEquality(t, s.String(), "123456789")

	// setting maximum length will crop the existing string
	s.SetMaxLen(5)
	test.ExpectEquality(t, s.String(), "12345")

	// removing the maximum length does not bring back the cropped string
	s.SetMaxLen(0)
	test.ExpectEquality(t, s.String(), "12345")

	s.SetMaxLen(3)
	test.ExpectSuccess(t, s.Set("abcdefghi"))
	test.ExpectEquality(t, s.String(), "abc")
}

func TestCommandLineOverride(t *testing.T) {
	fn := prefsFile(t)

	prefs.PushCommandLineStack("limit::false")
	defer prefs.PopCommandLineStack()

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var limit prefs.Bool
	limit.SetDefault(true)
	test.ExpectSuccess(t, dsk.Add("limit", &limit))
	test.ExpectEquality(t, limit.Get(), prefs.Value(false))

	// overridden values are not changed by loading and the value in the file
	// is preserved by saving
	test.DemandSuccess(t, os.WriteFile(fn, []byte(prefs.WarningBoilerPlate+"\nlimit :: true\n"), 0o600))
	test.DemandSuccess(t, dsk.Load(false))
	test.ExpectEquality(t, limit.Get(), prefs.Value(false))

	test.DemandSuccess(t, dsk.Save())
	cmpFile(t, fn, "limit :: true\n")
}
