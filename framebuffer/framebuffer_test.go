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

package framebuffer_test

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/framebuffer"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
	"github.com/jetsetilly/syncline/test"
)

func TestSerialPixels(t *testing.T) {
	fb := framebuffer.New(profile.VGA640x480)
	test.ExpectEquality(t, fb.Width(), 192)
	test.ExpectEquality(t, fb.Height(), 240)

	fb.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})
	fb.Set(9, 0, color.RGBA{B: 1, A: 0xff})
	test.ExpectEquality(t, fb.Data[0], uint8(0x80))
	test.ExpectEquality(t, fb.Data[1], uint8(0x40))
	test.ExpectEquality(t, fb.Pixel(0, 0), color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	test.ExpectEquality(t, fb.Pixel(1, 0), color.RGBA{A: 0xff})
	test.ExpectEquality(t, fb.Lit(), 2)

	fb.Set(0, 0, color.RGBA{A: 0xff})
	test.ExpectEquality(t, fb.Data[0], uint8(0x00))

	// outside of the framebuffer
	fb.Set(192, 0, color.RGBA{R: 0xff})
	fb.Set(0, 240, color.RGBA{R: 0xff})
	test.ExpectEquality(t, fb.Lit(), 1)
	test.ExpectEquality(t, fb.Pixel(-1, 0), color.RGBA{A: 0xff})
}

func TestPortPixels(t *testing.T) {
	fb := framebuffer.New(profile.VGA640x480Port)
	test.ExpectEquality(t, fb.Width(), 56)
	test.ExpectEquality(t, fb.Height(), 120)

	fb.Set(3, 2, color.RGBA{R: 85, G: 170, B: 255, A: 0xff})
	test.ExpectEquality(t, fb.Row(2)[3], uint8(0b00_10_01_11))
	test.ExpectEquality(t, fb.Pixel(3, 2), color.RGBA{R: 85, G: 170, B: 255, A: 0xff})

	// quantisation
	fb.Set(4, 2, color.RGBA{R: 90, G: 140, B: 20, A: 0xff})
	test.ExpectEquality(t, fb.Pixel(4, 2), color.RGBA{R: 85, G: 170, B: 0, A: 0xff})

	img := fb.Image()
	test.ExpectEquality(t, img.Bounds().Dx(), 56)
	test.ExpectEquality(t, img.RGBAAt(3, 2), color.RGBA{R: 85, G: 170, B: 255, A: 0xff})
}

func TestFile(t *testing.T) {
	p := profile.SVGA800x600
	fb, err := framebuffer.Pattern(p, "checker")
	test.DemandSuccess(t, err)

	fn := filepath.Join(t.TempDir(), "fb.raw")
	test.DemandSuccess(t, fb.Save(fn))

	ld, err := framebuffer.Load(p, fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(ld.Data), string(fb.Data))

	// the same file is the wrong size for another profile
	_, err = framebuffer.Load(profile.VGA640x480, fn)
	test.ExpectSuccess(t, curated.Is(err, framebuffer.WrongSize))

	_, err = framebuffer.Load(p, filepath.Join(t.TempDir(), "missing"))
	test.ExpectFailure(t, err)
}

func TestPatterns(t *testing.T) {
	for _, p := range profile.All() {
		for _, n := range framebuffer.PatternNames() {
			fb, err := framebuffer.Pattern(p, n)
			test.DemandSuccess(t, err, p.ID, n)
			test.ExpectSuccess(t, fb.Lit() > 0, p.ID, n)
			test.ExpectEquality(t, len(fb.Data), p.FramebufferSize(), p.ID, n)
		}
	}

	fb, err := framebuffer.Pattern(profile.VGA640x480, "BORDER")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, fb.Pixel(0, 100), color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	test.ExpectEquality(t, fb.Pixel(191, 239), color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	test.ExpectEquality(t, fb.Pixel(1, 1), color.RGBA{A: 0xff})

	_, err = framebuffer.Pattern(profile.VGA640x480, "nothing")
	test.ExpectSuccess(t, curated.Is(err, framebuffer.UnknownPattern))
}
