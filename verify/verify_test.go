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

package verify_test

import (
	"context"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/framebuffer"
	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/vga/burst"
	"github.com/jetsetilly/syncline/hardware/vga/channel"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
	"github.com/jetsetilly/syncline/logger"
	"github.com/jetsetilly/syncline/test"
	"github.com/jetsetilly/syncline/verify"
)

func TestStatic(t *testing.T) {
	for _, p := range profile.All() {
		r, err := verify.Verify(context.Background(), logger.Allow, p, cycles.ATmega328P_16MHz, nil, 0)
		test.DemandSuccess(t, err, p.ID)
		test.ExpectSuccess(t, r.Passed(), p.ID, r.String())
		test.ExpectEquality(t, r.Frames, 0, p.ID)

		_, ok := r.Lookup("handler costs")
		test.ExpectSuccess(t, ok, p.ID)
		_, ok = r.Lookup("pixels")
		test.ExpectFailure(t, ok, p.ID)
	}
}

func TestBench(t *testing.T) {
	for _, p := range profile.All() {
		fb, err := framebuffer.Pattern(p, "checker")
		test.DemandSuccess(t, err, p.ID)

		r, err := verify.Verify(context.Background(), logger.Allow, p, cycles.ATmega328P_16MHz, fb, verify.MinFrames)
		test.DemandSuccess(t, err, p.ID)
		test.ExpectSuccess(t, r.Passed(), p.ID, r.String())
		test.ExpectEquality(t, r.Frames, verify.MinFrames, p.ID)

		c, ok := r.Lookup("pixels")
		test.ExpectSuccess(t, ok, p.ID)
		test.ExpectSuccess(t, c.Passed, p.ID, c.Detail)
	}
}

// a plan that cannot be built skips the bench run
func TestBrokenPlan(t *testing.T) {
	p := profile.VGA640x480
	p.BytesPerRow = 30

	r, err := verify.Verify(context.Background(), logger.Allow, p, cycles.ATmega328P_16MHz, framebuffer.New(p), 1)
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, r.Passed())

	c, ok := r.Lookup("plan")
	test.DemandSuccess(t, ok)
	test.ExpectFailure(t, c.Passed)

	c, ok = r.Lookup("bench")
	test.DemandSuccess(t, ok)
	test.ExpectFailure(t, c.Passed)

	_, ok = r.Lookup("sync lock")
	test.ExpectFailure(t, ok)
}

func TestWrongFramebuffer(t *testing.T) {
	_, err := verify.Verify(context.Background(), logger.Allow, profile.VGA640x480, cycles.ATmega328P_16MHz,
		framebuffer.New(profile.SVGA800x600), 1)
	test.ExpectSuccess(t, curated.Is(err, verify.WrongFramebuffer))
}

func plan(t *testing.T, p profile.Profile) burst.Plan {
	t.Helper()
	ch, err := channel.New(p)
	test.DemandSuccess(t, err)
	pl, err := burst.Build(p, ch, cycles.ATmega328P_16MHz)
	test.DemandSuccess(t, err)
	return pl
}

func TestExpectedSerial(t *testing.T) {
	p := profile.VGA640x480
	pl := plan(t, p)

	fb := framebuffer.New(p)
	fb.Data[0] = 0x80

	img := verify.Expected(pl, fb)
	test.ExpectEquality(t, img.Bounds().Dx(), p.LineCycles())
	test.ExpectEquality(t, img.Bounds().Dy(), p.Vertical.Total)

	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black := color.RGBA{A: 0xff}

	y := p.Vertical.FirstVisible()
	x := pl.ActiveStart

	test.ExpectEquality(t, img.RGBAAt(x-1, y), black)

	// settle interval
	test.ExpectEquality(t, img.RGBAAt(x, y), white)
	test.ExpectEquality(t, img.RGBAAt(x+pl.Settle-1, y), white)

	// the first bit of the first byte is two clocks long
	x += pl.Settle
	test.ExpectEquality(t, img.RGBAAt(x, y), white)
	test.ExpectEquality(t, img.RGBAAt(x+1, y), white)
	test.ExpectEquality(t, img.RGBAAt(x+2, y), black)

	// the tail and the end of the window
	end := pl.ActiveStart + pl.Window
	test.ExpectEquality(t, img.RGBAAt(end-1, y), white)
	test.ExpectEquality(t, img.RGBAAt(end, y), black)

	// the row is repeated on the next line but not the line after that
	test.ExpectEquality(t, img.RGBAAt(x, y+1), white)
	test.ExpectEquality(t, img.RGBAAt(x, y+2), black)

	// lines outside the visible area are not lit
	test.ExpectEquality(t, img.RGBAAt(end-1, y-1), black)

	// including the lines before the first visible line
	for _, pt := range []image.Point{{0, 0}, {end - 1, 0}, {pl.LineCycles - 1, y - 1}} {
		test.ExpectEquality(t, img.RGBAAt(pt.X, pt.Y), black, pt)
	}
}

func TestExpectedPort(t *testing.T) {
	p := profile.VGA640x480Port
	pl := plan(t, p)

	fb := framebuffer.New(p)
	fb.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})
	fb.Set(1, 0, color.RGBA{B: 0xff, A: 0xff})

	img := verify.Expected(pl, fb)

	y := p.Vertical.FirstVisible()
	x := pl.ActiveStart

	test.ExpectEquality(t, img.RGBAAt(x, y), color.RGBA{R: 0xff, A: 0xff})
	test.ExpectEquality(t, img.RGBAAt(x+pl.Slot-1, y), color.RGBA{R: 0xff, A: 0xff})
	test.ExpectEquality(t, img.RGBAAt(x+pl.Slot, y), color.RGBA{B: 0xff, A: 0xff})
	test.ExpectEquality(t, img.RGBAAt(x+pl.Slot*2, y), color.RGBA{A: 0xff})

	// first line of the frame is in vertical sync
	test.ExpectEquality(t, img.RGBAAt(0, 0), color.RGBA{A: 0xff})
	test.ExpectEquality(t, img.RGBAAt(x, 0), color.RGBA{A: 0xff})
}

func TestCompare(t *testing.T) {
	a := image.NewRGBA(image.Rect(0, 0, 4, 4))
	b := image.NewRGBA(image.Rect(0, 0, 4, 4))

	n, first := verify.Compare(a, b)
	test.ExpectEquality(t, n, 0)
	test.ExpectEquality(t, first, image.Pt(-1, -1))

	b.SetRGBA(3, 1, color.RGBA{R: 1})
	b.SetRGBA(0, 2, color.RGBA{R: 1})
	n, first = verify.Compare(a, b)
	test.ExpectEquality(t, n, 2)
	test.ExpectEquality(t, first, image.Pt(3, 1))

	// different sizes
	c := image.NewRGBA(image.Rect(0, 0, 4, 3))
	n, first = verify.Compare(a, c)
	test.ExpectEquality(t, n, 4)
	test.ExpectEquality(t, first, image.Pt(4, 3))
}

func TestRender(t *testing.T) {
	r, err := verify.Verify(context.Background(), logger.Allow, profile.VGA640x480, cycles.ATmega328P_16MHz, nil, 0)
	test.DemandSuccess(t, err)

	var w strings.Builder
	test.DemandSuccess(t, r.Render(&w))
	test.ExpectSuccess(t, strings.Contains(w.String(), "burst cost"))
	test.ExpectSuccess(t, strings.Contains(w.String(), "checks passed"))
}
