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

package renderers_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/hardware/signal"
	"github.com/jetsetilly/syncline/logger"
	"github.com/jetsetilly/syncline/monitor"
	"github.com/jetsetilly/syncline/monitor/renderers"
	"github.com/jetsetilly/syncline/test"
)

// a small frame with active high sync pulses and a block of colour
func generate(t *testing.T, mon *monitor.Monitor, frames int) {
	t.Helper()
	for range frames {
		for y := range 50 {
			for x := range 100 {
				sig := signal.Attributes{
					HSync: x < 10,
					VSync: y < 3,
				}
				if x >= 30 && x < 40 && y >= 20 && y <= 30 {
					sig.R, sig.G, sig.B = 0x00, 0x80, 0xff
				}
				test.DemandSuccess(t, mon.Signal(sig))
			}
		}
	}
}

func TestImage(t *testing.T) {
	mon := monitor.NewMonitor(logger.Deny, 3000000)
	imr := renderers.NewImage()
	mon.AddRenderer(imr)

	fn := filepath.Join(t.TempDir(), "frame.png")
	test.ExpectSuccess(t, curated.Is(imr.Save(fn), renderers.NoFrame))

	generate(t, mon, 8)

	frame, info := imr.Frame()
	test.DemandSuccess(t, frame != nil)
	test.ExpectSuccess(t, info.IsSynced)

	test.DemandSuccess(t, imr.Save(fn))
	test.ExpectSuccess(t, curated.Is(imr.Save(fn), renderers.ImageExists))

	f, err := os.Open(fn)
	test.DemandSuccess(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	test.DemandSuccess(t, err)

	// no mode is matched so the image is cropped to the content
	test.ExpectEquality(t, img.Bounds(), image.Rect(0, 0, 10, 11))
	r, g, b, _ := img.At(5, 5).RGBA()
	test.ExpectEquality(t, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xff}, color.RGBA{G: 0x80, B: 0xff, A: 0xff})
}

func TestImageUncropped(t *testing.T) {
	mon := monitor.NewMonitor(logger.Deny, 3000000)
	imr := renderers.NewImage()
	imr.Crop = false
	mon.AddRenderer(imr)

	generate(t, mon, 8)

	img, err := imr.Image()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, img.Bounds(), image.Rect(0, 0, 100, 50))
	test.ExpectEquality(t, img.RGBAAt(35, 25), color.RGBA{G: 0x80, B: 0xff, A: 0xff})
	test.ExpectEquality(t, img.RGBAAt(35, 35), color.RGBA{A: 0xff})
}
