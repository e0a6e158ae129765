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

// Package ebitenmonitor shows monitor frames in a window using ebiten.
package ebitenmonitor

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/gui"
	"github.com/jetsetilly/syncline/monitor"
)

// the size of the window before the first frame arrives
const (
	initialWidth  = 640
	initialHeight = 480
)

type monitorEbiten struct {
	g *gui.GUI

	img    *ebiten.Image
	width  int
	height int
	aspect float64
	info   monitor.FrameInfo
	frames int

	// show the frame information
	status bool
}

func (eg *monitorEbiten) Update() error {
	select {
	case <-eg.g.End:
		return ebiten.Termination
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		eg.status = !eg.status
	}

	select {
	case f := <-eg.g.Frames:
		dim := f.Image.Bounds()
		if eg.img == nil || eg.width != dim.Dx() || eg.height != dim.Dy() {
			if eg.img != nil {
				eg.img.Deallocate()
			}
			eg.width = dim.Dx()
			eg.height = dim.Dy()
			eg.img = ebiten.NewImage(eg.width, eg.height)
		}
		eg.img.WritePixels(f.Image.Pix)
		eg.aspect = f.Aspect()
		eg.info = f.Info
		eg.frames++
		eg.g.Recycle(f.Image)
		eg.g.Presented()
	default:
	}

	return nil
}

func (eg *monitorEbiten) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	if eg.img == nil {
		ebitenutil.DebugPrint(screen, "no signal")
		return
	}

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(eg.aspect, 1)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(eg.img, &op)

	switch {
	case !eg.info.IsSynced:
		ebitenutil.DebugPrint(screen, "out of sync")
	case eg.status:
		ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\ndropped %d", eg.info, eg.g.Dropped()))
	}
}

func (eg *monitorEbiten) Layout(width, height int) (int, int) {
	if eg.img == nil {
		return initialWidth, initialHeight
	}
	return int(float64(eg.width)*eg.aspect + 0.5), eg.height
}

// Launch opens the window and runs until the user closes it or the End
// channel of the GUI is closed. Must be called from the main thread.
func Launch(g *gui.GUI) error {
	defer g.Close()

	ebiten.SetWindowTitle(g.Title)
	ebiten.SetWindowSize(initialWidth*g.Scale, initialHeight*g.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	ebiten.SetRunnableOnUnfocused(true)

	eg := &monitorEbiten{
		g:      g,
		aspect: 1.0,
	}

	err := ebiten.RunGame(eg)
	if err != nil {
		return curated.Errorf("ebiten: %v", err)
	}
	return nil
}
