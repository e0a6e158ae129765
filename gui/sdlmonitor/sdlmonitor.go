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

// Package sdlmonitor shows monitor frames in a window using SDL. Frames are
// streamed to a texture that is stretched to the window.
package sdlmonitor

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/gui"
)

// the size of the window before the first frame arrives
const (
	initialWidth  = 640
	initialHeight = 480
)

// how often the event queue is checked when no frames are arriving
const pollPeriod = 5 * time.Millisecond

// bytes per pixel of the texture
const pixelDepth = 4

type screen struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	width  int32
	height int32
}

func newScreen(g *gui.GUI) (*screen, error) {
	scr := &screen{}

	var err error

	scr.window, err = sdl.CreateWindow(g.Title,
		int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
		int32(initialWidth*g.Scale), int32(initialHeight*g.Scale),
		uint32(sdl.WINDOW_SHOWN)|uint32(sdl.WINDOW_RESIZABLE))
	if err != nil {
		return nil, curated.Errorf("sdl: %v", err)
	}

	scr.renderer, err = sdl.CreateRenderer(scr.window, -1, uint32(sdl.RENDERER_ACCELERATED)|uint32(sdl.RENDERER_PRESENTVSYNC))
	if err != nil {
		scr.window.Destroy()
		return nil, curated.Errorf("sdl: %v", err)
	}

	return scr, nil
}

func (scr *screen) destroy() {
	if scr.texture != nil {
		scr.texture.Destroy()
	}
	scr.renderer.Destroy()
	scr.window.Destroy()
}

// resize the texture to match the frame. the logical size of the renderer
// includes the aspect correction of the frame
func (scr *screen) resize(f gui.Frame) error {
	w := int32(f.Image.Bounds().Dx())
	h := int32(f.Image.Bounds().Dy())

	if scr.texture == nil || w != scr.width || h != scr.height {
		if scr.texture != nil {
			scr.texture.Destroy()
		}

		var err error
		scr.texture, err = scr.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888), int(sdl.TEXTUREACCESS_STREAMING), w, h)
		if err != nil {
			scr.texture = nil
			return curated.Errorf("sdl: %v", err)
		}
		scr.width = w
		scr.height = h
	}

	lw := int32(float64(w)*f.Aspect() + 0.5)
	if err := scr.renderer.SetLogicalSize(lw, h); err != nil {
		return curated.Errorf("sdl: %v", err)
	}

	return nil
}

func (scr *screen) show(f gui.Frame) error {
	if err := scr.resize(f); err != nil {
		return err
	}

	pixels, pitch, err := scr.texture.Lock(nil)
	if err != nil {
		return curated.Errorf("sdl: %v", err)
	}

	img := f.Image
	rowBytes := int(scr.width) * pixelDepth
	for y := range int(scr.height) {
		copy(pixels[y*pitch:y*pitch+rowBytes], img.Pix[y*img.Stride:y*img.Stride+rowBytes])
	}
	scr.texture.Unlock()

	if err := scr.renderer.SetDrawColor(0, 0, 0, 255); err != nil {
		return curated.Errorf("sdl: %v", err)
	}
	if err := scr.renderer.Clear(); err != nil {
		return curated.Errorf("sdl: %v", err)
	}
	if err := scr.renderer.Copy(scr.texture, nil, nil); err != nil {
		return curated.Errorf("sdl: %v", err)
	}
	scr.renderer.Present()

	return nil
}

// returns true if the user has asked to quit
func service() bool {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			return true
		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYDOWN {
				switch ev.Keysym.Scancode {
				case sdl.SCANCODE_ESCAPE, sdl.SCANCODE_Q:
					return true
				}
			}
		}
	}
	return false
}

// Launch opens the window and runs until the user closes it or the End
// channel of the GUI is closed. Must be called from the main thread.
func Launch(g *gui.GUI) error {
	defer g.Close()

	err := sdl.Init(sdl.INIT_VIDEO)
	if err != nil {
		return curated.Errorf("sdl: %v", err)
	}
	defer sdl.Quit()

	scr, err := newScreen(g)
	if err != nil {
		return err
	}
	defer scr.destroy()

	tick := time.NewTicker(pollPeriod)
	defer tick.Stop()

	for {
		if service() {
			return nil
		}

		select {
		case <-g.End:
			return nil
		case f := <-g.Frames:
			err := scr.show(f)
			g.Recycle(f.Image)
			if err != nil {
				return err
			}
			g.Presented()
		case <-tick.C:
		}
	}
}
