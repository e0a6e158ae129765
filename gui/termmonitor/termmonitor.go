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

// Package termmonitor shows monitor frames in a terminal that supports 24-bit
// colour. Useful over a remote connection where there is no window system.
//
// The terminal is put into cbreak mode so that key presses are seen
// immediately. The Q and Escape keys quit.
package termmonitor

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/term"
	xterm "golang.org/x/term"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/gui"
	"github.com/jetsetilly/syncline/logger"
)

// Sentinel error returned when the output is not a terminal.
const NotTerminal = "termmonitor: output is not a terminal"

// the terminal is redrawn at most this often
const redrawPeriod = time.Second / 15

// the device used for reading key presses
const ttyDevice = "/dev/tty"

const (
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	clearScreen = "\x1b[2J"
)

// keys reads key presses until the GUI is closed
func keys(g *gui.GUI, tty *term.Term) {
	buf := make([]byte, 1)
	for {
		select {
		case <-g.Quit:
			return
		case <-g.End:
			return
		default:
		}

		n, err := tty.Read(buf)
		if err != nil || n == 0 {
			continue
		}

		switch buf[0] {
		case 'q', 'Q', 0x1b:
			g.Close()
			return
		}
	}
}

// Launch draws frames to the output until the user quits or the End channel
// of the GUI is closed.
func Launch(g *gui.GUI, out *os.File) error {
	defer g.Close()

	fd := int(out.Fd())
	if !xterm.IsTerminal(fd) {
		return curated.Errorf(NotTerminal)
	}

	tty, err := term.Open(ttyDevice)
	if err != nil {
		return curated.Errorf("termmonitor: %v", err)
	}
	defer tty.Close()

	err = tty.SetCbreak()
	if err != nil {
		return curated.Errorf("termmonitor: %v", err)
	}
	defer tty.Restore()

	err = tty.SetReadTimeout(redrawPeriod)
	if err != nil {
		return curated.Errorf("termmonitor: %v", err)
	}

	go keys(g, tty)

	fmt.Fprint(out, hideCursor, clearScreen)
	defer fmt.Fprint(out, reset, showCursor, "\n")

	var last time.Time

	for {
		select {
		case <-g.End:
			return nil
		case <-g.Quit:
			return nil
		case f := <-g.Frames:
			if time.Since(last) < redrawPeriod {
				g.Recycle(f.Image)
				continue
			}
			last = time.Now()

			cols, rows, err := xterm.GetSize(fd)
			if err != nil {
				g.Recycle(f.Image)
				return curated.Errorf("termmonitor: %v", err)
			}

			status := f.Info.String()
			if !f.Info.IsSynced {
				status = "out of sync"
			}

			// the last row of the terminal is the status line
			err = Render(out, f, cols, rows-1, status)
			g.Recycle(f.Image)
			if err != nil {
				logger.Log(logger.Allow, "termmonitor", err)
				return nil
			}
			g.Presented()
		}
	}
}
