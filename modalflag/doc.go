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

// Package modalflag wraps the flag package of the standard library. It handles
// program modes, and sub-modes, each with their own flags.
//
// Unlike flag.FlagSet, the arguments are given to NewArgs() and Parse() is
// called with no arguments:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "CAPTURE", "VERIFY")
//	p, err := md.Parse()
//
// After Parse() the Mode() function says which mode was selected. If none of
// the sub-modes was given then the first sub-mode is selected. Mode names are
// case insensitive and always returned in upper case.
//
// The flags for the selected mode are added after a call to NewMode(). The
// next call to Parse() continues from the argument after the mode name:
//
//	switch md.Mode() {
//	case "CAPTURE":
//		md.NewMode()
//		frames := md.AddInt("frames", 1, "number of frames to capture")
//		png := md.AddString("png", "", "save last frame as png")
//		switch p, err := md.Parse(); p {
//		case modalflag.ParseHelp:
//			return nil
//		case modalflag.ParseError:
//			return err
//		}
//		return capture(*frames, *png, md.RemainingArgs())
//	}
//
// Flags restricted to a set of values are added with AddChoice(). Parse()
// returns an error if the flag is given a value outside the set.
//
//	md.AddChoice("gui", "ebiten", []string{"ebiten", "sdl", "term"}, "display")
//
// The -help flag is handled automatically and prints the flags and sub-modes
// of the current mode.
package modalflag
