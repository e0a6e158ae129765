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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error. The pattern is remembered and can
// be used to identify the error later:
//
//	const BadPhases = "profile: %s: phases sum to %d (total is %d)"
//
//	e := curated.Errorf(BadPhases, "horizontal", 62, 63)
//
//	if curated.Is(e, BadPhases) {
//		fmt.Println("true")
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain.
//
//	f := curated.Errorf("vga: %v", e)
//
//	if curated.Has(f, BadPhases) {
//		fmt.Println("true")
//	}
//
// Note that in this example curated.Is(f, BadPhases) is false because f was
// created with a different pattern.
//
// The IsAny() function answers whether the error was created by
// curated.Errorf(). We can think of the difference between curated and
// uncurated errors as being 'expected' and 'unexpected'.
//
// The Error() implementation normalises the error chain by removing duplicate
// adjacent parts. Parts are separated by the sub-string ': ' as suggested on
// p239 of "The Go Programming Language" (Donovan, Kernighan). For example, the
// following will be printed as "vga: flash too small" and not as "vga: vga:
// flash too small".
//
//	err := curated.Errorf("vga: %v", curated.Errorf("vga: flash too small"))
//
// Patterns used for sentinel errors should be stored as exported const strings,
// suitably named and commented.
package curated
