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

// Package test bundles a bunch of useful functions useful for testing
// purposes, particular useful in conjunction with the standard go test harness
//
// The ExpectFailure and ExpectSuccess functions test for failure and success
// under generic conditions. The documentation for those functions describe the
// currently supported types.
//
// It is worth describing how the "Expect" functions handle the nil type
// because it is not obvious. The nil type is considered a success and
// consequently will cause ExpectFailure to fail and ExpectSuccess to succeed.
// This may not be how we want to interpret nil in all situations but because
// of how errors usually works (nil to indicate no error) we *need* to interpret
// nil in this way.
//
// The ExpectEquality and ExpectInequality functions compare like-typed values.
// ExpectApproximate compares numeric values within a tolerance, useful for
// measured frequencies and periods.
//
// The Demand functions are the same as the Expect functions except that they
// stop the test immediately on failure.
//
// All functions accept optional tags. Tags are printed at the start of a
// failure message and are useful when a test loops over many cases.
//
// The CompareWriter and RingWriter types implement the io.Writer interface and
// should be used to capture output.
package test
