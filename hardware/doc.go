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

// Package hardware is the board. It wires the MCU, with the signal generator
// installed, to the VGA connector. The Board samples the connector once per
// system clock and sends the signal to any number of signal.Sink
// implementations, for example the monitor.
//
// The pin assignment is given by the wiring table. It is static and is not
// consulted by the signal generator itself.
package hardware
