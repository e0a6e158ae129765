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

package mcu

import "fmt"

// Stats records how an interrupt vector has been serviced.
type Stats struct {
	Count int

	// clocks from the interrupt flag being raised to the first instruction of
	// the handler
	MinLatency int
	MaxLatency int

	// clocks from the start of servicing to the completion of the RETI
	MinLength int
	MaxLength int
}

func (s *Stats) record(latency int, length int) {
	if s.Count == 0 {
		s.MinLatency = latency
		s.MaxLatency = latency
		s.MinLength = length
		s.MaxLength = length
	} else {
		s.MinLatency = min(s.MinLatency, latency)
		s.MaxLatency = max(s.MaxLatency, latency)
		s.MinLength = min(s.MinLength, length)
		s.MaxLength = max(s.MaxLength, length)
	}
	s.Count++
}

// Jitter is the difference between the maximum and minimum latency.
func (s Stats) Jitter() int {
	return s.MaxLatency - s.MinLatency
}

func (s Stats) String() string {
	if s.Count == 0 {
		return "not serviced"
	}
	return fmt.Sprintf("%d serviced, latency %d-%d, length %d-%d", s.Count, s.MinLatency, s.MaxLatency, s.MinLength, s.MaxLength)
}
