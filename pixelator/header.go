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

package pixelator

import (
	"fmt"
	"io"
	"strings"

	"github.com/jetsetilly/syncline/curated"
	"github.com/jetsetilly/syncline/framebuffer"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
)

// nominal resolution of the mode, for example 640x480 for 640x480@60
func resolution(p profile.Profile) string {
	r, _, _ := strings.Cut(p.Mode, "@")
	return r
}

// WriteHeader writes the framebuffer as a C header suitable for placing in the
// program memory of the MCU.
func WriteHeader(w io.Writer, fb *framebuffer.Framebuffer) error {
	p := fb.Profile

	output := "USART"
	bits := 1
	if p.Channel == profile.Port {
		output = "PORT"
		bits = p.PortWidth
	}

	res := resolution(p)
	hres, vres, _ := strings.Cut(res, "x")

	var b strings.Builder

	b.WriteString("/* generated by syncline. do not edit */\n\n")
	b.WriteString(fmt.Sprintf("#define RESOLUTION_%s\n", res))
	b.WriteString(fmt.Sprintf("#define PALETTE_%dBIT\n", bits))
	b.WriteString(fmt.Sprintf("#define OUTPUT_%s\n\n", output))
	b.WriteString(fmt.Sprintf("const unsigned short vRes = %s;\n", vres))
	b.WriteString(fmt.Sprintf("const unsigned short hRes = %s;\n", hres))
	b.WriteString(fmt.Sprintf("const unsigned short vPixels = %d;\n", fb.Height()))
	b.WriteString(fmt.Sprintf("const unsigned short hPixels = %d;\n", fb.Width()))
	b.WriteString(fmt.Sprintf("const unsigned char vBytes = %d;\n", p.Rows()))
	b.WriteString(fmt.Sprintf("const unsigned char hBytes = %d;\n\n", p.BytesPerRow))
	b.WriteString("const unsigned char frameBuffer[vBytes][hBytes] PROGMEM = {\n")

	for y := range p.Rows() {
		b.WriteString("    {")
		for i, v := range fb.Row(y) {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(fmt.Sprintf("0x%02X", v))
		}
		b.WriteString("}")
		if y < p.Rows()-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("};\n")

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return curated.Errorf("pixelator: %v", err)
	}
	return nil
}
