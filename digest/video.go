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

package digest

import (
	"crypto/sha1"
	"fmt"
	"image"

	"github.com/jetsetilly/syncline/monitor"
)

// Video is an implementation of the monitor.FrameRenderer interface. It
// generates a sha1 value of the image every frame. The digest of each frame
// is chained with the digest of the previous frame.
type Video struct {
	digest   [sha1.Size]byte
	pixels   []byte
	frameNum int

	// only frames for which the monitor is synchronised are included in the
	// digest
	SyncedOnly bool
}

const pixelDepth = 3

// NewVideo is the preferred method of initialisation for the Video type.
func NewVideo() *Video {
	return &Video{
		SyncedOnly: true,
	}
}

func (dig *Video) String() string {
	return dig.Hash()
}

// Hash implements digest.Digest interface.
func (dig *Video) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements digest.Digest interface.
func (dig *Video) ResetDigest() {
	clear(dig.digest[:])
	dig.frameNum = 0
}

// Frames returns the number of frames included in the digest.
func (dig *Video) Frames() int {
	return dig.frameNum
}

// Render implements the monitor.FrameRenderer interface.
func (dig *Video) Render(img *image.RGBA, info monitor.FrameInfo) error {
	if dig.SyncedOnly && !info.IsSynced {
		return nil
	}

	b := img.Bounds()

	// length of pixels array contains enough room for the previous frames
	// digest value
	l := len(dig.digest) + b.Dx()*b.Dy()*pixelDepth
	if len(dig.pixels) != l {
		dig.pixels = make([]byte, l)
	}

	// chain fingerprints by copying the value of the last fingerprint to the
	// head of the video data
	n := copy(dig.pixels, dig.digest[:])

	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			n += copy(dig.pixels[n:], img.Pix[i:i+pixelDepth])
			i += 4
		}
	}

	dig.digest = sha1.Sum(dig.pixels)
	dig.frameNum++

	return nil
}
