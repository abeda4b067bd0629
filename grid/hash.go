package grid

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// Pack serializes g as a little-endian width and height followed by the
// walkability bits, row-major, most significant bit first. The last byte is
// zero padded.
func Pack(g WalkabilityGrid) []byte {
	w, h := g.Width(), g.Height()
	buf := make([]byte, 8, 8+(w*h+7)/8)
	binary.LittleEndian.PutUint32(buf[0:], uint32(w))
	binary.LittleEndian.PutUint32(buf[4:], uint32(h))
	var cur byte
	bit := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g.Walkable(x, y) {
				cur |= 0x80 >> bit
			}
			bit++
			if bit == 8 {
				buf = append(buf, cur)
				cur, bit = 0, 0
			}
		}
	}
	if bit > 0 {
		buf = append(buf, cur)
	}
	return buf
}

// Hash is the 32-bit walkability hash stored in every navmesh.
func Hash(g WalkabilityGrid) uint32 {
	return uint32(xxh3.Hash(Pack(g)))
}
