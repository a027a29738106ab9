package encoding

import (
	"image/color"
)

// Split32 uint32 to two uint16
func Split32(in uint32) (uint16, uint16) {
	return uint16(in >> 16), uint16(in)
}

// Merge16 two uint16 to uint32
func Merge16(a, b uint16) uint32 {
	return (uint32(a) << 16) + uint32(b)
}

// PackIndex stores a site index (or -1) in an opaque RGBA64 pixel.
//
//	R [16 bits] -> high bits of index+1
//	G [16 bits] -> low bits of index+1
//	B [16 bits] -> unused
//	A [16 bits] -> always 0xffff, so PNG encoders keep R & G untouched
//
// Storing index+1 makes a fully black pixel mean "unassigned".
func PackIndex(idx int32) color.RGBA64 {
	r, g := Split32(uint32(idx + 1))
	return color.RGBA64{R: r, G: g, A: 0xffff}
}

// UnpackIndex reverses PackIndex
func UnpackIndex(c color.RGBA64) int32 {
	return int32(Merge16(c.R, c.G)) - 1
}
