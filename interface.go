package pixelvoronoi

import (
	"github.com/golang/geo/r2"
)

// SiteSource supplies the sites of a diagram.
// Positions must lie in [0,1]x[0,1]; they are mapped onto the grid with
// floor(x*Width), floor(y*Height). Site i keeps index i in the result.
type SiteSource interface {
	// number of sites
	Count() int

	// normalised position of site i, 0 <= i < Count()
	PositionOf(i int) r2.Point
}

// Points is a SiteSource backed by a slice
type Points []r2.Point

// Count returns len(p)
func (p Points) Count() int {
	return len(p)
}

// PositionOf returns p[i]
func (p Points) PositionOf(i int) r2.Point {
	return p[i]
}
