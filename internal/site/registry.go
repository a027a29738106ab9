package site

import (
	"fmt"
	"image"
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

var (
	// ErrOutOfDomain is returned for a site position outside [0,1]x[0,1]
	// (NaN included). Positions are never clamped.
	ErrOutOfDomain = fmt.Errorf("site position outside the unit square")

	// ErrBadGrid is returned for a grid without positive dimensions.
	ErrBadGrid = fmt.Errorf("grid dimensions must be positive")

	// unitSquare is the closed domain all sites must sit in
	unitSquare = r2.Rect{X: r1.Interval{Lo: 0, Hi: 1}, Y: r1.Interval{Lo: 0, Hi: 1}}
)

// Registry holds immutable site positions for one grid along with their
// pixel coordinates.
type Registry struct {
	width  int
	height int
	pos    []r2.Point
	px     []image.Point
}

// NewRegistry validates the given positions & maps them onto a width x height grid.
// The positions slice is copied.
func NewRegistry(width, height int, positions []r2.Point) (*Registry, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadGrid, width, height)
	}

	reg := &Registry{
		width:  width,
		height: height,
		pos:    make([]r2.Point, len(positions)),
		px:     make([]image.Point, len(positions)),
	}
	for i, p := range positions {
		if !unitSquare.ContainsPoint(p) {
			return nil, fmt.Errorf("%w: site %d at %v", ErrOutOfDomain, i, p)
		}
		reg.pos[i] = p
		reg.px[i] = PixelOf(p, width, height)
	}

	return reg, nil
}

// PixelOf maps a normalised position to pixel space by flooring.
// A coordinate of exactly 1 lands one past the last column / row.
func PixelOf(p r2.Point, width, height int) image.Point {
	return image.Pt(
		int(math.Floor(p.X*float64(width))),
		int(math.Floor(p.Y*float64(height))),
	)
}

// Len is the number of sites
func (r *Registry) Len() int {
	return len(r.pos)
}

// Width of the grid
func (r *Registry) Width() int {
	return r.width
}

// Height of the grid
func (r *Registry) Height() int {
	return r.height
}

// Position of site i in [0,1]x[0,1]
func (r *Registry) Position(i int) r2.Point {
	return r.pos[i]
}

// PixelOf returns the pixel coordinate of site i
func (r *Registry) PixelOf(i int) image.Point {
	return r.px[i]
}

// Positions returns every site position, indexed by site.
// The slice is shared & must not be modified.
func (r *Registry) Positions() []r2.Point {
	return r.pos
}

// Pixels returns every site pixel, indexed by site.
// The slice is shared & must not be modified.
func (r *Registry) Pixels() []image.Point {
	return r.px
}
