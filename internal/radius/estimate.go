package radius

import (
	"context"
	"fmt"
	"image"

	"github.com/voidshard/pixelvoronoi/internal/parallel"
)

// ErrTooFewSites is returned when there are not enough sites to measure
// spacing between them.
var ErrTooFewSites = fmt.Errorf("adaptive radius needs at least two sites")

// Estimate bounds how far each site's circle should grow.
//
// For site i we sum the Chebyshev (pixel) distance to every site, itself
// included, & divide by 2N: roughly half the average spacing, which is about
// where neighbouring circles ought to meet.
//
// Nb. this is only a heuristic. Where sites are unevenly spread circles can
// stop short of each other & leave pixels unassigned.
func Estimate(ctx context.Context, pixels []image.Point, workers int) ([]int, error) {
	n := len(pixels)
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewSites, n)
	}

	radii := make([]int, n)
	err := parallel.For(ctx, n, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			acc := 0
			for _, q := range pixels {
				acc += chebyshev(pixels[i], q)
			}
			radii[i] = acc / (2 * n)
		}
	})
	return radii, err
}

// chebyshev distance between two pixels
func chebyshev(a, b image.Point) int {
	return maxint(absint(a.X-b.X), absint(a.Y-b.Y))
}

// absint returns |a|
func absint(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// maxint returns the highest of two ints
func maxint(a, b int) int {
	if a > b {
		return a
	}
	return b
}
