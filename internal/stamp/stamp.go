package stamp

import (
	"context"
	"fmt"
	"image"

	"github.com/voidshard/pixelvoronoi/internal/circle"
	"github.com/voidshard/pixelvoronoi/internal/parallel"
)

// Growth is an inclusive range of radii to draw for one site.
// From > To draws nothing.
type Growth struct {
	From int
	To   int
}

// Uniform returns a radius table giving all n sites the same max radius.
func Uniform(n, r int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = r
	}
	return out
}

// StampAll grows a circle around every site from radius 0 up to radii[site].
// See Grow.
func StampAll(ctx context.Context, b *Buffer, centres []image.Point, radii []int, workers int) error {
	if len(radii) != len(centres) {
		return fmt.Errorf("%d radii given for %d sites", len(radii), len(centres))
	}
	growth := make([]Growth, len(radii))
	for i, r := range radii {
		growth[i] = Growth{From: 0, To: r}
	}
	return Grow(ctx, b, centres, growth, workers)
}

// Grow draws, for each site, the rings growth[site].From .. growth[site].To
// in increasing order around the site's centre, recording in the site's
// plane of the buffer the smallest radius that touched each pixel.
//
// Sites are handled in parallel; each only writes its own plane of the
// buffer. Ring offsets that fall off the grid are dropped.
func Grow(ctx context.Context, b *Buffer, centres []image.Point, growth []Growth, workers int) error {
	if len(centres) != b.Sites || len(growth) != b.Sites {
		return fmt.Errorf("buffer holds %d sites, given %d centres & %d growth ranges", b.Sites, len(centres), len(growth))
	}

	return parallel.For(ctx, b.Sites, workers, func(lo, hi int) {
		for s := lo; s < hi; s++ {
			b.grow(s, centres[s], growth[s])
		}
	})
}

// grow draws rings for a single site
func (b *Buffer) grow(site int, centre image.Point, g Growth) {
	from := g.From
	if from < 0 {
		from = 0
	}

	var r int32
	plot := circle.PlotterFunc(func(dx, dy int) {
		x, y := centre.X+dx, centre.Y+dy
		if !b.inBounds(x, y) {
			return
		}
		i := b.Index(x, y, site)
		if r < b.Radius[i] {
			b.Radius[i] = r
		}
	})

	for radius := from; radius <= g.To; radius++ {
		r = int32(radius)
		circle.Draw(plot, radius)
	}
}
