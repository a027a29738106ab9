package reduce

import (
	"context"
	"math"

	"github.com/voidshard/pixelvoronoi/internal/parallel"
	"github.com/voidshard/pixelvoronoi/internal/stamp"
)

// ChunkSize returns ceil(sqrt(n)), 0 for n <= 0
func ChunkSize(n int) int {
	if n <= 0 {
		return 0
	}
	c := int(math.Sqrt(float64(n)))
	for c*c < n {
		c++
	}
	for c > 1 && (c-1)*(c-1) >= n {
		c--
	}
	return c
}

// ChunkBuffer holds the best entry of each chunk of sites for every pixel:
// Width x Height x Slots entries, indexed (y*Width + x)*Slots + chunk.
//
// Sites are cut into chunks of ChunkSize(N) consecutive indices; the last
// chunk may be short & slots past the last chunk stay absent.
type ChunkBuffer struct {
	Width     int
	Height    int
	Sites     int
	ChunkSize int
	Chunks    int
	Slots     int
	Entries   []Entry
}

// NewChunkBuffer returns an empty chunk buffer for a grid of `sites` sites
func NewChunkBuffer(width, height, sites int) *ChunkBuffer {
	size := ChunkSize(sites)
	chunks := 0
	if size > 0 {
		chunks = (sites + size - 1) / size
	}

	c := &ChunkBuffer{
		Width:     width,
		Height:    height,
		Sites:     sites,
		ChunkSize: size,
		Chunks:    chunks,
		Slots:     size,
		Entries:   make([]Entry, width*height*size),
	}
	for i := range c.Entries {
		c.Entries[i] = absent
	}
	return c
}

// Pixel returns the chunk entries of pixel p; the slice aliases the buffer.
func (c *ChunkBuffer) Pixel(p int) []Entry {
	return c.Entries[p*c.Slots : (p+1)*c.Slots]
}

// Fill is the first pass: for every (pixel, chunk) scan the chunk's sites
// & record the best radius with its global site index.
func (c *ChunkBuffer) Fill(ctx context.Context, b *stamp.Buffer, workers int) error {
	return parallel.For(ctx, b.Pixels()*c.Chunks, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			p, k := i/c.Chunks, i%c.Chunks
			first := k * c.ChunkSize
			last := first + c.ChunkSize
			if last > c.Sites {
				last = c.Sites
			}
			cell := b.Cell(p)
			c.Entries[p*c.Slots+k] = scan(cell[first:last], first)
		}
	})
}

// Resolve is the second pass: scan each pixel's chunk entries in order &
// keep the best. Chunks are in site order, so strict < keeps the lowest
// site index on ties.
func (c *ChunkBuffer) Resolve(ctx context.Context, workers int) ([]int32, error) {
	out := make([]int32, c.Width*c.Height)
	err := parallel.For(ctx, len(out), workers, func(lo, hi int) {
		for p := lo; p < hi; p++ {
			best := absent
			for _, e := range c.Pixel(p) {
				if e.Radius < best.Radius {
					best = e
				}
			}
			out[p] = best.Site
		}
	})
	return out, err
}

// reduceSqrt runs both passes with a barrier between them
func reduceSqrt(ctx context.Context, b *stamp.Buffer, workers int) ([]int32, error) {
	c := NewChunkBuffer(b.Width, b.Height, b.Sites)
	err := c.Fill(ctx, b, workers)
	if err != nil {
		return nil, err
	}
	return c.Resolve(ctx, workers)
}
