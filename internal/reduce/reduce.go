package reduce

import (
	"context"
	"fmt"

	"github.com/voidshard/pixelvoronoi/internal/parallel"
	"github.com/voidshard/pixelvoronoi/internal/stamp"
)

// Unassigned is written for pixels no site reached
const Unassigned int32 = -1

// Method selects how the per-site radii of a pixel are reduced to a single site.
type Method int

const (
	// Linear scans every site of every pixel.
	Linear Method = iota
	// Tree folds each pixel's sites pairwise in log2(N) rounds.
	Tree
	// Sqrt finds the best site of each block of ceil(sqrt(N)) sites, then the
	// best block.
	Sqrt
)

// String returns the method name
func (m Method) String() string {
	switch m {
	case Linear:
		return "linear"
	case Tree:
		return "tree"
	case Sqrt:
		return "sqrt"
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// Entry is a candidate (radius, site) pair
type Entry struct {
	Radius int32
	Site   int32
}

// absent is the entry for "nothing found"
var absent = Entry{Radius: stamp.Infinity, Site: Unassigned}

// better reports if a should replace b: a smaller radius, or the same radius
// from a lower site index. Unreached entries never win.
func better(a, b Entry) bool {
	if a.Site == Unassigned || a.Radius >= stamp.Infinity {
		return false
	}
	if b.Site == Unassigned {
		return true
	}
	return a.Radius < b.Radius || (a.Radius == b.Radius && a.Site < b.Site)
}

// Reduce collapses the buffer to one site index per pixel (y*Width + x)
// using the given method. Every method gives the same answer: the site with
// the smallest radius, the lowest index on ties, or Unassigned.
func Reduce(ctx context.Context, b *stamp.Buffer, m Method, workers int) ([]int32, error) {
	switch m {
	case Linear:
		return reduceLinear(ctx, b, workers)
	case Tree:
		return reduceTree(ctx, b, workers)
	case Sqrt:
		return reduceSqrt(ctx, b, workers)
	}
	return nil, fmt.Errorf("unknown reduction method %d", int(m))
}

// reduceLinear is the reference: a plain scan of every site slot.
func reduceLinear(ctx context.Context, b *stamp.Buffer, workers int) ([]int32, error) {
	out := make([]int32, b.Pixels())
	err := parallel.For(ctx, b.Pixels(), workers, func(lo, hi int) {
		for p := lo; p < hi; p++ {
			out[p] = scan(b.Cell(p), 0).Site
		}
	})
	return out, err
}

// scan returns the smallest finite radius in cell & the site it belongs to,
// site numbering starting at offset. Strict < keeps the earliest site on ties.
func scan(cell []int32, offset int) Entry {
	best := absent
	for i, r := range cell {
		if r < best.Radius {
			best = Entry{Radius: r, Site: int32(offset + i)}
		}
	}
	return best
}

// reduceTree folds each pixel's candidates in halves: with span the next
// power of two >= N, round k compares slot l against slot l+2^k for
// l < 2^k, k counting down. Partners past the last site are skipped, so the
// leftover slots carry through unchanged.
func reduceTree(ctx context.Context, b *stamp.Buffer, workers int) ([]int32, error) {
	out := make([]int32, b.Pixels())
	err := parallel.For(ctx, b.Pixels(), workers, func(lo, hi int) {
		scratch := make([]Entry, b.Sites)
		for p := lo; p < hi; p++ {
			out[p] = fold(b.Cell(p), scratch)
		}
	})
	return out, err
}

// fold runs the tree reduction for one pixel
func fold(cell []int32, scratch []Entry) int32 {
	n := len(cell)
	if n == 0 {
		return Unassigned
	}

	for s, r := range cell {
		if r < stamp.Infinity {
			scratch[s] = Entry{Radius: r, Site: int32(s)}
		} else {
			scratch[s] = absent
		}
	}

	span := 1
	for span < n {
		span <<= 1
	}
	for half := span / 2; half >= 1; half /= 2 {
		for l := 0; l < half; l++ {
			partner := l + half
			if partner >= n {
				continue
			}
			if better(scratch[partner], scratch[l]) {
				scratch[l] = scratch[partner]
			}
		}
	}

	return scratch[0].Site
}
