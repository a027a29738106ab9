package jfa

import (
	"context"
	"fmt"
	"image"

	"github.com/golang/geo/r2"

	"github.com/voidshard/pixelvoronoi/internal/parallel"
)

// Unassigned marks a pixel no site has reached (yet).
const Unassigned int32 = -1

// State of an Engine
type State int

const (
	Uninitialized State = iota
	Seeded
	Propagating
	Done
)

// String returns a readable state name
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Seeded:
		return "seeded"
	case Propagating:
		return "propagating"
	case Done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Engine runs jump flooding over a width x height grid.
//
// Two buffers are held: every pass reads `cur` & writes `next`, then they are
// swapped once all rows are done. An Engine is good for a single solve.
type Engine struct {
	width   int
	height  int
	sites   []r2.Point
	pixels  []image.Point
	workers int

	cur  []int32
	next []int32

	state State
}

// New returns an engine for the given sites. `sites` are the normalised
// positions & `pixels` their grid coordinates, both indexed by site.
func New(width, height int, sites []r2.Point, pixels []image.Point, workers int) *Engine {
	return &Engine{
		width:   width,
		height:  height,
		sites:   sites,
		pixels:  pixels,
		workers: workers,
		cur:     make([]int32, width*height),
		next:    make([]int32, width*height),
		state:   Uninitialized,
	}
}

// State returns where the engine is in its lifecycle
func (e *Engine) State() State {
	return e.state
}

// Buffer returns the current assignment buffer, indexed y*width + x.
func (e *Engine) Buffer() []int32 {
	return e.cur
}

// Seed clears the grid & writes each site's index into the 3x3 block around
// its pixel. Overlapping blocks go to whichever site comes last.
func (e *Engine) Seed(ctx context.Context) error {
	err := parallel.For(ctx, len(e.cur), e.workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			e.cur[i] = Unassigned
		}
	})
	if err != nil {
		return err
	}

	// sequential so the overlap rule is fixed by site order
	for s, p := range e.pixels {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				x, y := p.X+dx, p.Y+dy
				if e.inBounds(x, y) {
					e.cur[y*e.width+x] = int32(s)
				}
			}
		}
	}

	e.state = Seeded
	return nil
}

// Propagate runs one pass with the given step.
//
// Every pixel looks at the 3x3 stencil (itself included) spaced `step` apart
// & takes whichever assigned site is closest to it, measured in normalised
// coordinates. Ties go to the first candidate found, scanning x offsets
// outermost.
func (e *Engine) Propagate(ctx context.Context, stepX, stepY int) error {
	switch e.state {
	case Uninitialized:
		return fmt.Errorf("propagate called before seed")
	case Done:
		return fmt.Errorf("propagate called on a finished engine")
	}
	e.state = Propagating

	err := parallel.For(ctx, e.height, e.workers, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			for x := 0; x < e.width; x++ {
				e.next[y*e.width+x] = e.nearest(x, y, stepX, stepY)
			}
		}
	})
	if err != nil {
		return err
	}

	e.cur, e.next = e.next, e.cur
	return nil
}

// nearest returns the best candidate for pixel (x, y) from the read buffer
func (e *Engine) nearest(x, y, stepX, stepY int) int32 {
	here := r2.Point{X: float64(x) / float64(e.width), Y: float64(y) / float64(e.height)}

	best := Unassigned
	bestDist := 0.0
	for ox := -1; ox <= 1; ox++ {
		for oy := -1; oy <= 1; oy++ {
			ix, jy := x+ox*stepX, y+oy*stepY
			if !e.inBounds(ix, jy) {
				continue
			}
			s := e.cur[jy*e.width+ix]
			if s == Unassigned {
				continue
			}
			// squared distance orders the same as distance
			d := here.Sub(e.sites[s])
			dist := d.Dot(d)
			if best == Unassigned || dist < bestDist {
				best = s
				bestDist = dist
			}
		}
	}
	return best
}

// Solve seeds the grid & runs every pass of Schedule(step). A zero step
// means DefaultStep. The returned buffer belongs to the caller.
func (e *Engine) Solve(ctx context.Context, step image.Point) ([]int32, error) {
	if step == (image.Point{}) {
		step = DefaultStep(e.width, e.height)
	}

	err := e.Seed(ctx)
	if err != nil {
		return nil, err
	}

	for _, s := range Schedule(step) {
		err = e.Propagate(ctx, s.X, s.Y)
		if err != nil {
			return nil, err
		}
	}

	return e.Finish(), nil
}

// Finish marks the engine done & hands back the assignment buffer, which
// now belongs to the caller.
func (e *Engine) Finish() []int32 {
	e.state = Done
	e.next = nil
	return e.cur
}

// inBounds returns if x,y is on the grid
func (e *Engine) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < e.width && y < e.height
}

// DefaultStep is half the larger grid dimension on both axes (at least 1).
func DefaultStep(width, height int) image.Point {
	s := width
	if height > s {
		s = height
	}
	s /= 2
	if s < 1 {
		s = 1
	}
	return image.Pt(s, s)
}

// Schedule returns the step of every pass starting from `step`: the first
// pass runs exactly as given (a 0 component only looks along the other axis),
// then each pass halves both components, a component that hits 0 is held at
// 1 until the other one gets there too.
func Schedule(step image.Point) []image.Point {
	x, y := step.X, step.Y
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x == 0 && y == 0 {
		return nil
	}

	steps := []image.Point{}
	for {
		steps = append(steps, image.Pt(x, y))
		x, y = clampStep(x/2, y/2)
		if x == 0 && y == 0 {
			break
		}
	}
	return steps
}

// clampStep raises a non-positive component to 1 while the other is still positive
func clampStep(x, y int) (int, int) {
	if x <= 0 && y <= 0 {
		return 0, 0
	}
	if x < 1 {
		x = 1
	}
	if y < 1 {
		y = 1
	}
	return x, y
}
