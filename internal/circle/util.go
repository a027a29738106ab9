package circle

import (
	"image"
	"sort"
)

// setPlot meets the Plotter interface,
// In our case we just collect the distinct offsets.
type setPlot struct {
	seen map[image.Point]bool
	pts  []image.Point
}

// Plot records an offset once
func (s *setPlot) Plot(dx, dy int) {
	p := image.Pt(dx, dy)
	if s.seen[p] {
		return
	}
	s.seen[p] = true
	s.pts = append(s.pts, p)
}

// Offsets returns the distinct offsets on the ring of radius r, ordered by
// y then x.
func Offsets(r int) []image.Point {
	sp := &setPlot{seen: map[image.Point]bool{}, pts: []image.Point{}}
	Draw(sp, r)
	sort.Slice(sp.pts, func(a, b int) bool {
		if sp.pts[a].Y != sp.pts[b].Y {
			return sp.pts[a].Y < sp.pts[b].Y
		}
		return sp.pts[a].X < sp.pts[b].X
	})
	return sp.pts
}
