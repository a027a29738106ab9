package circle

// Plotter receives the offsets that make up a circle boundary.
type Plotter interface {
	Plot(dx, dy int)
}

// PlotterFunc lets a plain func satisfy Plotter.
type PlotterFunc func(dx, dy int)

// Plot calls f(dx, dy)
func (f PlotterFunc) Plot(dx, dy int) {
	f(dx, dy)
}

// Draw walks the digital circle of radius r around (0,0) & hands every
// boundary offset to p.
//
// Only integer adds & shifts are used. Each step of the walk covers one point
// of the first octant, the other seven are produced by symmetry, so offsets
// on the axes & diagonals are plotted more than once; callers that care must
// dedupe (stamping doesn't, it keeps the minimum).
//
// Rings drawn for r = 0, 1, 2 ... are disjoint & leave no holes, which is what
// makes "first radius that touched a pixel" a usable distance.
func Draw(p Plotter, r int) {
	i, s := 0, 0
	j := r
	w := r - 1
	l := w << 1
	g := 1

	for i <= j {
		for {
			octants(p, i, j)
			s += i
			i++
			s += i
			if s > w {
				break
			}
		}
		if s > w && s <= w+g && i <= j {
			octants(p, i, j)
		}
		w += l
		l -= 2
		j--
		g += 2
	}
}

// octants plots (x, y) mirrored into all eight octants
func octants(p Plotter, x, y int) {
	p.Plot(x, y)
	p.Plot(x, -y)
	p.Plot(-x, y)
	p.Plot(-x, -y)
	p.Plot(y, x)
	p.Plot(y, -x)
	p.Plot(-y, x)
	p.Plot(-y, -x)
}
