package pixelvoronoi

import (
	"context"
	"image"
	"time"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/voidshard/pixelvoronoi/internal/jfa"
	"github.com/voidshard/pixelvoronoi/internal/radius"
	"github.com/voidshard/pixelvoronoi/internal/reduce"
	"github.com/voidshard/pixelvoronoi/internal/site"
	"github.com/voidshard/pixelvoronoi/internal/stamp"
)

// Solver computes a discrete Voronoi diagram for a fixed config & set of
// sites. Every Solve allocates its own buffers, so a Solver can be reused
// (and shared between goroutines).
type Solver struct {
	cfg     Config
	reg     *site.Registry
	metrics *Metrics
}

// New validates the config & sites and returns a Solver.
// Any problem is reported as an error matching ErrConfiguration.
func New(cfg *Config, src SiteSource) (*Solver, error) {
	if cfg == nil {
		return nil, configErrorf("config", "missing")
	}
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	n := 0
	if src != nil {
		n = src.Count()
	}
	if n < 0 {
		return nil, configErrorf("sites", "negative site count %d", n)
	}
	if cfg.Strategy.stamps() && cfg.radiusMode() == RadiusAdaptive && n < 2 {
		return nil, configErrorf("radius_mode", "adaptive radius needs at least 2 sites, got %d", n)
	}

	positions := make([]r2.Point, n)
	for i := range positions {
		positions[i] = src.PositionOf(i)
	}

	reg, err := site.NewRegistry(cfg.Width, cfg.Height, positions)
	if err != nil {
		return nil, configErrorf("sites", "%v", err)
	}

	return &Solver{cfg: *cfg, reg: reg}, nil
}

// Solve is sugar for New followed by Solver.Solve
func Solve(ctx context.Context, cfg *Config, src SiteSource) (*Diagram, error) {
	s, err := New(cfg, src)
	if err != nil {
		return nil, err
	}
	return s.Solve(ctx)
}

// SetMetrics attaches metrics to record phase timings into (nil to stop)
func (s *Solver) SetMetrics(m *Metrics) {
	s.metrics = m
}

// Config returns a copy of the solver's config
func (s *Solver) Config() Config {
	return s.cfg
}

// Solve runs the configured strategy. Phases run one after another, each
// spread over the configured workers; ctx is checked between phases & chunks.
func (s *Solver) Solve(ctx context.Context) (*Diagram, error) {
	start := time.Now()

	var (
		index []int32
		err   error
	)
	if s.cfg.Strategy == JumpFlood {
		index, err = s.jumpFlood(ctx)
	} else {
		index, err = s.circleStamp(ctx)
	}
	if err != nil {
		return nil, err
	}

	d := newDiagram(s.cfg.Width, s.cfg.Height, s.cfg.Strategy, s.reg.Pixels(), index)
	missing := d.Unassigned()
	s.metrics.solved(s.cfg.Strategy, missing)
	Logger().Info(
		"voronoi solved",
		"strategy", s.cfg.Strategy,
		"width", s.cfg.Width,
		"height", s.cfg.Height,
		"sites", s.reg.Len(),
		"unassigned", missing,
		"elapsed", time.Since(start),
	)

	return d, nil
}

// jumpFlood seeds the grid then runs the propagation schedule
func (s *Solver) jumpFlood(ctx context.Context) ([]int32, error) {
	e := jfa.New(s.cfg.Width, s.cfg.Height, s.reg.Positions(), s.reg.Pixels(), s.cfg.Workers)

	err := s.phase("seed", func() error {
		return e.Seed(ctx)
	})
	if err != nil {
		return nil, err
	}

	step := s.cfg.InitialStep
	if step == (image.Point{}) {
		step = jfa.DefaultStep(s.cfg.Width, s.cfg.Height)
	}

	for _, st := range jfa.Schedule(step) {
		err = s.phase("propagate", func() error {
			return e.Propagate(ctx, st.X, st.Y)
		})
		if err != nil {
			return nil, err
		}
	}

	return e.Finish(), nil
}

// circleStamp grows circles into a distance buffer & reduces it
func (s *Solver) circleStamp(ctx context.Context) ([]int32, error) {
	n := s.reg.Len()
	centres := s.reg.Pixels()

	var radii []int
	if s.cfg.radiusMode() == RadiusAdaptive {
		err := s.phase("estimate-radius", func() (err error) {
			radii, err = radius.Estimate(ctx, centres, s.cfg.Workers)
			return err
		})
		if err != nil {
			return nil, err
		}
	} else {
		radii = stamp.Uniform(n, s.cfg.maxRadius())
	}

	buf := stamp.NewBuffer(s.cfg.Width, s.cfg.Height, n)
	err := s.phase("stamp", func() error {
		return stamp.StampAll(ctx, buf, centres, radii, s.cfg.Workers)
	})
	if err != nil {
		return nil, err
	}

	index, err := s.reduce(ctx, buf)
	if err != nil {
		return nil, err
	}

	if s.cfg.FillGaps {
		return s.fillGaps(ctx, buf, centres, radii, index)
	}
	return index, nil
}

// fillGaps grows every circle to min(2r+1, W+H) & reduces again until no
// pixel is left unassigned or circles can't grow any further.
func (s *Solver) fillGaps(ctx context.Context, buf *stamp.Buffer, centres []image.Point, radii []int, index []int32) ([]int32, error) {
	limit := s.cfg.Width + s.cfg.Height

	for {
		missing := countUnassigned(index)
		if missing == 0 {
			return index, nil
		}

		growth := make([]stamp.Growth, len(radii))
		grew := false
		for i, r := range radii {
			next := minint(2*r+1, limit)
			growth[i] = stamp.Growth{From: r + 1, To: next}
			if next > r {
				grew = true
				radii[i] = next
			}
		}
		if !grew {
			return index, nil
		}

		Logger().Debug("growing circles to fill gaps", "unassigned", missing)
		err := s.phase("grow", func() error {
			return stamp.Grow(ctx, buf, centres, growth, s.cfg.Workers)
		})
		if err != nil {
			return nil, err
		}

		index, err = s.reduce(ctx, buf)
		if err != nil {
			return nil, err
		}
	}
}

// reduce collapses the distance buffer with the strategy's method
func (s *Solver) reduce(ctx context.Context, buf *stamp.Buffer) (index []int32, err error) {
	m := reduce.Linear
	switch s.cfg.Strategy {
	case CircleStampTree:
		m = reduce.Tree
	case CircleStampSqrt:
		m = reduce.Sqrt
	}

	err = s.phase("reduce-"+m.String(), func() (err error) {
		index, err = reduce.Reduce(ctx, buf, m, s.cfg.Workers)
		return err
	})
	return index, err
}

// phase runs fn, timing & logging it
func (s *Solver) phase(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	s.metrics.observePhase(s.cfg.Strategy, name, elapsed)
	if err != nil {
		Logger().Debug("phase failed", "phase", name, "elapsed", elapsed, "err", err)
		return errors.Wrapf(err, "%s phase", name)
	}
	Logger().Debug("phase complete", "phase", name, "elapsed", elapsed)
	return nil
}
