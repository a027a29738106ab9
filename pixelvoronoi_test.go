package pixelvoronoi

import (
	"bytes"
	"context"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stampStrategies = []Strategy{CircleStampLinear, CircleStampTree, CircleStampSqrt}

func randomPoints(seed int64, n int) Points {
	rng := rand.New(rand.NewSource(seed))
	pts := make(Points, n)
	for i := range pts {
		pts[i] = r2.Point{X: rng.Float64(), Y: rng.Float64()}
	}
	return pts
}

func solve(t *testing.T, cfg *Config, pts Points) *Diagram {
	t.Helper()
	d, err := Solve(context.Background(), cfg, pts)
	require.NoError(t, err)
	return d
}

func TestSingleSite(t *testing.T) {
	for _, s := range AllStrategies() {
		d := solve(t, &Config{Width: 4, Height: 4, Strategy: s, Workers: 2}, Points{{X: 0.5, Y: 0.5}})

		assert.Equal(t, s, d.Strategy)
		assert.Equal(t, 1, d.Sites)
		assert.Equal(t, 0, d.Unassigned(), s)
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				assert.Equal(t, 0, d.At(x, y), "%s (%d,%d)", s, x, y)
			}
		}
		assert.Equal(t, []int{16}, d.CellSizes())
	}
}

func TestTwoSites(t *testing.T) {
	pts := Points{{X: 0.05, Y: 0.5}, {X: 0.95, Y: 0.5}}

	for _, s := range AllStrategies() {
		d := solve(t, &Config{Width: 10, Height: 10, Strategy: s}, pts)

		assert.Equal(t, 0, d.Unassigned(), s)
		for y := 0; y < 10; y++ {
			for x := 0; x <= 4; x++ {
				assert.Equal(t, 0, d.At(x, y), "%s (%d,%d)", s, x, y)
			}
			for x := 6; x < 10; x++ {
				assert.Equal(t, 1, d.At(x, y), "%s (%d,%d)", s, x, y)
			}
		}
	}
}

func TestNoSites(t *testing.T) {
	for _, s := range AllStrategies() {
		d := solve(t, &Config{Width: 5, Height: 3, Strategy: s}, nil)

		assert.Equal(t, 0, d.Sites)
		assert.Equal(t, 15, d.Unassigned(), s)
		cov := d.Coverage()
		for i := 0; i < 15; i++ {
			assert.False(t, cov.Get(i))
		}
	}
}

func TestEverySitePixelOwned(t *testing.T) {
	pts := randomPoints(3, 20)
	for _, s := range AllStrategies() {
		d := solve(t, &Config{Width: 64, Height: 48, Strategy: s}, pts)
		assert.Equal(t, 0, d.Unassigned(), s)
		assert.Len(t, d.Centres, 20)

		sizes := d.CellSizes()
		total := 0
		for _, n := range sizes {
			total += n
		}
		assert.Equal(t, 64*48, total, s)
	}
}

func TestStampStrategiesAgree(t *testing.T) {
	pts := randomPoints(11, 37)

	for _, mode := range []RadiusMode{RadiusFixed, RadiusAdaptive} {
		var first *Diagram
		for _, s := range stampStrategies {
			d := solve(t, &Config{Width: 41, Height: 29, Strategy: s, RadiusMode: mode, Workers: 3}, pts)
			if first == nil {
				first = d
				continue
			}
			assert.True(t, first.Equal(d), "%s vs %s in %s mode differ by %d", first.Strategy, s, mode, first.Diff(d))
		}
	}
}

func TestWorkersDoNotChangeResult(t *testing.T) {
	pts := randomPoints(5, 25)

	for _, s := range AllStrategies() {
		one := solve(t, &Config{Width: 33, Height: 21, Strategy: s, Workers: 1}, pts)
		many := solve(t, &Config{Width: 33, Height: 21, Strategy: s, Workers: 8}, pts)
		assert.True(t, one.Equal(many), s)
	}
}

func TestSolveIsRepeatable(t *testing.T) {
	pts := randomPoints(9, 12)

	for _, s := range AllStrategies() {
		sv, err := New(&Config{Width: 30, Height: 30, Strategy: s, RadiusMode: RadiusAdaptive}, pts)
		require.NoError(t, err)

		a, err := sv.Solve(context.Background())
		require.NoError(t, err)
		b, err := sv.Solve(context.Background())
		require.NoError(t, err)

		assert.True(t, a.Equal(b), s)
	}
}

func TestAdaptiveLeavesGaps(t *testing.T) {
	pts := Points{{X: 0.05, Y: 0.5}, {X: 0.95, Y: 0.5}}

	d := solve(t, &Config{Width: 10, Height: 10, Strategy: CircleStampLinear, RadiusMode: RadiusAdaptive}, pts)
	assert.Greater(t, d.Unassigned(), 0)
	assert.Equal(t, Unassigned, d.At(5, 0))
	assert.Equal(t, 0, d.At(0, 5))
	assert.Equal(t, 1, d.At(9, 5))

	cov := d.Coverage()
	assert.False(t, cov.Get(5))
	assert.True(t, cov.Get(5*10))
}

func TestFillGaps(t *testing.T) {
	pts := Points{{X: 0.05, Y: 0.5}, {X: 0.95, Y: 0.5}}
	fixed := solve(t, &Config{Width: 10, Height: 10, Strategy: CircleStampLinear}, pts)

	for _, s := range stampStrategies {
		d := solve(t, &Config{Width: 10, Height: 10, Strategy: s, RadiusMode: RadiusAdaptive, FillGaps: true}, pts)
		assert.Equal(t, 0, d.Unassigned(), s)
		assert.True(t, fixed.Equal(d), "%s differs by %d", s, fixed.Diff(d))
	}
}

func TestFillGapsSmallFixedRadius(t *testing.T) {
	pts := randomPoints(21, 6)
	full := solve(t, &Config{Width: 40, Height: 40, Strategy: CircleStampTree}, pts)

	d := solve(t, &Config{Width: 40, Height: 40, Strategy: CircleStampTree, MaxRadius: 1, FillGaps: true}, pts)
	assert.Equal(t, 0, d.Unassigned())
	assert.True(t, full.Equal(d))
}

func TestAdaptiveNeedsTwoSites(t *testing.T) {
	for _, pts := range []Points{nil, {{X: 0.5, Y: 0.5}}} {
		_, err := New(&Config{Width: 8, Height: 8, Strategy: CircleStampSqrt, RadiusMode: RadiusAdaptive}, pts)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfiguration)

		var cerr *ConfigError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, "radius_mode", cerr.Field)
	}

	// jump flooding ignores the radius mode
	_, err := New(&Config{Width: 8, Height: 8, Strategy: JumpFlood, RadiusMode: RadiusAdaptive}, Points{{X: 0.5, Y: 0.5}})
	assert.NoError(t, err)
}

// countOnly reports a fixed count & has no positions
type countOnly int

func (c countOnly) Count() int { return int(c) }

func (c countOnly) PositionOf(i int) r2.Point { return r2.Point{} }

func TestNegativeSiteCount(t *testing.T) {
	var err error
	require.NotPanics(t, func() {
		_, err = New(&Config{Width: 4, Height: 4, Strategy: JumpFlood}, countOnly(-1))
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)

	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "sites", cerr.Field)
}

func TestBadSites(t *testing.T) {
	cases := map[string]Points{
		"x over 1":   {{X: 1.5, Y: 0.2}},
		"negative y": {{X: 0.5, Y: 0.5}, {X: 0.1, Y: -0.01}},
	}

	for name, pts := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(&Config{Width: 8, Height: 8, Strategy: JumpFlood}, pts)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)

			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, "sites", cerr.Field)
		})
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(nil, Points{})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = New(&Config{Width: 8, Strategy: JumpFlood}, Points{})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, s := range AllStrategies() {
		_, err := Solve(ctx, &Config{Width: 16, Height: 16, Strategy: s}, randomPoints(1, 4))
		assert.ErrorIs(t, err, context.Canceled, s)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	sv, err := New(&Config{Width: 4, Height: 4, Strategy: JumpFlood}, Points{{X: 0.5, Y: 0.5}})
	require.NoError(t, err)
	sv.SetMetrics(m)

	_, err = sv.Solve(context.Background())
	require.NoError(t, err)
	_, err = sv.Solve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.solves.WithLabelValues(string(JumpFlood))))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.unassigned.WithLabelValues(string(JumpFlood))))
	// seed & propagate
	assert.Equal(t, 2, testutil.CollectAndCount(m.phaseDuration))
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observePhase(JumpFlood, "seed", 0)
		m.solved(JumpFlood, 3)
	})
}

func TestLogging(t *testing.T) {
	buf := new(bytes.Buffer)
	SetLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	solve(t, &Config{Width: 6, Height: 6, Strategy: CircleStampSqrt}, Points{{X: 0.2, Y: 0.2}, {X: 0.7, Y: 0.6}})

	out := buf.String()
	assert.Contains(t, out, "voronoi solved")
	assert.Contains(t, out, "phase=stamp")
	assert.Contains(t, out, "phase=reduce-sqrt")
	assert.Contains(t, out, "strategy=circle-stamp-sqrt")
}
