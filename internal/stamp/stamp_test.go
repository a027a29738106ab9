package stamp

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plane extracts one site's radii in row-major order
func plane(b *Buffer, site int) []int32 {
	out := make([]int32, 0, b.Pixels())
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			out = append(out, b.At(x, y, site))
		}
	}
	return out
}

func TestNewBuffer(t *testing.T) {
	b := NewBuffer(3, 2, 4)
	assert.Len(t, b.Radius, 24)
	assert.Equal(t, 6, b.Pixels())
	for _, r := range b.Radius {
		assert.Equal(t, Infinity, r)
	}
	assert.Equal(t, (1*3+2)*4+3, b.Index(2, 1, 3))
	assert.Len(t, b.Cell(5), 4)
}

func TestStampSingleSite(t *testing.T) {
	b := NewBuffer(4, 4, 1)
	err := StampAll(context.Background(), b, []image.Point{{2, 2}}, []int{3}, 1)
	require.NoError(t, err)

	expect := []int32{
		3, 2, 2, 2,
		2, 1, 1, 1,
		2, 1, 0, 1,
		2, 1, 1, 1,
	}
	assert.Equal(t, expect, plane(b, 0))
}

func TestStampRadiusCap(t *testing.T) {
	b := NewBuffer(4, 4, 1)
	require.NoError(t, StampAll(context.Background(), b, []image.Point{{2, 2}}, []int{1}, 1))

	inf := Infinity
	expect := []int32{
		inf, inf, inf, inf,
		inf, 1, 1, 1,
		inf, 1, 0, 1,
		inf, 1, 1, 1,
	}
	assert.Equal(t, expect, plane(b, 0))
}

func TestStampPlanesAreIndependent(t *testing.T) {
	centres := []image.Point{{0, 5}, {9, 5}}
	b := NewBuffer(10, 10, 2)
	require.NoError(t, StampAll(context.Background(), b, centres, Uniform(2, 20), 2))

	for s, c := range centres {
		single := NewBuffer(10, 10, 1)
		require.NoError(t, StampAll(context.Background(), single, []image.Point{c}, []int{20}, 1))
		assert.Equal(t, plane(single, 0), plane(b, s), "site %d", s)
	}

	assert.Equal(t, int32(0), b.At(0, 5, 0))
	assert.Equal(t, int32(9), b.At(9, 5, 0))
	assert.Equal(t, int32(0), b.At(9, 5, 1))
}

// TestMonotonicRadius checks that lowering the cap only drops touches, it
// never records a larger first radius.
func TestMonotonicRadius(t *testing.T) {
	centres := []image.Point{{3, 4}, {20, 11}, {-2, 7}, {12, 0}}
	large := NewBuffer(24, 16, len(centres))
	require.NoError(t, StampAll(context.Background(), large, centres, Uniform(len(centres), 30), 4))

	for _, limit := range []int{0, 1, 4, 9, 17} {
		small := NewBuffer(24, 16, len(centres))
		require.NoError(t, StampAll(context.Background(), small, centres, Uniform(len(centres), limit), 4))

		for i := range small.Radius {
			if large.Radius[i] <= int32(limit) {
				require.Equal(t, large.Radius[i], small.Radius[i], "limit %d cell %d", limit, i)
			} else {
				require.Equal(t, Infinity, small.Radius[i], "limit %d cell %d", limit, i)
			}
		}
	}
}

func TestGrowResumes(t *testing.T) {
	centres := []image.Point{{5, 5}, {1, 8}}

	once := NewBuffer(12, 12, 2)
	require.NoError(t, StampAll(context.Background(), once, centres, []int{9, 6}, 1))

	twice := NewBuffer(12, 12, 2)
	require.NoError(t, StampAll(context.Background(), twice, centres, []int{3, 2}, 1))
	require.NoError(t, Grow(context.Background(), twice, centres, []Growth{{4, 9}, {3, 6}}, 1))

	assert.Equal(t, once.Radius, twice.Radius)
}

func TestOffGridCentre(t *testing.T) {
	b := NewBuffer(4, 4, 1)
	require.NoError(t, StampAll(context.Background(), b, []image.Point{{4, 4}}, []int{2}, 1))

	assert.Equal(t, int32(1), b.At(3, 3, 0))
	assert.Equal(t, int32(2), b.At(2, 3, 0))
	assert.Equal(t, Infinity, b.At(0, 0, 0))
}

func TestStampMismatchedInput(t *testing.T) {
	b := NewBuffer(4, 4, 2)
	assert.Error(t, StampAll(context.Background(), b, []image.Point{{1, 1}}, []int{1, 1}, 1))
	assert.Error(t, StampAll(context.Background(), b, []image.Point{{1, 1}}, []int{1}, 1))
}
