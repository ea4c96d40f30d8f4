package gridmap

import (
	"math"
	"testing"

	"github.com/phil-mansfield/modylip/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diagonalMap(t *testing.T) *GridMap {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 1, 2}
	zs := []float64{1, 3, 5}
	gm, err := New(xs, ys, zs, [2]int{2, 2})
	require.NoError(t, err)
	return gm
}

func TestNew(t *testing.T) {
	gm := diagonalMap(t)

	assert.Equal(t, [2]int{3, 3}, gm.Buckets())
	assert.Equal(t, [2]float64{0, 0}, gm.Origin)
	assert.Equal(t, [2]float64{1, 1}, gm.Width)
	assert.InDelta(t, 3, gm.Mean(), 1e-12)

	table := []struct {
		i, j  int
		val   float64
		count int
	}{
		{0, 0, 1, 1},
		{1, 1, 3, 1},
		{2, 2, 5, 1},
		// Empty buckets take the global mean.
		{0, 1, 3, 0},
		{2, 0, 3, 0},
	}
	for n, test := range table {
		if v := gm.Value(test.i, test.j); math.Abs(v-test.val) > 1e-12 {
			t.Errorf("%d) Expected Value(%d, %d) = %g, got %g.",
				n, test.i, test.j, test.val, v)
		}
		if c := gm.Count(test.i, test.j); c != test.count {
			t.Errorf("%d) Expected Count(%d, %d) = %d, got %d.",
				n, test.i, test.j, test.count, c)
		}
	}
}

func TestNewAveragesBuckets(t *testing.T) {
	xs := []float64{0, 0.2, 0.4, 4}
	ys := []float64{0, 0.1, 0.3, 4}
	zs := []float64{1, 2, 6, 10}
	gm, err := New(xs, ys, zs, [2]int{4, 4})
	require.NoError(t, err)

	assert.Equal(t, 3, gm.Count(0, 0))
	assert.InDelta(t, 3, gm.Value(0, 0), 1e-12)
	assert.Equal(t, 1, gm.Count(4, 4))
	assert.InDelta(t, 10, gm.Value(4, 4), 1e-12)
}

func TestNewErrors(t *testing.T) {
	_, err := New([]float64{0, 1}, []float64{0}, []float64{0, 1}, [2]int{2, 2})
	assert.Error(t, err)
	_, err = New([]float64{0}, []float64{0}, []float64{0}, [2]int{0, 2})
	assert.Error(t, err)
	_, err = New(nil, nil, nil, [2]int{2, 2})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestCell(t *testing.T) {
	gm := diagonalMap(t)

	table := []struct {
		x, y float64
		i, j int
	}{
		{0, 0, 0, 0},
		{0.99, 1.5, 0, 1},
		{2, 2, 2, 2},
		{-5, 10, 0, 2},
		{7, -0.1, 2, 0},
	}
	for n, test := range table {
		i, j := gm.Cell(test.x, test.y)
		if i != test.i || j != test.j {
			t.Errorf("%d) Expected Cell(%g, %g) = (%d, %d), got (%d, %d).",
				n, test.x, test.y, test.i, test.j, i, j)
		}
	}
}

func TestZeroExtent(t *testing.T) {
	xs := []float64{1, 1, 1}
	ys := []float64{0, 1, 2}
	zs := []float64{1, 2, 3}
	gm, err := New(xs, ys, zs, [2]int{2, 2})
	require.NoError(t, err)

	i, j := gm.Cell(1, 1)
	assert.Equal(t, 0, i)
	assert.Equal(t, 1, j)
	i, _ = gm.Cell(100, 1)
	assert.Equal(t, 0, i)

	assert.InDelta(t, 2, gm.Smooth().Eval(1, 1.5), 1e-12)
	assert.InDelta(t, 2, gm.Smooth().Eval(-3, 1.5), 1e-12)
}

func TestClassify(t *testing.T) {
	gm := diagonalMap(t)

	table := []struct {
		p   geom.Vec
		out int
	}{
		{geom.Vec{0.1, 0.1, 1}, 1},
		{geom.Vec{0.1, 0.1, 0.9}, 0},
		{geom.Vec{1.5, 1.5, 3.5}, 1},
		{geom.Vec{1.5, 1.5, 2.5}, 0},
		{geom.Vec{-4, -4, 0}, 0},
		{geom.Vec{9, 9, 6}, 1},
	}
	for n, test := range table {
		if out := gm.Classify(&test.p); out != test.out {
			t.Errorf("%d) Expected Classify(%v) = %d, got %d.",
				n, test.p, test.out, out)
		}
	}
}

func TestSmooth(t *testing.T) {
	gm := diagonalMap(t)
	s := gm.Smooth()

	x, y := gm.Center(0, 0)
	assert.InDelta(t, 1, s.Eval(x, y), 1e-12, "bucket center")
	x, y = gm.Center(1, 1)
	assert.InDelta(t, 3, s.Eval(x, y), 1e-12, "bucket center")
	assert.InDelta(t, 2, s.Eval(1.0, 0.5), 1e-12, "between centers")
	assert.InDelta(t, 1, s.Eval(-10, -10), 1e-12, "clamped")
	assert.InDelta(t, 5, s.Eval(10, 10), 1e-12, "clamped")

	assert.Equal(t, 1, gm.ClassifySmooth(&geom.Vec{1.0, 0.5, 2}))
	assert.Equal(t, 0, gm.ClassifySmooth(&geom.Vec{1.0, 0.5, 1.9}))
}
