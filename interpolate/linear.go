package interpolate

import (
	"fmt"
)

///////////////////////////
// Linear Implementation //
///////////////////////////

// Linear is a linear interpolator.
type Linear struct {
	xs   searcher
	vals []float64
}

// NewLinear creates a linear interpolator for a sequence of strictly increasing
// or strictly decreasing point, xs, which take on the values given by vals.
//
// Lookups will occur in O(log |xs|).
func NewLinear(xs, vals []float64) (*Linear, error) {
	if len(xs) != len(vals) {
		return nil, fmt.Errorf("len(xs) = %d, but len(vals) = %d.",
			len(xs), len(vals))
	}
	lin := &Linear{}
	if err := lin.xs.init(xs); err != nil {
		return nil, err
	}
	lin.vals = vals
	return lin, nil
}

// Eval returns the interpolated value at x. Points outside the table are
// extrapolated from the nearest interval.
func (lin *Linear) Eval(x float64) float64 {
	i1 := lin.xs.search(x)
	i2 := i1 + 1
	x1, x2 := lin.xs.val(i1), lin.xs.val(i2)
	v1, v2 := lin.vals[i1], lin.vals[i2]

	return ((v2-v1)/(x2-x1))*(x-x1) + v1
}

// EvalAll evaluates the interpolator at all the given x values. If an output
// array is given, the output is written to that array (the array is still
// returned as a convenience).
//
// If more than one output array is provided, only the first is used.
func (lin *Linear) EvalAll(xs []float64, out ...[]float64) []float64 {
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(xs))}
	}
	for i, x := range xs {
		out[0][i] = lin.Eval(x)
	}
	return out[0]
}

/////////////////////////////
// BiLinear Implementation //
/////////////////////////////

// BiLinear is a bi-linear interpolator. vals is stored x-major: the value at
// (xs[i], ys[j]) is vals[i + j*len(xs)].
type BiLinear struct {
	xs, ys searcher
	vals   []float64
	nx     int
}

// NewUniformBiLinear creates a bi-linear interpolator over an nx by ny grid
// starting at (x0, y0) with spacings dx and dy.
func NewUniformBiLinear(
	x0, dx float64, nx int,
	y0, dy float64, ny int,
	vals []float64,
) (*BiLinear, error) {
	if nx*ny != len(vals) {
		return nil, fmt.Errorf(
			"len(vals) = %d, but nx = %d and ny = %d",
			len(vals), nx, ny,
		)
	}

	bi := &BiLinear{}
	if err := bi.xs.unifInit(x0, dx, nx); err != nil {
		return nil, err
	}
	if err := bi.ys.unifInit(y0, dy, ny); err != nil {
		return nil, err
	}
	bi.nx = nx
	bi.vals = vals
	return bi, nil
}

func (bi *BiLinear) Eval(x, y float64) float64 {
	ix1, iy1 := bi.xs.search(x), bi.ys.search(y)
	ix2, iy2 := ix1+1, iy1+1

	x1, x2 := bi.xs.val(ix1), bi.xs.val(ix2)
	y1, y2 := bi.ys.val(iy1), bi.ys.val(iy2)

	v11 := bi.vals[ix1+iy1*bi.nx]
	v12 := bi.vals[ix1+iy2*bi.nx]
	v21 := bi.vals[ix2+iy1*bi.nx]
	v22 := bi.vals[ix2+iy2*bi.nx]

	tx, ty := (x-x1)/(x2-x1), (y-y1)/(y2-y1)

	return v11*(1-tx)*(1-ty) + v21*tx*(1-ty) + v12*(1-tx)*ty + v22*tx*ty
}

func (bi *BiLinear) EvalAll(xs, ys []float64, out ...[]float64) []float64 {
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(xs))}
	}
	for i := range xs {
		out[0][i] = bi.Eval(xs[i], ys[i])
	}
	return out[0]
}
