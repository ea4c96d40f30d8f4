package interpolate

import (
	"fmt"
)

type splineCoeff struct {
	a, b, c, d float64
}

// Spline represents a 1D natural cubic spline which can be used to
// interpolate between points.
type Spline struct {
	xs     searcher
	ys, y2s []float64
	coeffs []splineCoeff
}

// NewSpline creates a spline based off a table of x and y values. The values
// must be sorted in increasing or decreasing order in x.
func NewSpline(xs, ys []float64) (*Spline, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf(
			"Table given to NewSpline() has len(xs) = %d but len(ys) = %d.",
			len(xs), len(ys),
		)
	} else if len(xs) <= 2 {
		return nil, fmt.Errorf(
			"Table given to NewSpline() has length of %d.", len(xs),
		)
	}

	sp := new(Spline)

	// The spline must not change if the caller reuses their buffers.
	xCopy := make([]float64, len(xs))
	copy(xCopy, xs)
	if err := sp.xs.init(xCopy); err != nil {
		return nil, err
	}
	sp.ys = make([]float64, len(ys))
	copy(sp.ys, ys)
	sp.y2s = make([]float64, len(xs))
	sp.coeffs = make([]splineCoeff, len(xs)-1)

	if err := sp.calcY2s(); err != nil {
		return nil, err
	}
	sp.calcCoeffs()
	return sp, nil
}

// Eval computes the value of the spline at the given point. Points outside
// the table are extrapolated with the nearest cubic.
func (sp *Spline) Eval(x float64) float64 {
	i := sp.xs.search(x)
	dx := x - sp.xs.val(i)
	c := &sp.coeffs[i]
	return ((c.a*dx+c.b)*dx+c.c)*dx + c.d
}

// EvalAll evaluates the spline at all the given x values, following the same
// output conventions as Linear.EvalAll.
func (sp *Spline) EvalAll(xs []float64, out ...[]float64) []float64 {
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(xs))}
	}
	for i, x := range xs {
		out[0][i] = sp.Eval(x)
	}
	return out[0]
}

// Diff computes the derivative of spline at the given point to the
// specified order.
func (sp *Spline) Diff(x float64, order int) float64 {
	i := sp.xs.search(x)
	dx := x - sp.xs.val(i)
	c := &sp.coeffs[i]
	switch order {
	case 0:
		return ((c.a*dx+c.b)*dx+c.c)*dx + c.d
	case 1:
		return 3*c.a*dx*dx + 2*c.b*dx + c.c
	case 2:
		return 6*c.a*dx + 2*c.b
	case 3:
		return 6 * c.a
	default:
		return 0
	}
}

// calcY2s computes the second derivative at every point in the table. The
// boundaries are set to zero.
func (sp *Spline) calcY2s() error {
	n := sp.xs.n
	as, bs := make([]float64, n-2), make([]float64, n-2)
	cs, rs := make([]float64, n-2), make([]float64, n-2)

	sp.y2s[0], sp.y2s[n-1] = 0, 0

	ys := sp.ys
	for i := range rs {
		// j indexes into xs and ys.
		j := i + 1
		xl, x, xr := sp.xs.val(j-1), sp.xs.val(j), sp.xs.val(j+1)

		as[i] = (x - xl) / 6
		bs[i] = (xr - xl) / 3
		cs[i] = (xr - x) / 6
		rs[i] = ((ys[j+1] - ys[j]) / (xr - x)) - ((ys[j] - ys[j-1]) / (x - xl))
	}

	return TriDiagAt(as, bs, cs, rs, sp.y2s[1:n-1])
}

func (sp *Spline) calcCoeffs() {
	ys, y2s := sp.ys, sp.y2s
	for i := range sp.coeffs {
		h := sp.xs.val(i+1) - sp.xs.val(i)
		sp.coeffs[i].a = (y2s[i+1] - y2s[i]) / (6 * h)
		sp.coeffs[i].b = y2s[i] / 2
		sp.coeffs[i].c = (ys[i+1]-ys[i])/h - h*(2*y2s[i]+y2s[i+1])/6
		sp.coeffs[i].d = ys[i]
	}
}

// TriDiagAt solves the system of equations
//
// | b0 c0 ..    |   | u0 |   | r0 |
// | a1 b1 c1 .. |   | u1 |   | r1 |
// | ..          | * | .. | = | .. |
// | ..    an bn |   | un |   | rn |
//
// For u0 .. un and writes the result to out. a0 and cn are ignored.
func TriDiagAt(as, bs, cs, rs, out []float64) error {
	if len(as) != len(bs) || len(as) != len(cs) ||
		len(as) != len(out) || len(as) != len(rs) {
		return fmt.Errorf("Length of arguments to TriDiagAt are unequal.")
	}

	tmp := make([]float64, len(as))

	beta := bs[0]
	if beta == 0 {
		return fmt.Errorf("TriDiagAt cannot solve given system.")
	}
	out[0] = rs[0] / beta

	for i := 1; i < len(out); i++ {
		tmp[i] = cs[i-1] / beta
		beta = bs[i] - as[i]*tmp[i]
		if beta == 0 {
			return fmt.Errorf("TriDiagAt cannot solve given system.")
		}
		out[i] = (rs[i] - as[i]*out[i-1]) / beta
	}

	for i := len(out) - 2; i >= 0; i-- {
		out[i] -= tmp[i+1] * out[i+1]
	}
	return nil
}
