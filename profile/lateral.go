package profile

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/phil-mansfield/modylip/interpolate"
	"gonum.org/v1/gonum/floats"
)

// Lateral is the lateral pressure profile of a planar bilayer whose normal
// lies along z,
//
//	Gamma(z) = Pzz(z) - (Pxx(z) + Pyy(z)) / 2,
//
// along with its integral moments. The bilayer midplane is assumed to lie at
// the center slab.
//
// Moments are cached, so a Lateral must not be used from multiple goroutines.
type Lateral struct {
	File    string
	Height  []float64
	Width   float64
	Samples int

	Mean   []float64
	Std    []float64
	StdErr []float64 // Std / sqrt(Samples)

	moments, halfMoments map[int][]float64
}

func lateralRow(p *[Components]float64, out []float64) {
	out[0] = p[Pzz] - 0.5*(p[Pxx]+p[Pyy])
}

// ReadLateral reads every sample in r and returns the lateral pressure
// profile. name is used in error messages.
func ReadLateral(r io.ReadSeeker, name string) (*Lateral, error) {
	st, err := readStats(r, name, 1, lateralRow)
	if err != nil { return nil, err }

	l := &Lateral{
		File: st.File, Height: st.Height, Width: st.Width, Samples: st.Samples,
		Mean: st.mean, Std: st.std, StdErr: make([]float64, len(st.std)),
	}
	sqrtN := math.Sqrt(float64(l.Samples))
	for i := range l.Std { l.StdErr[i] = l.Std[i] / sqrtN }
	return l, nil
}

// ReadLateralFile is ReadLateral for the file at path.
func ReadLateralFile(path string) (*Lateral, error) {
	f, err := os.Open(path)
	if err != nil { return nil, err }
	defer f.Close()
	return ReadLateral(f, path)
}

func checkGrade(grade int) error {
	if grade < 0 {
		return fmt.Errorf("Integral moments must have a non-negative grade, not %d.", grade)
	}
	return nil
}

func intPow(x float64, n int) float64 {
	out := 1.0
	for i := 0; i < n; i++ { out *= x }
	return out
}

// Moment returns the integral moment of the given grade centered on every
// slab and taken over the whole box:
//
//	mu_n(z_i) = dz * sum_k Gamma(z_k) (z_k - z_i)^n
func (l *Lateral) Moment(grade int) ([]float64, error) {
	if err := checkGrade(grade); err != nil { return nil, err }
	if mom, ok := l.moments[grade]; ok { return mom, nil }

	mom := make([]float64, len(l.Height))
	for i := range mom {
		sum := 0.0
		for k := range l.Height {
			sum += l.Mean[k] * intPow(l.Height[k]-l.Height[i], grade)
		}
		mom[i] = l.Width * sum
	}

	if l.moments == nil { l.moments = map[int][]float64{} }
	l.moments[grade] = mom
	return mom, nil
}

// HalfMoment returns the integral moment of the given grade over the upper
// half of the box, centered on each slab in that half:
//
//	mu_n(z_i) = dz * sum_{k=N/2+i}^{N-1} Gamma(z_k) (z_k - z_{N/2+i})^n
//
// The heights of the upper half slabs are also returned.
func (l *Lateral) HalfMoment(grade int) (height, mom []float64, err error) {
	if err := checkGrade(grade); err != nil { return nil, nil, err }
	half := len(l.Height) / 2
	height = l.Height[half:]
	if mom, ok := l.halfMoments[grade]; ok { return height, mom, nil }

	mom = make([]float64, len(l.Height)-half)
	for i := range mom {
		z0 := l.Height[half+i]
		sum := 0.0
		for k := half + i; k < len(l.Height); k++ {
			sum += l.Mean[k] * intPow(l.Height[k]-z0, grade)
		}
		mom[i] = l.Width * sum
	}

	if l.halfMoments == nil { l.halfMoments = map[int][]float64{} }
	l.halfMoments[grade] = mom
	return height, mom, nil
}

// Tension returns the surface tension, the zeroth moment of the profile.
func (l *Lateral) Tension() float64 {
	return l.Width * floats.Sum(l.Mean)
}

// Spline returns a natural cubic spline through the mean profile.
func (l *Lateral) Spline() (*interpolate.Spline, error) {
	return interpolate.NewSpline(l.Height, l.Mean)
}

// Interpolator returns an interpolator through the mean profile. method is
// "spline" for a natural cubic spline or "linear".
func (l *Lateral) Interpolator(method string) (interpolate.Interpolator, error) {
	switch strings.ToLower(method) {
	case "spline", "":
		return l.Spline()
	case "linear":
		return interpolate.NewLinear(l.Height, l.Mean)
	}
	return nil, fmt.Errorf("Unrecognized interpolation method '%s'.", method)
}

// Resample evaluates the interpolator through the mean profile at n evenly
// spaced heights spanning the slabs.
func (l *Lateral) Resample(n int, method string) (height, gamma []float64, err error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("Cannot resample a profile to %d points.", n)
	}
	in, err := l.Interpolator(method)
	if err != nil { return nil, nil, err }

	height = floats.Span(make([]float64, n), l.Height[0], l.Height[len(l.Height)-1])
	return height, in.EvalAll(height), nil
}

// Slope returns dGamma/dz of the spline through the mean profile at each
// height.
func (l *Lateral) Slope(height []float64) ([]float64, error) {
	sp, err := l.Spline()
	if err != nil { return nil, err }
	out := make([]float64, len(height))
	for i, z := range height { out[i] = sp.Diff(z, 1) }
	return out, nil
}
