package profile

import (
	"fmt"
	"math"
)

// Accumulator computes the mean and variance of a vector of quantities over
// many samples. Deviations are accumulated relative to a guess of the mean,
// so the results stay accurate when the mean is large compared to the
// spread.
type Accumulator struct {
	guess, s1, s2 []float64
	n             int
}

// NewAccumulator returns an Accumulator which shifts samples by guess. The
// guess is copied.
func NewAccumulator(guess []float64) *Accumulator {
	acc := &Accumulator{
		guess: make([]float64, len(guess)),
		s1:    make([]float64, len(guess)),
		s2:    make([]float64, len(guess)),
	}
	copy(acc.guess, guess)
	return acc
}

// Len returns the number of quantities tracked by the accumulator.
func (acc *Accumulator) Len() int { return len(acc.guess) }

// N returns the number of completed samples.
func (acc *Accumulator) N() int { return acc.n }

// AddAt adds x to the running sums of the i-th quantity. It does not change
// the sample count.
func (acc *Accumulator) AddAt(i int, x float64) {
	dx := x - acc.guess[i]
	acc.s1[i] += dx
	acc.s2[i] += dx * dx
}

// EndSample marks the end of a sample.
func (acc *Accumulator) EndSample() { acc.n++ }

// Add adds a full sample.
func (acc *Accumulator) Add(xs []float64) error {
	if len(xs) != len(acc.guess) {
		return fmt.Errorf("Sample has length %d, but accumulator has length %d.",
			len(xs), len(acc.guess))
	}
	for i, x := range xs { acc.AddAt(i, x) }
	acc.EndSample()
	return nil
}

// Mean writes the mean of every quantity to out, which is returned. If out is
// nil, a new slice is allocated.
func (acc *Accumulator) Mean(out []float64) []float64 {
	if out == nil { out = make([]float64, acc.Len()) }
	n := float64(acc.n)
	for i := range out {
		out[i] = acc.guess[i] + acc.s1[i]/n
	}
	return out
}

// Var writes the unbiased variance of every quantity to out, which is
// returned. At least two samples are required.
func (acc *Accumulator) Var(out []float64) []float64 {
	if out == nil { out = make([]float64, acc.Len()) }
	n := float64(acc.n)
	for i := range out {
		v := (acc.s2[i] - acc.s1[i]*acc.s1[i]/n) / (n - 1)
		// Rounding can push a zero variance slightly negative.
		if v < 0 { v = 0 }
		out[i] = v
	}
	return out
}

// Std writes the standard deviation of every quantity to out.
func (acc *Accumulator) Std(out []float64) []float64 {
	out = acc.Var(out)
	for i := range out { out[i] = math.Sqrt(out[i]) }
	return out
}
