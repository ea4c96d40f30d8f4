package interpolate

import (
	"fmt"
)

// searcher finds the interval of a sorted table that contains a point. Points
// outside the table are assigned to the first or last interval, so
// interpolators built on top of it extrapolate linearly.
type searcher struct {
	xs []float64
	incr bool

	// Uniform tables don't need to be stored.
	unif bool
	x0, dx float64
	n int
}

func (s *searcher) init(xs []float64) error {
	if len(xs) < 2 {
		return fmt.Errorf("Table has length %d, but at least 2 are needed.",
			len(xs))
	}

	s.xs = xs
	s.n = len(xs)
	s.incr = xs[1] > xs[0]
	for i := 0; i < len(xs)-1; i++ {
		if (xs[i+1] > xs[i]) != s.incr || xs[i+1] == xs[i] {
			return fmt.Errorf("Table is not strictly monotonic at index %d.", i)
		}
	}
	return nil
}

func (s *searcher) unifInit(x0, dx float64, n int) error {
	if n < 2 {
		return fmt.Errorf("Table has length %d, but at least 2 are needed.", n)
	} else if dx == 0 {
		return fmt.Errorf("Uniform table has zero spacing.")
	}
	s.unif = true
	s.x0, s.dx, s.n = x0, dx, n
	s.incr = dx > 0
	return nil
}

// val returns the i-th point in the table.
func (s *searcher) val(i int) float64 {
	if s.unif {
		return s.x0 + float64(i)*s.dx
	}
	return s.xs[i]
}

// search returns the index of the lower edge of the interval containing x.
// The returned index is always in [0, n - 2].
func (s *searcher) search(x float64) int {
	if s.unif {
		return clampIdx(int((x-s.x0)/s.dx), s.n-2)
	}

	lo, hi := 0, s.n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if s.incr == (x >= s.xs[mid]) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return clampIdx(lo, s.n-2)
}

func clampIdx(i, max int) int {
	if i < 0 {
		return 0
	} else if i > max {
		return max
	}
	return i
}
