package geom

import (
	"fmt"
	"math"
)

// PeriodicMetric measures distances between points in a periodic domain of
// arbitrary dimension. The dimension is len(Box).
type PeriodicMetric struct {
	Box []float64
}

// NewPeriodicMetric returns a metric over a domain with the given widths. Every
// width must be positive.
func NewPeriodicMetric(box ...float64) (*PeriodicMetric, error) {
	if len(box) == 0 {
		return nil, fmt.Errorf("Periodic metric requires at least one dimension.")
	}
	for i, w := range box {
		if w <= 0 {
			return nil, fmt.Errorf(
				"Width %d of periodic metric must be positive, but is %g.", i, w,
			)
		}
	}
	m := &PeriodicMetric{Box: make([]float64, len(box))}
	copy(m.Box, box)
	return m, nil
}

// Dim returns the dimension of the domain.
func (m *PeriodicMetric) Dim() int { return len(m.Box) }

// Displacement writes the minimum image of y - x to out, which is also
// returned. If out is nil, a new slice is allocated.
func (m *PeriodicMetric) Displacement(x, y, out []float64) []float64 {
	if out == nil {
		out = make([]float64, len(m.Box))
	}
	for i, w := range m.Box {
		out[i] = MinImage(y[i]-x[i], w)
	}
	return out
}

// Distance returns the minimum image distance between x and y.
func (m *PeriodicMetric) Distance(x, y []float64) float64 {
	return math.Sqrt(m.Distance2(x, y))
}

// Distance2 returns the squared minimum image distance between x and y.
func (m *PeriodicMetric) Distance2(x, y []float64) float64 {
	sum := 0.0
	for i, w := range m.Box {
		dx := MinImage(y[i]-x[i], w)
		sum += dx * dx
	}
	return sum
}

// Wrap folds every component of x into [0, w).
func (m *PeriodicMetric) Wrap(x []float64) []float64 {
	for i, w := range m.Box {
		x[i] = PMod(x[i], w)
	}
	return x
}
