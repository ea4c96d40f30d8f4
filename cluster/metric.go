/*package cluster groups points, such as coarse-grained lipid positions, into
clusters under an arbitrary (usually periodic) metric.
*/
package cluster

import (
	"math"
)

// Metric measures separations between points.
type Metric interface {
	// Displacement writes the vector from x to y to out, allocating it if
	// out is nil.
	Displacement(x, y, out []float64) []float64
	Distance(x, y []float64) float64
}

// wrapper is implemented by metrics over bounded domains which can map a
// point back into the domain.
type wrapper interface {
	Wrap(x []float64) []float64
}

// Euclidean is the metric of an unbounded flat space.
type Euclidean struct{}

func (Euclidean) Displacement(x, y, out []float64) []float64 {
	if out == nil { out = make([]float64, len(x)) }
	for i := range x { out[i] = y[i] - x[i] }
	return out
}

func (Euclidean) Distance(x, y []float64) float64 {
	sum := 0.0
	for i := range x {
		dx := y[i] - x[i]
		sum += dx * dx
	}
	return math.Sqrt(sum)
}
