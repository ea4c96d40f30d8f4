package cluster

import (
	"fmt"
	"sort"
)

const (
	DefaultTol     = 1e-5
	DefaultMaxIter = 300
)

// MeanShift is a flat kernel mean shift clusterer. Every point starts as a
// centroid, and on each iteration every centroid moves to the mean of the
// points which lie within Radius of it. Centroids which converge onto each
// other are merged.
type MeanShift struct {
	Radius float64
	// Metric defaults to Euclidean. If it can wrap points, centroids are
	// wrapped back into its domain after every step.
	Metric Metric
	// Tol is both the convergence threshold and the distance below which two
	// centroids are merged. Defaults to DefaultTol.
	Tol float64
	// MaxIter defaults to DefaultMaxIter.
	MaxIter int
}

// Result is the output of a clustering.
type Result struct {
	Centroids  [][]float64
	Labels     []int // index into Centroids for each point
	Sizes      []int
	Iterations int
	Converged  bool
}

// dimensioned is implemented by metrics with a fixed dimension.
type dimensioned interface {
	Dim() int
}

func checkPoints(points [][]float64, metric Metric) error {
	if len(points) == 0 {
		return fmt.Errorf("No points were given to cluster.")
	}
	dim := len(points[0])
	if dm, ok := metric.(dimensioned); ok && dm.Dim() != dim {
		return fmt.Errorf("Points have dimension %d, but the metric has dimension %d.",
			dim, dm.Dim())
	}
	for i := range points {
		if len(points[i]) != dim {
			return fmt.Errorf("Point %d has dimension %d, but point 0 has dimension %d.",
				i, len(points[i]), dim)
		}
	}
	return nil
}

// Fit clusters points.
func (ms *MeanShift) Fit(points [][]float64) (*Result, error) {
	if ms.Radius <= 0 {
		return nil, fmt.Errorf("Mean shift radius must be positive, not %g.", ms.Radius)
	}
	metric, tol, maxIter := ms.Metric, ms.Tol, ms.MaxIter
	if metric == nil { metric = Euclidean{} }
	if err := checkPoints(points, metric); err != nil { return nil, err }
	if tol <= 0 { tol = DefaultTol }
	if maxIter <= 0 { maxIter = DefaultMaxIter }
	wrap, canWrap := metric.(wrapper)

	dim := len(points[0])
	cents := make([][]float64, len(points))
	for i := range points {
		cents[i] = append([]float64{}, points[i]...)
	}

	res := &Result{}
	disp, sum := make([]float64, dim), make([]float64, dim)
	for res.Iterations < maxIter && !res.Converged {
		res.Iterations++
		maxMove := 0.0

		next := make([][]float64, len(cents))
		for c, cent := range cents {
			for k := range sum { sum[k] = 0 }
			n := 0
			for _, p := range points {
				if metric.Distance(cent, p) >= ms.Radius { continue }
				metric.Displacement(cent, p, disp)
				for k := range sum { sum[k] += disp[k] }
				n++
			}

			next[c] = append([]float64{}, cent...)
			if n > 0 {
				for k := range sum { next[c][k] += sum[k] / float64(n) }
			}
			if canWrap { wrap.Wrap(next[c]) }

			if d := metric.Distance(cent, next[c]); d > maxMove { maxMove = d }
		}

		cents = mergeCentroids(next, metric, tol)
		res.Converged = maxMove < tol
	}

	sort.Slice(cents, func(i, j int) bool { return lexLess(cents[i], cents[j]) })
	res.Centroids = cents
	res.Labels, res.Sizes = nearest(points, cents, metric)
	return res, nil
}

// mergeCentroids removes every centroid which is within tol of an earlier
// one.
func mergeCentroids(cents [][]float64, metric Metric, tol float64) [][]float64 {
	out := [][]float64{}
	for _, c := range cents {
		dup := false
		for _, kept := range out {
			if metric.Distance(c, kept) < tol {
				dup = true
				break
			}
		}
		if !dup { out = append(out, c) }
	}
	return out
}

func lexLess(x, y []float64) bool {
	for k := range x {
		if x[k] != y[k] { return x[k] < y[k] }
	}
	return false
}

func nearest(points, cents [][]float64, metric Metric) (labels, sizes []int) {
	labels, sizes = make([]int, len(points)), make([]int, len(cents))
	for i, p := range points {
		best, bestDist := 0, metric.Distance(p, cents[0])
		for c := 1; c < len(cents); c++ {
			if d := metric.Distance(p, cents[c]); d < bestDist {
				best, bestDist = c, d
			}
		}
		labels[i] = best
		sizes[best]++
	}
	return labels, sizes
}
