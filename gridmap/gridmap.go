/*package gridmap computes coarse two dimensional averages of a scalar field,
such as the height of a bilayer over its lateral plane, and uses them to
decide which side of the averaged surface a point lies on.
*/
package gridmap

import (
	"errors"
	"fmt"
	"math"

	"github.com/phil-mansfield/modylip/geom"
	"github.com/phil-mansfield/modylip/interpolate"
)

// ErrEmpty is returned when a GridMap is built without any samples.
var ErrEmpty = errors.New("gridmap: no samples")

// GridMap is the average of a scalar quantity over buckets of a 2D domain.
// There are Points[k] + 1 buckets along axis k so that the maximum sample
// lands in the last bucket.
type GridMap struct {
	Origin [2]float64
	Width  [2]float64
	Points [2]int

	grid   geom.Grid
	vals   []float64
	counts []int
	mean   float64
	surf   *Surface
}

// New bins the samples (xs[i], ys[i]) -> vals[i] into a GridMap with the
// given number of points along each axis. Buckets without samples take the
// mean of all the samples.
func New(xs, ys, vals []float64, points [2]int) (*GridMap, error) {
	if len(xs) != len(ys) || len(xs) != len(vals) {
		return nil, fmt.Errorf(
			"Unequal samples: len(xs) = %d, len(ys) = %d, len(vals) = %d.",
			len(xs), len(ys), len(vals),
		)
	} else if points[0] <= 0 || points[1] <= 0 {
		return nil, fmt.Errorf(
			"Grid points must be positive, but are %d and %d.",
			points[0], points[1],
		)
	} else if len(xs) == 0 {
		return nil, ErrEmpty
	}

	gm := &GridMap{Points: points}
	gm.grid.Init([2]int{points[0] + 1, points[1] + 1})

	for k, coords := range [][]float64{xs, ys} {
		min, max := coords[0], coords[0]
		for _, x := range coords {
			if x < min { min = x }
			if x > max { max = x }
		}
		gm.Origin[k] = min
		gm.Width[k] = (max - min) / float64(points[k])
	}

	gm.vals = make([]float64, gm.grid.Area)
	gm.counts = make([]int, gm.grid.Area)
	sum := 0.0
	for n := range vals {
		i, j := gm.Cell(xs[n], ys[n])
		idx := gm.grid.Idx(i, j)
		gm.vals[idx] += vals[n]
		gm.counts[idx]++
		sum += vals[n]
	}
	gm.mean = sum / float64(len(vals))

	for idx := range gm.vals {
		if gm.counts[idx] == 0 {
			gm.vals[idx] = gm.mean
		} else {
			gm.vals[idx] /= float64(gm.counts[idx])
		}
	}

	var err error
	gm.surf, err = newSurface(gm)
	if err != nil { return nil, err }
	return gm, nil
}

func (gm *GridMap) axisIdx(x float64, k int) int {
	if gm.Width[k] == 0 { return 0 }
	return int(math.Floor((x - gm.Origin[k]) / gm.Width[k]))
}

// Cell returns the bucket containing (x, y). Points outside the domain are
// assigned to the closest bucket.
func (gm *GridMap) Cell(x, y float64) (i, j int) {
	return gm.grid.Clamp(gm.axisIdx(x, 0), gm.axisIdx(y, 1))
}

// Buckets returns the number of buckets along each axis.
func (gm *GridMap) Buckets() [2]int { return gm.grid.Width }

// Value returns the average stored in bucket (i, j).
func (gm *GridMap) Value(i, j int) float64 {
	return gm.vals[gm.grid.Idx(i, j)]
}

// Count returns the number of samples which landed in bucket (i, j).
func (gm *GridMap) Count(i, j int) int {
	return gm.counts[gm.grid.Idx(i, j)]
}

// Mean returns the mean of every sample used to build the map.
func (gm *GridMap) Mean() float64 { return gm.mean }

// Center returns the coordinates of the center of bucket (i, j).
func (gm *GridMap) Center(i, j int) (x, y float64) {
	return gm.Origin[0] + (float64(i)+0.5)*gm.Width[0],
		gm.Origin[1] + (float64(j)+0.5)*gm.Width[1]
}

// Classify returns 1 if p lies on or above the averaged surface and 0
// otherwise.
func (gm *GridMap) Classify(p *geom.Vec) int {
	i, j := gm.Cell(p[0], p[1])
	if p[2] >= gm.Value(i, j) {
		return 1
	}
	return 0
}

// ClassifySmooth is identical to Classify, except that the point is compared
// against the bilinear interpolation of the bucket averages.
func (gm *GridMap) ClassifySmooth(p *geom.Vec) int {
	if p[2] >= gm.surf.Eval(p[0], p[1]) {
		return 1
	}
	return 0
}

// Smooth returns a bilinear interpolation of the map through the bucket
// centers.
func (gm *GridMap) Smooth() *Surface { return gm.surf }

// Surface is a smooth version of a GridMap. Points outside the bucket centers
// are evaluated at the closest point on the boundary.
type Surface struct {
	bi     interpolate.BiInterpolator
	lo, hi [2]float64
}

func newSurface(gm *GridMap) (*Surface, error) {
	s := &Surface{}
	n := gm.grid.Width

	// A zero-extent axis still needs a finite spacing for the interpolator.
	// Lookups along it are clamped onto the first center.
	var dx [2]float64
	for k := 0; k < 2; k++ {
		dx[k] = gm.Width[k]
		if dx[k] == 0 { dx[k] = 1 }
		s.lo[k] = gm.Origin[k] + 0.5*dx[k]
		if gm.Width[k] == 0 {
			s.hi[k] = s.lo[k]
		} else {
			s.hi[k] = s.lo[k] + float64(n[k]-1)*dx[k]
		}
	}

	var err error
	s.bi, err = interpolate.NewUniformBiLinear(
		s.lo[0], dx[0], n[0], s.lo[1], dx[1], n[1], gm.vals,
	)
	if err != nil { return nil, err }
	return s, nil
}

// Eval returns the height of the surface at (x, y).
func (s *Surface) Eval(x, y float64) float64 {
	return s.bi.Eval(clampRange(x, s.lo[0], s.hi[0]),
		clampRange(y, s.lo[1], s.hi[1]))
}

func clampRange(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	} else if x > hi {
		return hi
	}
	return x
}
