/*package geom contains the small amount of geometry needed to reason about
particles in a periodic simulation box.
*/
package geom

import (
	"math"
)

// Vec is a three dimensional vector.
type Vec [3]float64

// AddSelf adds v2 to v in place.
func (v *Vec) AddSelf(v2 *Vec) *Vec {
	for i := 0; i < 3; i++ {
		v[i] += v2[i]
	}
	return v
}

// SubSelf subtracts v2 from v in place.
func (v *Vec) SubSelf(v2 *Vec) *Vec {
	for i := 0; i < 3; i++ {
		v[i] -= v2[i]
	}
	return v
}

// ScaleSelf multiplies every component of v by k.
func (v *Vec) ScaleSelf(k float64) *Vec {
	for i := 0; i < 3; i++ {
		v[i] *= k
	}
	return v
}

// SubAt writes v - v2 to out.
func (v *Vec) SubAt(v2, out *Vec) *Vec {
	for i := 0; i < 3; i++ {
		out[i] = v[i] - v2[i]
	}
	return out
}

// Norm returns the Euclidean length of v.
func (v *Vec) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Box is the size of an orthorhombic periodic simulation box.
type Box [3]float64

// Valid returns true if every side of the box is positive.
func (b *Box) Valid() bool {
	return b[0] > 0 && b[1] > 0 && b[2] > 0
}

// MinImage replaces every component of dx with its minimum image, i.e. the
// periodic copy which lies in [-L/2, L/2].
func (b *Box) MinImage(dx *Vec) *Vec {
	for i := 0; i < 3; i++ {
		dx[i] = MinImage(dx[i], b[i])
	}
	return dx
}

// Unwrap moves x to the periodic image which is closest to ref.
func (b *Box) Unwrap(x, ref *Vec) *Vec {
	for i := 0; i < 3; i++ {
		x[i] = ref[i] + MinImage(x[i]-ref[i], b[i])
	}
	return x
}

// Fold wraps x into the box of width b centered on center, i.e. into the
// half-open range [center - L/2, center + L/2).
func (b *Box) Fold(x, center *Vec) *Vec {
	for i := 0; i < 3; i++ {
		origin := center[i] - 0.5*b[i]
		x[i] = PMod(x[i]-origin, b[i]) + origin
	}
	return x
}

// MinImage returns the periodic image of the separation dx, within a domain
// of width w, which has the smallest magnitude.
func MinImage(dx, w float64) float64 {
	if w <= 0 {
		return dx
	}
	dx -= w * math.Floor(dx/w+0.5)
	return dx
}

// PMod computes the positive modulo x % y.
func PMod(x, y float64) float64 {
	m := math.Mod(x, y)
	if m < 0 {
		m += y
	}
	// Guard against x = -tiny, where m + y rounds up to y.
	if m >= y {
		m -= y
	}
	return m
}
