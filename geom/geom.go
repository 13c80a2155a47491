/*package geom contains the small geometric types shared by the merger
kernels.
*/
package geom

import (
	"math"
)

// Vec is a three dimensional vector.
type Vec [3]float64

// Add returns u + v.
func (u Vec) Add(v Vec) Vec {
	return Vec{u[0] + v[0], u[1] + v[1], u[2] + v[2]}
}

// Sub returns u - v.
func (u Vec) Sub(v Vec) Vec {
	return Vec{u[0] - v[0], u[1] - v[1], u[2] - v[2]}
}

// Scale returns a*u.
func (u Vec) Scale(a float64) Vec {
	return Vec{a * u[0], a * u[1], a * u[2]}
}

// Norm returns the Euclidean length of u.
func (u Vec) Norm() float64 {
	return math.Sqrt(u[0]*u[0] + u[1]*u[1] + u[2]*u[2])
}

// Dist returns the distance between the points u and v.
func (u Vec) Dist(v Vec) float64 {
	return u.Sub(v).Norm()
}

// Bounds is an axis-aligned box.
type Bounds struct {
	Min, Max Vec
}

// Center returns the center of the box.
func (b *Bounds) Center() Vec {
	var c Vec
	for d := 0; d < 3; d++ {
		c[d] = 0.5 * (b.Min[d] + b.Max[d])
	}
	return c
}

// Width returns the box's extent along axis d.
func (b *Bounds) Width(d int) float64 {
	return b.Max[d] - b.Min[d]
}

// DistSqr returns the squared distance from the box to the point pt. An
// axis contributes nothing if pt lies between the box's two faces on that
// axis, and the squared distance to the nearer face otherwise.
func (b *Bounds) DistSqr(pt Vec) float64 {
	sum := 0.0
	for d := 0; d < 3; d++ {
		lo, hi := b.Min[d]-pt[d], b.Max[d]-pt[d]
		if lo*hi > 0 {
			sum += math.Min(lo*lo, hi*hi)
		}
	}
	return sum
}

// Contains returns true if pt is inside the box.
func (b *Bounds) Contains(pt Vec) bool {
	for d := 0; d < 3; d++ {
		if pt[d] < b.Min[d] || pt[d] >= b.Max[d] {
			return false
		}
	}
	return true
}
