/*package geom contains the two dimensional vectors and axis-aligned boxes
used by the quadtree.
*/
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a two dimensional vector with the same layout as gonum's r2.Vec,
// so the two convert freely.
type Vec r2.Vec

// Add returns v + u.
func (v Vec) Add(u Vec) Vec { return Vec(r2.Add(r2.Vec(v), r2.Vec(u))) }

// Sub returns v - u.
func (v Vec) Sub(u Vec) Vec { return Vec(r2.Sub(r2.Vec(v), r2.Vec(u))) }

// Scale returns f * v.
func (v Vec) Scale(f float64) Vec { return Vec(r2.Scale(f, r2.Vec(v))) }

// Norm returns the Euclidean length of v.
func Norm(v Vec) float64 { return r2.Norm(r2.Vec(v)) }

// Norm2 returns the squared Euclidean length of v.
func Norm2(v Vec) float64 { return r2.Norm2(r2.Vec(v)) }

// Dist returns the distance between a and b.
func Dist(a, b Vec) float64 { return Norm(b.Sub(a)) }

// WeightedMean returns the center of mass of a point of mass m1 at c1 and a
// point of mass m2 at c2. The combined mass must be positive.
func WeightedMean(m1 float64, c1 Vec, m2 float64, c2 Vec) Vec {
	m := m1 + m2
	return Vec{
		X: (m1*c1.X + m2*c2.X) / m,
		Y: (m1*c1.Y + m2*c2.Y) / m,
	}
}

// IsFinite returns true if neither component of v is NaN or infinite.
func IsFinite(v Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
