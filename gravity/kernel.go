/*package gravity contains the softened Newtonian pair interaction shared by
every force solver.
*/
package gravity

import (
	"math"

	"github.com/phil-mansfield/barnes/geom"
)

// Kernel is a Plummer-softened point-mass interaction.
type Kernel struct {
	// G is the gravitational constant in code units.
	G float64
	// Epsilon is the softening length.
	Epsilon float64
}

// Accel returns the acceleration of a test body at pos1 due to a mass m2
// at pos2:
//
//     G m2 (pos2 - pos1) / (|pos2 - pos1|^2 + eps^2)^(3/2)
//
// If the softened separation is exactly zero the zero vector is returned.
func (k Kernel) Accel(pos1, pos2 geom.Vec, m2 float64) geom.Vec {
	dx, dy := pos2.X-pos1.X, pos2.Y-pos1.Y
	r2 := dx*dx + dy*dy + k.Epsilon*k.Epsilon
	if r2 == 0 { return geom.Vec{} }
	f := k.G * m2 / (r2 * math.Sqrt(r2))
	return geom.Vec{X: f * dx, Y: f * dy}
}

// Potential returns the softened potential energy of a pair of masses. As
// with Accel, a zero softened separation contributes nothing.
func (k Kernel) Potential(pos1 geom.Vec, m1 float64, pos2 geom.Vec, m2 float64) float64 {
	dx, dy := pos2.X-pos1.X, pos2.Y-pos1.Y
	r2 := dx*dx + dy*dy + k.Epsilon*k.Epsilon
	if r2 == 0 { return 0 }
	return -k.G * m1 * m2 / math.Sqrt(r2)
}
