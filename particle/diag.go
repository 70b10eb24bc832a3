package particle

import (
	"github.com/phil-mansfield/barnes/geom"
)

// TotalMass returns the summed mass of ps.
func TotalMass(ps []Particle) float64 {
	sum := 0.0
	for i := range ps { sum += ps[i].Mass }
	return sum
}

// CenterOfMass returns the mass-weighted mean position of ps. It returns the
// zero vector for an empty slice.
func CenterOfMass(ps []Particle) geom.Vec {
	var c geom.Vec
	m := 0.0
	for i := range ps {
		c = c.Add(ps[i].Pos.Scale(ps[i].Mass))
		m += ps[i].Mass
	}
	if m == 0 { return geom.Vec{} }
	return c.Scale(1 / m)
}

// Momentum returns the total linear momentum of ps.
func Momentum(ps []Particle) geom.Vec {
	var p geom.Vec
	for i := range ps { p = p.Add(ps[i].Vel.Scale(ps[i].Mass)) }
	return p
}

// KineticEnergy returns the total kinetic energy of ps.
func KineticEnergy(ps []Particle) float64 {
	sum := 0.0
	for i := range ps {
		sum += 0.5 * ps[i].Mass * geom.Norm2(ps[i].Vel)
	}
	return sum
}
