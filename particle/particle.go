/*package particle contains the point masses moved around by the simulation
along with a few conserved-quantity diagnostics.
*/
package particle

import (
	"errors"
	"fmt"
	"math"

	"github.com/phil-mansfield/barnes/geom"
)

var (
	// ErrMass is returned for particles without a strictly positive mass.
	ErrMass = errors.New("particle mass must be positive")
	// ErrNotFinite is returned for particles with NaN or infinite fields.
	ErrNotFinite = errors.New("particle has a non-finite field")
)

// Particle is a point mass. ID is stable for the lifetime of a simulation.
type Particle struct {
	ID            int
	Pos, Vel, Acc geom.Vec
	Mass          float64
}

// New creates a Particle with zero acceleration, rejecting non-positive
// masses.
func New(id int, pos, vel geom.Vec, mass float64) (Particle, error) {
	p := Particle{ID: id, Pos: pos, Vel: vel, Mass: mass}
	if err := p.Check(); err != nil { return Particle{}, err }
	return p, nil
}

// Check returns an error if p could not be used by the force calculation.
func (p *Particle) Check() error {
	if math.IsNaN(p.Mass) || math.IsInf(p.Mass, 0) ||
		!geom.IsFinite(p.Pos) || !geom.IsFinite(p.Vel) ||
		!geom.IsFinite(p.Acc) {
		return fmt.Errorf("particle %d: %w", p.ID, ErrNotFinite)
	}
	if p.Mass <= 0 {
		return fmt.Errorf("particle %d has mass %g: %w", p.ID, p.Mass, ErrMass)
	}
	return nil
}

// CheckAll calls Check on every particle in ps and returns the first error.
func CheckAll(ps []Particle) error {
	for i := range ps {
		if err := ps[i].Check(); err != nil { return err }
	}
	return nil
}
