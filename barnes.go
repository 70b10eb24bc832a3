/*package barnes runs two dimensional gravitational N-body simulations. Forces
are found with a Barnes-Hut quadtree (package tree) and particles are moved
with a kick-drift-kick leapfrog (package integrator).
*/
package barnes

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/barnes/geom"
	"github.com/phil-mansfield/barnes/gravity"
)

// Params is the fixed configuration of a simulation.
type Params struct {
	// DomainSize is the side length of the square domain, which is
	// centered on the origin.
	DomainSize float64
	// Theta is the opening angle of the Barnes-Hut approximation.
	Theta float64
	Dt    float64
	G     float64
	// Epsilon is the gravitational softening length.
	Epsilon float64

	// MaxDepth bounds the tree's depth. Zero uses the tree's default.
	MaxDepth int
	// Solver is the name of a SolverType. Empty means BarnesHut.
	Solver string
	// Workers is the number of goroutines used for force queries. Zero
	// uses NumCores.
	Workers int
}

// Check returns an error describing the first invalid field of p and fills
// in defaults for optional fields.
func (p *Params) Check() error {
	switch {
	case !(p.DomainSize > 0) || math.IsInf(p.DomainSize, 0):
		return fmt.Errorf("DomainSize must be positive and finite, but is %g.", p.DomainSize)
	case !(p.Theta >= 0) || math.IsInf(p.Theta, 0):
		return fmt.Errorf("Theta must be non-negative and finite, but is %g.", p.Theta)
	case !(p.Dt > 0) || math.IsInf(p.Dt, 0):
		return fmt.Errorf("Dt must be positive and finite, but is %g.", p.Dt)
	case math.IsNaN(p.G) || math.IsInf(p.G, 0):
		return fmt.Errorf("G must be finite, but is %g.", p.G)
	case !(p.Epsilon >= 0) || math.IsInf(p.Epsilon, 0):
		return fmt.Errorf("Epsilon must be non-negative and finite, but is %g.", p.Epsilon)
	case p.MaxDepth < 0:
		return fmt.Errorf("MaxDepth must be non-negative, but is %d.", p.MaxDepth)
	case p.Workers < 0:
		return fmt.Errorf("Workers must be non-negative, but is %d.", p.Workers)
	}

	if p.Solver == "" { p.Solver = BarnesHut.String() }
	if _, err := ParseSolverType(p.Solver); err != nil { return err }
	if p.Workers == 0 { p.Workers = NumCores }
	return nil
}

// Kernel returns the pair interaction described by p.
func (p *Params) Kernel() gravity.Kernel {
	return gravity.Kernel{G: p.G, Epsilon: p.Epsilon}
}

// Domain returns the root boundary described by p.
func (p *Params) Domain() geom.Boundary { return geom.Square(p.DomainSize) }
