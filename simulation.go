package barnes

import (
	"fmt"

	"github.com/phil-mansfield/barnes/integrator"
	"github.com/phil-mansfield/barnes/particle"
)

// Simulation advances a fixed set of particles through time.
type Simulation struct {
	Particles []particle.Particle
	Params    Params
	// Time is the current simulation time and Steps is the number of
	// completed steps.
	Time  float64
	Steps int

	solver Solver
	// saved holds the particles from before the current step.
	saved []particle.Particle
}

// New checks params and particles, creates the solver named by params and
// computes the starting accelerations so that the first half kick uses the
// forces of the initial positions. The particle slice is used in place.
func New(ps []particle.Particle, params Params) (*Simulation, error) {
	if err := params.Check(); err != nil { return nil, err }
	if err := particle.CheckAll(ps); err != nil { return nil, err }

	solver, err := NewSolver(&params)
	if err != nil { return nil, err }

	sim := &Simulation{Particles: ps, Params: params, solver: solver}
	if err := solver.Accelerate(ps); err != nil {
		return nil, fmt.Errorf("initial conditions: %w", err)
	}
	return sim, nil
}

// Solver returns the solver used by sim.
func (sim *Simulation) Solver() Solver { return sim.solver }

// Step advances the simulation by one leapfrog step:
// kick(dt/2), drift(dt), recompute forces, kick(dt/2). If a particle has
// left the domain the error (matching tree.ErrOutOfDomain) is returned and
// the particles, Time and Steps are put back to where they were before the
// step.
func (sim *Simulation) Step() error {
	dt := sim.Params.Dt
	sim.saved = append(sim.saved[:0], sim.Particles...)

	integrator.HalfKick(sim.Particles, dt)
	integrator.Drift(sim.Particles, dt)
	if err := sim.solver.Accelerate(sim.Particles); err != nil {
		copy(sim.Particles, sim.saved)
		return fmt.Errorf("step %d: %w", sim.Steps+1, err)
	}
	integrator.HalfKick(sim.Particles, dt)

	sim.Time += dt
	sim.Steps++
	return nil
}

// Run calls Step n times, calling fn after every step. It returns early
// with the first error from Step or fn, or with a nil error when stop is
// closed. stop is only checked between steps and may be nil.
func (sim *Simulation) Run(
	n int, stop <-chan struct{}, fn func(sim *Simulation) error,
) error {
	for i := 0; i < n; i++ {
		select {
		case <-stop:
			return nil
		default:
		}

		if err := sim.Step(); err != nil { return err }
		if fn != nil {
			if err := fn(sim); err != nil { return err }
		}
	}
	return nil
}

// Energy returns the kinetic and potential energy of the particles. The
// potential is an exact pair sum, so this is expensive for large runs.
func (sim *Simulation) Energy() (kinetic, potential float64) {
	kinetic = particle.KineticEnergy(sim.Particles)
	potential = PotentialEnergy(sim.Particles, sim.Params.Kernel(), sim.Params.Workers)
	return kinetic, potential
}
