/*package ic generates initial conditions: the particle sets a simulation
starts from.
*/
package ic

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"

	"github.com/phil-mansfield/barnes/geom"
	"github.com/phil-mansfield/barnes/io"
	"github.com/phil-mansfield/barnes/particle"
)

const (
	// Random particles fill the central fillFraction of the domain's width
	// so that they don't immediately fly out of it.
	fillFraction = 0.5
	// Spiral disks extend between these fractions of the domain's width.
	diskInner, diskOuter = 0.02, 0.3
	spiralArms = 2
	spiralWinding = 2.0
)

// NewRand returns a generator seeded with seed, or with the clock if seed is
// zero.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 { seed = time.Now().UnixNano() }
	return rand.New(rand.NewSource(uint64(seed)))
}

func uniform(rng *rand.Rand, low, high float64) float64 {
	return low + (high-low)*rng.Float64()
}

// Random returns n particles with uniformly distributed positions, velocity
// components in [-maxSpeed, +maxSpeed] and masses in [minMass, maxMass].
func Random(
	n int, domain geom.Boundary,
	minMass, maxMass, maxSpeed float64, rng *rand.Rand,
) []particle.Particle {
	c := domain.Center()
	hw, hh := domain.Width*fillFraction/2, domain.Height*fillFraction/2

	ps := make([]particle.Particle, n)
	for i := range ps {
		ps[i] = particle.Particle{
			ID: i,
			Pos: geom.Vec{
				X: uniform(rng, c.X-hw, c.X+hw),
				Y: uniform(rng, c.Y-hh, c.Y+hh),
			},
			Vel: geom.Vec{
				X: uniform(rng, -maxSpeed, maxSpeed),
				Y: uniform(rng, -maxSpeed, maxSpeed),
			},
			Mass: uniform(rng, minMass, maxMass),
		}
	}
	return ps
}

// Spiral returns a heavy central body (ID 0) surrounded by n-1 particles in
// a rotating disk with logarithmic spiral arms. Disk particles start on
// circular orbits around the central body.
func Spiral(
	n int, domain geom.Boundary,
	centralMass, minMass, maxMass, G float64, rng *rand.Rand,
) []particle.Particle {
	if n <= 0 { return nil }
	c := domain.Center()
	ps := make([]particle.Particle, n)
	ps[0] = particle.Particle{ID: 0, Pos: c, Mass: centralMass}

	rMin, rMax := diskInner*domain.Width, diskOuter*domain.Width
	for i := 1; i < n; i++ {
		r := uniform(rng, rMin, rMax)
		arm := float64(i % spiralArms)
		phi := arm*2*math.Pi/spiralArms + spiralWinding*math.Log(r/rMin) +
			0.2*rng.NormFloat64()
		sin, cos := math.Sincos(phi)

		v := math.Sqrt(G * centralMass / r)
		ps[i] = particle.Particle{
			ID: i,
			Pos: geom.Vec{X: c.X + r*cos, Y: c.Y + r*sin},
			Vel: geom.Vec{X: -v * sin, Y: v * cos},
			Mass: uniform(rng, minMass, maxMass),
		}
	}
	return ps
}

// Binary returns two bodies of mass m a distance sep apart on a circular
// orbit around the origin.
func Binary(m, sep, G float64) []particle.Particle {
	// Each body is sep/2 from the center and feels G m / sep^2.
	v := math.Sqrt(G * m / (2 * sep))
	return []particle.Particle{
		{ID: 0, Pos: geom.Vec{X: -sep / 2}, Vel: geom.Vec{Y: -v}, Mass: m},
		{ID: 1, Pos: geom.Vec{X: sep / 2}, Vel: geom.Vec{Y: v}, Mass: m},
	}
}

// FromFile reads particles and the starting time from a snapshot file.
func FromFile(fname string) ([]particle.Particle, float64, error) {
	return io.ReadSnapshot(fname)
}

// Generate creates the initial conditions described by con for a
// simulation described by sim. The returned time is non-zero only for
// snapshot files.
func Generate(
	con *io.InitialConditionsConfig, sim *io.SimulationConfig,
) ([]particle.Particle, float64, error) {
	domain := geom.Square(sim.DomainSize)
	switch {
	case con.IsKind("Random"):
		rng := NewRand(con.Seed)
		return Random(con.Particles, domain,
			con.MinMass, con.MaxMass, con.MaxSpeed, rng), 0, nil
	case con.IsKind("Spiral"):
		rng := NewRand(con.Seed)
		return Spiral(con.Particles, domain, con.CentralMass,
			con.MinMass, con.MaxMass, sim.G, rng), 0, nil
	case con.IsKind("Binary"):
		return Binary(con.MaxMass, sim.DomainSize/10, sim.G), 0, nil
	case con.IsKind("File"):
		return FromFile(con.File)
	}
	return nil, 0, fmt.Errorf("Unrecognized initial conditions kind '%s'.", con.Kind)
}
