/*package io reads configuration files and reads and writes particle
snapshot tables.
*/
package io

import (
	"fmt"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/barnes"
)

const (
	ExampleSimulationFile = `[Simulation]

#######################
# Required Parameters #
#######################

# Width of the square simulation domain, which is centered on the origin.
# Particles which leave the domain end the run with an error, so leave some
# room.
DomainSize = 200

# Opening angle of the Barnes-Hut approximation. Nodes of width s at a
# distance d are treated as a point mass when s/d < Theta. Theta = 0 is an
# exact (and slow) pairwise sum.
Theta = 0.5

# Time step and number of steps.
Dt = 0.01
Steps = 1000

# Gravitational constant in code units.
G = 1

#######################
# Optional Parameters #
#######################

# Plummer softening length. Default is 0.
# Epsilon = 0.1

# Particles closer together than DomainSize / 2^MaxDepth share a tree node.
# Default is 64.
# MaxDepth = 64

# Must be one of [ BarnesHut | Direct | Gonum ]. Direct is an exact O(n^2)
# sum and Gonum uses gonum's Barnes-Hut implementation. Default is
# BarnesHut.
# Solver = BarnesHut

[InitialConditions]

#######################
# Required Parameters #
#######################

# Must be one of [ Random | Spiral | Binary | File ].
# Random: uniform positions, velocities and masses.
# Spiral: a rotating disk around a heavy central body.
# Binary: two bodies on a circular orbit. Particles is ignored.
# File: particles read from a snapshot file written by an earlier run.
Kind = Random

# Number of particles.
Particles = 500

#######################
# Optional Parameters #
#######################

# Random seed. Default is 0, which seeds from the clock.
# Seed = 1

# Range of particle masses. Defaults are 1 and 10.
# MinMass = 1
# MaxMass = 10

# Random velocity components are drawn from [-MaxSpeed, +MaxSpeed].
# Default is 10.
# MaxSpeed = 10

# Mass of the central body for Spiral initial conditions. Default is
# 100 * MaxMass.
# CentralMass = 1000

# Snapshot file used when Kind = File.
# File = path/to/snapshot.txt

[Output]

#######################
# Optional Parameters #
#######################

# Directory which snapshots and plots are written to. Default is the
# working directory.
# Dir = path/to/output/dir

# Write a snapshot table every SnapshotEvery steps. Default is 0 (never).
# SnapshotEvery = 100

# Plot a frame every PlotEvery steps. Requires python and matplotlib.
# Default is 0 (never).
# PlotEvery = 10

# Number of past positions drawn behind each particle in plots. Default
# is 50.
# Trail = 50

# Log progress every LogEvery steps. Default is 10.
# LogEvery = 10

# Output files which are useful for profiling and debugging.
# ProfileFile = prof.out
# LogFile = log.out`
)

// InitialConditions kinds.
var ICKinds = []string{"Random", "Spiral", "Binary", "File"}

type SimulationConfig struct {
	// Required
	DomainSize, Theta, Dt, G float64
	Steps int

	// Optional
	Epsilon float64
	MaxDepth int
	Solver string
}

func (con *SimulationConfig) ValidDomainSize() bool { return con.DomainSize > 0 }
func (con *SimulationConfig) ValidTheta() bool { return con.Theta >= 0 }
func (con *SimulationConfig) ValidDt() bool { return con.Dt > 0 }
func (con *SimulationConfig) ValidSteps() bool { return con.Steps >= 0 }
func (con *SimulationConfig) ValidEpsilon() bool { return con.Epsilon >= 0 }
func (con *SimulationConfig) ValidMaxDepth() bool { return con.MaxDepth >= 0 }
func (con *SimulationConfig) ValidSolver() bool {
	_, err := barnes.ParseSolverType(con.Solver)
	return err == nil
}

// Params converts con into simulation parameters which use the given number
// of worker goroutines.
func (con *SimulationConfig) Params(workers int) barnes.Params {
	return barnes.Params{
		DomainSize: con.DomainSize,
		Theta: con.Theta,
		Dt: con.Dt,
		G: con.G,
		Epsilon: con.Epsilon,
		MaxDepth: con.MaxDepth,
		Solver: con.Solver,
		Workers: workers,
	}
}

type InitialConditionsConfig struct {
	// Required
	Kind string
	Particles int

	// Optional
	Seed int64
	MinMass, MaxMass, MaxSpeed, CentralMass float64
	File string
}

func (con *InitialConditionsConfig) ValidKind() bool {
	for _, kind := range ICKinds {
		if strings.ToLower(kind) == strings.ToLower(con.Kind) { return true }
	}
	return false
}
func (con *InitialConditionsConfig) ValidParticles() bool {
	return con.Particles > 0 || con.IsKind("Binary") || con.IsKind("File")
}
func (con *InitialConditionsConfig) ValidMass() bool {
	return con.MinMass > 0 && con.MaxMass >= con.MinMass
}
func (con *InitialConditionsConfig) ValidMaxSpeed() bool {
	return con.MaxSpeed >= 0
}
func (con *InitialConditionsConfig) ValidCentralMass() bool {
	return con.CentralMass > 0
}
func (con *InitialConditionsConfig) ValidFile() bool {
	return con.File != ""
}

// IsKind returns true if con.Kind is kind, ignoring case.
func (con *InitialConditionsConfig) IsKind(kind string) bool {
	return strings.ToLower(con.Kind) == strings.ToLower(kind)
}

type OutputConfig struct {
	Dir string
	SnapshotEvery, PlotEvery, LogEvery, Trail int
	LogFile, ProfileFile string
}

func (con *OutputConfig) ValidSnapshotEvery() bool { return con.SnapshotEvery >= 0 }
func (con *OutputConfig) ValidPlotEvery() bool { return con.PlotEvery >= 0 }
func (con *OutputConfig) ValidLogEvery() bool { return con.LogEvery > 0 }
func (con *OutputConfig) ValidTrail() bool { return con.Trail >= 0 }
func (con *OutputConfig) ValidLogFile() bool { return con.LogFile != "" }
func (con *OutputConfig) ValidProfileFile() bool { return con.ProfileFile != "" }

type SimulationWrapper struct {
	Simulation SimulationConfig
	InitialConditions InitialConditionsConfig
	Output OutputConfig
}

func DefaultSimulationWrapper() *SimulationWrapper {
	wrap := &SimulationWrapper{}
	wrap.Simulation.MaxDepth = 0
	wrap.Simulation.Solver = barnes.BarnesHut.String()
	wrap.InitialConditions.MinMass = 1
	wrap.InitialConditions.MaxMass = 10
	wrap.InitialConditions.MaxSpeed = 10
	wrap.Output.Dir = "."
	wrap.Output.LogEvery = 10
	wrap.Output.Trail = 50
	return wrap
}

// Check returns an error naming the first invalid value in wrap. Defaults
// which depend on other values are filled in.
func (wrap *SimulationWrapper) Check() error {
	sim, ic, out := &wrap.Simulation, &wrap.InitialConditions, &wrap.Output

	if ic.CentralMass == 0 { ic.CentralMass = 100 * ic.MaxMass }

	switch {
	case !sim.ValidDomainSize():
		return fmt.Errorf("Invalid/non-existent 'DomainSize' value.")
	case !sim.ValidTheta():
		return fmt.Errorf("Invalid/non-existent 'Theta' value.")
	case !sim.ValidDt():
		return fmt.Errorf("Invalid/non-existent 'Dt' value.")
	case !sim.ValidSteps():
		return fmt.Errorf("Invalid 'Steps' value, %d.", sim.Steps)
	case !sim.ValidEpsilon():
		return fmt.Errorf("Invalid 'Epsilon' value, %g.", sim.Epsilon)
	case !sim.ValidMaxDepth():
		return fmt.Errorf("Invalid 'MaxDepth' value, %d.", sim.MaxDepth)
	case !sim.ValidSolver():
		return fmt.Errorf("Invalid 'Solver' value, '%s'.", sim.Solver)

	case !ic.ValidKind():
		return fmt.Errorf("Invalid/non-existent 'Kind' value, '%s'. Must be "+
			"one of %s.", ic.Kind, strings.Join(ICKinds, ", "))
	case !ic.ValidParticles():
		return fmt.Errorf("Invalid/non-existent 'Particles' value.")
	case !ic.ValidMass():
		return fmt.Errorf("Invalid 'MinMass'/'MaxMass' values, %g and %g.",
			ic.MinMass, ic.MaxMass)
	case !ic.ValidMaxSpeed():
		return fmt.Errorf("Invalid 'MaxSpeed' value, %g.", ic.MaxSpeed)
	case !ic.ValidCentralMass():
		return fmt.Errorf("Invalid 'CentralMass' value, %g.", ic.CentralMass)
	case ic.IsKind("File") && !ic.ValidFile():
		return fmt.Errorf("'File' must be set when Kind = File.")

	case !out.ValidSnapshotEvery():
		return fmt.Errorf("Invalid 'SnapshotEvery' value, %d.", out.SnapshotEvery)
	case !out.ValidPlotEvery():
		return fmt.Errorf("Invalid 'PlotEvery' value, %d.", out.PlotEvery)
	case !out.ValidLogEvery():
		return fmt.Errorf("Invalid 'LogEvery' value, %d.", out.LogEvery)
	case !out.ValidTrail():
		return fmt.Errorf("Invalid 'Trail' value, %d.", out.Trail)
	}
	return nil
}

// ReadConfig reads and checks the configuration file fname.
func ReadConfig(fname string) (*SimulationWrapper, error) {
	wrap := DefaultSimulationWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil { return nil, err }
	if err := wrap.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return wrap, nil
}

// ReadConfigString reads and checks a configuration from a string.
func ReadConfigString(str string) (*SimulationWrapper, error) {
	wrap := DefaultSimulationWrapper()
	if err := gcfg.ReadStringInto(wrap, str); err != nil { return nil, err }
	if err := wrap.Check(); err != nil { return nil, err }
	return wrap, nil
}
