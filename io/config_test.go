package io

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExampleConfig(t *testing.T) {
	wrap, err := ReadConfigString(ExampleSimulationFile)
	require.NoError(t, err)

	sim, ic, out := wrap.Simulation, wrap.InitialConditions, wrap.Output
	assert.Equal(t, 200.0, sim.DomainSize)
	assert.Equal(t, 0.5, sim.Theta)
	assert.Equal(t, 0.01, sim.Dt)
	assert.Equal(t, 1000, sim.Steps)
	assert.Equal(t, 1.0, sim.G)
	assert.Equal(t, 0.0, sim.Epsilon)
	assert.Equal(t, "BarnesHut", sim.Solver)

	assert.True(t, ic.IsKind("random"))
	assert.Equal(t, 500, ic.Particles)
	assert.Equal(t, 1.0, ic.MinMass)
	assert.Equal(t, 10.0, ic.MaxMass)
	assert.Equal(t, 1000.0, ic.CentralMass)

	assert.Equal(t, ".", out.Dir)
	assert.Equal(t, 10, out.LogEvery)
	assert.Equal(t, 50, out.Trail)
	assert.False(t, out.ValidLogFile())
	assert.False(t, out.ValidProfileFile())
}

func TestConfigParams(t *testing.T) {
	wrap, err := ReadConfigString(`[Simulation]
DomainSize = 10
Theta = 0.7
Dt = 0.5
G = 2
Steps = 3
Epsilon = 0.25
MaxDepth = 12
Solver = direct

[InitialConditions]
Kind = Binary
`)
	require.NoError(t, err)

	p := wrap.Simulation.Params(4)
	require.NoError(t, p.Check())
	assert.Equal(t, 10.0, p.DomainSize)
	assert.Equal(t, 0.7, p.Theta)
	assert.Equal(t, 0.5, p.Dt)
	assert.Equal(t, 2.0, p.G)
	assert.Equal(t, 0.25, p.Epsilon)
	assert.Equal(t, 12, p.MaxDepth)
	assert.Equal(t, "direct", p.Solver)
	assert.Equal(t, 4, p.Workers)
}

func TestConfigErrors(t *testing.T) {
	base := `[Simulation]
DomainSize = 10
Theta = 0.5
Dt = 0.1
G = 1
Steps = 10
[InitialConditions]
Kind = Random
Particles = 10
`
	_, err := ReadConfigString(base)
	require.NoError(t, err)

	bad := []string{
		"[Simulation]\nTheta = 0.5\nDt = 0.1\nG = 1\n[InitialConditions]\nKind = Random\nParticles = 1\n",
		base + "[Output]\nLogEvery = 0\n",
		base + "MinMass = -1\n",
		base + "MaxMass = 0.5\n",
		base + "MaxSpeed = -1\n",
		"[Simulation]\nDomainSize = 10\nTheta = 0.5\nDt = 0.1\nSolver = Octree\n" +
			"[InitialConditions]\nKind = Random\nParticles = 1\n",
		"[Simulation]\nDomainSize = 10\nTheta = 0.5\nDt = 0.1\n" +
			"[InitialConditions]\nKind = Plummer\nParticles = 1\n",
		"[Simulation]\nDomainSize = 10\nTheta = 0.5\nDt = 0.1\n" +
			"[InitialConditions]\nKind = Random\n",
		"[Simulation]\nDomainSize = 10\nTheta = 0.5\nDt = 0.1\n" +
			"[InitialConditions]\nKind = File\n",
		"[Simulation]\nDomainSize = 10\nTheta = 0.5\nDt = 0.1\nBogus = 1\n",
	}
	for i, str := range bad {
		_, err := ReadConfigString(str)
		assert.Error(t, err, "%d) %s", i+1, str)
	}
}

func TestReadConfigFile(t *testing.T) {
	fname := path.Join(t.TempDir(), "sim.ini")
	require.NoError(t, os.WriteFile(fname, []byte(ExampleSimulationFile), 0644))

	wrap, err := ReadConfig(fname)
	require.NoError(t, err)
	assert.Equal(t, 500, wrap.InitialConditions.Particles)

	_, err = ReadConfig(path.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)
}
