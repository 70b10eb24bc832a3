package tree

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/barnes/geom"
	"github.com/phil-mansfield/barnes/gravity"
	"github.com/phil-mansfield/barnes/particle"
)

const testWidth = 100.0

func randomParticles(n int, width float64, seed int64) []particle.Particle {
	gen := rand.New(rand.NewSource(seed))
	ps := make([]particle.Particle, n)
	for i := range ps {
		ps[i] = particle.Particle{
			ID: i,
			Pos: geom.Vec{
				X: (gen.Float64() - 0.5) * width,
				Y: (gen.Float64() - 0.5) * width,
			},
			Mass: 1 + 9*gen.Float64(),
		}
	}
	return ps
}

// direct returns the exact acceleration on particle i along with the sum of
// the magnitudes of each term, which sets the scale of roundoff errors.
func direct(ps []particle.Particle, k gravity.Kernel, i int) (geom.Vec, float64) {
	var a geom.Vec
	scale := 0.0
	for j := range ps {
		if j == i { continue }
		aj := k.Accel(ps[i].Pos, ps[j].Pos, ps[j].Mass)
		a = a.Add(aj)
		scale += geom.Norm(aj)
	}
	return a, scale
}

// leafOf returns the arena index of the leaf holding particle i.
func leafOf(t *Tree, i int) int {
	for ni := range t.nodes {
		n := &t.nodes[ni]
		if n.kind != leaf { continue }
		for j := n.body; j >= 0; j = t.next[j] {
			if j == i { return ni }
		}
	}
	return -1
}

func checkInvariants(t *testing.T, tr *Tree) {
	for ni := range tr.nodes {
		n := &tr.nodes[ni]
		if n.kind == leaf {
			assert.Equal(t, -1, n.child, "leaf %d has children", ni)
			continue
		}
		assert.Equal(t, -1, n.body, "internal node %d holds a body", ni)
		mass := 0.0
		for q := 0; q < geom.Quadrants; q++ {
			c := &tr.nodes[n.child+q]
			assert.Equal(t, n.Bounds.Child(q), c.Bounds)
			mass += c.Mass
		}
		assert.InDelta(t, n.Mass, mass, 1e-9*n.Mass, "node %d", ni)
	}
}

func TestEmptyTree(t *testing.T) {
	tr := New(geom.Square(testWidth), gravity.Kernel{G: 1})
	require.NoError(t, tr.Build(nil))
	assert.Equal(t, 0.0, tr.Mass())
	assert.Equal(t, 1, tr.NodeCount())
	assert.Equal(t, geom.Vec{}, tr.AccelerationAt(geom.Vec{X: 1}, 0.5))
}

func TestRootMass(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 17, 1000} {
		ps := randomParticles(n, testWidth, int64(n))
		tr := New(geom.Square(testWidth), gravity.Kernel{G: 1})
		require.NoError(t, tr.Build(ps))

		assert.InDelta(t, particle.TotalMass(ps), tr.Mass(), 1e-9*float64(n+1),
			"%d particles", n)
		checkInvariants(t, tr)
	}
}

func TestCenterOfMassOrderIndependent(t *testing.T) {
	ps := randomParticles(500, testWidth, 3)
	target := particle.CenterOfMass(ps)
	gen := rand.New(rand.NewSource(4))

	for trial := 0; trial < 10; trial++ {
		gen.Shuffle(len(ps), func(i, j int) { ps[i], ps[j] = ps[j], ps[i] })
		tr := New(geom.Square(testWidth), gravity.Kernel{G: 1})
		require.NoError(t, tr.Build(ps))

		com := tr.CenterOfMass()
		assert.InDelta(t, target.X, com.X, 1e-9, "trial %d", trial)
		assert.InDelta(t, target.Y, com.Y, 1e-9, "trial %d", trial)
	}
}

func TestInsertionOrderAggregates(t *testing.T) {
	a := particle.Particle{ID: 0, Pos: geom.Vec{X: -10, Y: 3}, Mass: 2}
	b := particle.Particle{ID: 1, Pos: geom.Vec{X: 20, Y: -7}, Mass: 5}
	c := particle.Particle{ID: 2, Pos: geom.Vec{X: 21, Y: -6}, Mass: 1}

	k := gravity.Kernel{G: 1, Epsilon: 0.01}
	abc := New(geom.Square(testWidth), k)
	cba := New(geom.Square(testWidth), k)
	require.NoError(t, abc.Build([]particle.Particle{a, b, c}))
	require.NoError(t, cba.Build([]particle.Particle{c, b, a}))

	assert.InDelta(t, abc.Mass(), cba.Mass(), 1e-12)
	assert.InDelta(t, abc.CenterOfMass().X, cba.CenterOfMass().X, 1e-12)
	assert.InDelta(t, abc.CenterOfMass().Y, cba.CenterOfMass().Y, 1e-12)
	assert.Equal(t, abc.NodeCount(), cba.NodeCount())
	assert.Equal(t, abc.Depth(), cba.Depth())

	// Same particle, different slice index.
	for _, pair := range [][2]int{{0, 2}, {1, 1}, {2, 0}} {
		a1 := abc.Acceleration(pair[0], 0.5)
		a2 := cba.Acceleration(pair[1], 0.5)
		assert.InDelta(t, a1.X, a2.X, 1e-12)
		assert.InDelta(t, a1.Y, a2.Y, 1e-12)
	}
}

func TestSplitLineTieBreak(t *testing.T) {
	ps := []particle.Particle{
		{ID: 0, Pos: geom.Vec{X: 0, Y: 0}, Mass: 1},
		{ID: 1, Pos: geom.Vec{X: 0, Y: 10}, Mass: 1},
		{ID: 2, Pos: geom.Vec{X: 10, Y: 0}, Mass: 1},
		{ID: 3, Pos: geom.Vec{X: 30, Y: 30}, Mass: 1},
	}
	// Lowest index child containing each point.
	targets := []geom.Boundary{
		{X: -50, Y: -50, Width: 50, Height: 50},
		{X: -50, Y: 0, Width: 50, Height: 50},
		{X: 0, Y: -50, Width: 50, Height: 50},
		{X: 0, Y: 0, Width: 50, Height: 50},
	}

	var first []int
	for run := 0; run < 5; run++ {
		tr := New(geom.Square(testWidth), gravity.Kernel{G: 1})
		require.NoError(t, tr.Build(ps))

		leaves := make([]int, len(ps))
		for i := range ps {
			leaves[i] = leafOf(tr, i)
			require.NotEqual(t, -1, leaves[i])
			assert.Equal(t, targets[i], tr.nodes[leaves[i]].Bounds, "particle %d", i)
		}
		if first == nil {
			first = leaves
		} else {
			assert.Equal(t, first, leaves, "run %d", run)
		}
	}
}

func TestOutOfDomain(t *testing.T) {
	ps := []particle.Particle{
		{ID: 7, Pos: geom.Vec{X: 1, Y: 1}, Mass: 1},
		{ID: 8, Pos: geom.Vec{X: 51, Y: 0}, Mass: 1},
	}
	tr := New(geom.Square(testWidth), gravity.Kernel{G: 1})
	err := tr.Build(ps)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfDomain))

	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 8, de.ID)
	assert.Equal(t, 1.0, tr.Mass(), "the rejected particle was not counted")

	// Edges are inclusive.
	ps[1].Pos = geom.Vec{X: 50, Y: -50}
	assert.NoError(t, tr.Build(ps))
	assert.Equal(t, 2.0, tr.Mass())
}

func TestTwoBody(t *testing.T) {
	ps := []particle.Particle{
		{ID: 0, Pos: geom.Vec{X: -1}, Mass: 1},
		{ID: 1, Pos: geom.Vec{X: 1}, Mass: 1},
	}
	tr := New(geom.Square(10), gravity.Kernel{G: 1, Epsilon: 0})
	require.NoError(t, tr.Build(ps))

	a0, a1 := tr.Acceleration(0, 0), tr.Acceleration(1, 0)
	assert.InDelta(t, 0.25, a0.X, 1e-15)
	assert.InDelta(t, 0.0, a0.Y, 1e-15)
	assert.InDelta(t, -0.25, a1.X, 1e-15)
	assert.InDelta(t, 0.0, a1.Y, 1e-15)
}

func TestSingleParticle(t *testing.T) {
	ps := []particle.Particle{{ID: 0, Pos: geom.Vec{X: 3, Y: -4}, Mass: 2}}
	tr := New(geom.Square(testWidth), gravity.Kernel{G: 1, Epsilon: 0.1})
	require.NoError(t, tr.Build(ps))

	assert.True(t, tr.Root().IsLeaf())
	assert.Equal(t, geom.Vec{}, tr.Acceleration(0, 0.5))
	assert.Equal(t, geom.Vec{}, tr.Acceleration(0, 0))
}

func TestSmallThetaMatchesDirect(t *testing.T) {
	ps := randomParticles(300, testWidth, 7)
	k := gravity.Kernel{G: 1, Epsilon: 0.05}
	tr := New(geom.Square(testWidth), k)
	require.NoError(t, tr.Build(ps))

	for _, theta := range []float64{0, 1e-3} {
		for i := range ps {
			target, scale := direct(ps, k, i)
			a := tr.Acceleration(i, theta)
			if math.Abs(a.X-target.X) > 1e-10*scale ||
				math.Abs(a.Y-target.Y) > 1e-10*scale {
				t.Errorf("theta = %g, particle %d: got %v, expected %v",
					theta, i, a, target)
			}
		}
	}
}

func TestLargerThetaIsClose(t *testing.T) {
	ps := randomParticles(1000, testWidth, 11)
	k := gravity.Kernel{G: 1, Epsilon: 0.5}
	tr := New(geom.Square(testWidth), k)
	require.NoError(t, tr.Build(ps))

	errSum, normSum := 0.0, 0.0
	for i := range ps {
		target, _ := direct(ps, k, i)
		errSum += geom.Dist(target, tr.Acceleration(i, 0.5))
		normSum += geom.Norm(target)
	}
	assert.Less(t, errSum/normSum, 0.1)
}

func TestApproximationBranch(t *testing.T) {
	ps := []particle.Particle{
		{ID: 0, Pos: geom.Vec{X: -40, Y: -40}, Mass: 1},
		{ID: 1, Pos: geom.Vec{X: 40, Y: 40}, Mass: 3},
		{ID: 2, Pos: geom.Vec{X: 41, Y: 39}, Mass: 2},
		{ID: 3, Pos: geom.Vec{X: 39, Y: 42}, Mass: 1},
	}
	k := gravity.Kernel{G: 1, Epsilon: 0}
	tr := New(geom.Square(testWidth), k)
	require.NoError(t, tr.Build(ps))

	cluster := ps[1:]
	com, m := particle.CenterOfMass(cluster), particle.TotalMass(cluster)

	// s/d = 50/113 < 1: the top-right quadrant is one point mass.
	far := tr.Acceleration(0, 1)
	target := k.Accel(ps[0].Pos, com, m)
	assert.InDelta(t, target.X, far.X, 1e-12)
	assert.InDelta(t, target.Y, far.Y, 1e-12)

	exact, _ := direct(ps, k, 0)
	near := tr.Acceleration(0, 0)
	assert.InDelta(t, exact.X, near.X, 1e-12)
	assert.InDelta(t, exact.Y, near.Y, 1e-12)

	assert.NotEqual(t, far, near)
}

func TestAccelerationAtOpensByThetaOnly(t *testing.T) {
	ps := []particle.Particle{
		{ID: 0, Pos: geom.Vec{X: 40, Y: 40}, Mass: 3},
		{ID: 1, Pos: geom.Vec{X: 41, Y: 39}, Mass: 2},
		{ID: 2, Pos: geom.Vec{X: 39, Y: 42}, Mass: 1},
	}
	k := gravity.Kernel{G: 1, Epsilon: 0}
	tr := New(geom.Square(testWidth), k)
	require.NoError(t, tr.Build(ps))

	// The root contains pos, but s/d = 100/113 < 1 so it is one point mass.
	pos := geom.Vec{X: -40, Y: -40}
	root := tr.Root()
	assert.False(t, root.IsLeaf())
	assert.Equal(t, k.Accel(pos, root.Center, root.Mass), tr.AccelerationAt(pos, 1))

	var exact geom.Vec
	for j := range ps {
		exact = exact.Add(k.Accel(pos, ps[j].Pos, ps[j].Mass))
	}
	a := tr.AccelerationAt(pos, 0)
	assert.InDelta(t, exact.X, a.X, 1e-12)
	assert.InDelta(t, exact.Y, a.Y, 1e-12)
	assert.NotEqual(t, a, tr.AccelerationAt(pos, 1))
}

func TestCoincidentParticles(t *testing.T) {
	ps := []particle.Particle{
		{ID: 0, Pos: geom.Vec{X: 5, Y: 5}, Mass: 1},
		{ID: 1, Pos: geom.Vec{X: 5, Y: 5}, Mass: 2},
		{ID: 2, Pos: geom.Vec{X: 5, Y: 5}, Mass: 3},
		{ID: 3, Pos: geom.Vec{X: -20, Y: 5}, Mass: 1},
	}
	k := gravity.Kernel{G: 1, Epsilon: 0.1}
	tr := New(geom.Square(testWidth), k)
	tr.MaxDepth = 8
	require.NoError(t, tr.Build(ps))
	checkInvariants(t, tr)

	assert.Equal(t, 8, tr.Depth())
	assert.InDelta(t, 7.0, tr.Mass(), 1e-12)

	leaf := leafOf(tr, 0)
	assert.Equal(t, leaf, leafOf(tr, 1))
	assert.Equal(t, leaf, leafOf(tr, 2))
	assert.InDelta(t, 6.0, tr.nodes[leaf].Mass, 1e-12)

	// Bodies in the same leaf still see each other exactly and never
	// themselves.
	for i := range ps {
		target, _ := direct(ps, k, i)
		a := tr.Acceleration(i, 0)
		assert.InDelta(t, target.X, a.X, 1e-12, "particle %d", i)
		assert.InDelta(t, target.Y, a.Y, 1e-12, "particle %d", i)
	}
}

func TestCoincidentDefaultDepthTerminates(t *testing.T) {
	ps := make([]particle.Particle, 20)
	for i := range ps {
		ps[i] = particle.Particle{ID: i, Pos: geom.Vec{X: -3, Y: 7}, Mass: 1}
	}
	tr := New(geom.Square(testWidth), gravity.Kernel{G: 1, Epsilon: 1})
	require.NoError(t, tr.Build(ps))
	assert.Equal(t, DefaultMaxDepth, tr.Depth())
	assert.Equal(t, 20.0, tr.Mass())
}

func TestResetReusesArena(t *testing.T) {
	tr := New(geom.Square(testWidth), gravity.Kernel{G: 1})
	require.NoError(t, tr.Build(randomParticles(1000, testWidth, 5)))
	big := tr.NodeCount()

	small := randomParticles(1, testWidth, 6)
	require.NoError(t, tr.Build(small))
	assert.Equal(t, 1, tr.NodeCount())
	assert.Less(t, tr.NodeCount(), big)
	assert.Equal(t, small[0].Mass, tr.Mass())
}

func TestConcurrentQueries(t *testing.T) {
	ps := randomParticles(500, testWidth, 9)
	tr := New(geom.Square(testWidth), gravity.Kernel{G: 1, Epsilon: 0.1})
	require.NoError(t, tr.Build(ps))

	serial := make([]geom.Vec, len(ps))
	for i := range ps { serial[i] = tr.Acceleration(i, 0.7) }

	workers := 4
	parallel := make([]geom.Vec, len(ps))
	wg := sync.WaitGroup{}
	for id := 0; id < workers; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := id; i < len(ps); i += workers {
				parallel[i] = tr.Acceleration(i, 0.7)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, serial, parallel)
}

func BenchmarkBuild(b *testing.B) {
	ps := randomParticles(10000, testWidth, 1)
	tr := New(geom.Square(testWidth), gravity.Kernel{G: 1, Epsilon: 0.1})
	b.ResetTimer()
	for i := 0; i < b.N; i++ { tr.Build(ps) }
}

func BenchmarkAcceleration(b *testing.B) {
	ps := randomParticles(10000, testWidth, 1)
	tr := New(geom.Square(testWidth), gravity.Kernel{G: 1, Epsilon: 0.1})
	tr.Build(ps)
	b.ResetTimer()
	for i := 0; i < b.N; i++ { tr.Acceleration(i%len(ps), 0.5) }
}
