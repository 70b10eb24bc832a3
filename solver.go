package barnes

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/barnes/geom"
	"github.com/phil-mansfield/barnes/gravity"
	"github.com/phil-mansfield/barnes/particle"
	"github.com/phil-mansfield/barnes/tree"
)

// Solver sets the Acc field of every particle from the current positions.
type Solver interface {
	Accelerate(ps []particle.Particle) error
}

// SolverType names an acceleration method.
type SolverType int

const (
	BarnesHut SolverType = iota
	Direct
	Gonum
	EndSolverType
)

var solverNames = []string{"BarnesHut", "Direct", "Gonum"}

func (s SolverType) String() string {
	if s < 0 || s >= EndSolverType { return fmt.Sprintf("SolverType(%d)", int(s)) }
	return solverNames[s]
}

// ParseSolverType converts a case-insensitive solver name to a SolverType.
func ParseSolverType(name string) (SolverType, error) {
	for s := BarnesHut; s < EndSolverType; s++ {
		if strings.ToLower(s.String()) == strings.ToLower(name) { return s, nil }
	}
	return -1, fmt.Errorf("Unrecognized solver '%s'. Must be one of %s.",
		name, strings.Join(solverNames, ", "))
}

// NewSolver returns the Solver described by p.
func NewSolver(p *Params) (Solver, error) {
	st, err := ParseSolverType(p.Solver)
	if err != nil { return nil, err }

	switch st {
	case BarnesHut:
		return NewTreeSolver(p.Domain(), p.Kernel(), p.Theta, p.MaxDepth, p.Workers), nil
	case Direct:
		return &DirectSolver{Kernel: p.Kernel(), Domain: p.Domain(), Workers: p.Workers}, nil
	case Gonum:
		return &GonumSolver{Kernel: p.Kernel(), Domain: p.Domain(),
			Theta: p.Theta, Workers: p.Workers}, nil
	}
	panic("Impossible.")
}

// TreeSolver computes accelerations with a quadtree which is rebuilt on
// every call.
type TreeSolver struct {
	Theta   float64
	Workers int
	tree    *tree.Tree
}

// NewTreeSolver creates a TreeSolver over domain. A maxDepth of zero or
// less uses tree.DefaultMaxDepth.
func NewTreeSolver(
	domain geom.Boundary, k gravity.Kernel,
	theta float64, maxDepth, workers int,
) *TreeSolver {
	t := tree.New(domain, k)
	if maxDepth > 0 { t.MaxDepth = maxDepth }
	return &TreeSolver{Theta: theta, Workers: workers, tree: t}
}

// Accelerate builds the tree from ps and then queries it for every
// particle in parallel. A particle outside the domain stops the build and
// its *tree.DomainError is returned with accelerations left untouched.
func (s *TreeSolver) Accelerate(ps []particle.Particle) error {
	if err := s.tree.Build(ps); err != nil { return err }
	forEach(s.Workers, len(ps), func(i int) {
		ps[i].Acc = s.tree.Acceleration(i, s.Theta)
	})
	return nil
}

// Tree returns the tree built by the most recent call to Accelerate.
func (s *TreeSolver) Tree() *tree.Tree { return s.tree }

// DirectSolver sums every pair interaction exactly.
type DirectSolver struct {
	Kernel  gravity.Kernel
	Domain  geom.Boundary
	Workers int
}

// Accelerate sets every particle's acceleration to the exact pairwise sum.
// Particles outside the domain are rejected the same way the tree rejects
// them, so that solvers are interchangeable.
func (s *DirectSolver) Accelerate(ps []particle.Particle) error {
	if err := checkDomain(s.Domain, ps); err != nil { return err }
	forEach(s.Workers, len(ps), func(i int) {
		var a geom.Vec
		for j := range ps {
			if j == i { continue }
			a = a.Add(s.Kernel.Accel(ps[i].Pos, ps[j].Pos, ps[j].Mass))
		}
		ps[i].Acc = a
	})
	return nil
}

// GonumSolver computes accelerations with gonum's Barnes-Hut plane. It
// exists to cross-check TreeSolver against an independent implementation.
// gonum's plane cannot separate coincident bodies, so Accelerate returns an
// error for them where TreeSolver buckets them at its depth limit.
type GonumSolver struct {
	Kernel  gravity.Kernel
	Domain  geom.Boundary
	Theta   float64
	Workers int

	plane  barneshut.Plane
	bodies []barneshut.Particle2
}

type gonumBody struct{ p *particle.Particle }

func (b *gonumBody) Coord2() r2.Vec { return r2.Vec(b.p.Pos) }
func (b *gonumBody) Mass() float64  { return b.p.Mass }

// Accelerate rebuilds the gonum plane and queries it for every particle.
func (s *GonumSolver) Accelerate(ps []particle.Particle) error {
	if err := checkDomain(s.Domain, ps); err != nil { return err }

	s.bodies = s.bodies[:0]
	for i := range ps { s.bodies = append(s.bodies, &gonumBody{&ps[i]}) }
	s.plane.Particles = s.bodies
	if err := s.plane.Reset(); err != nil {
		return fmt.Errorf("gonum plane: %w", err)
	}

	forEach(s.Workers, len(ps), func(i int) {
		ps[i].Acc = geom.Vec(s.plane.ForceOn(s.bodies[i], s.Theta, s.accel))
	})
	return nil
}

// accel is a barneshut.Force2 which returns the acceleration of p1 rather
// than the force on it. v points from p1 to p2.
func (s *GonumSolver) accel(
	_, _ barneshut.Particle2, _, m2 float64, v r2.Vec,
) r2.Vec {
	return r2.Vec(s.Kernel.Accel(geom.Vec{}, geom.Vec(v), m2))
}

func checkDomain(domain geom.Boundary, ps []particle.Particle) error {
	for i := range ps {
		if !domain.Contains(ps[i].Pos) {
			return &tree.DomainError{ID: ps[i].ID, Pos: ps[i].Pos, Domain: domain}
		}
	}
	return nil
}
