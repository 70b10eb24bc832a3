/*package tree implements the Barnes-Hut quadtree: construction from a set of
particles with per-node mass aggregation and approximate acceleration
queries against the finished tree.

Nodes live in a flat slice which is reused between builds. A Tree is built
by a single goroutine; once built, any number of goroutines may query it
concurrently.
*/
package tree

import (
	"errors"
	"fmt"

	"github.com/phil-mansfield/barnes/geom"
	"github.com/phil-mansfield/barnes/gravity"
	"github.com/phil-mansfield/barnes/particle"
)

// DefaultMaxDepth is the depth at which leaves stop splitting and start
// collecting bodies instead.
const DefaultMaxDepth = 64

// ErrOutOfDomain is matched by every DomainError.
var ErrOutOfDomain = errors.New("particle outside of the tree domain")

// DomainError reports a particle which could not be inserted because it is
// outside the root boundary.
type DomainError struct {
	ID     int
	Pos    geom.Vec
	Domain geom.Boundary
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("particle %d at (%g, %g) is outside the domain %s",
		e.ID, e.Pos.X, e.Pos.Y, e.Domain)
}

func (e *DomainError) Unwrap() error { return ErrOutOfDomain }

// Tree is a quadtree over a fixed square domain.
type Tree struct {
	Domain   geom.Boundary
	MaxDepth int

	kernel gravity.Kernel
	nodes  []Node
	ps     []particle.Particle
	// next chains together the bodies held by a single leaf. -1 terminates.
	next []int
}

// New returns an empty tree over domain which uses k for all pair
// interactions.
func New(domain geom.Boundary, k gravity.Kernel) *Tree {
	t := &Tree{Domain: domain, MaxDepth: DefaultMaxDepth, kernel: k}
	t.Reset(nil)
	return t
}

// Reset discards the contents of the tree and prepares it to have the
// particles in ps inserted. Node storage is kept for the next build. ps must
// not be modified until the tree is done being used.
func (t *Tree) Reset(ps []particle.Particle) {
	t.nodes = append(t.nodes[:0], newLeaf(t.Domain, 0))
	t.ps = ps
	if cap(t.next) < len(ps) {
		t.next = make([]int, len(ps))
	}
	t.next = t.next[:len(ps)]
	for i := range t.next { t.next[i] = -1 }
}

// Build resets the tree and inserts every particle in ps. It stops at the
// first particle outside of the domain and returns its DomainError.
func (t *Tree) Build(ps []particle.Particle) error {
	t.Reset(ps)
	for i := range ps {
		if err := t.Insert(i); err != nil { return err }
	}
	return nil
}

// Insert adds the i-th particle of the slice passed to Reset to the tree.
// Particles outside the domain are rejected with a *DomainError.
func (t *Tree) Insert(i int) error {
	p := &t.ps[i]
	if !t.Domain.Contains(p.Pos) {
		return &DomainError{ID: p.ID, Pos: p.Pos, Domain: t.Domain}
	}
	t.insert(0, i)
	return nil
}

// insert pushes particle i down from node ni. Every internal node it passes
// through absorbs the particle's mass.
func (t *Tree) insert(ni, i int) {
	pos, m := t.ps[i].Pos, t.ps[i].Mass

	for {
		n := &t.nodes[ni]

		switch {
		case n.kind == internal:
			if n.child < 0 {
				panic(fmt.Sprintf("Internal node %d has no children.", ni))
			}
			n.Center = geom.WeightedMean(n.Mass, n.Center, m, pos)
			n.Mass += m
			ni = n.child + n.Bounds.Quadrant(pos)

		case n.body < 0:
			n.body, n.Mass, n.Center = i, m, pos
			return

		case n.Depth >= t.MaxDepth:
			// Can't separate these bodies any further. Keep them in one
			// leaf and treat the leaf as their aggregate.
			n.Center = geom.WeightedMean(n.Mass, n.Center, m, pos)
			n.Mass += m
			t.next[i], n.body = n.body, i
			return

		default:
			old := n.body
			t.split(ni)
			t.insert(ni, old)
			// ni is internal now, so the next pass descends with i.
		}
	}
}

// split turns leaf ni into an internal node with four empty children. The
// node's aggregates are cleared so that re-inserted bodies are counted once.
func (t *Tree) split(ni int) {
	first := len(t.nodes)
	b, depth := t.nodes[ni].Bounds, t.nodes[ni].Depth
	for q := 0; q < geom.Quadrants; q++ {
		t.nodes = append(t.nodes, newLeaf(b.Child(q), depth+1))
	}

	n := &t.nodes[ni]
	n.kind, n.child, n.body = internal, first, -1
	n.Mass, n.Center = 0, geom.Vec{}
}

// Root returns a copy of the root node.
func (t *Tree) Root() Node { return t.nodes[0] }

// Mass returns the total mass inserted so far.
func (t *Tree) Mass() float64 { return t.nodes[0].Mass }

// CenterOfMass returns the center of mass of everything inserted so far.
func (t *Tree) CenterOfMass() geom.Vec { return t.nodes[0].Center }

// NodeCount returns the number of nodes, internal and leaf, in the tree.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// Depth returns the depth of the deepest node. A tree whose root is a leaf
// has depth 0.
func (t *Tree) Depth() int {
	max := 0
	for i := range t.nodes {
		if t.nodes[i].Depth > max { max = t.nodes[i].Depth }
	}
	return max
}
