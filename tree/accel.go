package tree

import (
	"fmt"

	"github.com/phil-mansfield/barnes/geom"
)

// Acceleration returns the approximate gravitational acceleration of the
// i-th particle due to every other particle in the tree.
//
// A node of side s whose center of mass is a distance d away is treated as a
// single point mass when s/d < theta. theta = 0 opens every node and gives
// the exact pairwise sum. Acceleration does not modify the tree.
func (t *Tree) Acceleration(i int, theta float64) geom.Vec {
	return t.accel(0, t.ps[i].Pos, i, theta)
}

// AccelerationAt returns the acceleration a test body at pos would feel
// from every particle in the tree. There is no body to exclude, so every
// node is opened by the s/d < theta rule alone.
func (t *Tree) AccelerationAt(pos geom.Vec, theta float64) geom.Vec {
	return t.accel(0, pos, -1, theta)
}

func (t *Tree) accel(ni int, pos geom.Vec, self int, theta float64) geom.Vec {
	n := &t.nodes[ni]

	if n.kind == leaf {
		var a geom.Vec
		for j := n.body; j >= 0; j = t.next[j] {
			if j == self { continue }
			a = a.Add(t.kernel.Accel(pos, t.ps[j].Pos, t.ps[j].Mass))
		}
		return a
	}

	// d == 0 would divide by zero, and a node containing particle self would
	// fold its own mass into the aggregate; both get opened.
	d := geom.Dist(pos, n.Center)
	if d > 0 && n.Bounds.Side()/d < theta &&
		(self < 0 || !n.Bounds.Contains(pos)) {
		return t.kernel.Accel(pos, n.Center, n.Mass)
	}

	if n.child < 0 {
		panic(fmt.Sprintf("Internal node %d has no children.", ni))
	}
	var a geom.Vec
	for q := 0; q < geom.Quadrants; q++ {
		a = a.Add(t.accel(n.child+q, pos, self, theta))
	}
	return a
}
