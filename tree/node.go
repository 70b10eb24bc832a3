package tree

import (
	"github.com/phil-mansfield/barnes/geom"
)

type kind uint8

const (
	leaf kind = iota
	internal
)

// Node is a single cell of the quadtree. A leaf holds zero or more bodies
// (more than one only at the depth limit), an internal node holds four
// children stored contiguously in the tree's arena and never a body.
type Node struct {
	Bounds geom.Boundary
	// Mass and Center are the total mass and center of mass of everything
	// below this node.
	Mass   float64
	Center geom.Vec
	Depth  int

	kind  kind
	child int // index of the bottom-left child, internal nodes only
	body  int // index of the first held particle, leaves only, -1 if empty
}

func newLeaf(b geom.Boundary, depth int) Node {
	return Node{Bounds: b, Depth: depth, kind: leaf, child: -1, body: -1}
}

// IsLeaf returns true if n has no children.
func (n Node) IsLeaf() bool { return n.kind == leaf }

// Empty returns true if n is a leaf with no bodies.
func (n Node) Empty() bool { return n.kind == leaf && n.body < 0 }
