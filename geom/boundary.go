package geom

import (
	"fmt"
)

// Quadrant order used by Boundary.Child and Boundary.Quadrant. Ties on a
// split line go to the lowest index.
const (
	BottomLeft = iota
	BottomRight
	TopLeft
	TopRight

	Quadrants
)

// Boundary is an axis-aligned rectangle given by its lower-left corner and
// its extent. The quadtree only ever uses squares.
type Boundary struct {
	X, Y, Width, Height float64
}

// Square returns a square Boundary of side width centered on the origin.
func Square(width float64) Boundary {
	return Boundary{-width / 2, -width / 2, width, width}
}

// Contains returns true if p is inside b. All four edges are inclusive.
func (b Boundary) Contains(p Vec) bool {
	return p.X >= b.X && p.X <= b.X+b.Width &&
		p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// Side returns the side length used by the opening-angle test.
func (b Boundary) Side() float64 { return b.Width }

// Center returns the midpoint of b.
func (b Boundary) Center() Vec {
	return Vec{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Child returns the boundary of quadrant q. The four children tile b
// exactly: the internal split lines of neighbouring children are computed
// from the same expression, so they are bit-identical.
func (b Boundary) Child(q int) Boundary {
	hw, hh := b.Width/2, b.Height/2
	switch q {
	case BottomLeft:
		return Boundary{b.X, b.Y, hw, hh}
	case BottomRight:
		return Boundary{b.X + hw, b.Y, hw, hh}
	case TopLeft:
		return Boundary{b.X, b.Y + hh, hw, hh}
	case TopRight:
		return Boundary{b.X + hw, b.Y + hh, hw, hh}
	}
	panic(fmt.Sprintf("Quadrant %d does not exist.", q))
}

// Quadrant returns the child of b which p is assigned to. This is the
// lowest-indexed child whose (inclusive) boundary contains p, computed
// against the split lines so that points on b's outer edge never fall
// through rounding gaps.
func (b Boundary) Quadrant(p Vec) int {
	q := BottomLeft
	if p.X > b.X+b.Width/2 {
		q |= BottomRight
	}
	if p.Y > b.Y+b.Height/2 {
		q |= TopLeft
	}
	return q
}

func (b Boundary) String() string {
	return fmt.Sprintf("[%g, %g] x [%g, %g]",
		b.X, b.X+b.Width, b.Y, b.Y+b.Height)
}
