// Package nav provides grid-based spatial navigation: walkability queries,
// A* path searches with budget limits and post-processing, and dynamic
// obstacle management on top of a mutable grid.
package nav

import (
	"github.com/Faultbox/gridnav/pkg/math"
)

// Node is one cell of a navigation grid. Nodes are owned by their grid;
// callers treat them as transient handles and never hold them across grid
// mutations.
type Node struct {
	// X, Z are the cell indices within the grid.
	X, Z int

	// Position is the world-space center of the cell. Position.Y mirrors
	// Height.
	Position math.Vec3

	// Walkable reports whether movement through this cell is currently
	// permitted.
	Walkable bool

	// Cost is the terrain cost multiplier. 1.0 is normal terrain.
	Cost float32

	// Height is the terrain altitude at this cell.
	Height float32

	// idx is the dense arena index assigned by the owning grid.
	idx int
}

// Index returns the grid-assigned dense index of the node. Indices are
// stable for the lifetime of the grid and cover [0, NodeCount).
func (n *Node) Index() int {
	return n.idx
}
