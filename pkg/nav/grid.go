package nav

import (
	"github.com/Faultbox/gridnav/pkg/math"
)

// nearestWalkableLimit bounds the breadth-first expansion of NearestWalkable.
const nearestWalkableLimit = 100

// Grid is the topology contract the pathfinder searches over. SquareGrid is
// the reference implementation; any other topology (hex, triangle mesh)
// that satisfies this contract is a drop-in replacement for the search.
//
// Grids are not safe for concurrent mutation. Searches only read the grid
// and may run on a worker goroutine, but mutations must be serialized with
// them externally.
type Grid interface {
	// NodeAt maps a world position to its cell, or nil if the position is
	// outside the grid bounds.
	NodeAt(pos math.Vec3) *Node

	// Neighbors returns the nodes adjacent to n under the topology's
	// connectivity rule: 4-connected by default, 8-connected when
	// opts.AllowDiagonal is set. Walkability is not filtered here; the
	// search decides what to expand.
	Neighbors(n *Node, opts *Options) []*Node

	// MovementCost returns the cost of moving between two adjacent nodes.
	// It is never less than the straight-line distance, so the paired
	// heuristic stays admissible.
	MovementCost(from, to *Node, opts *Options) float32

	// HeuristicCost estimates the remaining cost from n to target. The
	// estimate never exceeds the true minimal movement cost.
	HeuristicCost(n, target *Node, opts *Options) float32

	// NearestWalkable searches outward from n for the closest walkable
	// node, visiting at most nearestWalkableLimit nodes. Returns nil if
	// none is found within the bound.
	NearestWalkable(n *Node) *Node

	// NodesInArea returns the nodes whose centers lie within radius of
	// center on the horizontal plane (inclusive).
	NodesInArea(center math.Vec3, radius float32) []*Node

	// NodesInRect returns the nodes whose centers lie within the
	// axis-aligned rectangle spanned by min and max on the horizontal
	// plane (inclusive, clamped to the grid extents).
	NodesInRect(min, max math.Vec3) []*Node

	// SetAreaWalkable sets the walkable flag of every node whose center
	// lies within radius of center on the horizontal plane (inclusive).
	SetAreaWalkable(center math.Vec3, radius float32, walkable bool)

	// SetRectWalkable sets the walkable flag of every node whose center
	// lies within the axis-aligned rectangle spanned by min and max on the
	// horizontal plane (inclusive, clamped to the grid extents).
	SetRectWalkable(min, max math.Vec3, walkable bool)

	// ResetWalkability marks every node walkable.
	ResetWalkability()

	// UpdateHeights bulk-assigns node heights from a row-major array.
	// Fails if width or depth disagree with the grid's own dimensions.
	UpdateHeights(heights []float32, width, depth int) error

	// NodeCount returns the total number of nodes, sizing the search arena.
	NodeCount() int
}
