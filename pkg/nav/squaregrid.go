package nav

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/gridnav/pkg/math"
)

// Grid construction and mutation errors.
var (
	ErrInvalidGridSize = errors.New("grid dimensions must be positive")
	ErrInvalidCellSize = errors.New("cell size must be positive")
	ErrHeightmapBounds = errors.New("heightmap dimensions do not match grid")
	ErrHeightmapLength = errors.New("heightmap length does not match dimensions")
)

// gridOffset is one entry of the neighbor table: 4 straight directions
// followed by 4 diagonals.
type gridOffset struct {
	dx, dz   int
	diagonal bool
}

var gridOffsets = [...]gridOffset{
	{0, -1, false},
	{1, 0, false},
	{0, 1, false},
	{-1, 0, false},
	{1, -1, true},
	{1, 1, true},
	{-1, 1, true},
	{-1, -1, true},
}

// SquareGrid is the reference Grid implementation: a dense uniform grid of
// square cells indexed by (x, z). World-to-grid mapping floors
// (world - origin) / cellSize; node positions are cell centers.
type SquareGrid struct {
	width    int
	depth    int
	cellSize float32
	origin   math.Vec3
	nodes    []Node
}

// NewSquareGrid creates a grid of width*depth cells with every node
// walkable at cost 1 and height 0.
func NewSquareGrid(width, depth int, cellSize float32, origin math.Vec3) (*SquareGrid, error) {
	if width <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGridSize, width, depth)
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("%w: %f", ErrInvalidCellSize, cellSize)
	}

	g := &SquareGrid{
		width:    width,
		depth:    depth,
		cellSize: cellSize,
		origin:   origin,
		nodes:    make([]Node, width*depth),
	}
	for z := 0; z < depth; z++ {
		for x := 0; x < width; x++ {
			idx := z*width + x
			g.nodes[idx] = Node{
				X: x,
				Z: z,
				Position: math.Vec3{
					X: origin.X + (float32(x)+0.5)*cellSize,
					Y: origin.Y,
					Z: origin.Z + (float32(z)+0.5)*cellSize,
				},
				Walkable: true,
				Cost:     1,
				idx:      idx,
			}
		}
	}
	return g, nil
}

// Width returns the number of cells along X.
func (g *SquareGrid) Width() int { return g.width }

// Depth returns the number of cells along Z.
func (g *SquareGrid) Depth() int { return g.depth }

// CellSize returns the size of each cell in world units.
func (g *SquareGrid) CellSize() float32 { return g.cellSize }

// Origin returns the world position of the grid's min corner.
func (g *SquareGrid) Origin() math.Vec3 { return g.origin }

// NodeCount returns the total number of cells.
func (g *SquareGrid) NodeCount() int { return len(g.nodes) }

// At returns the node at cell indices (x, z), or nil if out of bounds.
func (g *SquareGrid) At(x, z int) *Node {
	if x < 0 || z < 0 || x >= g.width || z >= g.depth {
		return nil
	}
	return &g.nodes[z*g.width+x]
}

// NodeAt maps a world position to its cell, or nil outside the grid.
func (g *SquareGrid) NodeAt(pos math.Vec3) *Node {
	x := int(gomath.Floor(float64((pos.X - g.origin.X) / g.cellSize)))
	z := int(gomath.Floor(float64((pos.Z - g.origin.Z) / g.cellSize)))
	return g.At(x, z)
}

// Neighbors returns the 4- or 8-connected neighbors of n, clipped to the
// grid bounds. Diagonal steps are offered only when both adjacent straight
// cells are walkable, so paths never cut corners through blocked cells.
func (g *SquareGrid) Neighbors(n *Node, opts *Options) []*Node {
	neighbors := make([]*Node, 0, 8)
	for _, off := range gridOffsets {
		if off.diagonal {
			if opts == nil || !opts.AllowDiagonal {
				continue
			}
			horiz := g.At(n.X+off.dx, n.Z)
			vert := g.At(n.X, n.Z+off.dz)
			if horiz == nil || vert == nil || !horiz.Walkable || !vert.Walkable {
				continue
			}
		}
		if nb := g.At(n.X+off.dx, n.Z+off.dz); nb != nil {
			neighbors = append(neighbors, nb)
		}
	}
	return neighbors
}

// MovementCost combines straight-line distance, the destination terrain
// cost multiplier (floored at 0.1) and a weighted height penalty. The
// result is never below the raw distance, keeping the heuristic admissible.
func (g *SquareGrid) MovementCost(from, to *Node, opts *Options) float32 {
	dist := from.Position.Distance(to.Position)

	mult := to.Cost
	if mult < 0.1 {
		mult = 0.1
	}
	cost := dist * mult

	if opts != nil && opts.HeightCostWeight > 0 {
		dh := to.Height - from.Height
		if dh < 0 {
			dh = -dh
		}
		cost += opts.HeightCostWeight * dh
	}

	if cost < dist {
		cost = dist
	}
	return cost
}

// HeuristicCost is the Euclidean distance on the horizontal plane plus the
// weighted height difference. Both terms are lower bounds on the true
// remaining movement cost.
func (g *SquareGrid) HeuristicCost(n, target *Node, opts *Options) float32 {
	h := n.Position.DistanceXZ(target.Position)
	if opts != nil && opts.HeightCostWeight > 0 {
		dh := target.Height - n.Height
		if dh < 0 {
			dh = -dh
		}
		h += opts.HeightCostWeight * dh
	}
	return h
}

// NearestWalkable breadth-first searches outward from n for the closest
// walkable node, visiting at most nearestWalkableLimit nodes.
func (g *SquareGrid) NearestWalkable(n *Node) *Node {
	if n == nil {
		return nil
	}
	if n.Walkable {
		return n
	}

	visited := make(map[int]struct{}, nearestWalkableLimit)
	queue := []*Node{n}
	visited[n.idx] = struct{}{}

	for len(queue) > 0 && len(visited) <= nearestWalkableLimit {
		current := queue[0]
		queue = queue[1:]
		if current.Walkable {
			return current
		}
		for _, off := range gridOffsets {
			nb := g.At(current.X+off.dx, current.Z+off.dz)
			if nb == nil {
				continue
			}
			if _, seen := visited[nb.idx]; seen {
				continue
			}
			visited[nb.idx] = struct{}{}
			queue = append(queue, nb)
		}
	}
	return nil
}

// NodesInArea returns the nodes whose centers lie within radius of center
// on the horizontal plane. The boundary is inclusive, compared with
// squared distances.
func (g *SquareGrid) NodesInArea(center math.Vec3, radius float32) []*Node {
	if radius < 0 {
		return nil
	}
	minX, minZ := g.clampCell(center.X-radius, center.Z-radius)
	maxX, maxZ := g.clampCell(center.X+radius, center.Z+radius)
	r2 := radius * radius
	c := center.XZ()

	nodes := make([]*Node, 0, (maxX-minX+1)*(maxZ-minZ+1))
	for z := minZ; z <= maxZ; z++ {
		for x := minX; x <= maxX; x++ {
			node := &g.nodes[z*g.width+x]
			if node.Position.XZ().Sub(c).LengthSq() <= r2 {
				nodes = append(nodes, node)
			}
		}
	}
	return nodes
}

// NodesInRect returns the nodes whose centers lie within the axis-aligned
// rectangle spanned by min and max (inclusive, clamped to the grid
// extents).
func (g *SquareGrid) NodesInRect(min, max math.Vec3) []*Node {
	if min.X > max.X || min.Z > max.Z {
		return nil
	}
	minX, minZ := g.clampCell(min.X, min.Z)
	maxX, maxZ := g.clampCell(max.X, max.Z)

	nodes := make([]*Node, 0, (maxX-minX+1)*(maxZ-minZ+1))
	for z := minZ; z <= maxZ; z++ {
		for x := minX; x <= maxX; x++ {
			node := &g.nodes[z*g.width+x]
			if node.Position.X >= min.X && node.Position.X <= max.X &&
				node.Position.Z >= min.Z && node.Position.Z <= max.Z {
				nodes = append(nodes, node)
			}
		}
	}
	return nodes
}

// SetAreaWalkable sets walkability for every node whose center lies within
// radius of center on the horizontal plane (inclusive).
func (g *SquareGrid) SetAreaWalkable(center math.Vec3, radius float32, walkable bool) {
	for _, n := range g.NodesInArea(center, radius) {
		n.Walkable = walkable
	}
}

// SetRectWalkable sets walkability for every node whose center lies within
// the axis-aligned rectangle spanned by min and max (inclusive, clamped to
// the grid extents).
func (g *SquareGrid) SetRectWalkable(min, max math.Vec3, walkable bool) {
	for _, n := range g.NodesInRect(min, max) {
		n.Walkable = walkable
	}
}

// ResetWalkability marks every node walkable.
func (g *SquareGrid) ResetWalkability() {
	for i := range g.nodes {
		g.nodes[i].Walkable = true
	}
}

// SetCost sets the terrain cost multiplier of the cell at (x, z).
func (g *SquareGrid) SetCost(x, z int, cost float32) {
	if n := g.At(x, z); n != nil {
		n.Cost = cost
	}
}

// UpdateHeights bulk-assigns node heights from a row-major array laid out
// as heights[z*width+x]. Node world positions track the new heights.
func (g *SquareGrid) UpdateHeights(heights []float32, width, depth int) error {
	if width != g.width || depth != g.depth {
		return fmt.Errorf("%w: got %dx%d, grid is %dx%d",
			ErrHeightmapBounds, width, depth, g.width, g.depth)
	}
	if len(heights) != width*depth {
		return fmt.Errorf("%w: got %d values for %dx%d",
			ErrHeightmapLength, len(heights), width, depth)
	}
	for i := range g.nodes {
		g.nodes[i].Height = heights[i]
		g.nodes[i].Position.Y = g.origin.Y + heights[i]
	}
	return nil
}

// Stats returns the number of walkable and blocked cells.
func (g *SquareGrid) Stats() (walkable, blocked int) {
	for i := range g.nodes {
		if g.nodes[i].Walkable {
			walkable++
		} else {
			blocked++
		}
	}
	return walkable, blocked
}

// HeightRange returns the minimum and maximum node heights.
func (g *SquareGrid) HeightRange() (min, max float32) {
	if len(g.nodes) == 0 {
		return 0, 0
	}
	min = g.nodes[0].Height
	max = g.nodes[0].Height
	for i := range g.nodes {
		h := g.nodes[i].Height
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
	}
	return min, max
}

// clampCell converts a world XZ position to cell indices clamped into the
// grid extents.
func (g *SquareGrid) clampCell(wx, wz float32) (int, int) {
	x := int(gomath.Floor(float64((wx - g.origin.X) / g.cellSize)))
	z := int(gomath.Floor(float64((wz - g.origin.Z) / g.cellSize)))
	if x < 0 {
		x = 0
	}
	if x >= g.width {
		x = g.width - 1
	}
	if z < 0 {
		z = 0
	}
	if z >= g.depth {
		z = g.depth - 1
	}
	return x, z
}
