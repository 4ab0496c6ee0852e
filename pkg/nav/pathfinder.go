package nav

import (
	"container/heap"
	"errors"
	gomath "math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/gridnav/pkg/math"
)

// ErrNilGrid is returned when a pathfinder or system is given no grid.
var ErrNilGrid = errors.New("nav: grid must not be nil")

// Search record states within the arena.
const (
	recordUnvisited uint8 = iota
	recordOpen
	recordClosed
)

// searchRecord is the per-node bookkeeping of one search. Records live in
// a dense arena indexed by Node.Index; parents are arena indices, not
// pointers, so concurrent searches never share state.
type searchRecord struct {
	node    *Node
	g       float32
	h       float32
	f       float32
	parent  int32
	heapIdx int32
	state   uint8
}

// openHeap orders open records by total estimated cost, breaking ties by
// heuristic cost ascending.
type openHeap struct {
	arena []searchRecord
	items []int32
}

func (o *openHeap) Len() int { return len(o.items) }

func (o *openHeap) Less(i, j int) bool {
	a, b := &o.arena[o.items[i]], &o.arena[o.items[j]]
	if a.f == b.f {
		return a.h < b.h
	}
	return a.f < b.f
}

func (o *openHeap) Swap(i, j int) {
	o.items[i], o.items[j] = o.items[j], o.items[i]
	o.arena[o.items[i]].heapIdx = int32(i)
	o.arena[o.items[j]].heapIdx = int32(j)
}

func (o *openHeap) Push(x any) {
	idx := x.(int32)
	o.arena[idx].heapIdx = int32(len(o.items))
	o.items = append(o.items, idx)
}

func (o *openHeap) Pop() any {
	n := len(o.items)
	idx := o.items[n-1]
	o.items = o.items[:n-1]
	o.arena[idx].heapIdx = -1
	return idx
}

// Pathfinder runs A* searches over a Grid. It keeps no state between
// calls; each search owns its arena, so searches may run concurrently as
// long as the grid is not mutated underneath them.
type Pathfinder struct {
	grid Grid
	log  *zap.Logger
}

// NewPathfinder creates a pathfinder bound to the given grid.
func NewPathfinder(grid Grid) (*Pathfinder, error) {
	if grid == nil {
		return nil, ErrNilGrid
	}
	return &Pathfinder{grid: grid, log: zap.NewNop()}, nil
}

// SetLogger installs a logger for search diagnostics. A nil logger is
// ignored.
func (p *Pathfinder) SetLogger(log *zap.Logger) {
	if log != nil {
		p.log = log
	}
}

// FindPath computes a path between two world positions. Expected failures
// (unreachable goal, budget exhaustion, out-of-bounds endpoints) are
// reported through the result status, never as panics or errors.
func (p *Pathfinder) FindPath(start, end math.Vec3, opts *Options) *PathResult {
	if opts == nil {
		opts = DefaultOptions()
	}
	res := p.search(start, end, opts)
	p.log.Debug("path search finished",
		zap.Stringer("status", res.Status),
		zap.Int("waypoints", len(res.Waypoints)),
		zap.Float32("length", res.Length),
		zap.Duration("elapsed", res.Elapsed))
	return res
}

// IsWalkable reports whether the cell under pos is inside the grid and
// walkable.
func (p *Pathfinder) IsWalkable(pos math.Vec3) bool {
	n := p.grid.NodeAt(pos)
	return n != nil && n.Walkable
}

// ClosestWalkable returns the position of the nearest walkable node to
// pos. The second return is false when pos is outside the grid or no
// walkable node exists within the bounded search.
func (p *Pathfinder) ClosestWalkable(pos math.Vec3) (math.Vec3, bool) {
	n := p.grid.NodeAt(pos)
	if n == nil {
		return math.Vec3{}, false
	}
	w := p.grid.NearestWalkable(n)
	if w == nil {
		return math.Vec3{}, false
	}
	return w.Position, true
}

func (p *Pathfinder) search(start, end math.Vec3, opts *Options) *PathResult {
	began := time.Now()

	startNode := p.grid.NodeAt(start)
	if startNode == nil {
		return failResult(StatusInvalidStart, "start outside grid bounds", time.Since(began))
	}
	endNode := p.grid.NodeAt(end)
	if endNode == nil {
		return failResult(StatusInvalidEnd, "end outside grid bounds", time.Since(began))
	}

	if !startNode.Walkable {
		if !opts.FindNearestIfUnreachable {
			return failResult(StatusInvalidStart, "start not walkable", time.Since(began))
		}
		if startNode = p.grid.NearestWalkable(startNode); startNode == nil {
			return failResult(StatusInvalidStart, "no walkable node near start", time.Since(began))
		}
	}
	if !endNode.Walkable {
		if !opts.FindNearestIfUnreachable {
			return failResult(StatusInvalidEnd, "end not walkable", time.Since(began))
		}
		if endNode = p.grid.NearestWalkable(endNode); endNode == nil {
			return failResult(StatusInvalidEnd, "no walkable node near end", time.Since(began))
		}
	}

	// Trivial path: both endpoints resolve to the same cell.
	if startNode == endNode {
		return newPathResult(StatusSuccess, []math.Vec3{start, end}, time.Since(began))
	}

	arena := make([]searchRecord, p.grid.NodeCount())
	open := &openHeap{arena: arena, items: make([]int32, 0, 64)}
	heap.Init(open)

	sr := &arena[startNode.idx]
	sr.node = startNode
	sr.h = p.grid.HeuristicCost(startNode, endNode, opts)
	sr.f = sr.h
	sr.parent = -1
	sr.state = recordOpen
	heap.Push(open, int32(startNode.idx))

	processed := 0
	for open.Len() > 0 {
		if (opts.Timeout > 0 && time.Since(began) > opts.Timeout) ||
			(opts.MaxNodes > 0 && processed > opts.MaxNodes) {
			if opts.FindNearestIfUnreachable {
				if best := bestOpenByHeuristic(open); best >= 0 {
					return newPathResult(StatusPartialPath,
						reconstructWaypoints(arena, best), time.Since(began))
				}
			}
			return failResult(StatusTimeout, "search budget exceeded", time.Since(began))
		}

		currentIdx := heap.Pop(open).(int32)
		current := &arena[currentIdx]
		if current.node == endNode {
			waypoints := postProcess(reconstructWaypoints(arena, currentIdx), opts)
			return newPathResult(StatusSuccess, waypoints, time.Since(began))
		}
		current.state = recordClosed
		processed++

		for _, nb := range p.grid.Neighbors(current.node, opts) {
			if !nb.Walkable {
				continue
			}
			record := &arena[nb.idx]
			if record.state == recordClosed {
				continue
			}
			if !p.canStep(current.node, nb, opts) {
				continue
			}

			tentative := current.g + p.grid.MovementCost(current.node, nb, opts)
			switch record.state {
			case recordUnvisited:
				record.node = nb
				record.g = tentative
				record.h = p.grid.HeuristicCost(nb, endNode, opts)
				record.f = tentative + record.h
				record.parent = currentIdx
				record.state = recordOpen
				heap.Push(open, int32(nb.idx))
			case recordOpen:
				if tentative < record.g {
					record.g = tentative
					record.f = tentative + record.h
					record.parent = currentIdx
					heap.Fix(open, int(record.heapIdx))
				}
			}
		}
	}

	return failResult(StatusNoPath, "no route to goal", time.Since(began))
}

// canStep applies the vertical traversal constraints between two adjacent
// nodes: the hard height-step limit and the slope-angle limit.
func (p *Pathfinder) canStep(from, to *Node, opts *Options) bool {
	dh := to.Height - from.Height
	if dh < 0 {
		dh = -dh
	}
	if opts.MaxHeightStep > 0 && dh > opts.MaxHeightStep {
		return false
	}
	if opts.MaxSlopeAngle > 0 && dh > 0 {
		horiz := from.Position.DistanceXZ(to.Position)
		if horiz <= 0 {
			return false
		}
		slope := float32(gomath.Atan2(float64(dh), float64(horiz)) * 180 / gomath.Pi)
		if slope > opts.MaxSlopeAngle {
			return false
		}
	}
	return true
}

// bestOpenByHeuristic returns the arena index of the open node closest to
// the goal by heuristic cost, or -1 when the open set is empty. Used to
// build a best-effort partial path when the budget runs out.
func bestOpenByHeuristic(open *openHeap) int32 {
	best := int32(-1)
	var bestH float32
	for _, idx := range open.items {
		r := &open.arena[idx]
		if best < 0 || r.h < bestH {
			best = idx
			bestH = r.h
		}
	}
	return best
}

// reconstructWaypoints walks parent links from the end record to the start
// and reverses the result into front-to-back order.
func reconstructWaypoints(arena []searchRecord, endIdx int32) []math.Vec3 {
	waypoints := make([]math.Vec3, 0, 16)
	for idx := endIdx; idx >= 0; idx = arena[idx].parent {
		waypoints = append(waypoints, arena[idx].node.Position)
	}
	for i, j := 0, len(waypoints)-1; i < j; i, j = i+1, j-1 {
		waypoints[i], waypoints[j] = waypoints[j], waypoints[i]
	}
	return waypoints
}
