package nav

import (
	"errors"

	"github.com/Faultbox/gridnav/pkg/math"
)

// ErrNilSystem is returned when an obstacle is created without an
// initialized navigation system.
var ErrNilSystem = errors.New("nav: obstacle requires an initialized system")

// obstacleShape tags an obstacle's footprint kind.
type obstacleShape int

const (
	shapeCircle obstacleShape = iota
	shapeRect
)

// footprint records the cells an obstacle last blocked together with the
// walkable flag each cell carried before the block, so un-painting puts
// back exactly the state that existed before the obstacle was applied.
type footprint struct {
	cells   []*Node
	prior   []bool
	applied bool
}

// Obstacle blocks a region of the grid while active and restores it when
// moved, resized, deactivated or disposed. Painting snapshots the prior
// walkable flag of every covered cell, so cells that were already blocked
// (static scene geometry, earlier grid edits) stay blocked after the
// obstacle goes away. Overlapping obstacles restore the flags they saw at
// paint time. Obstacles write to the shared grid and follow the same
// single-writer rule as direct grid edits.
type Obstacle struct {
	grid   Grid
	shape  obstacleShape
	center math.Vec3
	radius float32
	min    math.Vec3
	max    math.Vec3
	active bool
	last   footprint
}

// NewCircleObstacle creates an active circular obstacle and paints it.
func NewCircleObstacle(sys *System, center math.Vec3, radius float32) (*Obstacle, error) {
	if sys == nil || !sys.Initialized() {
		return nil, ErrNilSystem
	}
	grid, err := sys.Grid()
	if err != nil {
		return nil, err
	}
	o := &Obstacle{
		grid:   grid,
		shape:  shapeCircle,
		center: center,
		radius: radius,
		active: true,
	}
	o.paint()
	return o, nil
}

// NewRectObstacle creates an active rectangular obstacle and paints it.
func NewRectObstacle(sys *System, min, max math.Vec3) (*Obstacle, error) {
	if sys == nil || !sys.Initialized() {
		return nil, ErrNilSystem
	}
	grid, err := sys.Grid()
	if err != nil {
		return nil, err
	}
	o := &Obstacle{
		grid:   grid,
		shape:  shapeRect,
		min:    min,
		max:    max,
		active: true,
	}
	o.paint()
	return o, nil
}

// Active reports whether the obstacle is currently blocking the grid.
func (o *Obstacle) Active() bool {
	return o.active
}

// Position returns the circle center, or the rect minimum corner.
func (o *Obstacle) Position() math.Vec3 {
	if o.shape == shapeRect {
		return o.min
	}
	return o.center
}

// SetPosition moves the obstacle, restoring the old footprint and
// blocking the new one. For rectangles the position is the minimum
// corner; the extent is preserved.
func (o *Obstacle) SetPosition(pos math.Vec3) {
	o.unpaint()
	if o.shape == shapeRect {
		extent := o.max.Sub(o.min)
		o.min = pos
		o.max = pos.Add(extent)
	} else {
		o.center = pos
	}
	o.paint()
}

// SetRadius resizes a circular obstacle. Rect obstacles ignore it.
func (o *Obstacle) SetRadius(radius float32) {
	if o.shape != shapeCircle {
		return
	}
	o.unpaint()
	o.radius = radius
	o.paint()
}

// SetSize resizes a rectangular obstacle. Circle obstacles ignore it.
func (o *Obstacle) SetSize(min, max math.Vec3) {
	if o.shape != shapeRect {
		return
	}
	o.unpaint()
	o.min = min
	o.max = max
	o.paint()
}

// SetActive toggles the obstacle. Deactivating restores the footprint;
// reactivating blocks it again at the current position and size.
func (o *Obstacle) SetActive(active bool) {
	if active == o.active {
		return
	}
	o.active = active
	if active {
		o.paint()
	} else {
		o.unpaint()
	}
}

// Dispose restores the footprint and detaches the obstacle from the
// grid. A disposed obstacle is inert; the system lives on.
func (o *Obstacle) Dispose() {
	o.unpaint()
	o.active = false
	o.grid = nil
}

// paint blocks the current footprint, recording each cell's prior
// walkable flag for later restore.
func (o *Obstacle) paint() {
	if !o.active || o.grid == nil {
		return
	}
	var cells []*Node
	switch o.shape {
	case shapeCircle:
		cells = o.grid.NodesInArea(o.center, o.radius)
	case shapeRect:
		cells = o.grid.NodesInRect(o.min, o.max)
	}

	prior := make([]bool, len(cells))
	for i, n := range cells {
		prior[i] = n.Walkable
		n.Walkable = false
	}
	o.last = footprint{cells: cells, prior: prior, applied: true}
}

// unpaint restores the snapshotted flags of the last applied footprint.
func (o *Obstacle) unpaint() {
	if !o.last.applied {
		return
	}
	for i, n := range o.last.cells {
		n.Walkable = o.last.prior[i]
	}
	o.last = footprint{}
}
