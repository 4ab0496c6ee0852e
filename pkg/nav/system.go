package nav

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/gridnav/pkg/math"
)

// System lifecycle errors. These are contract violations at the call site,
// not recoverable search failures.
var (
	ErrNotInitialized     = errors.New("nav: system not initialized")
	ErrAlreadyInitialized = errors.New("nav: system already initialized")
	ErrNilPathfinder      = errors.New("nav: pathfinder must not be nil")
)

// PathQuerier is the query contract a System forwards path requests to.
// Pathfinder is the default implementation; alternate search strategies
// can be swapped in at runtime as long as they honor the same semantics.
type PathQuerier interface {
	FindPath(start, end math.Vec3, opts *Options) *PathResult
	FindPathAsync(start, end math.Vec3, opts *Options, fn func(*PathResult))
	IsWalkable(pos math.Vec3) bool
	ClosestWalkable(pos math.Vec3) (math.Vec3, bool)
}

// System is the navigation facade: exactly one grid and one path querier.
// It must be initialized once before use. A System is not safe for
// concurrent grid mutation; see the package concurrency notes.
type System struct {
	grid        Grid
	pathfinder  PathQuerier
	log         *zap.Logger
	initialized bool
}

// NewSystem creates an uninitialized navigation system.
func NewSystem() *System {
	return &System{log: zap.NewNop()}
}

// SetLogger installs a logger. A nil logger is ignored.
func (s *System) SetLogger(log *zap.Logger) {
	if log != nil {
		s.log = log
	}
}

// Init binds the system to a grid with the default A* pathfinder.
func (s *System) Init(grid Grid) error {
	if grid == nil {
		return ErrNilGrid
	}
	pf, err := NewPathfinder(grid)
	if err != nil {
		return err
	}
	pf.SetLogger(s.log)
	return s.InitWith(grid, pf)
}

// InitWith binds the system to a grid and a caller-supplied path querier.
// A second initialization attempt is an error.
func (s *System) InitWith(grid Grid, pf PathQuerier) error {
	if s.initialized {
		return ErrAlreadyInitialized
	}
	if grid == nil {
		return ErrNilGrid
	}
	if pf == nil {
		return ErrNilPathfinder
	}
	s.grid = grid
	s.pathfinder = pf
	s.initialized = true
	s.log.Info("navigation system initialized", zap.Int("nodes", grid.NodeCount()))
	return nil
}

// Initialized reports whether Init has completed.
func (s *System) Initialized() bool {
	return s.initialized
}

// SetPathfinder swaps the path querier at runtime.
func (s *System) SetPathfinder(pf PathQuerier) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if pf == nil {
		return ErrNilPathfinder
	}
	s.pathfinder = pf
	return nil
}

// Grid returns the bound grid.
func (s *System) Grid() (Grid, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	return s.grid, nil
}

// FindPath forwards a synchronous path query to the pathfinder.
func (s *System) FindPath(start, end math.Vec3, opts *Options) (*PathResult, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	return s.pathfinder.FindPath(start, end, opts), nil
}

// FindPathAsync forwards a non-blocking path query to the pathfinder.
func (s *System) FindPathAsync(start, end math.Vec3, opts *Options, fn func(*PathResult)) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	s.pathfinder.FindPathAsync(start, end, opts, fn)
	return nil
}

// IsWalkable reports whether the cell under pos is walkable.
func (s *System) IsWalkable(pos math.Vec3) (bool, error) {
	if !s.initialized {
		return false, ErrNotInitialized
	}
	return s.pathfinder.IsWalkable(pos), nil
}

// ClosestWalkable returns the nearest walkable position to pos. The bool
// is false when no walkable node exists within the bounded search.
func (s *System) ClosestWalkable(pos math.Vec3) (math.Vec3, bool, error) {
	if !s.initialized {
		return math.Vec3{}, false, ErrNotInitialized
	}
	p, ok := s.pathfinder.ClosestWalkable(pos)
	return p, ok, nil
}

// SetAreaWalkable forwards a circular walkability edit to the grid.
func (s *System) SetAreaWalkable(center math.Vec3, radius float32, walkable bool) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	s.grid.SetAreaWalkable(center, radius, walkable)
	return nil
}

// SetRectWalkable forwards a rectangular walkability edit to the grid.
func (s *System) SetRectWalkable(min, max math.Vec3, walkable bool) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	s.grid.SetRectWalkable(min, max, walkable)
	return nil
}

// ResetWalkability marks every grid node walkable.
func (s *System) ResetWalkability() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	s.grid.ResetWalkability()
	return nil
}

// UpdateHeights forwards a heightmap update to the grid.
func (s *System) UpdateHeights(heights []float32, width, depth int) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	return s.grid.UpdateHeights(heights, width, depth)
}
