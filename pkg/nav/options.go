package nav

import "time"

// Options configures a single path search. An Options value is read-only
// for the duration of the call; the same value can be shared across calls.
type Options struct {
	// SmoothingFactor blends interior waypoints toward their neighbors'
	// midpoint, in [0, 1]. 0 disables smoothing.
	SmoothingFactor float32

	// SimplifyTolerance is the perpendicular-distance tolerance for path
	// simplification. 0 disables simplification.
	SimplifyTolerance float32

	// Timeout bounds the search wall-clock time. Checked between
	// iterations, so the worst case overshoots by one expansion.
	Timeout time.Duration

	// MaxNodes bounds the number of nodes processed.
	MaxNodes int

	// AgentRadius and AgentHeight describe the querying agent. They are
	// informational; the grid resolution already encodes clearance.
	AgentRadius float32
	AgentHeight float32

	// MaxSlopeAngle is the steepest traversable slope in degrees.
	// 0 disables the check.
	MaxSlopeAngle float32

	// MaxHeightStep is the largest height difference between adjacent
	// cells the search will step across. 0 disables the check.
	MaxHeightStep float32

	// AllowDiagonal enables 8-connected movement.
	AllowDiagonal bool

	// AvoidDynamicObstacles is informational. Obstacles paint the grid
	// directly, so searches always observe them.
	AvoidDynamicObstacles bool

	// HeightCostWeight scales the height-difference penalty added to
	// movement and heuristic costs.
	HeightCostWeight float32

	// FindNearestIfUnreachable substitutes the nearest walkable node for
	// an unwalkable start or end, and returns a best-effort partial path
	// when the search budget runs out.
	FindNearestIfUnreachable bool
}

// DefaultOptions returns the balanced preset.
func DefaultOptions() *Options {
	return &Options{
		SmoothingFactor:          0.5,
		SimplifyTolerance:        0.1,
		Timeout:                  100 * time.Millisecond,
		MaxNodes:                 10000,
		AgentRadius:              0.5,
		AgentHeight:              2.0,
		MaxSlopeAngle:            45,
		MaxHeightStep:            1.0,
		AllowDiagonal:            true,
		AvoidDynamicObstacles:    true,
		HeightCostWeight:         1.0,
		FindNearestIfUnreachable: true,
	}
}

// HighPerformanceOptions returns a preset tuned for many queries per frame:
// tight budget, coarse simplification.
func HighPerformanceOptions() *Options {
	o := DefaultOptions()
	o.Timeout = 20 * time.Millisecond
	o.MaxNodes = 2000
	o.SimplifyTolerance = 0.5
	return o
}

// HighQualityOptions returns a preset tuned for path quality over speed.
func HighQualityOptions() *Options {
	o := DefaultOptions()
	o.Timeout = 500 * time.Millisecond
	o.MaxNodes = 100000
	o.SimplifyTolerance = 0.01
	return o
}

// Preset returns the named options preset: "default", "high-performance"
// or "high-quality". Unknown names fall back to the default preset.
func Preset(name string) *Options {
	switch name {
	case "high-performance":
		return HighPerformanceOptions()
	case "high-quality":
		return HighQualityOptions()
	default:
		return DefaultOptions()
	}
}
