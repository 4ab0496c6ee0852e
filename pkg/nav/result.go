package nav

import (
	"time"

	"github.com/Faultbox/gridnav/pkg/math"
)

// Status is the outcome of one path search.
type Status int

// Search outcomes.
const (
	StatusSuccess Status = iota
	StatusPartialPath
	StatusNoPath
	StatusInvalidStart
	StatusInvalidEnd
	StatusTimeout
	StatusError
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartialPath:
		return "partial-path-found"
	case StatusNoPath:
		return "no-path-found"
	case StatusInvalidStart:
		return "invalid-start"
	case StatusInvalidEnd:
		return "invalid-end"
	case StatusTimeout:
		return "timeout"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// PathResult is the outcome of one search. Invariant: a success or partial
// status always carries waypoints and no message; any failure status
// carries no waypoints.
type PathResult struct {
	// Waypoints is the ordered path from start to destination.
	Waypoints []math.Vec3

	// Status classifies the outcome.
	Status Status

	// Length is the total path length in world units.
	Length float32

	// Elapsed is the search computation time.
	Elapsed time.Duration

	// Message describes a failure, empty on success.
	Message string
}

// Reached reports whether the result carries a usable path (full or
// partial).
func (r *PathResult) Reached() bool {
	return r.Status == StatusSuccess || r.Status == StatusPartialPath
}

// newPathResult builds a result, coercing a success or partial status
// without waypoints to StatusError so the shape invariant holds.
func newPathResult(status Status, waypoints []math.Vec3, elapsed time.Duration) *PathResult {
	if (status == StatusSuccess || status == StatusPartialPath) && len(waypoints) == 0 {
		return &PathResult{
			Status:  StatusError,
			Elapsed: elapsed,
			Message: "internal: " + status.String() + " result without waypoints",
		}
	}
	return &PathResult{
		Waypoints: waypoints,
		Status:    status,
		Length:    pathLength(waypoints),
		Elapsed:   elapsed,
	}
}

// failResult builds a failure result with no waypoints.
func failResult(status Status, msg string, elapsed time.Duration) *PathResult {
	return &PathResult{
		Status:  status,
		Elapsed: elapsed,
		Message: msg,
	}
}

// pathLength sums segment lengths along the waypoints.
func pathLength(waypoints []math.Vec3) float32 {
	var total float32
	for i := 1; i < len(waypoints); i++ {
		total += waypoints[i-1].Distance(waypoints[i])
	}
	return total
}
