package nav

import (
	"github.com/Faultbox/gridnav/pkg/math"
)

// smoothingPasses is the fixed number of smoothing iterations applied to a
// successful path.
const smoothingPasses = 5

// postProcess applies smoothing then simplification to a full-success
// path, per the options. Partial paths are returned as found.
func postProcess(waypoints []math.Vec3, opts *Options) []math.Vec3 {
	if opts.SmoothingFactor > 0 {
		waypoints = smoothPath(waypoints, opts.SmoothingFactor)
	}
	if opts.SimplifyTolerance > 0 {
		waypoints = simplifyPath(waypoints, opts.SimplifyTolerance)
	}
	return waypoints
}

// smoothPath iteratively blends each interior waypoint toward the midpoint
// of its neighbors, weighted by factor. Endpoints are never moved.
func smoothPath(waypoints []math.Vec3, factor float32) []math.Vec3 {
	if len(waypoints) < 3 {
		return waypoints
	}
	if factor > 1 {
		factor = 1
	}

	smoothed := make([]math.Vec3, len(waypoints))
	copy(smoothed, waypoints)
	next := make([]math.Vec3, len(waypoints))

	for pass := 0; pass < smoothingPasses; pass++ {
		copy(next, smoothed)
		for i := 1; i < len(smoothed)-1; i++ {
			mid := smoothed[i-1].Mid(smoothed[i+1])
			next[i] = smoothed[i].Lerp(mid, factor)
		}
		smoothed, next = next, smoothed
	}
	return smoothed
}

// simplifyPath reduces the path with the Ramer-Douglas-Peucker algorithm:
// points closer than tolerance to the chord between the segment endpoints
// are dropped. The first and last waypoints always survive.
func simplifyPath(waypoints []math.Vec3, tolerance float32) []math.Vec3 {
	if len(waypoints) < 3 {
		return waypoints
	}
	keep := make([]bool, len(waypoints))
	keep[0] = true
	keep[len(waypoints)-1] = true
	rdpMark(waypoints, 0, len(waypoints)-1, tolerance, keep)

	out := make([]math.Vec3, 0, len(waypoints))
	for i, k := range keep {
		if k {
			out = append(out, waypoints[i])
		}
	}
	return out
}

// rdpMark marks the waypoints to keep between first and last.
func rdpMark(waypoints []math.Vec3, first, last int, tolerance float32, keep []bool) {
	if last-first < 2 {
		return
	}
	var maxDist float32
	maxIdx := -1
	for i := first + 1; i < last; i++ {
		d := perpendicularDistance(waypoints[i], waypoints[first], waypoints[last])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxIdx < 0 || maxDist <= tolerance {
		return
	}
	keep[maxIdx] = true
	rdpMark(waypoints, first, maxIdx, tolerance, keep)
	rdpMark(waypoints, maxIdx, last, tolerance, keep)
}

// perpendicularDistance returns the distance from p to the line through a
// and b. Degenerate segments fall back to point distance.
func perpendicularDistance(p, a, b math.Vec3) float32 {
	ab := b.Sub(a)
	length := ab.Length()
	if length == 0 {
		return p.Distance(a)
	}
	return ab.Cross(p.Sub(a)).Length() / length
}
