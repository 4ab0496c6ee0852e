package nav

import (
	"github.com/Faultbox/gridnav/pkg/math"
)

// FindPathAsync runs FindPath on a worker goroutine and delivers the
// result through fn. The call never blocks. Searches are read-only over
// the grid; the caller must not mutate the grid until the callback fires,
// the same serialization required of any off-thread search.
//
// There is no mid-search cancellation; the options budget is the only
// bound on search duration.
func (p *Pathfinder) FindPathAsync(start, end math.Vec3, opts *Options, fn func(*PathResult)) {
	go func() {
		res := p.FindPath(start, end, opts)
		if fn != nil {
			fn(res)
		}
	}()
}
