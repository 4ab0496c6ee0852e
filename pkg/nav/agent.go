package nav

import (
	"go.uber.org/zap"

	"github.com/Faultbox/gridnav/pkg/math"
)

// AgentState is the path-following state of an Agent.
type AgentState int

// Agent states.
const (
	AgentIdle AgentState = iota
	AgentPathPending
	AgentFollowing
)

// String returns a human-readable state name.
func (s AgentState) String() string {
	switch s {
	case AgentIdle:
		return "idle"
	case AgentPathPending:
		return "path-pending"
	case AgentFollowing:
		return "following"
	default:
		return "unknown"
	}
}

// Agent turns path results into frame-by-frame movement toward a
// destination, replanning when its path goes stale. An Agent shares its
// System; destroying an agent never tears the system down. Agents are
// driven by a single owning update loop and are not thread-safe.
type Agent struct {
	sys *System
	log *zap.Logger

	state          AgentState
	position       math.Vec3
	destination    math.Vec3
	hasDestination bool
	path           []math.Vec3
	pathIndex      int
	stale          bool
	arrived        bool
	sinceReplan    float32

	// Speed is the movement speed in world units per second.
	Speed float32

	// StoppingDistance is the waypoint arrival threshold.
	StoppingDistance float32

	// ReplanInterval is the minimum time in seconds between replans of a
	// stale path.
	ReplanInterval float32

	// DeferSearch postpones searches triggered by MoveTo to the next
	// Update instead of running them synchronously.
	DeferSearch bool

	// Options configures the agent's searches. Nil uses the default
	// preset.
	Options *Options

	// OnPathComplete, when set, fires exactly once per search attempt
	// with the result, whether it succeeded, was partial or failed.
	OnPathComplete func(*PathResult)
}

// NewAgent creates an idle agent bound to sys at the given position.
func NewAgent(sys *System, pos math.Vec3) *Agent {
	return &Agent{
		sys:              sys,
		log:              zap.NewNop(),
		position:         pos,
		Speed:            5,
		StoppingDistance: 0.1,
		ReplanInterval:   0.5,
	}
}

// SetLogger installs a logger. A nil logger is ignored.
func (a *Agent) SetLogger(log *zap.Logger) {
	if log != nil {
		a.log = log
	}
}

// Position returns the agent's current world position.
func (a *Agent) Position() math.Vec3 {
	return a.position
}

// SetPosition teleports the agent and marks any current path stale.
func (a *Agent) SetPosition(pos math.Vec3) {
	a.position = pos
	if a.state == AgentFollowing {
		a.stale = true
	}
}

// Destination returns the current destination.
func (a *Agent) Destination() math.Vec3 {
	return a.destination
}

// State returns the agent's path-following state.
func (a *Agent) State() AgentState {
	return a.state
}

// IsFollowing reports whether the agent is advancing along a path.
func (a *Agent) IsFollowing() bool {
	return a.state == AgentFollowing
}

// HasArrived reports whether the agent reached its last destination.
func (a *Agent) HasArrived() bool {
	return a.arrived
}

// CurrentPath returns the waypoints the agent is following, or nil. The
// slice is owned by the agent; callers must not modify it.
func (a *Agent) CurrentPath() []math.Vec3 {
	return a.path
}

// MoveTo sets a new destination and triggers a fresh search, either
// synchronously or on the next Update when DeferSearch is set. When the
// destination is already within StoppingDistance no search runs; a
// trivial success result is synthesized and the agent stops.
func (a *Agent) MoveTo(dest math.Vec3) {
	a.destination = dest
	a.hasDestination = true
	a.stale = true
	a.arrived = false

	if a.position.Distance(dest) <= a.StoppingDistance {
		a.clearPath()
		a.stale = false
		a.arrived = true
		a.deliver(newPathResult(StatusSuccess, []math.Vec3{a.position, dest}, 0))
		return
	}
	if a.DeferSearch {
		a.state = AgentPathPending
		return
	}
	a.requestPath()
}

// Update advances the agent by dt seconds: runs a deferred or stale-path
// search, or moves along the current path, snapping to each waypoint
// within StoppingDistance and going idle when the path is exhausted.
func (a *Agent) Update(dt float32) {
	a.sinceReplan += dt

	switch a.state {
	case AgentPathPending:
		a.requestPath()
	case AgentIdle:
		if a.stale && a.hasDestination {
			a.requestPath()
		}
	case AgentFollowing:
		if a.stale && a.sinceReplan >= a.ReplanInterval {
			a.requestPath()
			return
		}
		a.advance(dt)
	}
}

// Stop clears the current path and destination and returns to idle.
func (a *Agent) Stop() {
	a.clearPath()
	a.hasDestination = false
	a.stale = false
}

// SetPath installs an externally computed path, bypassing search. The
// destination becomes the path's final point. An empty path stops the
// agent.
func (a *Agent) SetPath(path []math.Vec3) {
	if len(path) == 0 {
		a.Stop()
		return
	}
	a.path = append([]math.Vec3(nil), path...)
	a.pathIndex = 0
	a.destination = path[len(path)-1]
	a.hasDestination = true
	a.state = AgentFollowing
	a.stale = false
	a.arrived = false
}

// MarkStale flags the current path for replanning on the next interval,
// for callers that moved the agent or its goal externally.
func (a *Agent) MarkStale() {
	a.stale = true
}

// requestPath runs one search attempt and installs the outcome. The
// completion callback fires exactly once per attempt.
func (a *Agent) requestPath() {
	a.state = AgentPathPending
	a.stale = false
	a.sinceReplan = 0

	res, err := a.sys.FindPath(a.position, a.destination, a.Options)
	if err != nil {
		res = failResult(StatusError, err.Error(), 0)
	}

	if res.Reached() {
		a.path = res.Waypoints
		a.pathIndex = 0
		a.state = AgentFollowing
	} else {
		a.log.Debug("agent search failed", zap.Stringer("status", res.Status))
		a.clearPath()
	}
	a.deliver(res)
}

// advance moves the agent by Speed*dt toward the current waypoint.
func (a *Agent) advance(dt float32) {
	if a.pathIndex >= len(a.path) {
		a.finishPath()
		return
	}

	target := a.path[a.pathIndex]
	dist := a.position.Distance(target)
	step := a.Speed * dt

	if dist <= a.StoppingDistance || step >= dist {
		a.position = target
		a.pathIndex++
		if a.pathIndex >= len(a.path) {
			a.finishPath()
		}
		return
	}

	dir := target.Sub(a.position).Normalize()
	a.position = a.position.Add(dir.Scale(step))
}

func (a *Agent) finishPath() {
	a.clearPath()
	a.stale = false
	a.arrived = true
}

func (a *Agent) clearPath() {
	a.path = nil
	a.pathIndex = 0
	a.state = AgentIdle
}

func (a *Agent) deliver(res *PathResult) {
	if a.OnPathComplete != nil {
		a.OnPathComplete(res)
	}
}
