package nav

import (
	"testing"

	"github.com/Faultbox/gridnav/pkg/math"
)

func newTestAgent(t *testing.T, width, depth int) (*Agent, *System, *SquareGrid) {
	t.Helper()
	sys, g := newTestSystem(t, width, depth)
	agent := NewAgent(sys, math.Vec3{X: 0.5, Z: 0.5})
	return agent, sys, g
}

func TestAgent_MoveTo_StartsFollowing(t *testing.T) {
	agent, _, _ := newTestAgent(t, 20, 20)

	var results []*PathResult
	agent.OnPathComplete = func(res *PathResult) { results = append(results, res) }

	agent.MoveTo(math.Vec3{X: 10.5, Z: 0.5})

	if agent.State() != AgentFollowing {
		t.Fatalf("expected following, got %v", agent.State())
	}
	if len(results) != 1 {
		t.Fatalf("expected one callback per attempt, got %d", len(results))
	}
	if results[0].Status != StatusSuccess {
		t.Errorf("expected success, got %v", results[0].Status)
	}
	if len(agent.CurrentPath()) == 0 {
		t.Error("following agent has no path")
	}
}

func TestAgent_Update_ArrivesInExpectedTime(t *testing.T) {
	agent, _, _ := newTestAgent(t, 20, 20)
	agent.Speed = 5
	agent.StoppingDistance = 0.1

	dest := math.Vec3{X: 10.5, Z: 0.5} // 10 units straight east
	agent.MoveTo(dest)

	// 10 units at 5 u/s in 0.1s frames: about 20 updates, plus a frame
	// consumed per waypoint snap.
	steps := 0
	for !agent.HasArrived() && steps < 100 {
		agent.Update(0.1)
		steps++
	}
	if !agent.HasArrived() {
		t.Fatal("agent never arrived")
	}
	if steps < 18 || steps > 26 {
		t.Errorf("expected arrival in roughly 20 steps, took %d", steps)
	}
	if agent.Position().Distance(dest) > agent.StoppingDistance+0.01 {
		t.Errorf("agent stopped at %v, expected near %v", agent.Position(), dest)
	}
	if agent.State() != AgentIdle {
		t.Errorf("expected idle after arrival, got %v", agent.State())
	}
}

func TestAgent_MoveTo_AlreadyThere(t *testing.T) {
	agent, _, _ := newTestAgent(t, 20, 20)

	calls := 0
	var got *PathResult
	agent.OnPathComplete = func(res *PathResult) { calls++; got = res }

	agent.MoveTo(agent.Position().Add(math.Vec3{X: 0.05}))

	if calls != 1 {
		t.Fatalf("expected one callback, got %d", calls)
	}
	if got.Status != StatusSuccess {
		t.Errorf("expected trivial success, got %v", got.Status)
	}
	if !agent.HasArrived() {
		t.Error("agent should report arrival without moving")
	}
	if agent.State() != AgentIdle {
		t.Errorf("expected idle, got %v", agent.State())
	}
}

func TestAgent_DeferSearch(t *testing.T) {
	agent, _, _ := newTestAgent(t, 20, 20)
	agent.DeferSearch = true

	calls := 0
	agent.OnPathComplete = func(*PathResult) { calls++ }

	agent.MoveTo(math.Vec3{X: 10.5, Z: 10.5})
	if agent.State() != AgentPathPending {
		t.Fatalf("expected path-pending before update, got %v", agent.State())
	}
	if calls != 0 {
		t.Fatal("search ran before the next update")
	}

	agent.Update(0.016)
	if agent.State() != AgentFollowing {
		t.Errorf("expected following after update, got %v", agent.State())
	}
	if calls != 1 {
		t.Errorf("expected one callback, got %d", calls)
	}
}

func TestAgent_MoveTo_UnreachableGoal(t *testing.T) {
	agent, _, g := newTestAgent(t, 20, 20)

	// Wall off the east half completely.
	g.SetRectWalkable(math.Vec3{X: 10, Z: 0}, math.Vec3{X: 11, Z: 20}, false)

	opts := DefaultOptions()
	opts.FindNearestIfUnreachable = false
	agent.Options = opts

	var got *PathResult
	agent.OnPathComplete = func(res *PathResult) { got = res }

	agent.MoveTo(math.Vec3{X: 15.5, Z: 10.5})
	if agent.State() != AgentIdle {
		t.Errorf("expected idle after failed search, got %v", agent.State())
	}
	if got == nil {
		t.Fatal("callback did not fire on failure")
	}
	if got.Reached() {
		t.Errorf("expected failure status, got %v", got.Status)
	}
	if agent.IsFollowing() || agent.HasArrived() {
		t.Error("failed search must not leave the agent following or arrived")
	}
}

func TestAgent_Replan_AfterInterval(t *testing.T) {
	agent, _, _ := newTestAgent(t, 20, 20)
	agent.ReplanInterval = 0.5

	searches := 0
	agent.OnPathComplete = func(*PathResult) { searches++ }

	agent.MoveTo(math.Vec3{X: 15.5, Z: 15.5})
	if searches != 1 {
		t.Fatalf("expected one initial search, got %d", searches)
	}

	agent.MarkStale()
	agent.Update(0.1)
	if searches != 1 {
		t.Fatal("replanned before the interval elapsed")
	}

	agent.Update(0.5)
	if searches != 2 {
		t.Errorf("expected a replan after the interval, got %d searches", searches)
	}
	if agent.State() != AgentFollowing {
		t.Errorf("expected following after replan, got %v", agent.State())
	}
}

func TestAgent_Stop(t *testing.T) {
	agent, _, _ := newTestAgent(t, 20, 20)

	agent.MoveTo(math.Vec3{X: 15.5, Z: 15.5})
	agent.Stop()

	if agent.State() != AgentIdle {
		t.Errorf("expected idle after stop, got %v", agent.State())
	}
	if agent.CurrentPath() != nil {
		t.Error("stop should clear the path")
	}

	// A stopped agent must not resume on its own.
	agent.Update(0.1)
	if agent.State() != AgentIdle {
		t.Error("stopped agent moved without a new destination")
	}
}

func TestAgent_SetPath(t *testing.T) {
	agent, _, _ := newTestAgent(t, 20, 20)

	path := []math.Vec3{
		{X: 0.5, Z: 0.5},
		{X: 5.5, Z: 0.5},
		{X: 5.5, Z: 5.5},
	}
	agent.SetPath(path)

	if agent.State() != AgentFollowing {
		t.Fatalf("expected following, got %v", agent.State())
	}
	if agent.Destination() != path[2] {
		t.Errorf("expected destination %v, got %v", path[2], agent.Destination())
	}

	for i := 0; i < 100 && !agent.HasArrived(); i++ {
		agent.Update(0.1)
	}
	if !agent.HasArrived() {
		t.Fatal("agent never finished the external path")
	}
	if agent.Position() != path[2] {
		t.Errorf("expected final position %v, got %v", path[2], agent.Position())
	}

	agent.SetPath(nil)
	if agent.State() != AgentIdle {
		t.Error("empty path should stop the agent")
	}
}

func TestAgent_SetPosition_MarksPathStale(t *testing.T) {
	agent, _, _ := newTestAgent(t, 20, 20)
	agent.ReplanInterval = 0

	searches := 0
	agent.OnPathComplete = func(*PathResult) { searches++ }

	agent.MoveTo(math.Vec3{X: 15.5, Z: 15.5})
	agent.SetPosition(math.Vec3{X: 0.5, Z: 10.5})
	agent.Update(0.1)

	if searches != 2 {
		t.Errorf("expected a replan after teleport, got %d searches", searches)
	}
}
