package nav

import (
	"errors"
	"testing"

	"github.com/Faultbox/gridnav/pkg/math"
)

func TestNewCircleObstacle_RequiresInitializedSystem(t *testing.T) {
	if _, err := NewCircleObstacle(nil, math.Vec3{}, 1); !errors.Is(err, ErrNilSystem) {
		t.Errorf("expected ErrNilSystem for nil system, got %v", err)
	}
	if _, err := NewCircleObstacle(NewSystem(), math.Vec3{}, 1); !errors.Is(err, ErrNilSystem) {
		t.Errorf("expected ErrNilSystem for uninitialized system, got %v", err)
	}
	if _, err := NewRectObstacle(NewSystem(), math.Vec3{}, math.Vec3{X: 1, Z: 1}); !errors.Is(err, ErrNilSystem) {
		t.Errorf("expected ErrNilSystem for uninitialized system, got %v", err)
	}
}

func TestObstacle_Circle_PaintsGrid(t *testing.T) {
	sys, g := newTestSystem(t, 10, 10)

	o, err := NewCircleObstacle(sys, math.Vec3{X: 5, Z: 5}, 1.5)
	if err != nil {
		t.Fatalf("NewCircleObstacle failed: %v", err)
	}
	if !o.Active() {
		t.Error("new obstacle should start active")
	}
	if _, blocked := g.Stats(); blocked == 0 {
		t.Fatal("obstacle did not block any cells")
	}
	if g.At(5, 5).Walkable {
		t.Error("cell under the obstacle center should be blocked")
	}
	if g.At(0, 0).Walkable == false {
		t.Error("cell far from the obstacle should stay walkable")
	}
}

func TestObstacle_Rect_PaintsGrid(t *testing.T) {
	sys, g := newTestSystem(t, 10, 10)

	_, err := NewRectObstacle(sys, math.Vec3{X: 2, Z: 2}, math.Vec3{X: 4, Z: 4})
	if err != nil {
		t.Fatalf("NewRectObstacle failed: %v", err)
	}
	if g.At(2, 2).Walkable || g.At(3, 3).Walkable {
		t.Error("cells inside the rect should be blocked")
	}
	if !g.At(5, 5).Walkable {
		t.Error("cells outside the rect should stay walkable")
	}
}

func TestObstacle_SetPosition_RestoresOldFootprint(t *testing.T) {
	sys, g := newTestSystem(t, 20, 20)

	o, err := NewCircleObstacle(sys, math.Vec3{X: 5, Z: 5}, 1.5)
	if err != nil {
		t.Fatalf("NewCircleObstacle failed: %v", err)
	}

	o.SetPosition(math.Vec3{X: 15, Z: 15})

	if !g.At(5, 5).Walkable {
		t.Error("old footprint not restored after move")
	}
	if g.At(15, 15).Walkable {
		t.Error("new footprint not blocked after move")
	}
}

func TestObstacle_MoveResizeSequence_LeavesGridClean(t *testing.T) {
	sys, g := newTestSystem(t, 20, 20)

	o, err := NewCircleObstacle(sys, math.Vec3{X: 3, Z: 3}, 2)
	if err != nil {
		t.Fatalf("NewCircleObstacle failed: %v", err)
	}

	o.SetPosition(math.Vec3{X: 10, Z: 10})
	o.SetRadius(4)
	o.SetPosition(math.Vec3{X: 16, Z: 4})
	o.SetRadius(1)
	o.Dispose()

	if _, blocked := g.Stats(); blocked != 0 {
		t.Errorf("expected a clean grid after dispose, %d cells still blocked", blocked)
	}
}

func TestObstacle_Dispose_KeepsPreexistingBlocks(t *testing.T) {
	sys, g := newTestSystem(t, 10, 10)

	// A cell blocked before the obstacle exists, inside its footprint.
	g.At(5, 5).Walkable = false

	o, err := NewCircleObstacle(sys, math.Vec3{X: 5, Z: 5}, 2)
	if err != nil {
		t.Fatalf("NewCircleObstacle failed: %v", err)
	}
	o.Dispose()

	if g.At(5, 5).Walkable {
		t.Error("dispose restored a cell that was blocked before construction")
	}
	if !g.At(4, 4).Walkable {
		t.Error("dispose did not restore a cell that was walkable before construction")
	}
	if _, blocked := g.Stats(); blocked != 1 {
		t.Errorf("expected only the pre-blocked cell to remain, got %d blocked", blocked)
	}
}

func TestObstacle_SetPosition_KeepsPreexistingBlocks(t *testing.T) {
	sys, g := newTestSystem(t, 20, 20)
	g.At(5, 5).Walkable = false

	o, err := NewCircleObstacle(sys, math.Vec3{X: 5, Z: 5}, 2)
	if err != nil {
		t.Fatalf("NewCircleObstacle failed: %v", err)
	}
	o.SetPosition(math.Vec3{X: 15, Z: 15})

	if g.At(5, 5).Walkable {
		t.Error("move restored a cell that was blocked before construction")
	}
	if g.At(15, 15).Walkable {
		t.Error("new footprint not blocked after move")
	}
}

func TestObstacle_Rect_DisposeKeepsPreexistingBlocks(t *testing.T) {
	sys, g := newTestSystem(t, 10, 10)
	g.At(3, 3).Walkable = false

	o, err := NewRectObstacle(sys, math.Vec3{X: 2, Z: 2}, math.Vec3{X: 4, Z: 4})
	if err != nil {
		t.Fatalf("NewRectObstacle failed: %v", err)
	}
	o.Dispose()

	if g.At(3, 3).Walkable {
		t.Error("dispose restored a cell that was blocked before construction")
	}
	if !g.At(2, 2).Walkable {
		t.Error("dispose did not restore a cell that was walkable before construction")
	}
}

func TestObstacle_SetActive_Toggles(t *testing.T) {
	sys, g := newTestSystem(t, 10, 10)

	o, err := NewCircleObstacle(sys, math.Vec3{X: 5, Z: 5}, 1.5)
	if err != nil {
		t.Fatalf("NewCircleObstacle failed: %v", err)
	}

	o.SetActive(false)
	if _, blocked := g.Stats(); blocked != 0 {
		t.Errorf("deactivation left %d cells blocked", blocked)
	}

	// Toggling twice more must not double-apply.
	o.SetActive(false)
	o.SetActive(true)
	if g.At(5, 5).Walkable {
		t.Error("reactivation did not block the footprint")
	}
	o.SetActive(true)
	o.SetActive(false)
	if _, blocked := g.Stats(); blocked != 0 {
		t.Errorf("toggle sequence left %d cells blocked", blocked)
	}
}

func TestObstacle_Rect_SetPositionKeepsExtent(t *testing.T) {
	sys, g := newTestSystem(t, 20, 20)

	o, err := NewRectObstacle(sys, math.Vec3{X: 2, Z: 2}, math.Vec3{X: 4, Z: 4})
	if err != nil {
		t.Fatalf("NewRectObstacle failed: %v", err)
	}

	o.SetPosition(math.Vec3{X: 10, Z: 10})
	if !g.At(2, 2).Walkable {
		t.Error("old rect footprint not restored")
	}
	if g.At(10, 10).Walkable || g.At(11, 11).Walkable {
		t.Error("moved rect did not block its new cells")
	}

	o.SetSize(math.Vec3{X: 10, Z: 10}, math.Vec3{X: 16, Z: 16})
	if g.At(14, 14).Walkable {
		t.Error("resized rect did not block its new cells")
	}

	o.Dispose()
	if _, blocked := g.Stats(); blocked != 0 {
		t.Error("dispose did not restore the grid")
	}
}

func TestObstacle_Dispose_DetachesFromSystem(t *testing.T) {
	sys, g := newTestSystem(t, 10, 10)

	o, err := NewCircleObstacle(sys, math.Vec3{X: 5, Z: 5}, 1.5)
	if err != nil {
		t.Fatalf("NewCircleObstacle failed: %v", err)
	}

	o.Dispose()
	if o.Active() {
		t.Error("disposed obstacle should be inactive")
	}

	// Mutations on a disposed obstacle are no-ops against the grid.
	o.SetPosition(math.Vec3{X: 2, Z: 2})
	o.SetRadius(3)
	if _, blocked := g.Stats(); blocked != 0 {
		t.Error("disposed obstacle still writes to the grid")
	}

	// The system itself outlives the obstacle.
	if !sys.Initialized() {
		t.Error("system must survive obstacle disposal")
	}
}

func TestObstacle_PathRoutesAround(t *testing.T) {
	sys, g := newTestSystem(t, 20, 20)

	if _, err := NewCircleObstacle(sys, math.Vec3{X: 10, Z: 10}, 3); err != nil {
		t.Fatalf("NewCircleObstacle failed: %v", err)
	}

	opts := rawOptions()
	res, err := sys.FindPath(math.Vec3{X: 0.5, Z: 10.5}, math.Vec3{X: 19.5, Z: 10.5}, opts)
	if err != nil {
		t.Fatalf("FindPath failed: %v", err)
	}
	if res.Status != StatusSuccess {
		t.Fatalf("expected success around the obstacle, got %v", res.Status)
	}
	for i, wp := range res.Waypoints {
		n := g.NodeAt(wp)
		if n == nil || !n.Walkable {
			t.Errorf("waypoint %d at %v crosses the obstacle", i, wp)
		}
	}
	// The detour must be longer than the straight line.
	if res.Length <= 19 {
		t.Errorf("expected a detour longer than 19, got %v", res.Length)
	}
}
