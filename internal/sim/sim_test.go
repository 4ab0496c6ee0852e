package sim

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/gridnav/internal/config"
)

func writeTestScene(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arena.yaml")
	content := `
name: test-arena
grid:
  width: 30
  depth: 30
  cell_size: 1.0
obstacles:
  - shape: circle
    center: {x: 15, z: 15}
    radius: 3
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write scene: %v", err)
	}
	return path
}

func newTestSim(t *testing.T, agents int) *Sim {
	t.Helper()
	cfg := config.Default()
	cfg.Scene.Path = writeTestScene(t)
	cfg.Sim.Agents = agents
	cfg.Sim.Duration = 1

	s, err := New(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestNew_SpawnsAgents(t *testing.T) {
	s := newTestSim(t, 4)

	if len(s.Agents()) != 4 {
		t.Fatalf("expected 4 agents, got %d", len(s.Agents()))
	}
	for i, agent := range s.Agents() {
		if ok, _ := s.sys.IsWalkable(agent.Position()); !ok {
			t.Errorf("agent %d spawned on a blocked cell at %v", i, agent.Position())
		}
	}
}

func TestNew_MissingScene(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.Path = "/nonexistent/scene.yaml"

	if _, err := New(cfg, zap.NewNop()); err == nil {
		t.Error("expected error for missing scene")
	}
}

func TestSim_Step_AgentsMove(t *testing.T) {
	s := newTestSim(t, 3)

	// The first step assigns destinations and searches.
	s.Step(1.0 / 60.0)
	if s.searches == 0 {
		t.Fatal("no searches after the first step")
	}

	before := make(map[int]float32)
	for i, agent := range s.Agents() {
		before[i] = agent.Position().X + agent.Position().Z
	}

	for i := 0; i < 120; i++ {
		s.Step(1.0 / 60.0)
	}

	moved := 0
	for i, agent := range s.Agents() {
		if agent.Position().X+agent.Position().Z != before[i] {
			moved++
		}
	}
	if moved == 0 {
		t.Error("no agent moved after two simulated seconds")
	}
}

func TestSim_Run_HonorsDuration(t *testing.T) {
	s := newTestSim(t, 2)
	s.cfg.Sim.Duration = 0.5

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if s.searches == 0 {
		t.Error("expected searches during the run")
	}
}

func TestSim_Run_StopsOnCancel(t *testing.T) {
	s := newTestSim(t, 2)
	s.cfg.Sim.Duration = 0 // run until canceled

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned error on cancel: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestSim_AgentsEventuallyArrive(t *testing.T) {
	s := newTestSim(t, 4)

	// Plenty of simulated time for a 30x30 arena at default agent speed.
	for i := 0; i < 3600; i++ {
		s.Step(1.0 / 60.0)
	}
	if s.arrivals == 0 {
		t.Error("no agent arrived after a minute of simulated time")
	}
	if s.failures > s.searches/2 {
		t.Errorf("too many failed searches: %d of %d", s.failures, s.searches)
	}
}
