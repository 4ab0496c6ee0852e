// Package sim drives a set of navigation agents across a scene with a
// fixed-timestep loop.
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/gridnav/internal/config"
	"github.com/Faultbox/gridnav/internal/scene"
	"github.com/Faultbox/gridnav/pkg/math"
	"github.com/Faultbox/gridnav/pkg/nav"
)

// Sim owns the navigation system and the simulated agents.
type Sim struct {
	cfg     *config.Config
	log     *zap.Logger
	scn     *scene.Scene
	grid    *nav.SquareGrid
	sys     *nav.System
	agents  []*nav.Agent
	watcher *scene.Watcher
	rng     *rand.Rand

	// Stats over the whole run.
	searches int
	failures int
	arrivals int
}

// New builds a simulation from the config: loads the scene, initializes
// the navigation system and spawns the agents.
func New(cfg *config.Config, log *zap.Logger) (*Sim, error) {
	scn, err := scene.Load(cfg.Scene.Path)
	if err != nil {
		return nil, err
	}
	grid, err := scn.Build()
	if err != nil {
		return nil, err
	}

	sys := nav.NewSystem()
	sys.SetLogger(log)
	if err := sys.Init(grid); err != nil {
		return nil, err
	}

	s := &Sim{
		cfg:  cfg,
		log:  log,
		scn:  scn,
		grid: grid,
		sys:  sys,
		rng:  rand.New(rand.NewSource(1)),
	}

	opts := nav.Preset(cfg.Nav.Preset)
	for i := 0; i < cfg.Sim.Agents; i++ {
		pos, ok := s.randomWalkable()
		if !ok {
			return nil, fmt.Errorf("scene %s has no walkable cells", cfg.Scene.Path)
		}
		agent := nav.NewAgent(sys, pos)
		agent.SetLogger(log)
		agent.Options = opts
		agent.OnPathComplete = func(res *nav.PathResult) {
			s.searches++
			if !res.Reached() {
				s.failures++
			}
		}
		s.agents = append(s.agents, agent)
	}

	if cfg.Scene.Watch {
		w, err := scene.NewWatcher(filepath.Dir(cfg.Scene.Path))
		if err != nil {
			return nil, fmt.Errorf("watching scene dir: %w", err)
		}
		s.watcher = w
		log.Info("watching scene for changes", zap.String("dir", filepath.Dir(cfg.Scene.Path)))
	}

	walkable, blocked := grid.Stats()
	log.Info("simulation ready",
		zap.String("scene", scn.Name),
		zap.Int("agents", len(s.agents)),
		zap.Int("walkable", walkable),
		zap.Int("blocked", blocked))
	return s, nil
}

// Run steps the simulation until the configured duration of simulated
// time elapses, or until ctx is canceled. A zero duration runs until
// cancellation.
func (s *Sim) Run(ctx context.Context) error {
	dt := s.cfg.Sim.Timestep
	if dt <= 0 {
		dt = 1.0 / 60.0
	}

	var elapsed float32
	for s.cfg.Sim.Duration <= 0 || elapsed < s.cfg.Sim.Duration {
		select {
		case <-ctx.Done():
			s.log.Info("simulation interrupted", zap.Float32("sim_seconds", elapsed))
			return nil
		default:
		}

		s.drainWatcher()
		s.Step(dt)
		elapsed += dt
	}

	s.log.Info("simulation finished",
		zap.Float32("sim_seconds", elapsed),
		zap.Int("searches", s.searches),
		zap.Int("failures", s.failures),
		zap.Int("arrivals", s.arrivals))
	return nil
}

// Step advances every agent by dt seconds, handing idle agents a new
// random destination.
func (s *Sim) Step(dt float32) {
	for _, agent := range s.agents {
		if agent.State() == nav.AgentIdle {
			if agent.HasArrived() {
				s.arrivals++
			}
			if dest, ok := s.randomWalkable(); ok {
				agent.MoveTo(dest)
			}
			continue
		}
		agent.Update(dt)
	}
}

// Agents returns the simulated agents.
func (s *Sim) Agents() []*nav.Agent {
	return s.agents
}

// Close releases the scene watcher, if any.
func (s *Sim) Close() {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
}

// drainWatcher applies any pending scene changes before the next step.
func (s *Sim) drainWatcher() {
	if s.watcher == nil {
		return
	}
	reload := false
	for {
		select {
		case path, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.log.Info("scene file changed", zap.String("path", path))
			reload = true
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("scene watcher error", zap.Error(err))
		default:
			if reload {
				s.reloadScene()
			}
			return
		}
	}
}

// reloadScene rereads the scene file and reapplies it to the live grid.
// Agents keep their positions; their paths are marked stale so they
// replan against the new layout.
func (s *Sim) reloadScene() {
	scn, err := scene.Load(s.cfg.Scene.Path)
	if err != nil {
		s.log.Error("scene reload failed, keeping previous layout", zap.Error(err))
		return
	}
	if scn.Grid.Width != s.grid.Width() || scn.Grid.Depth != s.grid.Depth() {
		s.log.Error("scene reload changed grid dimensions, keeping previous layout",
			zap.Int("width", scn.Grid.Width), zap.Int("depth", scn.Grid.Depth))
		return
	}
	if err := scn.Apply(s.grid); err != nil {
		s.log.Error("scene reload failed, keeping previous layout", zap.Error(err))
		return
	}
	s.scn = scn
	for _, agent := range s.agents {
		agent.MarkStale()
	}
	s.log.Info("scene reloaded", zap.String("scene", scn.Name))
}

// randomWalkable picks a uniformly random cell and resolves it to the
// nearest walkable position.
func (s *Sim) randomWalkable() (math.Vec3, bool) {
	for attempt := 0; attempt < 10; attempt++ {
		x := s.rng.Intn(s.grid.Width())
		z := s.rng.Intn(s.grid.Depth())
		n := s.grid.At(x, z)
		if n == nil {
			continue
		}
		if w := s.grid.NearestWalkable(n); w != nil {
			return w.Position, true
		}
	}
	return math.Vec3{}, false
}
