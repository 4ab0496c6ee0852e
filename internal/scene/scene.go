// Package scene loads navigation scenes from YAML files: grid dimensions,
// blocked regions, terrain costs and an optional CSV heightmap.
package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/gridnav/pkg/math"
	"github.com/Faultbox/gridnav/pkg/nav"
)

// Scene describes a navigation grid and its static layout.
type Scene struct {
	Name      string         `yaml:"name"`
	Grid      GridSpec       `yaml:"grid"`
	Obstacles []ObstacleSpec `yaml:"obstacles"`
	Costs     []CostSpec     `yaml:"costs"`

	// Heightmap is a path to a CSV heightmap, relative to the scene file.
	Heightmap string `yaml:"heightmap"`

	dir string
}

// GridSpec describes the grid dimensions and placement.
type GridSpec struct {
	Width    int     `yaml:"width"`
	Depth    int     `yaml:"depth"`
	CellSize float32 `yaml:"cell_size"`
	Origin   Vec3    `yaml:"origin"`
}

// ObstacleSpec is a static blocked region, either a circle or a rect.
type ObstacleSpec struct {
	Shape  string  `yaml:"shape"` // circle or rect
	Center Vec3    `yaml:"center"`
	Radius float32 `yaml:"radius"`
	Min    Vec3    `yaml:"min"`
	Max    Vec3    `yaml:"max"`
}

// CostSpec assigns a terrain cost multiplier to a rectangle of cells.
type CostSpec struct {
	MinX int     `yaml:"min_x"`
	MinZ int     `yaml:"min_z"`
	MaxX int     `yaml:"max_x"`
	MaxZ int     `yaml:"max_z"`
	Cost float32 `yaml:"cost"`
}

// Vec3 is the YAML form of a world position.
type Vec3 struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

func (v Vec3) vec() math.Vec3 {
	return math.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene %s: %w", path, err)
	}

	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scene %s: %w", path, err)
	}
	s.dir = filepath.Dir(path)

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return &s, nil
}

func (s *Scene) validate() error {
	if s.Grid.Width <= 0 || s.Grid.Depth <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", s.Grid.Width, s.Grid.Depth)
	}
	if s.Grid.CellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %f", s.Grid.CellSize)
	}
	for i, o := range s.Obstacles {
		switch o.Shape {
		case "circle":
			if o.Radius <= 0 {
				return fmt.Errorf("obstacle %d: circle radius must be positive", i)
			}
		case "rect":
			if o.Min.X > o.Max.X || o.Min.Z > o.Max.Z {
				return fmt.Errorf("obstacle %d: rect min exceeds max", i)
			}
		default:
			return fmt.Errorf("obstacle %d: unknown shape %q", i, o.Shape)
		}
	}
	for i, c := range s.Costs {
		if c.Cost < 0 {
			return fmt.Errorf("cost region %d: cost must not be negative", i)
		}
	}
	return nil
}

// HeightmapPath returns the heightmap path resolved against the scene
// file's directory, or empty when the scene has no heightmap.
func (s *Scene) HeightmapPath() string {
	if s.Heightmap == "" {
		return ""
	}
	if filepath.IsAbs(s.Heightmap) {
		return s.Heightmap
	}
	return filepath.Join(s.dir, s.Heightmap)
}

// Build creates a grid from the scene and applies its layout.
func (s *Scene) Build() (*nav.SquareGrid, error) {
	grid, err := nav.NewSquareGrid(s.Grid.Width, s.Grid.Depth, s.Grid.CellSize, s.Grid.Origin.vec())
	if err != nil {
		return nil, err
	}
	if err := s.Apply(grid); err != nil {
		return nil, err
	}
	return grid, nil
}

// Apply writes the scene's heightmap, blocked regions and terrain costs
// onto an existing grid. Walkability is reset first, so reapplying a
// scene after an edit yields the same grid state.
func (s *Scene) Apply(grid *nav.SquareGrid) error {
	grid.ResetWalkability()

	if path := s.HeightmapPath(); path != "" {
		heights, w, d, err := LoadHeightmap(path)
		if err != nil {
			return err
		}
		if err := grid.UpdateHeights(heights, w, d); err != nil {
			return fmt.Errorf("heightmap %s: %w", path, err)
		}
	}

	for _, o := range s.Obstacles {
		switch o.Shape {
		case "circle":
			grid.SetAreaWalkable(o.Center.vec(), o.Radius, false)
		case "rect":
			grid.SetRectWalkable(o.Min.vec(), o.Max.vec(), false)
		}
	}

	for _, c := range s.Costs {
		for z := c.MinZ; z <= c.MaxZ; z++ {
			for x := c.MinX; x <= c.MaxX; x++ {
				grid.SetCost(x, z, c.Cost)
			}
		}
	}
	return nil
}
