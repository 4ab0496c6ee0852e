// Package config handles simulator configuration loading and management.
package config

// Config holds all simulator settings.
type Config struct {
	Scene   SceneConfig   `yaml:"scene"`
	Sim     SimConfig     `yaml:"sim"`
	Nav     NavConfig     `yaml:"nav"`
	Logging LoggingConfig `yaml:"logging"`
}

// SceneConfig holds the scene file settings.
type SceneConfig struct {
	Path  string `yaml:"path"`  // Path to the scene YAML file
	Watch bool   `yaml:"watch"` // Reload the scene when its files change
}

// SimConfig holds simulation loop settings.
type SimConfig struct {
	Agents   int     `yaml:"agents"`   // Number of simulated agents
	Timestep float32 `yaml:"timestep"` // Fixed update step in seconds
	Duration float32 `yaml:"duration"` // Simulated seconds to run, 0 runs forever
}

// NavConfig holds path search settings.
type NavConfig struct {
	Preset string `yaml:"preset"` // default, high-performance or high-quality
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Scene: SceneConfig{
			Path:  "scene.yaml",
			Watch: false,
		},
		Sim: SimConfig{
			Agents:   8,
			Timestep: 1.0 / 60.0,
			Duration: 30,
		},
		Nav: NavConfig{
			Preset: "default",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
