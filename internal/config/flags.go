package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagScene  = flag.String("scene", "", "Path to scene file")
	flagWatch  = flag.Bool("watch", false, "Reload the scene when its files change")
	flagAgents = flag.Int("agents", 0, "Number of simulated agents")
	flagPreset = flag.String("preset", "", "Path search preset")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScene != "" {
		cfg.Scene.Path = *flagScene
	}
	if *flagWatch {
		cfg.Scene.Watch = true
	}
	if *flagAgents > 0 {
		cfg.Sim.Agents = *flagAgents
	}
	if *flagPreset != "" {
		cfg.Nav.Preset = *flagPreset
	}
}
