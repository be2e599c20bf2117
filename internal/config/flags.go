package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagAPIKey = flag.String("api-key", "", "Elevation service API key")
	flagOutput = flag.String("output", "", "Output directory for generated models")
	flagFormat = flag.String("format", "", "Export format (glb, obj, stl)")
	flagRadius = flag.Float64("radius", 0, "Terrain query radius in meters")
	flagLOD    = flag.Int("lod", 0, "Level of detail (1-5)")
	flagJobs   = flag.Int("jobs", 0, "Concurrent runs in batch mode")
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
	if *flagAPIKey != "" {
		cfg.Provider.APIKey = *flagAPIKey
	}
	if *flagOutput != "" {
		cfg.Output.Dir = *flagOutput
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	if *flagRadius > 0 {
		cfg.Modeling.TerrainRadius = *flagRadius
	}
	if *flagLOD > 0 {
		cfg.Modeling.LOD = *flagLOD
	}
	if *flagJobs > 0 {
		cfg.Modeling.BatchJobs = *flagJobs
	}
}
