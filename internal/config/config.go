// Package config handles pipeline configuration loading and management.
package config

import "time"

// Config holds all modeling settings.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Modeling ModelingConfig `yaml:"modeling"`
	Output   OutputConfig   `yaml:"output"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ProviderConfig holds elevation service connection settings.
type ProviderConfig struct {
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Retries        uint          `yaml:"retries"`
}

// ModelingConfig holds geometry generation settings.
type ModelingConfig struct {
	Resolution       float64 `yaml:"resolution"`        // grid points per meter
	TerrainRadius    float64 `yaml:"terrain_radius"`    // meters
	HeightMultiplier float64 `yaml:"height_multiplier"` // vertical exaggeration
	LOD              int     `yaml:"lod"`
	IncludeTerrain   bool    `yaml:"include_terrain"`
	IncludeBuildings bool    `yaml:"include_buildings"`
	BatchJobs        int     `yaml:"batch_jobs"` // concurrent runs in batch mode
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // glb, obj or stl
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			BaseURL:        "https://www.kartverket.no/api/",
			RequestTimeout: 30 * time.Second,
			Retries:        3,
		},
		Modeling: ModelingConfig{
			Resolution:       10.0,
			TerrainRadius:    100.0,
			HeightMultiplier: 1.0,
			LOD:              2,
			IncludeTerrain:   true,
			IncludeBuildings: true,
			BatchJobs:        4,
		},
		Output: OutputConfig{
			Dir:    "models",
			Format: "glb",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9464",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
