// propmodel is a CLI utility for generating 3D property models from
// property registry records.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/eiendomsmuligheter/propmodel/internal/config"
	"github.com/eiendomsmuligheter/propmodel/internal/export"
	"github.com/eiendomsmuligheter/propmodel/internal/kartverket"
	"github.com/eiendomsmuligheter/propmodel/internal/logger"
	"github.com/eiendomsmuligheter/propmodel/internal/observability"
	"github.com/eiendomsmuligheter/propmodel/internal/pipeline"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "generate", "gen":
		cmdGenerate(args)
	case "batch":
		cmdBatch(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`propmodel - 3D property model generator

Usage:
  propmodel <command> [options]

Commands:
  generate <property.json>   Generate a model for one property
  batch <properties.json>    Generate models for a list of properties
  config init                Write the default config to the user config dir

Options (after the command):
  -config <path>    Config file path
  -output <dir>     Output directory
  -format <fmt>     Export format: glb, obj, stl
  -radius <m>       Terrain query radius
  -lod <n>          Level of detail, 1-5
  -jobs <n>         Concurrent runs in batch mode
  -api-key <key>    Elevation service API key
  -debug            Enable debug logging

Examples:
  propmodel generate property.json
  propmodel generate property.json -format obj -lod 4
  propmodel batch properties.json -output ./models`)
}

// setup parses flags from args, loads config and initializes logging.
func setup(args []string) (*config.Config, *zap.Logger) {
	os.Args = append(os.Args[:1], args...)
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	return cfg, log
}

// buildPipeline wires the provider, metrics and exporter settings together.
func buildPipeline(cfg *config.Config, log *zap.Logger) (*pipeline.Pipeline, pipeline.ModelingOptions) {
	client := kartverket.NewClient(kartverket.Config{
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  cfg.Provider.APIKey,
		Timeout: cfg.Provider.RequestTimeout,
		Retries: cfg.Provider.Retries,
	}, log)

	var metrics *observability.PipelineCollector
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		var err error
		metrics, err = observability.NewPipelineCollector(reg)
		if err != nil {
			log.Error("registering metrics", zap.Error(err))
			os.Exit(1)
		}
		go serveMetrics(cfg.Metrics.Listen, reg, log)
	}

	opts := pipeline.DefaultOptions()
	opts.Resolution = cfg.Modeling.Resolution
	opts.TerrainRadius = cfg.Modeling.TerrainRadius
	opts.HeightMultiplier = cfg.Modeling.HeightMultiplier
	opts.LOD = cfg.Modeling.LOD
	opts.IncludeTerrain = cfg.Modeling.IncludeTerrain
	opts.IncludeBuildings = cfg.Modeling.IncludeBuildings
	opts.Format = export.Format(cfg.Output.Format)

	return pipeline.New(client, cfg.Output.Dir, log, metrics), opts
}

func serveMetrics(listen string, reg *prometheus.Registry, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	log.Info("metrics endpoint listening", zap.String("addr", listen))
	if err := http.ListenAndServe(listen, mux); err != nil {
		log.Error("metrics endpoint failed", zap.Error(err))
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func cmdGenerate(args []string) {
	if len(args) < 1 || args[0] == "" || args[0][0] == '-' {
		fmt.Fprintln(os.Stderr, "Usage: propmodel generate <property.json> [options]")
		os.Exit(1)
	}
	inputPath := args[0]

	cfg, log := setup(args[1:])
	defer logger.Sync()

	var prop pipeline.Property
	if err := readJSON(inputPath, &prop); err != nil {
		log.Error("reading property", zap.String("path", inputPath), zap.Error(err))
		os.Exit(1)
	}

	p, opts := buildPipeline(cfg, log)

	ctx, stop := signalContext()
	defer stop()

	desc, err := p.Run(ctx, prop, opts)
	if err != nil {
		log.Error("model generation failed", zap.Error(err))
		os.Exit(1)
	}

	printDescriptor(desc)
}

func cmdBatch(args []string) {
	if len(args) < 1 || args[0] == "" || args[0][0] == '-' {
		fmt.Fprintln(os.Stderr, "Usage: propmodel batch <properties.json> [options]")
		os.Exit(1)
	}
	inputPath := args[0]

	cfg, log := setup(args[1:])
	defer logger.Sync()

	var props []pipeline.Property
	if err := readJSON(inputPath, &props); err != nil {
		log.Error("reading properties", zap.String("path", inputPath), zap.Error(err))
		os.Exit(1)
	}

	p, opts := buildPipeline(cfg, log)

	ctx, stop := signalContext()
	defer stop()

	results, err := p.RunMany(ctx, props, opts, cfg.Modeling.BatchJobs)
	if err != nil {
		log.Error("batch aborted", zap.Error(err))
		os.Exit(1)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Error("property failed",
				zap.String("property_id", r.PropertyID),
				zap.Error(r.Err))
			continue
		}
		printDescriptor(r.Descriptor)
	}
	if failed > 0 {
		log.Warn("batch finished with failures",
			zap.Int("failed", failed),
			zap.Int("total", len(results)))
		os.Exit(1)
	}
}

func cmdConfig(args []string) {
	if len(args) < 1 || args[0] != "init" {
		fmt.Fprintln(os.Stderr, "Usage: propmodel config init")
		os.Exit(1)
	}

	cfg := config.Default()
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote default config to %s\n", config.ConfigDir())
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func printDescriptor(desc *pipeline.SceneDescriptor) {
	fmt.Printf("Model:    %s\n", desc.ModelID)
	fmt.Printf("Property: %s\n", desc.PropertyID)
	for _, f := range desc.Files {
		if f.BuildingID != "" {
			fmt.Printf("  %-12s %s (%s)\n", f.Type, f.Path, f.BuildingID)
		} else {
			fmt.Printf("  %-12s %s\n", f.Type, f.Path)
		}
	}
}
