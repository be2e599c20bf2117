// Package observability bundles Prometheus metrics for the modeling
// pipeline. Constructors accept an explicit registerer so tests can use
// isolated registries.
package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineCollector holds the pipeline's Prometheus metrics.
type PipelineCollector struct {
	Runs          *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	Artifacts     *prometheus.CounterVec
	SkippedBuilds prometheus.Counter
}

// Run outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

// NewPipelineCollector registers pipeline metrics against the provided
// registerer, defaulting to the global registry when nil.
func NewPipelineCollector(reg prometheus.Registerer) (*PipelineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "propmodel_runs_total",
		Help: "Completed pipeline runs, labeled by outcome (ok, degraded, failed).",
	}, []string{"outcome"})
	runs, err := registerCounterVec(reg, runs, "propmodel_runs_total")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "propmodel_run_duration_seconds",
		Help:    "Wall-clock duration of one pipeline run.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})
	duration, err = registerHistogram(reg, duration, "propmodel_run_duration_seconds")
	if err != nil {
		return nil, err
	}

	artifacts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "propmodel_artifacts_total",
		Help: "Exported artifact files, labeled by format.",
	}, []string{"format"})
	artifacts, err = registerCounterVec(reg, artifacts, "propmodel_artifacts_total")
	if err != nil {
		return nil, err
	}

	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "propmodel_buildings_skipped_total",
		Help: "Buildings dropped from runs because mesh synthesis failed.",
	})
	skipped, err = registerCounter(reg, skipped, "propmodel_buildings_skipped_total")
	if err != nil {
		return nil, err
	}

	return &PipelineCollector{
		Runs:          runs,
		RunDuration:   duration,
		Artifacts:     artifacts,
		SkippedBuilds: skipped,
	}, nil
}

// ObserveRun records one finished run. Safe on a nil collector so the
// pipeline can be wired without metrics.
func (c *PipelineCollector) ObserveRun(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	if c.Runs != nil {
		c.Runs.WithLabelValues(outcome).Inc()
	}
	if c.RunDuration != nil {
		c.RunDuration.Observe(elapsed.Seconds())
	}
}

// ObserveArtifact records one exported file.
func (c *PipelineCollector) ObserveArtifact(format string) {
	if c == nil || c.Artifacts == nil {
		return
	}
	c.Artifacts.WithLabelValues(format).Inc()
}

// ObserveSkippedBuilding records one building dropped from a run.
func (c *PipelineCollector) ObserveSkippedBuilding() {
	if c == nil || c.SkippedBuilds == nil {
		return
	}
	c.SkippedBuilds.Inc()
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}
