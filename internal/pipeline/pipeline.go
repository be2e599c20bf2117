package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eiendomsmuligheter/propmodel/internal/building"
	"github.com/eiendomsmuligheter/propmodel/internal/export"
	"github.com/eiendomsmuligheter/propmodel/internal/observability"
	"github.com/eiendomsmuligheter/propmodel/internal/scene"
	"github.com/eiendomsmuligheter/propmodel/internal/terrain"
	"github.com/eiendomsmuligheter/propmodel/pkg/geom"
)

// TerrainProvider supplies elevation samples around a coordinate. An empty
// result means "no terrain available" and is not an error.
type TerrainProvider interface {
	GetTerrain(ctx context.Context, lat, lon, radius float64) ([]terrain.ElevationSample, error)
}

// State names one stage of a pipeline run.
type State int

// Run states.
const (
	StateIdle State = iota
	StateFetchingTerrain
	StateBuildingGeometry
	StateComposing
	StateExporting
	StateDone
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetchingTerrain:
		return "fetching_terrain"
	case StateBuildingGeometry:
		return "building_geometry"
	case StateComposing:
		return "composing"
	case StateExporting:
		return "exporting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pipeline generates 3D property models. All collaborators are injected,
// every run keeps its state in a local run value, and no state is shared
// between runs, so one Pipeline may serve many goroutines.
type Pipeline struct {
	provider  TerrainProvider
	outputDir string
	log       *zap.Logger
	metrics   *observability.PipelineCollector
}

// New builds a pipeline writing run directories under outputDir. provider
// may be nil when terrain will never be requested; metrics may be nil.
func New(provider TerrainProvider, outputDir string, log *zap.Logger, metrics *observability.PipelineCollector) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		provider:  provider,
		outputDir: outputDir,
		log:       log,
		metrics:   metrics,
	}
}

// run is the per-invocation state. terrainField keeps the interpolated
// grid so building bases can be sampled from it.
type run struct {
	modelID      string
	state        State
	log          *zap.Logger
	opts         ModelingOptions
	degraded     bool
	terrainField *terrain.HeightField
	terrainMesh  *geom.Mesh
	buildings    []buildingMesh
}

type buildingMesh struct {
	id   string
	mesh *geom.Mesh
}

// enter moves the run to a new state, honoring cancellation at the state
// boundary. A cancelled run never starts the next component.
func (r *run) enter(ctx context.Context, next State) error {
	if err := ctx.Err(); err != nil {
		r.state = StateFailed
		return fmt.Errorf("run cancelled before %s: %w", next, err)
	}
	r.log.Debug("pipeline state", zap.Stringer("from", r.state), zap.Stringer("to", next))
	r.state = next
	return nil
}

// Run generates the model for one property and returns its descriptor.
// Terrain and individual buildings are best-effort: their failures degrade
// the scene instead of failing the run. Only an empty scene or an export
// failure is fatal.
func (p *Pipeline) Run(ctx context.Context, prop Property, opts ModelingOptions) (*SceneDescriptor, error) {
	return p.RunWithSuggestions(ctx, prop, opts, nil)
}

// RunWithSuggestions additionally overlays AI-suggested volumes as a second
// pass, producing an extra ai_enhanced artifact. Enhancement failures fall
// back to the base scene and are not fatal.
func (p *Pipeline) RunWithSuggestions(ctx context.Context, prop Property, opts ModelingOptions, sugg *AISuggestions) (*SceneDescriptor, error) {
	started := time.Now()
	r := &run{
		modelID: newModelID(),
		state:   StateIdle,
		opts:    opts.normalized(),
	}
	r.log = p.log.With(
		zap.String("model_id", r.modelID),
		zap.String("property_id", prop.PropertyID),
	)

	desc, err := p.execute(ctx, r, prop, sugg)
	elapsed := time.Since(started)
	switch {
	case err != nil:
		p.metrics.ObserveRun(observability.OutcomeFailed, elapsed)
		r.log.Error("pipeline run failed", zap.Stringer("state", r.state), zap.Error(err))
		return nil, err
	case r.degraded:
		p.metrics.ObserveRun(observability.OutcomeDegraded, elapsed)
	default:
		p.metrics.ObserveRun(observability.OutcomeOK, elapsed)
	}
	r.log.Info("pipeline run finished",
		zap.Duration("elapsed", elapsed),
		zap.Int("artifacts", len(desc.Files)),
		zap.Bool("degraded", r.degraded))
	return desc, nil
}

func (p *Pipeline) execute(ctx context.Context, r *run, prop Property, sugg *AISuggestions) (*SceneDescriptor, error) {
	// Reject an unknown output format before doing any work.
	if _, err := export.ParseFormat(string(r.opts.Format)); err != nil {
		r.state = StateFailed
		return nil, err
	}

	if r.opts.IncludeTerrain {
		if err := r.enter(ctx, StateFetchingTerrain); err != nil {
			return nil, err
		}
		p.fetchTerrain(ctx, r, prop.Coordinates)
	}

	if err := r.enter(ctx, StateBuildingGeometry); err != nil {
		return nil, err
	}
	if r.opts.IncludeBuildings {
		p.buildBuildings(r, prop.Buildings)
	}

	if err := r.enter(ctx, StateComposing); err != nil {
		return nil, err
	}
	members := make([]scene.Member, 0, len(r.buildings))
	for _, b := range r.buildings {
		members = append(members, scene.Member{Mesh: b.mesh})
	}
	combined, err := scene.Compose(r.terrainMesh, members)
	if err != nil {
		r.state = StateFailed
		return nil, fmt.Errorf("composing scene for property %s: %w", prop.PropertyID, err)
	}

	if err := r.enter(ctx, StateExporting); err != nil {
		return nil, err
	}
	desc, exporter, err := p.exportScene(r, prop, combined)
	if err != nil {
		r.state = StateFailed
		return nil, err
	}

	if sugg != nil && len(sugg.Buildings) > 0 {
		p.enhanceScene(r, desc, exporter, combined, sugg)
	}

	if err := writeMetadata(exporter.Dir(), desc); err != nil {
		r.state = StateFailed
		return nil, err
	}

	r.state = StateDone
	return desc, nil
}

// fetchTerrain is best-effort: provider failures, empty sample sets, and
// interpolation failures log and leave the run without terrain.
func (p *Pipeline) fetchTerrain(ctx context.Context, r *run, coords Coordinates) {
	if p.provider == nil {
		r.log.Warn("terrain requested but no provider configured")
		r.degraded = true
		return
	}

	samples, err := p.provider.GetTerrain(ctx, coords.Latitude, coords.Longitude, r.opts.TerrainRadius)
	if err != nil {
		r.log.Warn("terrain fetch failed, continuing without terrain", zap.Error(err))
		r.degraded = true
		return
	}
	if len(samples) == 0 {
		r.log.Info("no terrain data for area, continuing without terrain",
			zap.Float64("lat", coords.Latitude),
			zap.Float64("lon", coords.Longitude))
		r.degraded = true
		return
	}

	field, err := terrain.BuildHeightField(samples, r.opts.TerrainRadius, r.opts.effectiveResolution())
	if err != nil {
		r.log.Warn("terrain interpolation failed, continuing without terrain",
			zap.Int("samples", len(samples)),
			zap.Error(err))
		r.degraded = true
		return
	}

	mesh, err := terrain.Triangulate(field, r.opts.HeightMultiplier)
	if err != nil {
		r.log.Warn("terrain triangulation failed, continuing without terrain", zap.Error(err))
		r.degraded = true
		return
	}

	r.terrainField = field
	r.terrainMesh = mesh
	r.log.Debug("terrain mesh built",
		zap.Int("grid", field.Size()),
		zap.Int("vertices", mesh.VertexCount()))
}

// buildBuildings synthesizes each building, skipping ones with invalid
// attributes. A skipped building never aborts the run.
func (p *Pipeline) buildBuildings(r *run, buildings []Building) {
	for _, b := range buildings {
		spec := building.Spec{
			Type:          building.TypeFromString(b.Type),
			Floors:        b.Floors,
			GrossArea:     b.GrossArea,
			BaseElevation: r.groundHeight(0, 0),
		}
		mesh, err := building.Synthesize(spec)
		if err != nil {
			r.log.Error("skipping building with invalid attributes",
				zap.String("building_id", b.ID),
				zap.Error(err))
			p.metrics.ObserveSkippedBuilding()
			r.degraded = true
			continue
		}
		r.buildings = append(r.buildings, buildingMesh{id: b.ID, mesh: mesh})
	}
}

// groundHeight samples the rendered terrain height at a plan position, or 0
// when the run has no terrain.
func (r *run) groundHeight(x, y float64) float64 {
	if r.terrainField == nil {
		return 0
	}
	return r.terrainField.HeightAt(x, y) * r.opts.HeightMultiplier
}

// exportScene writes the combined, terrain, and per-building artifacts. Any
// write failure is fatal for the run; files already written stay on disk
// but are not referenced by the descriptor.
func (p *Pipeline) exportScene(r *run, prop Property, combined *geom.Mesh) (*SceneDescriptor, *export.Exporter, error) {
	exporter, err := export.NewExporter(filepath.Join(p.outputDir, r.modelID), r.log)
	if err != nil {
		return nil, nil, err
	}

	desc := &SceneDescriptor{
		ModelID:    r.modelID,
		PropertyID: prop.PropertyID,
		CreatedAt:  time.Now().UTC(),
	}

	path, err := exporter.Export(combined, string(ArtifactCombined), r.opts.Format)
	if err != nil {
		return nil, nil, err
	}
	p.recordArtifact(r, desc, Artifact{Type: ArtifactCombined, Format: string(r.opts.Format), Path: path})

	if !r.terrainMesh.IsEmpty() {
		path, err := exporter.Export(r.terrainMesh, string(ArtifactTerrain), r.opts.Format)
		if err != nil {
			return nil, nil, err
		}
		p.recordArtifact(r, desc, Artifact{Type: ArtifactTerrain, Format: string(r.opts.Format), Path: path})
	}

	for _, b := range r.buildings {
		path, err := exporter.Export(b.mesh, string(ArtifactBuilding), r.opts.Format)
		if err != nil {
			return nil, nil, err
		}
		p.recordArtifact(r, desc, Artifact{
			Type:       ArtifactBuilding,
			BuildingID: b.id,
			Format:     string(r.opts.Format),
			Path:       path,
		})
	}

	return desc, exporter, nil
}

// enhanceScene overlays AI-suggested volumes on the base scene and exports
// the result as an extra artifact. Every failure here degrades to the base
// scene; the descriptor is only extended on success.
func (p *Pipeline) enhanceScene(r *run, desc *SceneDescriptor, exporter *export.Exporter, combined *geom.Mesh, sugg *AISuggestions) {
	members := make([]scene.Member, 0, len(sugg.Buildings))
	for _, s := range sugg.Buildings {
		if s.Width <= 0 || s.Length <= 0 || s.Height <= 0 {
			r.log.Warn("ignoring suggested volume with non-positive dimensions",
				zap.Float64("width", s.Width),
				zap.Float64("length", s.Length),
				zap.Float64("height", s.Height))
			continue
		}
		mesh := building.Box(s.Width, s.Length, s.Height, 0)
		mesh.RotateZ(s.RotationDegrees)
		mesh.Translate(geom.Vec3{X: s.X, Y: s.Y, Z: r.groundHeight(s.X, s.Y)})
		mesh.Tag(geom.MaterialAISuggested)
		members = append(members, scene.Member{Mesh: mesh, Tag: geom.MaterialAISuggested})
	}
	if len(members) == 0 {
		r.log.Warn("no usable suggested volumes, keeping base scene")
		return
	}

	enhanced, err := scene.Compose(combined, members)
	if err != nil {
		r.log.Warn("composing enhanced scene failed, keeping base scene", zap.Error(err))
		return
	}
	path, err := exporter.Export(enhanced, string(ArtifactAIEnhanced), r.opts.Format)
	if err != nil {
		r.log.Warn("exporting enhanced scene failed, keeping base scene", zap.Error(err))
		return
	}

	p.recordArtifact(r, desc, Artifact{Type: ArtifactAIEnhanced, Format: string(r.opts.Format), Path: path})
	desc.AIEnhanced = true
	desc.AISummary = &AIAnalysisSummary{
		DevelopmentPotential:   sugg.Summary,
		SuggestedBuildings:     len(sugg.Buildings),
		EstimatedValueIncrease: sugg.EstimatedValueIncrease,
	}
}

func (p *Pipeline) recordArtifact(r *run, desc *SceneDescriptor, a Artifact) {
	desc.Files = append(desc.Files, a)
	p.metrics.ObserveArtifact(a.Format)
	r.log.Debug("artifact recorded", zap.String("type", string(a.Type)), zap.String("path", a.Path))
}

// newModelID returns a unique identifier in the same shape the rest of the
// platform expects, e.g. "property_model_3f2a9c1d".
func newModelID() string {
	return "property_model_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
