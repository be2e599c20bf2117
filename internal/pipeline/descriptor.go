package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArtifactType tags one produced file in the scene metadata.
type ArtifactType string

// Artifact types.
const (
	ArtifactTerrain    ArtifactType = "terrain"
	ArtifactBuilding   ArtifactType = "building"
	ArtifactCombined   ArtifactType = "combined"
	ArtifactAIEnhanced ArtifactType = "ai_enhanced"
)

// Artifact records one exported geometry file.
type Artifact struct {
	Type       ArtifactType `json:"type"`
	BuildingID string       `json:"building_id,omitempty"`
	Format     string       `json:"format"`
	Path       string       `json:"path"`
}

// AIAnalysisSummary echoes the analysis engine's verdict into the metadata.
type AIAnalysisSummary struct {
	DevelopmentPotential   string  `json:"development_potential"`
	SuggestedBuildings     int     `json:"suggested_buildings_count"`
	EstimatedValueIncrease float64 `json:"estimated_value_increase"`
}

// SceneDescriptor is the result of one pipeline run. It is created once,
// mirrored to the metadata.json sidecar in the run directory, and never
// mutated after Run returns.
type SceneDescriptor struct {
	ModelID    string             `json:"model_id"`
	PropertyID string             `json:"property_id"`
	CreatedAt  time.Time          `json:"created_at"`
	Files      []Artifact         `json:"files"`
	AIEnhanced bool               `json:"ai_enhanced"`
	AISummary  *AIAnalysisSummary `json:"ai_analysis_summary,omitempty"`
}

// metadataFile is the sidecar name inside each run directory.
const metadataFile = "metadata.json"

// writeMetadata writes the descriptor sidecar next to the exported files.
func writeMetadata(dir string, desc *SceneDescriptor) error {
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	path := filepath.Join(dir, metadataFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}
