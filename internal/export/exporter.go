// Package export serializes meshes to interchange formats on disk. Every
// call writes one new file with a collision-free name, so concurrent
// pipeline runs can share an output tree without coordination.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eiendomsmuligheter/propmodel/pkg/formats"
	"github.com/eiendomsmuligheter/propmodel/pkg/geom"
)

// Export errors.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is a supported output format.
type Format string

// Supported formats.
const (
	FormatGLB Format = "glb"
	FormatOBJ Format = "obj"
	FormatSTL Format = "stl"
)

// ParseFormat validates a format string. Unknown formats are an error,
// never a silent fallback.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatGLB:
		return FormatGLB, nil
	case FormatOBJ:
		return FormatOBJ, nil
	case FormatSTL:
		return FormatSTL, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnsupportedFormat)
	}
}

// Exporter writes meshes into a single directory, usually the per-run model
// directory keyed by the run's model identifier.
type Exporter struct {
	dir string
	log *zap.Logger
}

// NewExporter creates the output directory if needed.
func NewExporter(dir string, log *zap.Logger) (*Exporter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}
	return &Exporter{dir: dir, log: log}, nil
}

// Dir returns the directory the exporter writes into.
func (e *Exporter) Dir() string {
	return e.dir
}

// Export writes one mesh in the given format and returns the path actually
// written. File names embed a fresh unique suffix per call, so re-exporting
// the same mesh never overwrites an earlier file.
func (e *Exporter) Export(mesh *geom.Mesh, kind string, format Format) (string, error) {
	format, err := ParseFormat(string(format))
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s.%s", kind, shortID(), format)
	path := filepath.Join(e.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatGLB:
		err = formats.WriteGLB(f, kind, mesh)
	case FormatOBJ:
		err = formats.WriteOBJ(f, kind, mesh)
	case FormatSTL:
		err = formats.WriteSTL(f, kind, mesh)
	}
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}

	e.log.Debug("exported mesh",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("faces", mesh.FaceCount()))
	return path, nil
}

// shortID returns an 8-character unique file name component.
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
