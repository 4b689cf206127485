// Package document implements the persisted SDCanvas file format, the
// version migrations between schema revisions, and the loader bridging
// persisted text and the in-memory graph. The engine never sees a
// document: by the time a graph reaches it, everything here has already
// run.
package document

import (
	"fmt"
	"time"

	"github.com/sdcanvas/simulation-core/pkg/models"
)

const (
	// FormatType tags exported files.
	FormatType = "sdcanvas"

	// CurrentVersion is the schema version this build reads and writes.
	CurrentVersion = "2.0"

	// LegacyVersion is the oldest schema the migrator still accepts.
	LegacyVersion = "1.0"
)

// Metadata describes the document for humans; none of it affects
// simulation.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// Format is the version header of a persisted document.
type Format struct {
	Type    string `json:"type"`
	Version string `json:"version"`
}

// SDCanvasFile is the persisted document shape.
type SDCanvasFile struct {
	Metadata Metadata     `json:"metadata"`
	Format   Format       `json:"format"`
	Graph    models.Graph `json:"graph"`
}

// ValidationResult reports structural problems in a raw document.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateFileStructure checks that a decoded document has the blocks a
// loadable file needs. Legacy documents (top-level version tag, flat
// node/edge lists) pass validation; migration normalizes them.
func ValidateFileStructure(doc map[string]any) ValidationResult {
	var errs []string

	version := docVersion(doc)
	if version == "" {
		errs = append(errs, "document has no format.version or legacy version tag")
	}

	if format, ok := doc["format"].(map[string]any); ok {
		if t, _ := format["type"].(string); t != "" && t != FormatType {
			errs = append(errs, fmt.Sprintf("unsupported format type %q (want %q)", t, FormatType))
		}
	}

	graph := graphBlock(doc)
	if graph == nil {
		errs = append(errs, "document has no graph block")
	} else {
		if _, ok := graph["nodes"].([]any); !ok {
			errs = append(errs, "graph.nodes is missing or not a list")
		}
		if _, hasEdges := graph["edges"]; hasEdges {
			if _, ok := graph["edges"].([]any); !ok {
				errs = append(errs, "graph.edges is not a list")
			}
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// CreateExportFile wraps a graph and metadata into a current-version
// document ready for serialization. A missing creation timestamp is
// filled with the current UTC time.
func CreateExportFile(g *models.Graph, meta Metadata) *SDCanvasFile {
	if meta.CreatedAt == "" {
		meta.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return &SDCanvasFile{
		Metadata: meta,
		Format:   Format{Type: FormatType, Version: CurrentVersion},
		Graph:    *g,
	}
}

// docVersion extracts the schema version: format.version for current
// documents, the top-level version tag for legacy ones.
func docVersion(doc map[string]any) string {
	if format, ok := doc["format"].(map[string]any); ok {
		if v, ok := format["version"].(string); ok && v != "" {
			return v
		}
	}
	if v, ok := doc["version"].(string); ok {
		return v
	}
	return ""
}

// graphBlock finds the node/edge lists: under "graph" in current
// documents, at the top level in legacy ones.
func graphBlock(doc map[string]any) map[string]any {
	if g, ok := doc["graph"].(map[string]any); ok {
		return g
	}
	if _, ok := doc["nodes"]; ok {
		return doc
	}
	return nil
}
