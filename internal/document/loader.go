package document

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sdcanvas/simulation-core/pkg/models"
)

// ParseContent is the sole bridge from persisted text to the in-memory
// graph: it validates the document structure, migrates older schema
// versions, and decodes the graph block. The returned graph is freshly
// allocated and safe for the caller to hand to the engine.
func ParseContent(raw []byte) (*models.Graph, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	if vr := ValidateFileStructure(doc); !vr.Valid {
		return nil, fmt.Errorf("invalid document structure: %s", strings.Join(vr.Errors, "; "))
	}

	if NeedsMigration(doc) {
		migrated, _, err := MigrateToCurrentVersion(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to migrate document: %w", err)
		}
		doc = migrated
	}

	graphJSON, err := json.Marshal(graphBlock(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode graph block: %w", err)
	}

	var g models.Graph
	if err := json.Unmarshal(graphJSON, &g); err != nil {
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}

	assignEdgeIDs(&g)
	return &g, nil
}

// SerializeContent writes a graph back out as a current-version
// document.
func SerializeContent(g *models.Graph, meta Metadata) ([]byte, error) {
	file := CreateExportFile(g, meta)
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// assignEdgeIDs fills missing edge identifiers deterministically by
// position. Hand-edited documents often omit them.
func assignEdgeIDs(g *models.Graph) {
	for i := range g.Edges {
		if g.Edges[i].ID == "" {
			g.Edges[i].ID = fmt.Sprintf("edge-%d", i+1)
		}
	}
}
