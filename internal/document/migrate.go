package document

import (
	"fmt"
)

// MigrationResult describes what a migration did to a document.
type MigrationResult struct {
	Migrated    bool     `json:"migrated"`
	FromVersion string   `json:"from_version"`
	ToVersion   string   `json:"to_version"`
	Notes       []string `json:"notes,omitempty"`
}

// NeedsMigration reports whether a decoded document is older than the
// current schema version.
func NeedsMigration(doc map[string]any) bool {
	v := docVersion(doc)
	return v != "" && v != CurrentVersion
}

// MigrateToCurrentVersion transforms an older document into the current
// schema. Version 1.0 documents carried the version tag at the top
// level, kept nodes and edges as flat top-level lists, and named the
// cache TTL field "ttl". Documents already at the current version pass
// through untouched.
func MigrateToCurrentVersion(doc map[string]any) (map[string]any, MigrationResult, error) {
	from := docVersion(doc)
	result := MigrationResult{FromVersion: from, ToVersion: CurrentVersion}

	switch from {
	case CurrentVersion:
		return doc, result, nil
	case LegacyVersion:
		migrated, notes := migrateV1(doc)
		result.Migrated = true
		result.Notes = notes
		return migrated, result, nil
	case "":
		return nil, result, fmt.Errorf("document has no schema version")
	default:
		return nil, result, fmt.Errorf("unsupported schema version %q", from)
	}
}

func migrateV1(doc map[string]any) (map[string]any, []string) {
	notes := []string{"moved version tag into format block"}

	graph := map[string]any{}
	if nodes, ok := doc["nodes"].([]any); ok {
		graph["nodes"] = migrateV1Nodes(nodes, &notes)
	}
	if edges, ok := doc["edges"].([]any); ok {
		graph["edges"] = edges
		notes = append(notes, "moved flat node/edge lists under graph block")
	}

	metadata, _ := doc["metadata"].(map[string]any)
	if metadata == nil {
		metadata = map[string]any{}
	}

	return map[string]any{
		"metadata": metadata,
		"format":   map[string]any{"type": FormatType, "version": CurrentVersion},
		"graph":    graph,
	}, notes
}

func migrateV1Nodes(nodes []any, notes *[]string) []any {
	renamed := false
	for _, raw := range nodes {
		node, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		cacheCfg, ok := node["cache"].(map[string]any)
		if !ok {
			continue
		}
		if ttl, ok := cacheCfg["ttl"]; ok {
			if _, exists := cacheCfg["ttl_seconds"]; !exists {
				cacheCfg["ttl_seconds"] = ttl
			}
			delete(cacheCfg, "ttl")
			renamed = true
		}
	}
	if renamed {
		*notes = append(*notes, "renamed cache field ttl to ttl_seconds")
	}
	return nodes
}
