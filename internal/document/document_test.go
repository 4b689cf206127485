package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdcanvas/simulation-core/pkg/models"
)

const currentDoc = `{
  "metadata": {"name": "checkout", "author": "dev"},
  "format": {"type": "sdcanvas", "version": "2.0"},
  "graph": {
    "nodes": [
      {"id": "users", "kind": "user"},
      {"id": "api", "kind": "api_server"},
      {"id": "redis", "kind": "cache", "cache": {"ttl_seconds": 60, "cardinality": 500}}
    ],
    "edges": [
      {"id": "e1", "from": "users", "to": "api", "kind": "http"},
      {"from": "api", "to": "redis", "kind": "cache_lookup"}
    ]
  }
}`

const legacyDoc = `{
  "version": "1.0",
  "metadata": {"name": "old sketch"},
  "nodes": [
    {"id": "users", "kind": "user"},
    {"id": "redis", "kind": "cache", "cache": {"ttl": 120, "cardinality": 50}}
  ],
  "edges": [
    {"id": "e1", "from": "users", "to": "redis", "kind": "cache_lookup"}
  ]
}`

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestValidateFileStructure(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{"current document", currentDoc, true},
		{"legacy document", legacyDoc, true},
		{"missing version", `{"graph": {"nodes": []}}`, false},
		{"wrong format type", `{"format": {"type": "visio", "version": "2.0"}, "graph": {"nodes": []}}`, false},
		{"missing graph", `{"format": {"type": "sdcanvas", "version": "2.0"}}`, false},
		{"nodes not a list", `{"format": {"type": "sdcanvas", "version": "2.0"}, "graph": {"nodes": 7}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vr := ValidateFileStructure(decode(t, tt.doc))
			assert.Equal(t, tt.valid, vr.Valid, "errors: %v", vr.Errors)
			if !tt.valid {
				assert.NotEmpty(t, vr.Errors)
			}
		})
	}
}

func TestNeedsMigration(t *testing.T) {
	assert.False(t, NeedsMigration(decode(t, currentDoc)))
	assert.True(t, NeedsMigration(decode(t, legacyDoc)))
}

func TestMigrateLegacyDocument(t *testing.T) {
	migrated, result, err := MigrateToCurrentVersion(decode(t, legacyDoc))
	require.NoError(t, err)
	assert.True(t, result.Migrated)
	assert.Equal(t, LegacyVersion, result.FromVersion)
	assert.Equal(t, CurrentVersion, result.ToVersion)
	assert.NotEmpty(t, result.Notes)

	format, ok := migrated["format"].(map[string]any)
	require.True(t, ok, "expected a format block after migration")
	assert.Equal(t, CurrentVersion, format["version"])

	graph, ok := migrated["graph"].(map[string]any)
	require.True(t, ok, "expected a graph block after migration")
	nodes := graph["nodes"].([]any)
	require.Len(t, nodes, 2)

	cacheNode := nodes[1].(map[string]any)
	cacheCfg := cacheNode["cache"].(map[string]any)
	assert.Equal(t, float64(120), cacheCfg["ttl_seconds"])
	_, hasOld := cacheCfg["ttl"]
	assert.False(t, hasOld, "legacy ttl field should be removed")
}

func TestMigrateCurrentPassThrough(t *testing.T) {
	doc := decode(t, currentDoc)
	migrated, result, err := MigrateToCurrentVersion(doc)
	require.NoError(t, err)
	assert.False(t, result.Migrated)
	assert.Equal(t, doc["graph"], migrated["graph"])
}

func TestMigrateUnsupportedVersion(t *testing.T) {
	_, _, err := MigrateToCurrentVersion(decode(t, `{"version": "0.3", "nodes": []}`))
	require.Error(t, err)

	_, _, err = MigrateToCurrentVersion(decode(t, `{"nodes": []}`))
	require.Error(t, err)
}

func TestParseContentCurrent(t *testing.T) {
	g, err := ParseContent([]byte(currentDoc))
	require.NoError(t, err)
	require.Len(t, g.Nodes, 3)
	require.Len(t, g.Edges, 2)

	assert.Equal(t, models.NodeKindCache, g.Nodes[2].Kind)
	require.NotNil(t, g.Nodes[2].Cache)
	assert.Equal(t, 60.0, g.Nodes[2].Cache.TTLSeconds)

	// The second edge had no identifier in the file.
	assert.Equal(t, "e1", g.Edges[0].ID)
	assert.Equal(t, "edge-2", g.Edges[1].ID)
}

func TestParseContentMigratesLegacy(t *testing.T) {
	g, err := ParseContent([]byte(legacyDoc))
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	require.NotNil(t, g.Nodes[1].Cache)
	assert.Equal(t, 120.0, g.Nodes[1].Cache.TTLSeconds)
}

func TestParseContentRejectsGarbage(t *testing.T) {
	_, err := ParseContent([]byte("not json"))
	require.Error(t, err)

	_, err = ParseContent([]byte(`{"format": {"type": "sdcanvas", "version": "2.0"}}`))
	require.Error(t, err)
}

func TestSerializeRoundTrip(t *testing.T) {
	g, err := ParseContent([]byte(currentDoc))
	require.NoError(t, err)

	data, err := SerializeContent(g, Metadata{Name: "checkout", CreatedAt: "2026-01-01T00:00:00Z"})
	require.NoError(t, err)

	var file SDCanvasFile
	require.NoError(t, json.Unmarshal(data, &file))
	assert.Equal(t, FormatType, file.Format.Type)
	assert.Equal(t, CurrentVersion, file.Format.Version)
	assert.Equal(t, "2026-01-01T00:00:00Z", file.Metadata.CreatedAt)

	again, err := ParseContent(data)
	require.NoError(t, err)
	assert.Equal(t, g, again)
}

func TestCreateExportFileStampsTime(t *testing.T) {
	file := CreateExportFile(&models.Graph{}, Metadata{Name: "empty"})
	assert.NotEmpty(t, file.Metadata.CreatedAt)
}
