package export_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/builder"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/graph/export"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/ingest/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc(t *testing.T) domain.Document {
	t.Helper()
	g, err := builder.New().
		AddNodes("web:api", "orders", "db:database", `legacy:"mainframe"`).
		AddDependency("web", "orders", map[string]any{"protocol": "http", "timeout_ms": 250}).
		AddChain("orders", "db").
		AddDependencies("legacy -> db").
		Build()
	require.NoError(t, err)
	return g.Export()
}

func TestToDOT(t *testing.T) {
	dot := export.ToDOT(sampleDoc(t), "Checkout", "web", "orders")

	assert.True(t, strings.HasPrefix(dot, "digraph G {"))
	assert.Contains(t, dot, `label="Checkout"`)
	assert.Contains(t, dot, `"db" [label="db\n<database>", shape=cylinder`)
	assert.Contains(t, dot, `"orders" [label="orders", shape=box`)
	assert.Contains(t, dot, `"web" -> "orders" [label="http, timeout_ms=250", tooltip="edge#0", color="#d62728", penwidth=2];`)
	assert.Contains(t, dot, `"orders" -> "db" [tooltip="edge#1"];`)
	assert.Contains(t, dot, `\"mainframe\"`)
	assert.True(t, strings.HasSuffix(dot, "}\n"))
}

func TestToDOT_EscapesIDsAndLabels(t *testing.T) {
	doc := domain.Document{
		Nodes: []domain.NodeDoc{
			{ID: `share\`, Type: "storage"},
			{ID: "two\nlines", Type: "service"},
			{ID: "odd", Type: "custom", Metadata: map[string]any{domain.AttrOriginalType: `say "hi"`}},
		},
		Edges: []domain.EdgeDoc{{Source: `share\`, Target: "two\nlines", Metadata: map[string]any{"note": "a\\b"}}},
	}
	dot := export.ToDOT(doc, `C:\graphs`)

	assert.Contains(t, dot, `label="C:\\graphs"`)
	assert.Contains(t, dot, `"share\\" [label="share\\\n<storage>"`)
	assert.Contains(t, dot, `"two\nlines" [label="two\nlines", shape=box`)
	assert.Contains(t, dot, `"odd" [label="odd\n(say \"hi\")"`)
	assert.Contains(t, dot, `"share\\" -> "two\nlines" [label="note=a\\b"`)
	assert.NotContains(t, dot, "lines\n\"", "raw newline must not reach the output")
}

func TestRender(t *testing.T) {
	doc := sampleDoc(t)

	for _, name := range []string{"json", "yaml", "dot", ""} {
		f, err := export.ParseFormat(name)
		require.NoError(t, err)
		b, err := export.Render(doc, f, "")
		require.NoError(t, err)
		assert.NotEmpty(t, b, name)
	}

	_, err := export.ParseFormat("png")
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
	assert.Equal(t, "application/yaml", export.FormatYAML.ContentType())
}

func TestWriteFiles_ReadableByParser(t *testing.T) {
	doc := sampleDoc(t)
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "graph.json")
	yamlPath := filepath.Join(dir, "graph.yaml")
	require.NoError(t, export.WriteJSON(jsonPath, doc))
	require.NoError(t, export.WriteYAML(yamlPath, doc))

	for _, p := range []string{jsonPath, yamlPath} {
		_, err := os.Stat(p)
		require.NoError(t, err)
		parsed, err := parser.ParseFile(p)
		require.NoError(t, err, p)
		assert.Len(t, parsed.Nodes, 4)
		assert.Len(t, parsed.Links(), 3)
	}
}
