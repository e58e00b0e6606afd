package domain

// NodeDoc is the plain form of a node inside a Document.
type NodeDoc struct {
	ID       string         `json:"id" yaml:"id"`
	Type     string         `json:"type" yaml:"type"`
	Metadata map[string]any `json:"metadata" yaml:"metadata"`
}

// EdgeDoc is the plain form of an edge inside a Document.
type EdgeDoc struct {
	Source   string         `json:"source" yaml:"source"`
	Target   string         `json:"target" yaml:"target"`
	Metadata map[string]any `json:"metadata" yaml:"metadata"`
}

// Document is the serializable snapshot of a graph: nodes and edges in
// insertion order plus the stats at export time.
type Document struct {
	Nodes []NodeDoc `json:"nodes" yaml:"nodes"`
	Edges []EdgeDoc `json:"edges" yaml:"edges"`
	Stats Stats     `json:"stats" yaml:"stats"`
}

// Export copies the current graph into a Document. The result shares no
// maps with the graph.
func (g *Graph) Export() Document {
	nodes := g.Nodes()
	edges := g.Edges()
	doc := Document{
		Nodes: make([]NodeDoc, len(nodes)),
		Edges: make([]EdgeDoc, len(edges)),
		Stats: g.Stats(),
	}
	for i, n := range nodes {
		doc.Nodes[i] = NodeDoc{ID: n.ID, Type: string(n.Kind), Metadata: map[string]any(n.Attrs.Clone())}
	}
	for i, e := range edges {
		doc.Edges[i] = EdgeDoc{Source: e.Source, Target: e.Target, Metadata: map[string]any(e.Attrs.Clone())}
	}
	return doc
}

// ToMap returns the Document as nested generic maps and slices.
func (d Document) ToMap() map[string]any {
	nodes := make([]any, len(d.Nodes))
	for i, n := range d.Nodes {
		nodes[i] = map[string]any{"id": n.ID, "type": n.Type, "metadata": n.Metadata}
	}
	edges := make([]any, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = map[string]any{"source": e.Source, "target": e.Target, "metadata": e.Metadata}
	}
	return map[string]any{
		"nodes": nodes,
		"edges": edges,
		"stats": d.Stats,
	}
}
