package mapper

import (
	"fmt"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/ingest/parser"
)

func ToNode(s parser.NodeSpec) (*domain.Node, error) {
	return domain.NewNode(s.ID, domain.NodeKind(s.Type), s.Attrs)
}

func ToEdge(s parser.EdgeSpec) (*domain.Edge, error) {
	return domain.NewEdge(s.Source, s.Target, s.Attrs)
}

// ToGraph builds a fresh graph from doc, nodes first, then links. On error
// no graph is returned.
func ToGraph(doc *parser.Document) (*domain.Graph, error) {
	g := domain.NewGraph()
	if err := Apply(g, doc); err != nil {
		return nil, err
	}
	return g, nil
}

// Apply adds the nodes and then the links of doc to an existing graph. It
// stops at the first failing record; records applied before it stay.
func Apply(g *domain.Graph, doc *parser.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", domain.ErrInvalidValue)
	}
	for i, ns := range doc.Nodes {
		n, err := ToNode(ns)
		if err != nil {
			return fmt.Errorf("nodes[%d]: %w", i, err)
		}
		if err := g.AddNode(n); err != nil {
			return fmt.Errorf("nodes[%d]: %w", i, err)
		}
	}
	for i, es := range doc.Links() {
		e, err := ToEdge(es)
		if err != nil {
			return fmt.Errorf("dependencies[%d]: %w", i, err)
		}
		if err := g.AddEdge(e); err != nil {
			return fmt.Errorf("dependencies[%d]: %w", i, err)
		}
	}
	return nil
}

// FromGraph turns a graph back into a Document that ToGraph accepts.
func FromGraph(g *domain.Graph) *parser.Document {
	exp := g.Export()
	doc := &parser.Document{
		Nodes: make([]parser.NodeSpec, len(exp.Nodes)),
		Edges: make([]parser.EdgeSpec, len(exp.Edges)),
	}
	for i, n := range exp.Nodes {
		doc.Nodes[i] = parser.NodeSpec{ID: n.ID, Type: n.Type, Attrs: n.Metadata}
	}
	for i, e := range exp.Edges {
		doc.Edges[i] = parser.EdgeSpec{Source: e.Source, Target: e.Target, Attrs: e.Metadata}
	}
	return doc
}
