// Package builder offers a fluent way to assemble a dependency graph in code.
// Every call maps onto Graph.AddNode or Graph.AddEdge; the first error sticks
// and later calls become no-ops until Build reports it.
package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/ingest/parser"
)

// ErrValidation is returned by Build after Validate found problems.
var ErrValidation = errors.New("graph validation failed")

// NodeDef is the keyed form accepted by AddNodes.
type NodeDef struct {
	ID    string
	Kind  domain.NodeKind
	Attrs map[string]any
}

// EdgeDef is the keyed form accepted by AddDependencies.
type EdgeDef struct {
	Source string
	Target string
	Attrs  map[string]any
}

type GraphBuilder struct {
	g   *domain.Graph
	err error
}

func New() *GraphBuilder {
	return &GraphBuilder{g: domain.NewGraph()}
}

// On continues building on an existing graph.
func On(g *domain.Graph) *GraphBuilder {
	return &GraphBuilder{g: g}
}

func (b *GraphBuilder) fail(err error) *GraphBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *GraphBuilder) AddNode(id string, kind domain.NodeKind, attrs map[string]any) *GraphBuilder {
	if b.err != nil {
		return b
	}
	n, err := domain.NewNode(id, kind, attrs)
	if err != nil {
		return b.fail(err)
	}
	if err := b.g.AddNode(n); err != nil {
		return b.fail(err)
	}
	return b
}

// AddNodes accepts "id", "id:kind", NodeDef, *NodeDef and *domain.Node.
func (b *GraphBuilder) AddNodes(defs ...any) *GraphBuilder {
	for _, def := range defs {
		if b.err != nil {
			return b
		}
		switch d := def.(type) {
		case string:
			id, kind := parser.SplitNodeShorthand(d)
			b.AddNode(id, domain.NodeKind(kind), nil)
		case NodeDef:
			b.AddNode(d.ID, d.Kind, d.Attrs)
		case *NodeDef:
			b.AddNode(d.ID, d.Kind, d.Attrs)
		case *domain.Node:
			if err := b.g.AddNode(d); err != nil {
				b.fail(err)
			}
		default:
			b.fail(fmt.Errorf("%w: invalid node definition: %v", domain.ErrInvalidValue, def))
		}
	}
	return b
}

func (b *GraphBuilder) AddDependency(source, target string, attrs map[string]any) *GraphBuilder {
	if b.err != nil {
		return b
	}
	e, err := domain.NewEdge(source, target, attrs)
	if err != nil {
		return b.fail(err)
	}
	if err := b.g.AddEdge(e); err != nil {
		return b.fail(err)
	}
	return b
}

// AddDependencies accepts "a -> b", [2]string, []string of length two,
// EdgeDef, *EdgeDef and *domain.Edge.
func (b *GraphBuilder) AddDependencies(defs ...any) *GraphBuilder {
	for _, def := range defs {
		if b.err != nil {
			return b
		}
		switch d := def.(type) {
		case string:
			src, tgt, err := parser.SplitEdgeShorthand(d)
			if err != nil {
				b.fail(err)
				continue
			}
			b.AddDependency(src, tgt, nil)
		case [2]string:
			b.AddDependency(d[0], d[1], nil)
		case []string:
			if len(d) != 2 {
				b.fail(fmt.Errorf("%w: dependency list must have exactly 2 elements: %v", domain.ErrInvalidValue, d))
				continue
			}
			b.AddDependency(d[0], d[1], nil)
		case EdgeDef:
			b.AddDependency(d.Source, d.Target, d.Attrs)
		case *EdgeDef:
			b.AddDependency(d.Source, d.Target, d.Attrs)
		case *domain.Edge:
			if err := b.g.AddEdge(d); err != nil {
				b.fail(err)
			}
		default:
			b.fail(fmt.Errorf("%w: invalid dependency definition: %v", domain.ErrInvalidValue, def))
		}
	}
	return b
}

// AddChain links ids[0] -> ids[1] -> ... -> ids[n-1].
func (b *GraphBuilder) AddChain(ids ...string) *GraphBuilder {
	for i := 0; i+1 < len(ids); i++ {
		b.AddDependency(ids[i], ids[i+1], nil)
	}
	return b
}

// AddFanout makes source depend on every target.
func (b *GraphBuilder) AddFanout(source string, targets ...string) *GraphBuilder {
	for _, t := range targets {
		b.AddDependency(source, t, nil)
	}
	return b
}

// AddFanin makes every source depend on target.
func (b *GraphBuilder) AddFanin(target string, sources ...string) *GraphBuilder {
	for _, s := range sources {
		b.AddDependency(s, target, nil)
	}
	return b
}

// Validate records ErrValidation when the graph has dangling edges or cycles.
func (b *GraphBuilder) Validate() *GraphBuilder {
	if b.err != nil {
		return b
	}
	if issues := b.g.Validate(); len(issues) > 0 {
		b.fail(fmt.Errorf("%w:\n%s", ErrValidation, strings.Join(issues, "\n")))
	}
	return b
}

// Err returns the first error recorded so far.
func (b *GraphBuilder) Err() error { return b.err }

func (b *GraphBuilder) Build() (*domain.Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.g, nil
}
