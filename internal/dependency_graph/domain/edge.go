package domain

import (
	"fmt"
	"strings"
)

// EdgeKey is the identity of an edge: the ordered endpoint pair.
type EdgeKey struct {
	Source string
	Target string
}

func (k EdgeKey) String() string { return k.Source + " -> " + k.Target }

// Edge is a directed "depends-on" relation: Source depends on Target.
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Attrs  Attrs  `json:"metadata" yaml:"metadata"`
}

// NewEdge validates endpoints (non-empty, no self-loop) and attributes.
// Endpoint existence is checked later, by the graph the edge is added to.
func NewEdge(source, target string, attrs map[string]any) (*Edge, error) {
	if strings.TrimSpace(source) == "" {
		return nil, invalidf("edge source cannot be empty")
	}
	if strings.TrimSpace(target) == "" {
		return nil, invalidf("edge target cannot be empty")
	}
	if source == target {
		return nil, &EdgeError{Op: "new edge", Source: source, Target: target, Err: invalidf("self-loops not allowed")}
	}
	a, err := NormalizeAttrs(attrs)
	if err != nil {
		return nil, &EdgeError{Op: "new edge", Source: source, Target: target, Err: err}
	}
	return &Edge{Source: source, Target: target, Attrs: a}, nil
}

// MustEdge is NewEdge for literals known to be valid; it panics otherwise.
func MustEdge(source, target string, attrs map[string]any) *Edge {
	e, err := NewEdge(source, target, attrs)
	if err != nil {
		panic(err)
	}
	return e
}

// Key is the identity projection used for set and map membership.
func (e *Edge) Key() EdgeKey { return EdgeKey{Source: e.Source, Target: e.Target} }

func (e *Edge) Clone() *Edge {
	return &Edge{Source: e.Source, Target: e.Target, Attrs: e.Attrs.Clone()}
}

func (e *Edge) ToMap() map[string]any {
	return map[string]any{
		"source":   e.Source,
		"target":   e.Target,
		"metadata": map[string]any(e.Attrs.Clone()),
	}
}

func (e *Edge) String() string {
	return fmt.Sprintf("Edge(%s)", e.Key())
}
