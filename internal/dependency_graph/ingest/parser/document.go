package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
)

// Document is a decoded topology file. Nodes are applied before links.
type Document struct {
	Nodes        []NodeSpec `yaml:"nodes" json:"nodes"`
	Dependencies []EdgeSpec `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Edges        []EdgeSpec `yaml:"edges,omitempty" json:"edges,omitempty"`
}

// Links returns the edge list: "dependencies" when the key is present, even
// as an empty list, and "edges" otherwise.
func (d *Document) Links() []EdgeSpec {
	if d.Dependencies != nil {
		return d.Dependencies
	}
	return d.Edges
}

// NodeSpec is one node entry. It decodes from a bare "id", from the
// "id:kind" shorthand, or from a mapping with id, type (or kind),
// metadata (or attributes) and any extra keys, which land in Attrs.
type NodeSpec struct {
	ID    string
	Type  string
	Attrs map[string]any
}

// EdgeSpec is one dependency entry. It decodes from "source -> target",
// from a two element list, or from a mapping with source|from,
// target|to, metadata and any extra keys, which land in Attrs.
type EdgeSpec struct {
	Source string
	Target string
	Attrs  map[string]any
}

var (
	nodeKeys = map[string]bool{"id": true, "type": true, "kind": true, "metadata": true, "attributes": true}
	edgeKeys = map[string]bool{"source": true, "target": true, "from": true, "to": true, "metadata": true, "attributes": true}
)

func decodeErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidValue, fmt.Sprintf(format, args...))
}

// SplitNodeShorthand splits "id:kind" at the first colon. Without a colon
// the kind is empty, which the domain reads as the default kind.
func SplitNodeShorthand(s string) (id, kind string) {
	id, kind, _ = strings.Cut(s, ":")
	return strings.TrimSpace(id), strings.TrimSpace(kind)
}

// SplitEdgeShorthand splits "source -> target" at the first arrow.
func SplitEdgeShorthand(s string) (source, target string, err error) {
	src, tgt, ok := strings.Cut(s, "->")
	if !ok {
		return "", "", decodeErr("invalid dependency string format: %q", s)
	}
	src, tgt = strings.TrimSpace(src), strings.TrimSpace(tgt)
	if src == "" || tgt == "" {
		return "", "", decodeErr("dependency missing source or target: %q", s)
	}
	return src, tgt, nil
}

func nodeFromValue(v any) (NodeSpec, error) {
	switch x := v.(type) {
	case string:
		id, kind := SplitNodeShorthand(x)
		if id == "" {
			return NodeSpec{}, decodeErr("node definition missing 'id' field")
		}
		return NodeSpec{ID: id, Type: kind, Attrs: map[string]any{}}, nil
	case map[string]any:
		id, _ := scalarString(x["id"])
		if id == "" {
			return NodeSpec{}, decodeErr("node definition missing 'id' field")
		}
		kind, _ := scalarString(firstOf(x, "type", "kind"))
		attrs, err := collectAttrs(x, nodeKeys)
		if err != nil {
			return NodeSpec{}, fmt.Errorf("node %q: %w", id, err)
		}
		return NodeSpec{ID: id, Type: kind, Attrs: attrs}, nil
	default:
		return NodeSpec{}, decodeErr("invalid node definition: %v", v)
	}
}

func edgeFromValue(v any) (EdgeSpec, error) {
	switch x := v.(type) {
	case string:
		src, tgt, err := SplitEdgeShorthand(x)
		if err != nil {
			return EdgeSpec{}, err
		}
		return EdgeSpec{Source: src, Target: tgt, Attrs: map[string]any{}}, nil
	case []any:
		if len(x) != 2 {
			return EdgeSpec{}, decodeErr("dependency list must have exactly 2 elements: %v", x)
		}
		src, ok1 := scalarString(x[0])
		tgt, ok2 := scalarString(x[1])
		if !ok1 || !ok2 || src == "" || tgt == "" {
			return EdgeSpec{}, decodeErr("dependency missing source or target: %v", x)
		}
		return EdgeSpec{Source: src, Target: tgt, Attrs: map[string]any{}}, nil
	case map[string]any:
		src, _ := scalarString(firstOf(x, "source", "from"))
		tgt, _ := scalarString(firstOf(x, "target", "to"))
		if src == "" || tgt == "" {
			return EdgeSpec{}, decodeErr("dependency missing source or target: %v", x)
		}
		attrs, err := collectAttrs(x, edgeKeys)
		if err != nil {
			return EdgeSpec{}, fmt.Errorf("dependency %s -> %s: %w", src, tgt, err)
		}
		return EdgeSpec{Source: src, Target: tgt, Attrs: attrs}, nil
	default:
		return EdgeSpec{}, decodeErr("invalid dependency definition: %v", v)
	}
}

// collectAttrs merges the metadata mapping with every key outside known.
func collectAttrs(m map[string]any, known map[string]bool) (map[string]any, error) {
	attrs := map[string]any{}
	if meta := firstOf(m, "metadata", "attributes"); meta != nil {
		mm, ok := meta.(map[string]any)
		if !ok {
			return nil, decodeErr("metadata must be a mapping, got %T", meta)
		}
		for k, v := range mm {
			attrs[k] = v
		}
	}
	for k, v := range m {
		if !known[k] {
			attrs[k] = v
		}
	}
	return attrs, nil
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil && v != "" {
			return v
		}
	}
	return nil
}

// scalarString accepts strings and numbers, so ids like 42 survive YAML.
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case fmt.Stringer:
		return x.String(), true
	default:
		return "", false
	}
}
