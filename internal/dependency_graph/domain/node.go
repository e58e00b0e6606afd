package domain

import (
	"fmt"
	"strings"
)

// Node is one topology element. Identity is the ID alone; Kind and Attrs do
// not take part in equality.
type Node struct {
	ID    string   `json:"id" yaml:"id"`
	Kind  NodeKind `json:"type" yaml:"type"`
	Attrs Attrs    `json:"metadata" yaml:"metadata"`
}

// NewNode validates and builds a Node. kind may be any text: it is parsed with
// ParseNodeKind, and unrecognized text becomes NodeCustom with the original
// value kept under AttrOriginalType.
func NewNode(id string, kind NodeKind, attrs map[string]any) (*Node, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalidf("node id cannot be empty")
	}
	a, err := NormalizeAttrs(attrs)
	if err != nil {
		return nil, &NodeError{Op: "new node", ID: id, Err: err}
	}
	n := &Node{ID: id, Attrs: a}
	n.setKind(string(kind))
	return n, nil
}

// MustNode is NewNode for literals known to be valid; it panics otherwise.
func MustNode(id string, kind NodeKind, attrs map[string]any) *Node {
	n, err := NewNode(id, kind, attrs)
	if err != nil {
		panic(err)
	}
	return n
}

func (n *Node) setKind(text string) {
	k, known := ParseNodeKind(text)
	n.Kind = k
	if !known {
		if _, ok := n.Attrs[AttrOriginalType]; !ok {
			n.Attrs[AttrOriginalType] = text
		}
	}
}

// Key is the identity projection used for set and map membership.
func (n *Node) Key() string { return n.ID }

// OriginalKind returns the text a custom node was declared with, or "".
func (n *Node) OriginalKind() string {
	if n.Kind != NodeCustom {
		return ""
	}
	s, _ := n.Attrs[AttrOriginalType].(string)
	return s
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	return &Node{ID: n.ID, Kind: n.Kind, Attrs: n.Attrs.Clone()}
}

func (n *Node) ToMap() map[string]any {
	return map[string]any{
		"id":       n.ID,
		"type":     string(n.Kind),
		"metadata": map[string]any(n.Attrs.Clone()),
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("Node(id=%q, type=%s)", n.ID, n.Kind)
}
