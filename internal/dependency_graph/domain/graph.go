package domain

import (
	"sort"
	"strings"
	"sync"
)

type edgeEntry struct {
	edge *Edge
	seq  uint64
}

type nodeEntry struct {
	node *Node
	seq  uint64
}

// view is the derived, order-stable projection of the graph. It is rebuilt
// from the primary maps whenever a mutation has marked it dirty.
type view struct {
	nodes []*Node
	edges []*Edge
	// undirected neighbour lists, sorted; used for weak connectivity
	adj map[string][]string
}

// Graph is an in-memory directed dependency graph. An edge (s, t) means s
// depends on t. Graph holds no lock for its primary state: callers that share
// one across goroutines must serialize mutations against reads.
type Graph struct {
	nodes map[string]*nodeEntry
	edges map[EdgeKey]*edgeEntry
	fwd   map[string]map[string]struct{}
	rev   map[string]map[string]struct{}
	seq   uint64

	mu    sync.Mutex // guards dirty and cache
	dirty bool
	cache *view
}

func NewGraph() *Graph {
	return &Graph{
		nodes: map[string]*nodeEntry{},
		edges: map[EdgeKey]*edgeEntry{},
		fwd:   map[string]map[string]struct{}{},
		rev:   map[string]map[string]struct{}{},
		dirty: true,
	}
}

func (g *Graph) nextSeq() uint64 {
	g.seq++
	return g.seq
}

func (g *Graph) invalidate() {
	g.mu.Lock()
	g.dirty = true
	g.cache = nil
	g.mu.Unlock()
}

// AddNode inserts a copy of n with normalized attributes; later changes to n
// do not reach the graph. A kind outside AllKinds is parsed the way NewNode
// parses it. It fails with ErrDuplicateNode when the id is taken.
func (g *Graph) AddNode(n *Node) error {
	if n == nil || strings.TrimSpace(n.ID) == "" {
		return invalidf("node id cannot be empty")
	}
	if _, ok := g.nodes[n.ID]; ok {
		return &NodeError{Op: "add node", ID: n.ID, Err: ErrDuplicateNode}
	}
	attrs, err := NormalizeAttrs(n.Attrs)
	if err != nil {
		return &NodeError{Op: "add node", ID: n.ID, Err: err}
	}
	stored := &Node{ID: n.ID, Kind: n.Kind, Attrs: attrs}
	if !stored.Kind.Valid() {
		stored.setKind(string(n.Kind))
	}
	g.nodes[n.ID] = &nodeEntry{node: stored, seq: g.nextSeq()}
	g.invalidate()
	return nil
}

// AddEdge inserts a copy of e. Both endpoints must already exist; the source is
// checked first. Adding a pair that is already present is a no-op and the
// existing edge keeps its attributes.
func (g *Graph) AddEdge(e *Edge) error {
	if e == nil {
		return invalidf("edge cannot be nil")
	}
	if strings.TrimSpace(e.Source) == "" || strings.TrimSpace(e.Target) == "" {
		return invalidf("edge endpoints cannot be empty")
	}
	if e.Source == e.Target {
		return &EdgeError{Op: "add edge", Source: e.Source, Target: e.Target, Err: invalidf("self-loops not allowed")}
	}
	if _, ok := g.nodes[e.Source]; !ok {
		return &NodeError{Op: "add edge", ID: e.Source, Err: ErrUnknownNode}
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return &NodeError{Op: "add edge", ID: e.Target, Err: ErrUnknownNode}
	}
	key := e.Key()
	if _, ok := g.edges[key]; ok {
		return nil
	}
	attrs, err := NormalizeAttrs(e.Attrs)
	if err != nil {
		return &EdgeError{Op: "add edge", Source: e.Source, Target: e.Target, Err: err}
	}
	g.edges[key] = &edgeEntry{edge: &Edge{Source: e.Source, Target: e.Target, Attrs: attrs}, seq: g.nextSeq()}
	link(g.fwd, e.Source, e.Target)
	link(g.rev, e.Target, e.Source)
	g.invalidate()
	return nil
}

// RemoveNode deletes the node and every edge incident to it.
func (g *Graph) RemoveNode(id string) error {
	if _, ok := g.nodes[id]; !ok {
		return &NodeError{Op: "remove node", ID: id, Err: ErrUnknownNode}
	}
	for t := range g.fwd[id] {
		delete(g.edges, EdgeKey{Source: id, Target: t})
		unlink(g.rev, t, id)
	}
	for s := range g.rev[id] {
		delete(g.edges, EdgeKey{Source: s, Target: id})
		unlink(g.fwd, s, id)
	}
	delete(g.fwd, id)
	delete(g.rev, id)
	delete(g.nodes, id)
	g.invalidate()
	return nil
}

// RemoveEdge deletes the edge source -> target.
func (g *Graph) RemoveEdge(source, target string) error {
	key := EdgeKey{Source: source, Target: target}
	if _, ok := g.edges[key]; !ok {
		return &EdgeError{Op: "remove edge", Source: source, Target: target, Err: ErrUnknownEdge}
	}
	delete(g.edges, key)
	unlink(g.fwd, source, target)
	unlink(g.rev, target, source)
	g.invalidate()
	return nil
}

// UpdateNode changes the kind and/or attributes of an existing node. A nil
// kind leaves the kind unchanged. With replace set the attributes are
// swapped wholesale, otherwise attrs is merged over the current ones.
// The node id never changes.
func (g *Graph) UpdateNode(id string, kind *string, attrs map[string]any, replace bool) (*Node, error) {
	ent, ok := g.nodes[id]
	if !ok {
		return nil, &NodeError{Op: "update node", ID: id, Err: ErrUnknownNode}
	}
	norm, err := NormalizeAttrs(attrs)
	if err != nil {
		return nil, &NodeError{Op: "update node", ID: id, Err: err}
	}

	next := ent.node.Clone()
	if replace {
		orig, hadOrig := next.Attrs[AttrOriginalType]
		next.Attrs = norm
		if _, ok := norm[AttrOriginalType]; hadOrig && !ok && kind == nil {
			next.Attrs[AttrOriginalType] = orig
		}
	} else {
		for k, v := range norm {
			next.Attrs[k] = v
		}
	}
	if kind != nil {
		if k, known := ParseNodeKind(*kind); known {
			next.Kind = k
			if k != NodeCustom {
				delete(next.Attrs, AttrOriginalType)
			}
		} else {
			next.Kind = NodeCustom
			next.Attrs[AttrOriginalType] = *kind
		}
	}
	ent.node = next
	g.invalidate()
	return next.Clone(), nil
}

func link(idx map[string]map[string]struct{}, from, to string) {
	set, ok := idx[from]
	if !ok {
		set = map[string]struct{}{}
		idx[from] = set
	}
	set[to] = struct{}{}
}

func unlink(idx map[string]map[string]struct{}, from, to string) {
	set, ok := idx[from]
	if !ok {
		return
	}
	delete(set, to)
	if len(set) == 0 {
		delete(idx, from)
	}
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	ent, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	return ent.node.Clone(), true
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Graph) HasEdge(source, target string) bool {
	_, ok := g.edges[EdgeKey{Source: source, Target: target}]
	return ok
}

// Edge returns a copy of the stored edge for the pair.
func (g *Graph) Edge(source, target string) (*Edge, bool) {
	ent, ok := g.edges[EdgeKey{Source: source, Target: target}]
	if !ok {
		return nil, false
	}
	return ent.edge.Clone(), true
}

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns the nodes in insertion order. The slice is a fresh copy but
// the nodes are the stored ones and must be treated as read-only.
func (g *Graph) Nodes() []*Node {
	v := g.derived()
	out := make([]*Node, len(v.nodes))
	copy(out, v.nodes)
	return out
}

// Edges returns the edges in insertion order. Like Nodes, the edges are
// shared with the graph.
func (g *Graph) Edges() []*Edge {
	v := g.derived()
	out := make([]*Edge, len(v.edges))
	copy(out, v.edges)
	return out
}

// NodeIDs returns node ids in insertion order.
func (g *Graph) NodeIDs() []string {
	v := g.derived()
	ids := make([]string, len(v.nodes))
	for i, n := range v.nodes {
		ids[i] = n.ID
	}
	return ids
}

// Dependencies returns the ids id points to, sorted. Unknown ids yield an
// empty slice.
func (g *Graph) Dependencies(id string) []string {
	return sortedKeys(g.fwd[id])
}

// Dependents returns the ids pointing to id, sorted.
func (g *Graph) Dependents(id string) []string {
	return sortedKeys(g.rev[id])
}

func (g *Graph) outDegree(id string) int { return len(g.fwd[id]) }
func (g *Graph) inDegree(id string) int  { return len(g.rev[id]) }

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// derived returns the current view, rebuilding it when a mutation has
// happened since the last build.
func (g *Graph) derived() *view {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.dirty && g.cache != nil {
		return g.cache
	}
	g.cache = g.rebuild()
	g.dirty = false
	return g.cache
}

func (g *Graph) rebuild() *view {
	nodes := make([]*nodeEntry, 0, len(g.nodes))
	for _, ent := range g.nodes {
		nodes = append(nodes, ent)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].seq < nodes[j].seq })

	edges := make([]*edgeEntry, 0, len(g.edges))
	for _, ent := range g.edges {
		edges = append(edges, ent)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].seq < edges[j].seq })

	v := &view{
		nodes: make([]*Node, len(nodes)),
		edges: make([]*Edge, len(edges)),
		adj:   make(map[string][]string, len(nodes)),
	}
	for i, ent := range nodes {
		v.nodes[i] = ent.node
		set := make(map[string]struct{}, len(g.fwd[ent.node.ID])+len(g.rev[ent.node.ID]))
		for t := range g.fwd[ent.node.ID] {
			set[t] = struct{}{}
		}
		for s := range g.rev[ent.node.ID] {
			set[s] = struct{}{}
		}
		v.adj[ent.node.ID] = sortedKeys(set)
	}
	for i, ent := range edges {
		v.edges[i] = ent.edge
	}
	return v
}

// Clone returns an independent deep copy that preserves insertion order.
func (g *Graph) Clone() *Graph {
	c := NewGraph()
	for _, n := range g.Nodes() {
		_ = c.AddNode(n)
	}
	for _, e := range g.Edges() {
		_ = c.AddEdge(e)
	}
	return c
}
