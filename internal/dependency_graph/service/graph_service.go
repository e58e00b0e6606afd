package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/ingest/mapper"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/ingest/parser"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/ingest/validator"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/logging"
	"github.com/google/uuid"
)

const defaultCriticalTop = 5

// GraphService owns the dependency graph served by this process. Mutations
// take the write lock; every query runs under the read lock so it sees a
// consistent snapshot.
type GraphService struct {
	mu sync.RWMutex
	g  *domain.Graph
	// version counts committed mutations; guarded by mu
	version uint64

	// notifyMu keeps notifications in mutation order
	notifyMu  sync.Mutex
	notifiers []Notifier

	log         *slog.Logger
	now         func() time.Time
	newID       func() string
	criticalTop int
}

type Option func(*GraphService)

// WithNotifier registers notifiers that receive every mutation.
func WithNotifier(n ...Notifier) Option {
	return func(s *GraphService) { s.notifiers = append(s.notifiers, n...) }
}

// WithLogger sets the logger used when no request logger is in the context.
func WithLogger(l *slog.Logger) Option {
	return func(s *GraphService) { s.log = l }
}

// WithClock overrides the time source for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *GraphService) { s.now = now }
}

// WithCriticalTop sets how many nodes Stats lists as critical.
func WithCriticalTop(n int) Option {
	return func(s *GraphService) { s.criticalTop = n }
}

// New creates a GraphService around g. A nil g starts with an empty graph.
func New(g *domain.Graph, opts ...Option) *GraphService {
	if g == nil {
		g = domain.NewGraph()
	}
	s := &GraphService{
		g:           g,
		log:         slog.Default(),
		now:         time.Now,
		newID:       uuid.NewString,
		criticalTop: defaultCriticalTop,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AddNotifier registers a notifier after construction.
func (s *GraphService) AddNotifier(n Notifier) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.notifiers = append(s.notifiers, n)
}

func (s *GraphService) logger(ctx context.Context) *slog.Logger {
	if l := logging.FromContext(ctx); l != slog.Default() {
		return l
	}
	return s.log
}

// commit must be called with the write lock held. It bumps the version,
// snapshots the graph, hands the lock over to notifyMu and delivers the
// event. Notifiers run detached from ctx cancellation: a caller that goes
// away after the mutation must not leave caches uninvalidated.
func (s *GraphService) commit(ctx context.Context, ev domain.Event) {
	s.version++
	ev.Version = s.version
	ev.ID = s.newID()
	ev.At = s.now().UTC()
	ev.NodeCount = s.g.NodeCount()
	ev.EdgeCount = s.g.EdgeCount()
	snap := s.g.Export()

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	ctx = logging.WithLogger(context.WithoutCancel(ctx), s.logger(ctx))
	log := logging.ForOperation(ctx, string(ev.Type))
	log.Info("graph mutated", "version", ev.Version, "node_id", ev.NodeID, "source", ev.Source, "target", ev.Target,
		"nodes", ev.NodeCount, "edges", ev.EdgeCount)
	for _, n := range s.notifiers {
		if err := n.Notify(ctx, ev, snap); err != nil {
			log.Warn("notifier failed", "error", err)
		}
	}
}

// ---- queries ----

// GraphData exports nodes, edges and stats.
func (s *GraphService) GraphData() domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g.Export()
}

// Version returns the number of mutations committed so far. Stats carry
// the version they were computed at.
func (s *GraphService) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns an independent copy of the current graph.
func (s *GraphService) Snapshot() *domain.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g.Clone()
}

// Counts returns node and edge counts without computing full stats.
func (s *GraphService) Counts() (nodes, edges int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g.NodeCount(), s.g.EdgeCount()
}

// Stats returns topology stats plus the most critical nodes.
func (s *GraphService) Stats() GraphStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.g.Stats()
	return GraphStats{
		Stats:         st,
		CriticalNodes: s.criticalNodes(),
		HasCycles:     !st.IsDAG,
		Version:       s.version,
	}
}

// criticalNodes ranks nodes by blast radius. Ties keep insertion order and
// nodes nothing depends on are left out.
func (s *GraphService) criticalNodes() []CriticalNode {
	var out []CriticalNode
	for _, n := range s.g.Nodes() {
		count := len(s.g.ImpactRadius(n.ID, domain.Unbounded))
		if count == 0 {
			continue
		}
		out = append(out, CriticalNode{
			ID:          n.ID,
			Type:        string(n.Kind),
			ImpactCount: count,
			Dependents:  len(s.g.Dependents(n.ID)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ImpactCount > out[j].ImpactCount })
	if len(out) > s.criticalTop {
		out = out[:s.criticalTop]
	}
	if out == nil {
		out = []CriticalNode{}
	}
	return out
}

// FindPath returns the shortest dependency path from source to target.
func (s *GraphService) FindPath(source, target string) (PathResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range []string{source, target} {
		if !s.g.HasNode(id) {
			return PathResult{}, &domain.NodeError{Op: "find path", ID: id, Err: domain.ErrUnknownNode}
		}
	}
	path, ok := s.g.CriticalPath(source, target)
	if !ok {
		return PathResult{}, fmt.Errorf("%w from %s to %s", ErrNoPath, source, target)
	}
	return PathResult{Source: source, Target: target, Path: path, Length: len(path) - 1}, nil
}

// AnalyzeImpact reports who is affected if id fails. A nil maxDepth means
// no limit.
func (s *GraphService) AnalyzeImpact(id string, maxDepth *int) (ImpactAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.g.HasNode(id) {
		return ImpactAnalysis{}, &domain.NodeError{Op: "analyze impact", ID: id, Err: domain.ErrUnknownNode}
	}
	depth := domain.Unbounded
	if maxDepth != nil {
		if *maxDepth < 0 {
			return ImpactAnalysis{}, fmt.Errorf("%w: max_depth must be >= 0", domain.ErrInvalidValue)
		}
		depth = *maxDepth
	}

	impacted := s.g.ImpactRadius(id, depth)
	return ImpactAnalysis{
		Source:        id,
		ImpactedNodes: impacted,
		ImpactCount:   len(impacted),
		MaxDepth:      maxDepth,
		Depths:        s.g.ImpactDepths(id, depth),
		Severity:      SeverityFor(len(impacted), s.g.NodeCount()),
	}, nil
}

func (s *GraphService) FindCycles() CycleReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cycles := s.g.FindCycles()
	if cycles == nil {
		cycles = [][]string{}
	}
	return CycleReport{HasCycles: len(cycles) > 0, Cycles: cycles, Count: len(cycles)}
}

func (s *GraphService) Topology() Topology {
	s.mu.RLock()
	defer s.mu.RUnlock()

	levels, ok := s.g.Levels()
	if !ok {
		return Topology{IsDAG: false, Message: "Graph contains cycles"}
	}
	order, _ := s.g.TopologicalSort()
	return Topology{IsDAG: true, Order: order, Levels: levels}
}

func (s *GraphService) Validate() ValidationReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issues := s.g.Validate()
	if issues == nil {
		issues = []string{}
	}
	return ValidationReport{Valid: len(issues) == 0, Issues: issues}
}

// Nodes lists nodes in insertion order. A non-empty kind filters by kind;
// text that is not a known kind matches custom nodes declared with it.
func (s *GraphService) Nodes(kind string) []domain.NodeDoc {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want, known := domain.ParseNodeKind(kind)
	out := []domain.NodeDoc{}
	for _, n := range s.g.Export().Nodes {
		switch {
		case strings.TrimSpace(kind) == "":
		case known && n.Type != string(want):
			continue
		case !known:
			orig, _ := n.Metadata[domain.AttrOriginalType].(string)
			if n.Type != string(domain.NodeCustom) || !strings.EqualFold(orig, strings.TrimSpace(kind)) {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

func (s *GraphService) NodeDetails(id string) (NodeDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.g.Node(id)
	if !ok {
		return NodeDetail{}, &domain.NodeError{Op: "get node", ID: id, Err: domain.ErrUnknownNode}
	}
	deps := s.g.Dependencies(id)
	dependents := s.g.Dependents(id)
	impact := s.g.ImpactRadius(id, domain.Unbounded)
	return NodeDetail{
		NodeDoc:      nodeDoc(n),
		Dependencies: deps,
		Dependents:   dependents,
		ImpactRadius: impact,
		Metrics: NodeMetrics{
			InDegree:    len(dependents),
			OutDegree:   len(deps),
			ImpactCount: len(impact),
		},
	}, nil
}

// Dependencies differs from the graph query in that an unknown id is an
// error, so callers can answer not found.
func (s *GraphService) Dependencies(id string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.g.HasNode(id) {
		return nil, &domain.NodeError{Op: "get dependencies", ID: id, Err: domain.ErrUnknownNode}
	}
	return s.g.Dependencies(id), nil
}

func (s *GraphService) Dependents(id string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.g.HasNode(id) {
		return nil, &domain.NodeError{Op: "get dependents", ID: id, Err: domain.ErrUnknownNode}
	}
	return s.g.Dependents(id), nil
}

// ---- mutations ----

func (s *GraphService) CreateNode(ctx context.Context, id, kind string, attrs map[string]any) (domain.NodeDoc, error) {
	n, err := domain.NewNode(id, domain.NodeKind(kind), attrs)
	if err != nil {
		return domain.NodeDoc{}, err
	}

	s.mu.Lock()
	if err := s.g.AddNode(n); err != nil {
		s.mu.Unlock()
		return domain.NodeDoc{}, err
	}
	doc := nodeDoc(n)
	s.commit(ctx, domain.Event{Type: domain.EventNodeCreated, NodeID: id})
	return doc, nil
}

// UpdateNode changes kind and attributes. With replace false the given
// attributes are merged over the existing ones.
func (s *GraphService) UpdateNode(ctx context.Context, id string, kind *string, attrs map[string]any, replace bool) (domain.NodeDoc, error) {
	s.mu.Lock()
	n, err := s.g.UpdateNode(id, kind, attrs, replace)
	if err != nil {
		s.mu.Unlock()
		return domain.NodeDoc{}, err
	}
	s.commit(ctx, domain.Event{Type: domain.EventNodeUpdated, NodeID: id})
	return nodeDoc(n), nil
}

func (s *GraphService) DeleteNode(ctx context.Context, id string) error {
	s.mu.Lock()
	if err := s.g.RemoveNode(id); err != nil {
		s.mu.Unlock()
		return err
	}
	s.commit(ctx, domain.Event{Type: domain.EventNodeDeleted, NodeID: id})
	return nil
}

// CreateEdge adds source -> target. Adding an existing pair succeeds
// without a notification and returns the stored edge.
func (s *GraphService) CreateEdge(ctx context.Context, source, target string, attrs map[string]any) (domain.EdgeDoc, error) {
	doc, _, err := s.AddEdge(ctx, source, target, attrs)
	return doc, err
}

// AddEdge is CreateEdge that also reports whether the edge was new.
func (s *GraphService) AddEdge(ctx context.Context, source, target string, attrs map[string]any) (domain.EdgeDoc, bool, error) {
	e, err := domain.NewEdge(source, target, attrs)
	if err != nil {
		return domain.EdgeDoc{}, false, err
	}

	s.mu.Lock()
	if existing, ok := s.g.Edge(source, target); ok {
		doc := edgeDoc(existing)
		s.mu.Unlock()
		return doc, false, nil
	}
	if err := s.g.AddEdge(e); err != nil {
		s.mu.Unlock()
		return domain.EdgeDoc{}, false, err
	}
	doc := edgeDoc(e)
	s.commit(ctx, domain.Event{Type: domain.EventEdgeCreated, Source: source, Target: target})
	return doc, true, nil
}

func (s *GraphService) DeleteEdge(ctx context.Context, source, target string) error {
	s.mu.Lock()
	if err := s.g.RemoveEdge(source, target); err != nil {
		s.mu.Unlock()
		return err
	}
	s.commit(ctx, domain.Event{Type: domain.EventEdgeDeleted, Source: source, Target: target})
	return nil
}

// LoadDocument replaces the whole graph with the one described by doc. The
// current graph stays in place when doc is invalid.
func (s *GraphService) LoadDocument(ctx context.Context, doc *parser.Document) error {
	if err := validator.Validate(doc); err != nil {
		return err
	}
	g, err := mapper.ToGraph(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.g = g
	s.commit(ctx, domain.Event{Type: domain.EventGraphLoaded})
	return nil
}

// Replace swaps in g as the served graph.
func (s *GraphService) Replace(ctx context.Context, g *domain.Graph) {
	if g == nil {
		g = domain.NewGraph()
	}
	s.mu.Lock()
	s.g = g
	s.commit(ctx, domain.Event{Type: domain.EventGraphLoaded})
}

// Reset empties the served graph.
func (s *GraphService) Reset(ctx context.Context) {
	s.mu.Lock()
	s.g = domain.NewGraph()
	s.commit(ctx, domain.Event{Type: domain.EventGraphReset})
}

func nodeDoc(n *domain.Node) domain.NodeDoc {
	return domain.NodeDoc{ID: n.ID, Type: string(n.Kind), Metadata: map[string]any(n.Attrs.Clone())}
}

func edgeDoc(e *domain.Edge) domain.EdgeDoc {
	return domain.EdgeDoc{Source: e.Source, Target: e.Target, Metadata: map[string]any(e.Attrs.Clone())}
}
