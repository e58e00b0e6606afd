package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/builder"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/ingest/parser"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/service"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []domain.Event
	snaps  []domain.Document
}

func (r *recorder) Notify(_ context.Context, ev domain.Event, snap domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	r.snaps = append(r.snaps, snap)
	return nil
}

func (r *recorder) types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func newService(t *testing.T, opts ...service.Option) (*service.GraphService, *recorder) {
	t.Helper()
	g, err := builder.New().
		AddNodes("web:api", "orders", "payments", "db:database", "cache:cache").
		AddChain("web", "orders", "db").
		AddFanout("payments", "orders", "db").
		AddDependency("web", "cache", nil).
		Build()
	require.NoError(t, err)

	rec := &recorder{}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	opts = append([]service.Option{
		service.WithNotifier(rec),
		service.WithLogger(logging.Discard()),
		service.WithClock(func() time.Time { return fixed }),
	}, opts...)
	return service.New(g, opts...), rec
}

func TestStats(t *testing.T) {
	svc, _ := newService(t)
	st := svc.Stats()

	assert.Equal(t, 5, st.NodeCount)
	assert.Equal(t, 5, st.EdgeCount)
	assert.False(t, st.HasCycles)
	require.NotEmpty(t, st.CriticalNodes)
	assert.Equal(t, "db", st.CriticalNodes[0].ID)
	assert.Equal(t, 3, st.CriticalNodes[0].ImpactCount)
	assert.Equal(t, 2, st.CriticalNodes[0].Dependents)

	b, err := json.Marshal(st)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"node_count":5`)
	assert.Contains(t, string(b), `"critical_nodes":[`)
}

func TestStats_CriticalTop(t *testing.T) {
	svc, _ := newService(t, service.WithCriticalTop(1))
	assert.Len(t, svc.Stats().CriticalNodes, 1)
}

func TestAnalyzeImpact(t *testing.T) {
	svc, _ := newService(t)

	res, err := svc.AnalyzeImpact("db", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"orders", "payments", "web"}, res.ImpactedNodes)
	assert.Equal(t, 3, res.ImpactCount)
	assert.Equal(t, domain.SeverityCritical, res.Severity)
	assert.Equal(t, 2, res.Depths["web"])

	one := 1
	res, err = svc.AnalyzeImpact("db", &one)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"orders", "payments"}, res.ImpactedNodes)
	assert.Equal(t, &one, res.MaxDepth)

	res, err = svc.AnalyzeImpact("web", nil)
	require.NoError(t, err)
	assert.Empty(t, res.ImpactedNodes)
	assert.Equal(t, domain.SeverityLow, res.Severity)

	_, err = svc.AnalyzeImpact("ghost", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownNode)

	neg := -1
	_, err = svc.AnalyzeImpact("db", &neg)
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestSeverityFor(t *testing.T) {
	assert.Equal(t, domain.SeverityLow, service.SeverityFor(0, 10))
	assert.Equal(t, domain.SeverityLow, service.SeverityFor(3, 1))
	assert.Equal(t, domain.SeverityMedium, service.SeverityFor(1, 11))
	assert.Equal(t, domain.SeverityHigh, service.SeverityFor(3, 11))
	assert.Equal(t, domain.SeverityCritical, service.SeverityFor(5, 11))
}

func TestFindPath(t *testing.T) {
	svc, _ := newService(t)

	res, err := svc.FindPath("web", "db")
	require.NoError(t, err)
	assert.Equal(t, []string{"web", "orders", "db"}, res.Path)
	assert.Equal(t, 2, res.Length)

	_, err = svc.FindPath("db", "web")
	assert.ErrorIs(t, err, service.ErrNoPath)

	_, err = svc.FindPath("web", "ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownNode)
}

func TestTopologyAndCycles(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	topo := svc.Topology()
	assert.True(t, topo.IsDAG)
	assert.Len(t, topo.Order, 5)
	assert.NotEmpty(t, topo.Levels)
	assert.True(t, svc.Validate().Valid)
	assert.False(t, svc.FindCycles().HasCycles)

	_, err := svc.CreateEdge(ctx, "db", "web", nil)
	require.NoError(t, err)

	topo = svc.Topology()
	assert.False(t, topo.IsDAG)
	assert.Nil(t, topo.Order)
	assert.Equal(t, "Graph contains cycles", topo.Message)

	report := svc.FindCycles()
	assert.True(t, report.HasCycles)
	assert.Equal(t, len(report.Cycles), report.Count)

	v := svc.Validate()
	assert.False(t, v.Valid)
	assert.NotEmpty(t, v.Issues)
}

func TestNodesFilter(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.CreateNode(ctx, "legacy", "Mainframe", nil)
	require.NoError(t, err)

	assert.Len(t, svc.Nodes(""), 6)
	dbs := svc.Nodes("DATABASE")
	require.Len(t, dbs, 1)
	assert.Equal(t, "db", dbs[0].ID)
	assert.Len(t, svc.Nodes("service"), 2)

	custom := svc.Nodes("mainframe")
	require.Len(t, custom, 1)
	assert.Equal(t, "legacy", custom[0].ID)
	assert.Empty(t, svc.Nodes("kafka"))
}

func TestNodeDetails(t *testing.T) {
	svc, _ := newService(t)

	d, err := svc.NodeDetails("orders")
	require.NoError(t, err)
	assert.Equal(t, "service", d.Type)
	assert.Equal(t, []string{"db"}, d.Dependencies)
	assert.Equal(t, []string{"payments", "web"}, d.Dependents)
	assert.ElementsMatch(t, []string{"payments", "web"}, d.ImpactRadius)
	assert.Equal(t, service.NodeMetrics{InDegree: 2, OutDegree: 1, ImpactCount: 2}, d.Metrics)

	_, err = svc.NodeDetails("ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownNode)

	_, err = svc.Dependencies("ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownNode)
	_, err = svc.Dependents("ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownNode)

	deps, err := svc.Dependents("db")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "payments"}, deps)
}

func TestMutationsNotify(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()

	_, err := svc.CreateNode(ctx, "queue", "queue", map[string]any{"durable": true})
	require.NoError(t, err)

	_, err = svc.CreateEdge(ctx, "orders", "queue", map[string]any{"async": true})
	require.NoError(t, err)

	// duplicate edge: no event
	e, err := svc.CreateEdge(ctx, "orders", "queue", map[string]any{"async": false})
	require.NoError(t, err)
	assert.Equal(t, true, e.Metadata["async"])
	_, created, err := svc.AddEdge(ctx, "orders", "queue", nil)
	require.NoError(t, err)
	assert.False(t, created)

	kind := "event-stream"
	n, err := svc.UpdateNode(ctx, "queue", &kind, map[string]any{"partitions": 3}, false)
	require.NoError(t, err)
	assert.Equal(t, "event-stream", n.Type)
	assert.Equal(t, 3.0, n.Metadata["partitions"])
	assert.Equal(t, true, n.Metadata["durable"])

	require.NoError(t, svc.DeleteEdge(ctx, "orders", "queue"))
	require.NoError(t, svc.DeleteNode(ctx, "queue"))

	assert.Equal(t, []domain.EventType{
		domain.EventNodeCreated,
		domain.EventEdgeCreated,
		domain.EventNodeUpdated,
		domain.EventEdgeDeleted,
		domain.EventNodeDeleted,
	}, rec.types())

	first := rec.events[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "queue", first.NodeID)
	assert.Equal(t, 6, first.NodeCount)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), first.At)
	assert.Len(t, rec.snaps[0].Nodes, 6)

	last := rec.snaps[len(rec.snaps)-1]
	assert.Len(t, last.Nodes, 5)
}

func TestMutationErrorsDoNotNotify(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()

	_, err := svc.CreateNode(ctx, "web", "api", nil)
	assert.ErrorIs(t, err, domain.ErrDuplicateNode)

	_, err = svc.CreateNode(ctx, "", "api", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidValue)

	_, err = svc.CreateEdge(ctx, "web", "ghost", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownNode)

	_, err = svc.CreateEdge(ctx, "web", "web", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidValue)

	assert.ErrorIs(t, svc.DeleteEdge(ctx, "db", "web"), domain.ErrUnknownEdge)
	assert.ErrorIs(t, svc.DeleteNode(ctx, "ghost"), domain.ErrUnknownNode)

	_, err = svc.UpdateNode(ctx, "ghost", nil, nil, false)
	assert.ErrorIs(t, err, domain.ErrUnknownNode)

	assert.Empty(t, rec.types())
	nodes, edges := svc.Counts()
	assert.Equal(t, 5, nodes)
	assert.Equal(t, 5, edges)
}

func TestFailingNotifierDoesNotBlockOthers(t *testing.T) {
	rec := &recorder{}
	failing := service.NotifierFunc(func(context.Context, domain.Event, domain.Document) error {
		return errors.New("broker down")
	})
	svc := service.New(nil,
		service.WithLogger(logging.Discard()),
		service.WithNotifier(failing, rec),
	)

	_, err := svc.CreateNode(context.Background(), "a", "", nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.EventType{domain.EventNodeCreated}, rec.types())
}

func TestNotifiersGetDetachedTaggedContext(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New("info", "text", &buf)

	var ctxErr error
	var notifierLog *slog.Logger
	failing := service.NotifierFunc(func(ctx context.Context, _ domain.Event, _ domain.Document) error {
		ctxErr = ctx.Err()
		notifierLog = logging.FromContext(ctx)
		return errors.New("broker down")
	})
	svc := service.New(nil, service.WithLogger(log), service.WithNotifier(failing))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.CreateNode(ctx, "a", "", nil)
	require.NoError(t, err)

	assert.NoError(t, ctxErr, "notifiers must not see the caller's cancellation")
	assert.Same(t, log, notifierLog)
	out := buf.String()
	assert.Contains(t, out, "operation=node_created")
	assert.Contains(t, out, "version=1")
	assert.Contains(t, out, `msg="notifier failed"`)
	assert.Contains(t, out, `error="broker down"`)
}

func TestLoadDocument(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()

	doc, err := parser.ParseYAMLString("nodes: [x, y]\ndependencies: [x -> y]\n")
	require.NoError(t, err)
	require.NoError(t, svc.LoadDocument(ctx, doc))

	nodes, edges := svc.Counts()
	assert.Equal(t, 2, nodes)
	assert.Equal(t, 1, edges)
	assert.Equal(t, []domain.EventType{domain.EventGraphLoaded}, rec.types())

	bad, err := parser.ParseYAMLString("nodes: [p]\ndependencies: [p -> q]\n")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.LoadDocument(ctx, bad), domain.ErrInvalidValue)

	nodes, _ = svc.Counts()
	assert.Equal(t, 2, nodes, "invalid document keeps the current graph")
}

func TestReplaceAndReset(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()

	snap := svc.Snapshot()
	svc.Reset(ctx)
	nodes, _ := svc.Counts()
	assert.Equal(t, 0, nodes)

	svc.Replace(ctx, snap)
	nodes, _ = svc.Counts()
	assert.Equal(t, 5, nodes)

	assert.Equal(t, []domain.EventType{domain.EventGraphReset, domain.EventGraphLoaded}, rec.types())
}

func TestConcurrentAccess(t *testing.T) {
	svc := service.New(nil, service.WithLogger(logging.Discard()))
	ctx := context.Background()
	_, err := svc.CreateNode(ctx, "hub", "", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			id := "n" + string(rune('a'+i))
			_, _ = svc.CreateNode(ctx, id, "", nil)
			_, _ = svc.CreateEdge(ctx, id, "hub", nil)
		}(i)
		go func() {
			defer wg.Done()
			_ = svc.Stats()
			_ = svc.Topology()
			_ = svc.GraphData()
		}()
	}
	wg.Wait()

	st := svc.Stats()
	assert.Equal(t, 21, st.NodeCount)
	assert.Equal(t, 20, st.EdgeCount)
	assert.True(t, st.IsDAG)
}
