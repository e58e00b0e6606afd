package domain_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_AddNode(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddNode(domain.MustNode("a", domain.NodeAPI, nil)))

	err := g.AddNode(domain.MustNode("a", domain.NodeDatabase, nil))
	require.ErrorIs(t, err, domain.ErrDuplicateNode)

	n, ok := g.Node("a")
	require.True(t, ok)
	assert.Equal(t, domain.NodeAPI, n.Kind, "failed insert must not replace the node")
	assert.Equal(t, 1, g.NodeCount())
}

func TestGraph_AddNodeByHand(t *testing.T) {
	t.Run("blank id is rejected", func(t *testing.T) {
		g := domain.NewGraph()
		err := g.AddNode(&domain.Node{ID: "  \t", Kind: domain.NodeService})
		assert.ErrorIs(t, err, domain.ErrInvalidValue)
		assert.Equal(t, 0, g.NodeCount())
	})

	t.Run("attributes are normalized", func(t *testing.T) {
		g := domain.NewGraph()
		require.NoError(t, g.AddNode(&domain.Node{ID: "a", Kind: domain.NodeAPI, Attrs: domain.Attrs{"port": 8080, "tags": []string{"x"}}}))
		n, _ := g.Node("a")
		assert.Equal(t, 8080.0, n.Attrs["port"])
		assert.Equal(t, []any{"x"}, n.Attrs["tags"])
	})

	t.Run("unsupported attribute is rejected", func(t *testing.T) {
		g := domain.NewGraph()
		err := g.AddNode(&domain.Node{ID: "a", Attrs: domain.Attrs{"bad": struct{}{}}})
		assert.ErrorIs(t, err, domain.ErrInvalidValue)
		var nodeErr *domain.NodeError
		require.True(t, errors.As(err, &nodeErr))
		assert.Equal(t, "a", nodeErr.ID)
		assert.False(t, g.HasNode("a"))
	})

	t.Run("free text kind is parsed", func(t *testing.T) {
		g := domain.NewGraph()
		require.NoError(t, g.AddNode(&domain.Node{ID: "k", Kind: "Kafka"}))
		require.NoError(t, g.AddNode(&domain.Node{ID: "m", Kind: "mainframe"}))
		k, _ := g.Node("k")
		assert.Equal(t, domain.NodeEventStream, k.Kind)
		m, _ := g.Node("m")
		assert.Equal(t, domain.NodeCustom, m.Kind)
		assert.Equal(t, "mainframe", m.OriginalKind())
	})

	t.Run("graph does not alias caller or reader values", func(t *testing.T) {
		g := domain.NewGraph()
		in := domain.MustNode("a", domain.NodeAPI, map[string]any{"port": 1})
		require.NoError(t, g.AddNode(in))
		in.Attrs["port"] = 2.0
		in.Kind = domain.NodeDatabase

		out, _ := g.Node("a")
		out.Attrs["port"] = 3.0

		again, _ := g.Node("a")
		assert.Equal(t, 1.0, again.Attrs["port"])
		assert.Equal(t, domain.NodeAPI, again.Kind)
	})

	t.Run("edges are copied too", func(t *testing.T) {
		g := newGraph(t, []string{"a", "b"}, nil)
		in := &domain.Edge{Source: "a", Target: "b", Attrs: domain.Attrs{"weight": 2}}
		require.NoError(t, g.AddEdge(in))
		in.Attrs["weight"] = 5.0

		out, _ := g.Edge("a", "b")
		assert.Equal(t, 2.0, out.Attrs["weight"])
		out.Attrs["weight"] = 7.0
		again, _ := g.Edge("a", "b")
		assert.Equal(t, 2.0, again.Attrs["weight"])
	})
}

func TestGraph_AddEdge(t *testing.T) {
	t.Run("unknown source is named", func(t *testing.T) {
		g := domain.NewGraph()
		require.NoError(t, g.AddNode(domain.MustNode("b", domain.NodeService, nil)))

		err := g.AddEdge(domain.MustEdge("a", "b", nil))
		require.ErrorIs(t, err, domain.ErrUnknownNode)

		var nodeErr *domain.NodeError
		require.True(t, errors.As(err, &nodeErr))
		assert.Equal(t, "a", nodeErr.ID)
		assert.Equal(t, 0, g.EdgeCount())
		assert.Empty(t, g.Dependents("b"))
	})

	t.Run("unknown target is named", func(t *testing.T) {
		g := newGraph(t, []string{"a"}, nil)
		err := g.AddEdge(domain.MustEdge("a", "z", nil))

		var nodeErr *domain.NodeError
		require.True(t, errors.As(err, &nodeErr))
		assert.Equal(t, "z", nodeErr.ID)
		assert.Empty(t, g.Dependencies("a"))
	})

	t.Run("source is checked before target", func(t *testing.T) {
		g := domain.NewGraph()
		err := g.AddEdge(domain.MustEdge("a", "b", nil))

		var nodeErr *domain.NodeError
		require.True(t, errors.As(err, &nodeErr))
		assert.Equal(t, "a", nodeErr.ID)
	})

	t.Run("duplicate pair is a no-op and first attributes win", func(t *testing.T) {
		g := newGraph(t, []string{"a", "b"}, nil)
		require.NoError(t, g.AddEdge(domain.MustEdge("a", "b", map[string]any{"protocol": "http"})))
		before := g.Stats()

		require.NoError(t, g.AddEdge(domain.MustEdge("a", "b", map[string]any{"protocol": "grpc"})))

		assert.Equal(t, 1, g.EdgeCount())
		assert.Equal(t, before, g.Stats())
		assert.Equal(t, []string{"b"}, g.Dependencies("a"))
		assert.Equal(t, []string{"a"}, g.Dependents("b"))
		e, ok := g.Edge("a", "b")
		require.True(t, ok)
		assert.Equal(t, "http", e.Attrs["protocol"])
	})

	t.Run("self loop built by hand is rejected", func(t *testing.T) {
		g := newGraph(t, []string{"a"}, nil)
		err := g.AddEdge(&domain.Edge{Source: "a", Target: "a"})
		assert.ErrorIs(t, err, domain.ErrInvalidValue)
		assert.Equal(t, 0, g.EdgeCount())
	})
}

func TestGraph_Remove(t *testing.T) {
	t.Run("remove node drops incident edges", func(t *testing.T) {
		g := newGraph(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}})

		require.NoError(t, g.RemoveNode("b"))

		assert.False(t, g.HasNode("b"))
		assert.Equal(t, 1, g.EdgeCount())
		assert.False(t, g.HasEdge("a", "b"))
		assert.False(t, g.HasEdge("b", "c"))
		assert.Equal(t, []string{"c"}, g.Dependencies("a"))
		assert.Equal(t, []string{"a"}, g.Dependents("c"))
		assert.Empty(t, g.Dependencies("b"))
		assert.Empty(t, g.Dependents("b"))

		s := g.Stats()
		assert.Equal(t, 2, s.NodeCount)
		assert.Equal(t, 1, s.EdgeCount)
		assert.NotContains(t, g.NodeIDs(), "b")
	})

	t.Run("remove unknown node fails", func(t *testing.T) {
		g := domain.NewGraph()
		assert.ErrorIs(t, g.RemoveNode("ghost"), domain.ErrUnknownNode)
	})

	t.Run("remove edge", func(t *testing.T) {
		g := newGraph(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
		require.NoError(t, g.RemoveEdge("a", "b"))
		assert.Equal(t, 0, g.EdgeCount())
		assert.Empty(t, g.Dependencies("a"))
		assert.Empty(t, g.Dependents("b"))

		err := g.RemoveEdge("a", "b")
		require.ErrorIs(t, err, domain.ErrUnknownEdge)
		var edgeErr *domain.EdgeError
		require.True(t, errors.As(err, &edgeErr))
		assert.Equal(t, "a", edgeErr.Source)
		assert.Equal(t, "b", edgeErr.Target)
	})
}

func TestGraph_UpdateNode(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddNode(domain.MustNode("mail", "smtp", map[string]any{"team": "ops"})))

	t.Run("merge keeps existing keys", func(t *testing.T) {
		n, err := g.UpdateNode("mail", nil, map[string]any{"port": 25}, false)
		require.NoError(t, err)
		assert.Equal(t, "ops", n.Attrs["team"])
		assert.Equal(t, 25.0, n.Attrs["port"])
		assert.Equal(t, "smtp", n.OriginalKind())
	})

	t.Run("replace keeps provenance of a custom kind", func(t *testing.T) {
		n, err := g.UpdateNode("mail", nil, map[string]any{"port": 587}, true)
		require.NoError(t, err)
		assert.NotContains(t, n.Attrs, "team")
		assert.Equal(t, "smtp", n.OriginalKind())
	})

	t.Run("switching to a known kind clears provenance", func(t *testing.T) {
		kind := "queue"
		n, err := g.UpdateNode("mail", &kind, nil, false)
		require.NoError(t, err)
		assert.Equal(t, domain.NodeQueue, n.Kind)
		assert.NotContains(t, n.Attrs, domain.AttrOriginalType)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := g.UpdateNode("ghost", nil, nil, false)
		assert.ErrorIs(t, err, domain.ErrUnknownNode)
	})

	t.Run("bad attribute leaves node untouched", func(t *testing.T) {
		_, err := g.UpdateNode("mail", nil, map[string]any{"bad": struct{}{}}, true)
		assert.ErrorIs(t, err, domain.ErrInvalidValue)
		n, _ := g.Node("mail")
		assert.Equal(t, 587.0, n.Attrs["port"])
	})
}

func TestGraph_DependencyDuality(t *testing.T) {
	g := newGraph(t,
		[]string{"web", "api", "auth", "db", "cache", "queue"},
		[][2]string{{"web", "api"}, {"api", "auth"}, {"api", "db"}, {"auth", "db"}, {"api", "cache"}, {"queue", "db"}},
	)

	for _, s := range g.NodeIDs() {
		for _, tgt := range g.Dependencies(s) {
			assert.Contains(t, g.Dependents(tgt), s)
		}
		for _, src := range g.Dependents(s) {
			assert.Contains(t, g.Dependencies(src), s)
		}
	}
	assert.Equal(t, []string{"auth", "cache", "db"}, g.Dependencies("api"))
	assert.Empty(t, g.Dependencies("unknown"))
	assert.Empty(t, g.Dependents("unknown"))
}

func TestGraph_OrderIsInsertionOrder(t *testing.T) {
	g := newGraph(t, []string{"z", "a", "m"}, [][2]string{{"m", "a"}, {"z", "a"}})
	assert.Equal(t, []string{"z", "a", "m"}, g.NodeIDs())

	edges := g.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, "m", edges[0].Source)
	assert.Equal(t, "z", edges[1].Source)

	require.NoError(t, g.RemoveNode("a"))
	require.NoError(t, g.AddNode(domain.MustNode("a", domain.NodeService, nil)))
	assert.Equal(t, []string{"z", "m", "a"}, g.NodeIDs())
}

func TestGraph_DerivedViewNeverStale(t *testing.T) {
	g := newGraph(t, []string{"a", "b"}, nil)
	assert.Equal(t, 2, g.Stats().ConnectedComponents)

	require.NoError(t, g.AddEdge(domain.MustEdge("a", "b", nil)))
	assert.Equal(t, 1, g.Stats().ConnectedComponents)

	require.NoError(t, g.AddNode(domain.MustNode("c", domain.NodeService, nil)))
	assert.Len(t, g.Nodes(), 3)
	assert.Equal(t, 2, g.Stats().ConnectedComponents)

	require.NoError(t, g.RemoveEdge("a", "b"))
	assert.Equal(t, 3, g.Stats().ConnectedComponents)
}

func TestGraph_Clone(t *testing.T) {
	g := newGraph(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	c := g.Clone()
	require.NoError(t, c.RemoveNode("a"))

	assert.True(t, g.HasEdge("a", "b"))
	assert.Equal(t, 1, c.NodeCount())
}

func TestGraph_ConcurrentReadsRebuildOnce(t *testing.T) {
	g := domain.NewGraph()
	for i := 0; i < 50; i++ {
		require.NoError(t, g.AddNode(domain.MustNode(fmt.Sprintf("n%02d", i), domain.NodeService, nil)))
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, g.Nodes(), 50)
			assert.Equal(t, 50, g.Stats().ConnectedComponents)
		}()
	}
	wg.Wait()
}
