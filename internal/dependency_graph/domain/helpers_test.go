package domain_test

import (
	"testing"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/stretchr/testify/require"
)

// newGraph builds a graph from service-kind node ids and "a>b" style pairs.
func newGraph(t *testing.T, ids []string, edges [][2]string) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	for _, id := range ids {
		require.NoError(t, g.AddNode(domain.MustNode(id, domain.NodeService, nil)))
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(domain.MustEdge(e[0], e[1], nil)))
	}
	return g
}
