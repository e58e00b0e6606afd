package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestObserve(t *testing.T) {
	m := New()
	m.Observe(domain.Stats{NodeCount: 4, EdgeCount: 3, ConnectedComponents: 2})

	assert.Equal(t, 4.0, testutil.ToFloat64(m.nodes))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.edges))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.components))
}

func TestMiddlewareCountsByRouteTemplate(t *testing.T) {
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/nodes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, p := range []string{"/api/nodes/a", "/api/nodes/b", "/nope"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/nodes/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration, "graph_api_request_duration_seconds"))
}

func TestRefreshOnScrape(t *testing.T) {
	m := New()
	m.TrackGauge("graph_ws_clients", "Connected realtime clients", func() float64 { return 7 })

	r := gin.New()
	r.GET("/api/metrics", m.RefreshOnScrape(func() domain.Stats {
		return domain.Stats{NodeCount: 9, EdgeCount: 1, ConnectedComponents: 8}
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, "graph_nodes_total 9"))
	assert.True(t, strings.Contains(body, "graph_components_total 8"))
	assert.True(t, strings.Contains(body, "graph_ws_clients 7"))
}
