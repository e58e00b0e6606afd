package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests and multiple servers in one
// process never collide on the default one.
type Metrics struct {
	reg *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	nodes      prometheus.Gauge
	edges      prometheus.Gauge
	components prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graph_api_requests_total",
			Help: "Total API requests",
		}, []string{"method", "endpoint", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "graph_api_request_duration_seconds",
			Help:    "API request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "graph_nodes_total",
			Help: "Total number of nodes in graph",
		}),
		edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "graph_edges_total",
			Help: "Total number of edges in graph",
		}),
		components: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "graph_components_total",
			Help: "Number of connected components",
		}),
	}
	m.reg.MustRegister(m.requests, m.duration, m.nodes, m.edges, m.components,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Observe updates the graph gauges.
func (m *Metrics) Observe(st domain.Stats) {
	m.nodes.Set(float64(st.NodeCount))
	m.edges.Set(float64(st.EdgeCount))
	m.components.Set(float64(st.ConnectedComponents))
}

// TrackGauge registers a gauge whose value is read from fn at scrape time.
func (m *Metrics) TrackGauge(name, help string, fn func() float64) {
	m.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, fn))
}

// Middleware records request count and latency per route template.
// Unmatched routes are grouped under "unmatched" to keep label cardinality
// bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// RefreshOnScrape wraps Handler so stats are recomputed before each scrape.
func (m *Metrics) RefreshOnScrape(stats func() domain.Stats) gin.HandlerFunc {
	h := m.Handler()
	return func(c *gin.Context) {
		if stats != nil {
			m.Observe(stats())
		}
		h.ServeHTTP(c.Writer, c.Request)
	}
}
