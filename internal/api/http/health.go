package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Graph     *GraphHealth      `json:"graph,omitempty"`
	Deps      map[string]string `json:"dependencies,omitempty"`
}

type GraphHealth struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// GraphCounter reports the size of the served graph.
type GraphCounter interface {
	Counts() (nodes, edges int)
}

// Check pings one backing dependency.
type Check func(ctx context.Context) error

type HealthHandler struct {
	serviceName string
	version     string
	graph       GraphCounter
	checks      map[string]Check
}

func NewHealthHandler(serviceName, version string, graph GraphCounter) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		graph:       graph,
		checks:      map[string]Check{},
	}
}

// AddCheck registers a dependency reported as "up" or "down". A down
// dependency degrades the status but the endpoint still answers 200 since
// the graph keeps serving from memory.
func (h *HealthHandler) AddCheck(name string, c Check) {
	h.checks[name] = c
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
	}
	if h.graph != nil {
		n, e := h.graph.Counts()
		resp.Graph = &GraphHealth{Nodes: n, Edges: e}
	}

	if len(h.checks) > 0 {
		resp.Deps = make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
			if err := check(pingCtx); err != nil {
				resp.Deps[name] = "down"
				resp.Status = "degraded"
			} else {
				resp.Deps[name] = "up"
			}
			cancel()
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Root describes the service and its main entry points.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": h.serviceName,
		"version": h.version,
		"endpoints": gin.H{
			"graph":     "/api/graph",
			"nodes":     "/api/nodes",
			"edges":     "/api/edges",
			"metrics":   "/api/metrics",
			"websocket": "/ws/graph",
			"health":    "/health",
		},
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
