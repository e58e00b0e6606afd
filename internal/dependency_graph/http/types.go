package http

import (
	"context"
	"net/http"
	"time"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/realtime"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/service"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/singleflight"
)

// EventLister reads the mutation history.
type EventLister interface {
	List(ctx context.Context, limit int) ([]domain.Event, error)
	ListForNode(ctx context.Context, nodeID string, limit int) ([]domain.Event, error)
}

// StatsCache is a read-through cache for GET /graph/stats.
type StatsCache interface {
	GetStats(ctx context.Context, version uint64) (service.GraphStats, bool, error)
	SetStats(ctx context.Context, st service.GraphStats) error
}

// Handler serves the graph REST, SSE and websocket endpoints.
type Handler struct {
	svc      *service.GraphService
	hub      *realtime.Hub
	events   EventLister
	cache    StatsCache
	title    string
	idlePing time.Duration
	upgrader websocket.Upgrader

	// collapses concurrent stats cache misses
	statsFlight singleflight.Group
}

type Option func(*Handler)

// WithEvents enables GET /graph/events.
func WithEvents(l EventLister) Option { return func(h *Handler) { h.events = l } }

func WithStatsCache(c StatsCache) Option { return func(h *Handler) { h.cache = c } }

// WithTitle sets the DOT graph name used by exports.
func WithTitle(t string) Option { return func(h *Handler) { h.title = t } }

// WithIdlePing sets how long a websocket client may stay silent before it
// is sent a ping message.
func WithIdlePing(d time.Duration) Option { return func(h *Handler) { h.idlePing = d } }

// WithOriginCheck overrides the websocket origin check. By default every
// origin is accepted; CORS is enforced by the router.
func WithOriginCheck(fn func(r *http.Request) bool) Option {
	return func(h *Handler) { h.upgrader.CheckOrigin = fn }
}

func New(svc *service.GraphService, hub *realtime.Hub, opts ...Option) *Handler {
	h := &Handler{
		svc:      svc,
		hub:      hub,
		title:    "dependencies",
		idlePing: realtime.DefaultIdlePing,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

type createNodeRequest struct {
	ID       string         `json:"id" binding:"required"`
	Type     string         `json:"type"`
	Metadata map[string]any `json:"metadata"`
}

type updateNodeRequest struct {
	Type     *string        `json:"type"`
	Metadata map[string]any `json:"metadata"`
	Replace  bool           `json:"replace"`
}

type createEdgeRequest struct {
	Source   string         `json:"source" binding:"required"`
	Target   string         `json:"target" binding:"required"`
	Metadata map[string]any `json:"metadata"`
}
