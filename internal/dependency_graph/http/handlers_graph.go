package http

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/graph/export"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/ingest/parser"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/logging"
	"github.com/gin-gonic/gin"
)

const maxDocumentBytes = 8 << 20

// GetGraph returns every node and edge plus topology stats.
func (h *Handler) GetGraph(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.GraphData())
}

// PutGraph replaces the graph with a YAML or JSON document. The format
// follows ?format= when given, otherwise the Content-Type.
func (h *Handler) PutGraph(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDocumentBytes+1))
	if err != nil {
		badRequest(c, "failed to read request body")
		return
	}
	if len(body) > maxDocumentBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "document too large"})
		return
	}

	format := c.Query("format")
	if format == "" {
		format = c.ContentType()
	}
	doc, err := parser.ParseBytes(body, format)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.svc.LoadDocument(c.Request.Context(), doc); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.Stats())
}

// GetStats serves stats from the cache when one is configured.
func (h *Handler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()
	log := logging.FromContext(ctx)
	version := h.svc.Version()
	if h.cache != nil {
		st, ok, err := h.cache.GetStats(ctx, version)
		if err != nil {
			log.Warn("stats cache read failed", "error", err)
		} else if ok {
			c.JSON(http.StatusOK, st)
			return
		}
	}

	v, _, _ := h.statsFlight.Do(strconv.FormatUint(version, 10), func() (any, error) {
		st := h.svc.Stats()
		if h.cache != nil {
			if err := h.cache.SetStats(ctx, st); err != nil {
				log.Warn("stats cache write failed", "error", err)
			}
		}
		return st, nil
	})
	c.JSON(http.StatusOK, v)
}

func (h *Handler) FindPath(c *gin.Context) {
	source, target := c.Query("source"), c.Query("target")
	if source == "" || target == "" {
		badRequest(c, "source and target are required")
		return
	}
	res, err := h.svc.FindPath(source, target)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) AnalyzeImpact(c *gin.Context) {
	var depth *int
	if raw := c.Query("max_depth"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "max_depth must be an integer")
			return
		}
		depth = &d
	}
	res, err := h.svc.AnalyzeImpact(c.Param("id"), depth)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) FindCycles(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.FindCycles())
}

func (h *Handler) Topology(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Topology())
}

func (h *Handler) Validate(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Validate())
}

// Export renders the graph as json, yaml or dot. ?download=true adds an
// attachment disposition.
func (h *Handler) Export(c *gin.Context) {
	f, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		writeError(c, err)
		return
	}
	title := c.DefaultQuery("title", h.title)
	out, err := export.Render(h.svc.GraphData(), f, title)
	if err != nil {
		writeError(c, err)
		return
	}
	if dl, _ := strconv.ParseBool(c.Query("download")); dl {
		c.Header("Content-Disposition", `attachment; filename="graph.`+string(f)+`"`)
	}
	c.Data(http.StatusOK, f.ContentType(), out)
}

// ListEvents returns the mutation history, newest first.
func (h *Handler) ListEvents(c *gin.Context) {
	if h.events == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event history is disabled"})
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	ctx := c.Request.Context()
	var (
		events []domain.Event
		err    error
	)
	if node := strings.TrimSpace(c.Query("node_id")); node != "" {
		events, err = h.events.ListForNode(ctx, node, limit)
	} else {
		events, err = h.events.List(ctx, limit)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}
