package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/realtime"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/logging"
	"github.com/gin-gonic/gin"
)

const keepAliveInterval = 15 * time.Second

// StreamGraph pushes graph updates as Server-Sent Events. The first event
// is "initial" with the full graph; later events mirror the websocket
// message types.
func (h *Handler) StreamGraph(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	initial, err := realtime.Encode(realtime.Message{Type: realtime.MessageInitial, Data: h.svc.GraphData()})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode graph"})
		return
	}
	c.Status(http.StatusOK)
	writeSSE(c, initial)
	flusher.Flush()

	ctx := c.Request.Context()
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()
		case f, ok := <-sub.C():
			if !ok {
				return
			}
			writeSSE(c, f)
			flusher.Flush()
		}
	}
}

func writeSSE(c *gin.Context, f realtime.Frame) {
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", f.Type, f.Data)
}

// GraphSocket upgrades to a websocket and streams graph messages.
func (h *Handler) GraphSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the error response
		return
	}
	log := logging.FromContext(c.Request.Context())
	if err := h.hub.Serve(c.Request.Context(), conn, h.svc.GraphData, h.idlePing); err != nil {
		log.Warn("websocket closed with error", "error", err)
	}
}
