package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateEdge adds source -> target. Re-adding an existing edge returns it
// with 200 instead of 201.
func (h *Handler) CreateEdge(c *gin.Context) {
	var req createEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	e, created, err := h.svc.AddEdge(c.Request.Context(), req.Source, req.Target, req.Metadata)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, e)
}

func (h *Handler) DeleteEdge(c *gin.Context) {
	source, target := c.Query("source"), c.Query("target")
	if source == "" || target == "" {
		badRequest(c, "source and target are required")
		return
	}
	if err := h.svc.DeleteEdge(c.Request.Context(), source, target); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "edge deleted", "source": source, "target": target})
}
