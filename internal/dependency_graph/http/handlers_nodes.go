package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNodes lists nodes, optionally filtered by ?type=.
func (h *Handler) ListNodes(c *gin.Context) {
	nodes := h.svc.Nodes(c.Query("type"))
	c.JSON(http.StatusOK, gin.H{"nodes": nodes, "count": len(nodes)})
}

// GetNode returns a node with its neighbours and blast radius.
func (h *Handler) GetNode(c *gin.Context) {
	d, err := h.svc.NodeDetails(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) CreateNode(c *gin.Context) {
	var req createNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	n, err := h.svc.CreateNode(c.Request.Context(), req.ID, req.Type, req.Metadata)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

// UpdateNode merges metadata unless the body sets "replace": true.
func (h *Handler) UpdateNode(c *gin.Context) {
	var req updateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	n, err := h.svc.UpdateNode(c.Request.Context(), c.Param("id"), req.Type, req.Metadata, req.Replace)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) DeleteNode(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteNode(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "node deleted", "id": id})
}

func (h *Handler) Dependencies(c *gin.Context) {
	id := c.Param("id")
	deps, err := h.svc.Dependencies(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"node_id": id, "dependencies": deps, "count": len(deps)})
}

func (h *Handler) Dependents(c *gin.Context) {
	id := c.Param("id")
	deps, err := h.svc.Dependents(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"node_id": id, "dependents": deps, "count": len(deps)})
}
