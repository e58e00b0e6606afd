package http

import "github.com/gin-gonic/gin"

// Register mounts the REST and SSE routes on rg, normally /api.
func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/graph")
	g.GET("", h.GetGraph)
	g.PUT("", h.PutGraph)
	g.GET("/stats", h.GetStats)
	g.GET("/path", h.FindPath)
	g.GET("/impact/:id", h.AnalyzeImpact)
	g.GET("/cycles", h.FindCycles)
	g.GET("/topology", h.Topology)
	g.GET("/validate", h.Validate)
	g.GET("/export", h.Export)
	g.GET("/events", h.ListEvents)
	g.GET("/stream", h.StreamGraph)

	n := rg.Group("/nodes")
	n.GET("", h.ListNodes)
	n.POST("", h.CreateNode)
	n.GET("/:id", h.GetNode)
	n.PUT("/:id", h.UpdateNode)
	n.DELETE("/:id", h.DeleteNode)
	n.GET("/:id/dependencies", h.Dependencies)
	n.GET("/:id/dependents", h.Dependents)

	e := rg.Group("/edges")
	e.POST("", h.CreateEdge)
	e.DELETE("", h.DeleteEdge)
}

// RegisterWS mounts the websocket endpoint. It lives outside /api so rate
// limiting and request metrics stay off long-lived connections.
func (h *Handler) RegisterWS(r gin.IRouter) {
	r.GET("/ws/graph", h.GraphSocket)
}
