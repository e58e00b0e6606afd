package http

import (
	"errors"
	"net/http"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/service"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/logging"
	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownNode), errors.Is(err, domain.ErrUnknownEdge), errors.Is(err, service.ErrNoPath):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateNode):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidValue):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps graph errors onto status codes. Unexpected errors are
// logged and hidden from the client, who gets the request id to quote.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		ctx := c.Request.Context()
		logging.FromContext(ctx).Error("request failed", "path", c.FullPath(), "error", err)
		body := gin.H{"error": "internal server error"}
		if rid := middleware.GetRequestID(ctx); rid != "" {
			body["request_id"] = rid
		}
		c.JSON(status, body)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
