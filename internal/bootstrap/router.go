package bootstrap

import (
	"log/slog"
	"slices"
	"time"

	httpapi "github.com/GoSim-25-26J-441/go-depgraph-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	dghttp "github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/http"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Logger         *slog.Logger
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int

	Health  *httpapi.HealthHandler
	Graph   *dghttp.Handler
	Metrics *metrics.Metrics
	// Stats is evaluated on every metrics scrape
	Stats func() domain.Stats
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))
	r.Use(middleware.RequestIDMiddleware(dep.Logger))
	if dep.Metrics != nil {
		r.Use(dep.Metrics.Middleware())
	}

	if dep.Health != nil {
		dep.Health.RegisterRoutes(r)
	}
	dep.Graph.RegisterWS(r)

	api := r.Group("/api")
	if dep.Metrics != nil {
		api.GET("/metrics", dep.Metrics.RefreshOnScrape(dep.Stats))
	}

	limited := api.Group("")
	limited.Use(middleware.RateLimitMiddleware(dep.RateLimitRPS, dep.RateLimitBurst))
	dep.Graph.Register(limited)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
