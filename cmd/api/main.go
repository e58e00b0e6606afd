package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/config"
	httpapi "github.com/GoSim-25-26J-441/go-depgraph-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/bootstrap"
	cronjob "github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/cron"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	dghttp "github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/http"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/metrics"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/realtime"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/repository"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/sample"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/service"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/watcher"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/logging"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logging.New(cfg.App.LogLevel, cfg.App.LogFormat, os.Stdout).
		With("service", cfg.App.ServiceName, "version", cfg.App.Version)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	bootstrap.SetGinMode(cfg.App.Environment)

	hub := realtime.NewHub(32, log)
	m := metrics.New()
	m.TrackGauge("graph_ws_clients", "Connected realtime clients", func() float64 { return float64(hub.Count()) })

	svc := service.New(nil,
		service.WithLogger(log),
		service.WithCriticalTop(cfg.Graph.CriticalTop),
		service.WithNotifier(hub),
	)

	health := httpapi.NewHealthHandler(cfg.App.ServiceName, cfg.App.Version, svc)
	handlerOpts := []dghttp.Option{dghttp.WithTitle(cfg.App.ServiceName)}
	schedOpts := []cronjob.Option{
		cronjob.WithLogger(log),
		cronjob.WithGauges(m),
		cronjob.WithBroadcaster(hub),
	}

	if cfg.Redis.Enabled {
		client, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer client.Close()

		cache := repository.NewStatsCache(client, cfg.Graph.StatsCacheTTL)
		svc.AddNotifier(cache)
		handlerOpts = append(handlerOpts, dghttp.WithStatsCache(cache))
		schedOpts = append(schedOpts, cronjob.WithStore(cache))
		health.AddCheck("redis", func(ctx context.Context) error { return client.Ping(ctx).Err() })
		log.Info("redis enabled", "addr", cfg.Redis.Addr)
	}

	if cfg.Database.Enabled {
		db, err := bootstrap.OpenDB(ctx, &cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		events := repository.NewEventRepository(db)
		svc.AddNotifier(events)
		handlerOpts = append(handlerOpts, dghttp.WithEvents(events))
		health.AddCheck("postgres", db.PingContext)
		log.Info("event history enabled", "db", cfg.Database.Name)
	}

	var w *watcher.Watcher
	if cfg.Graph.SourceFile != "" {
		w = watcher.New(cfg.Graph.SourceFile, svc, 0, log)
		if err := w.Load(ctx); err != nil {
			return err
		}
	} else if cfg.Graph.SeedSample {
		g, err := sample.Graph()
		if err != nil {
			return fmt.Errorf("seed sample graph: %w", err)
		}
		svc.Replace(ctx, g)
	}
	nodes, edges := svc.Counts()
	log.Info("graph initialised", "nodes", nodes, "edges", edges)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Logger:         log,
		CORSOrigins:    cfg.Server.CORSOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Health:         health,
		Graph:          dghttp.New(svc, hub, handlerOpts...),
		Metrics:        m,
		Stats:          func() domain.Stats { return svc.Stats().Stats },
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "grace", cfg.Server.ShutdownGrace)
		// websocket and SSE clients end once the hub drops them
		hub.Close()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	g.Go(func() error {
		return cronjob.NewScheduler(cfg.Graph.StatsInterval, svc, schedOpts...).Run(gctx)
	})
	if w != nil && cfg.Graph.WatchSource {
		g.Go(func() error { return w.Run(gctx) })
	}

	return g.Wait()
}
