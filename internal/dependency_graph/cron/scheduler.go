package cronjob

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/service"
	"github.com/robfig/cron/v3"
)

const DefaultSpec = "@every 15s"

type StatsSource interface {
	Stats() service.GraphStats
}

type GaugeSink interface {
	Observe(domain.Stats)
}

type StatsStore interface {
	SetStats(ctx context.Context, st service.GraphStats) error
}

type StatsBroadcaster interface {
	BroadcastStats(st service.GraphStats) error
}

// Scheduler periodically recomputes graph stats and fans them out to the
// gauges, the Redis cache and live clients. Every sink is optional.
type Scheduler struct {
	spec   string
	src    StatsSource
	gauges GaugeSink
	store  StatsStore
	bcast  StatsBroadcaster
	log    *slog.Logger
}

type Option func(*Scheduler)

func WithGauges(g GaugeSink) Option { return func(s *Scheduler) { s.gauges = g } }
func WithStore(st StatsStore) Option { return func(s *Scheduler) { s.store = st } }
func WithBroadcaster(b StatsBroadcaster) Option { return func(s *Scheduler) { s.bcast = b } }
func WithLogger(l *slog.Logger) Option { return func(s *Scheduler) { s.log = l } }

func NewScheduler(spec string, src StatsSource, opts ...Option) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	s := &Scheduler{spec: spec, src: src, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run schedules the stats job and blocks until ctx is done. It returns
// once any in-flight run has finished.
func (s *Scheduler) Run(ctx context.Context) error {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	logger := cronLogger{s.log}
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	if _, err := c.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule stats job %q: %w", s.spec, err)
	}

	s.log.Info("stats scheduler started", "spec", s.spec)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info("stats scheduler stopped")
	return nil
}

// RunOnce computes stats and pushes them to every configured sink.
func (s *Scheduler) RunOnce(ctx context.Context) service.GraphStats {
	st := s.src.Stats()
	if s.gauges != nil {
		s.gauges.Observe(st.Stats)
	}
	if s.store != nil {
		if err := s.store.SetStats(ctx, st); err != nil {
			s.log.Warn("cache stats failed", "error", err)
		}
	}
	if s.bcast != nil {
		if err := s.bcast.BroadcastStats(st); err != nil {
			s.log.Warn("broadcast stats failed", "error", err)
		}
	}
	s.log.Debug("stats refreshed", "nodes", st.NodeCount, "edges", st.EdgeCount, "components", st.ConnectedComponents)
	return st
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct{ l *slog.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
