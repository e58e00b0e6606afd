package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/repository"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var opt bootstrap.RedisOptions
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow graph mutations published by a running API over Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := bootstrap.OpenRedis(ctx, opt)
			if err != nil {
				return err
			}
			defer client.Close()

			w := cmd.OutOrStdout()
			return repository.NewStatsCache(client, 0).Subscribe(ctx, func(ev domain.Event) {
				fmt.Fprintf(w, "%s %-13s %s\n", ev.At.Format("15:04:05"), ev.Type, describe(ev))
			})
		},
	}
	cmd.Flags().StringVar(&opt.Addr, "redis-addr", envOr("REDIS_ADDR", "localhost:6379"), "redis address")
	cmd.Flags().StringVar(&opt.Password, "redis-password", os.Getenv("REDIS_PASSWORD"), "redis password")
	cmd.Flags().IntVar(&opt.DB, "redis-db", 0, "redis database")
	return cmd
}

func describe(ev domain.Event) string {
	switch {
	case ev.NodeID != "":
		return fmt.Sprintf("%s (nodes=%d edges=%d)", ev.NodeID, ev.NodeCount, ev.EdgeCount)
	case ev.Source != "":
		return fmt.Sprintf("%s -> %s (nodes=%d edges=%d)", ev.Source, ev.Target, ev.NodeCount, ev.EdgeCount)
	default:
		return fmt.Sprintf("nodes=%d edges=%d", ev.NodeCount, ev.EdgeCount)
	}
}
