package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/service"
	"github.com/redis/go-redis/v9"
)

const (
	statsKey      = "depgraph:stats"  // cached service.GraphStats JSON
	eventsChannel = "depgraph:events" // Pub/Sub channel for mutation events
)

// StatsCache caches the latest stats in Redis and fans mutation events out
// over Pub/Sub so other processes can follow the graph.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) SetStats(ctx context.Context, st service.GraphStats) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	if err := c.client.Set(ctx, statsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache stats: %w", err)
	}
	return nil
}

// GetStats returns the cached stats for graph version. ok is false on a
// miss, which includes an entry computed at any other version: a stats
// write can land after the invalidation of the mutation that outdated it.
func (c *StatsCache) GetStats(ctx context.Context, version uint64) (st service.GraphStats, ok bool, err error) {
	data, err := c.client.Get(ctx, statsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return st, false, nil
	}
	if err != nil {
		return st, false, fmt.Errorf("failed to get cached stats: %w", err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, false, fmt.Errorf("failed to unmarshal cached stats: %w", err)
	}
	if st.Version != version {
		return service.GraphStats{}, false, nil
	}
	return st, true, nil
}

func (c *StatsCache) Publish(ctx context.Context, ev domain.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := c.client.Publish(ctx, eventsChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Notify drops the cached stats, which are stale after any mutation, and
// publishes the event.
func (c *StatsCache) Notify(ctx context.Context, ev domain.Event, _ domain.Document) error {
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate stats: %w", err)
	}
	return c.Publish(ctx, ev)
}

// Subscribe calls fn for every event published on the channel until ctx is
// cancelled. Messages that do not decode are skipped.
func (c *StatsCache) Subscribe(ctx context.Context, fn func(domain.Event)) error {
	sub := c.client.Subscribe(ctx, eventsChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			fn(ev)
		}
	}
}
