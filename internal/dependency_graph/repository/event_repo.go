package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/google/uuid"
)

const defaultListLimit = 50

// EventRepository keeps the mutation history in PostgreSQL. It is an audit
// trail only and is never replayed into the graph.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Insert stores one event with the stats computed right after it.
func (r *EventRepository) Insert(ctx context.Context, ev *domain.Event, stats domain.Stats) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	query := `
		INSERT INTO graph_events (
			id, event_type, node_id, source_id, target_id,
			node_count, edge_count, stats, occurred_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.ExecContext(ctx, query,
		ev.ID,
		string(ev.Type),
		nullString(ev.NodeID),
		nullString(ev.Source),
		nullString(ev.Target),
		ev.NodeCount,
		ev.EdgeCount,
		statsJSON,
		ev.At,
	)
	if err != nil {
		return fmt.Errorf("failed to insert graph event: %w", err)
	}
	return nil
}

// Notify lets the repository receive service mutations directly.
func (r *EventRepository) Notify(ctx context.Context, ev domain.Event, snapshot domain.Document) error {
	return r.Insert(ctx, &ev, snapshot.Stats)
}

// List returns the most recent events, newest first.
func (r *EventRepository) List(ctx context.Context, limit int) ([]domain.Event, error) {
	query := `
		SELECT id, event_type, node_id, source_id, target_id, node_count, edge_count, occurred_at
		FROM graph_events
		ORDER BY occurred_at DESC
		LIMIT $1
	`
	return r.query(ctx, query, clampLimit(limit))
}

// ListForNode returns recent events that touched nodeID, as the node itself
// or as an edge endpoint.
func (r *EventRepository) ListForNode(ctx context.Context, nodeID string, limit int) ([]domain.Event, error) {
	query := `
		SELECT id, event_type, node_id, source_id, target_id, node_count, edge_count, occurred_at
		FROM graph_events
		WHERE node_id = $1 OR source_id = $1 OR target_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`
	return r.query(ctx, query, nodeID, clampLimit(limit))
}

func (r *EventRepository) query(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query graph events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		var (
			ev                     domain.Event
			evType                 string
			nodeID, source, target sql.NullString
		)
		if err := rows.Scan(&ev.ID, &evType, &nodeID, &source, &target, &ev.NodeCount, &ev.EdgeCount, &ev.At); err != nil {
			return nil, fmt.Errorf("failed to scan graph event: %w", err)
		}
		ev.Type = domain.EventType(evType)
		ev.NodeID = nodeID.String
		ev.Source = source.String
		ev.Target = target.String
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate graph events: %w", err)
	}
	return events, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > 500 {
		return 500
	}
	return limit
}
