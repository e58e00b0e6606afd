package domain

import "time"

type EventType string

const (
	EventNodeCreated EventType = "node_created"
	EventNodeUpdated EventType = "node_updated"
	EventNodeDeleted EventType = "node_deleted"
	EventEdgeCreated EventType = "edge_created"
	EventEdgeDeleted EventType = "edge_deleted"
	EventGraphLoaded EventType = "graph_loaded"
	EventGraphReset  EventType = "graph_reset"
)

// Event records one successful mutation of the served graph.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	NodeID    string    `json:"node_id,omitempty"`
	Source    string    `json:"source,omitempty"`
	Target    string    `json:"target,omitempty"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	Version   uint64    `json:"version,omitempty"`
	At        time.Time `json:"at"`
}
