package service

import (
	"context"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
)

// Notifier is told about every successful mutation together with the graph
// snapshot taken right after it. Notifications are delivered in mutation
// order; a failing notifier is logged and does not affect the others.
type Notifier interface {
	Notify(ctx context.Context, ev domain.Event, snapshot domain.Document) error
}

type NotifierFunc func(ctx context.Context, ev domain.Event, snapshot domain.Document) error

func (f NotifierFunc) Notify(ctx context.Context, ev domain.Event, snapshot domain.Document) error {
	return f(ctx, ev, snapshot)
}
