package poller

import (
	"context"

	"github.com/samvad-hq/branch-sync/pkg/publishers"
)

// SnapshotStore keeps the latest payload per resource.
type SnapshotStore interface {
	Put(resource string, payload []byte) error
}

// EventPublisher publishes delivered branches downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}
