package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/samvad-hq/branch-sync/internal/domain"
	"github.com/samvad-hq/branch-sync/internal/logger"
	"github.com/samvad-hq/branch-sync/pkg/publishers"
	"github.com/samvad-hq/branch-sync/pkg/webclient"
)

// Stats counts envelope outcomes seen by a Processor.
type Stats struct {
	Delivered uint64
	Failed    uint64
	Empty     uint64
}

// Processor consumes delivered envelopes: it snapshots decoded branches and
// forwards them to the publishers.
type Processor struct {
	store     SnapshotStore
	publisher EventPublisher
	log       logger.Logger

	delivered atomic.Uint64
	failed    atomic.Uint64
	empty     atomic.Uint64
}

// NewProcessor wires a processor; store and publisher may be nil.
func NewProcessor(store SnapshotStore, publisher EventPublisher, log logger.Logger) *Processor {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Processor{store: store, publisher: publisher, log: log}
}

// Handle processes the envelope delivered for resource.
func (p *Processor) Handle(ctx context.Context, resource string, resp webclient.Response[domain.BranchParameter]) error {
	if !resp.IsSuccess() {
		p.failed.Add(1)
		p.log.WarnObj("branch request failed", "branch_failure", map[string]any{
			"resource":    resource,
			"status_code": resp.StatusCode(),
			"message":     resp.ErrorMessage(),
		})
		return nil
	}

	branch, ok := resp.Payload()
	if !ok {
		// 2xx with an unparseable body; the parse error was logged by the serializer.
		p.empty.Add(1)
		p.log.WarnObj("branch response had no payload", "branch_empty", map[string]any{
			"resource":    resource,
			"status_code": resp.StatusCode(),
		})
		return nil
	}
	p.delivered.Add(1)

	var errs []error
	if p.store != nil {
		raw, err := json.Marshal(branch)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode snapshot %s: %w", resource, err))
		} else if err := p.store.Put(resource, raw); err != nil {
			errs = append(errs, fmt.Errorf("store snapshot %s: %w", resource, err))
		}
	}

	if p.publisher != nil {
		evt := publishers.NewEvent(resource, resp.StatusCode(), branch)
		if _, err := p.publisher.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", resource, err))
		}
	}

	p.log.InfoObj("branch delivered", "branch_result", map[string]any{
		"resource":  resource,
		"branch_id": branch.ID,
		"number":    branch.Number,
	})
	return errors.Join(errs...)
}

// Stats returns a snapshot of the counters.
func (p *Processor) Stats() Stats {
	return Stats{
		Delivered: p.delivered.Load(),
		Failed:    p.failed.Load(),
		Empty:     p.empty.Load(),
	}
}
