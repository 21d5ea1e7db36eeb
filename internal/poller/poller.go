package poller

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/branch-sync/internal/domain"
	"github.com/samvad-hq/branch-sync/internal/logger"
	"github.com/samvad-hq/branch-sync/pkg/coroutine"
	"github.com/samvad-hq/branch-sync/pkg/webclient"
)

// Service issues one cooperative request per resource and routes the
// envelopes to a Processor.
type Service struct {
	client    *webclient.Client
	sched     *coroutine.Scheduler
	processor *Processor
	log       logger.Logger
}

// NewService wires a poller with the client and the frame scheduler.
func NewService(client *webclient.Client, sched *coroutine.Scheduler, processor *Processor, log logger.Logger) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	if processor == nil {
		processor = NewProcessor(nil, nil, log)
	}
	return &Service{
		client:    client,
		sched:     sched,
		processor: processor,
		log:       log,
	}
}

// Run starts a poll pass for all resources and returns their handles. The
// envelopes are processed as the scheduler ticks.
func (s *Service) Run(ctx context.Context, resources []string) ([]*coroutine.Handle, error) {
	if s == nil || s.client == nil || s.sched == nil {
		return nil, fmt.Errorf("poller service is not initialized")
	}

	if len(resources) == 0 {
		return nil, fmt.Errorf("no resources configured for polling")
	}

	handles, errs := s.startAll(ctx, resources)
	if len(errs) > 0 {
		return handles, errors.Join(errs...)
	}

	return handles, nil
}

func (s *Service) startAll(ctx context.Context, resources []string) ([]*coroutine.Handle, []error) {
	handles := make([]*coroutine.Handle, 0, len(resources))
	errs := make([]error, 0, len(resources))

	for _, resource := range resources {
		if ctx.Err() != nil {
			break
		}
		h, err := s.start(ctx, resource)
		if err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("resource poll failed to start", "resource_error", map[string]any{
				"resource": resource,
				"error":    err.Error(),
			})
			continue
		}
		handles = append(handles, h)
	}

	return handles, errs
}

func (s *Service) start(ctx context.Context, resource string) (*coroutine.Handle, error) {
	h, err := webclient.GetAsync[domain.BranchParameter](ctx, s.client, s.sched, resource, func(resp webclient.Response[domain.BranchParameter]) {
		if err := s.processor.Handle(ctx, resource, resp); err != nil {
			s.log.ErrorObj("branch processing failed", "processing_error", map[string]any{
				"resource": resource,
				"error":    err.Error(),
			})
		}
	})
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", resource, err)
	}
	return h, nil
}

// Stats returns the processor counters.
func (s *Service) Stats() Stats {
	return s.processor.Stats()
}
