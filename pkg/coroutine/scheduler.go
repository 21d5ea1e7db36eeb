// Package coroutine provides a frame-driven scheduler for cooperative calls.
//
// Blocking work started with Await runs on its own goroutine. Its continuation
// is queued and executed on whichever goroutine calls Tick, so a host loop that
// ticks once per frame observes every completion on its own thread.
package coroutine

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSchedulerClosed is returned by Await once Close has been called.
var ErrSchedulerClosed = errors.New("coroutine: scheduler closed")

// Scheduler queues continuations until the host calls Tick.
type Scheduler struct {
	mu       sync.Mutex
	queue    []continuation
	closed   bool
	inflight sync.WaitGroup
}

type continuation struct {
	handle *Handle
	run    func() bool
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Await starts work on a new goroutine and returns immediately. When work
// returns, resume is queued and runs during a later Tick; its result decides
// whether the handle ends Succeeded or Failed.
//
// If the scheduler is closed before the continuation runs, resume is never
// called and the handle ends Failed.
func Await[R any](ctx context.Context, s *Scheduler, work func(context.Context) R, resume func(R) bool) (*Handle, error) {
	if s == nil {
		return nil, errors.New("coroutine: nil scheduler")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSchedulerClosed
	}
	s.inflight.Add(1)
	s.mu.Unlock()

	h := newHandle()
	h.setState(StateSent)

	go func() {
		defer s.inflight.Done()
		result := work(ctx)
		queued := s.enqueue(continuation{
			handle: h,
			run:    func() bool { return resume(result) },
		})
		if !queued {
			h.finish(false)
		}
	}()

	return h, nil
}

func (s *Scheduler) enqueue(c continuation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.queue = append(s.queue, c)
	return true
}

// Tick runs every continuation queued before the call and returns how many ran.
// Continuations queued while Tick is running wait for the next Tick.
func (s *Scheduler) Tick() int {
	s.mu.Lock()
	batch := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, c := range batch {
		c.handle.finish(c.run())
	}
	return len(batch)
}

// Pending returns the number of continuations waiting for a Tick.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Drive calls Tick every interval until ctx is cancelled.
func (s *Scheduler) Drive(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("coroutine: drive interval must be positive")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Close rejects new work and discards queued continuations. It waits for
// in-flight work to return; cancel its context first to bound the wait.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	dropped := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, c := range dropped {
		c.handle.finish(false)
	}
	s.inflight.Wait()
}
