package coroutine

import (
	"sync"
	"sync/atomic"
)

// State is the lifecycle position of one awaited call.
type State int32

const (
	StateIdle State = iota
	StateSent
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSent:
		return "sent"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Handle tracks a call started with Await.
type Handle struct {
	state atomic.Int32
	once  sync.Once
	done  chan struct{}
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// State returns the current lifecycle state.
func (h *Handle) State() State {
	return State(h.state.Load())
}

// Done is closed once the continuation has run or been discarded.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (h *Handle) setState(s State) {
	h.state.Store(int32(s))
}

// finish moves the handle to a terminal state. Only the first call counts.
func (h *Handle) finish(ok bool) {
	h.once.Do(func() {
		if ok {
			h.setState(StateSucceeded)
		} else {
			h.setState(StateFailed)
		}
		close(h.done)
	})
}
