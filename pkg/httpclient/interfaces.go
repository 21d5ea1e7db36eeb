package httpclient

import "context"

// Response is the transport-level view of a completed HTTP exchange.
type Response interface {
	Body() []byte
	StatusCode() int
	// Message is the reason phrase of the status line, e.g. "Not Found".
	Message() string
	// IsSuccess reports a 2xx status.
	IsSuccess() bool
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// A non-nil error means no response was received at all.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
