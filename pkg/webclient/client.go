// Package webclient issues typed GET requests against a fixed base URL and
// hands the outcome to a callback as a Response envelope.
package webclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/samvad-hq/branch-sync/pkg/coroutine"
	"github.com/samvad-hq/branch-sync/pkg/httpclient"
	"github.com/samvad-hq/branch-sync/pkg/serialization"
)

const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	bearerPrefix        = "Bearer "
)

// ErrInvalidBaseURL is returned by New when the base URL is not an absolute URI.
var ErrInvalidBaseURL = errors.New("webclient: base url must be an absolute URI")

// Client performs GET requests relative to a base URL.
type Client struct {
	baseURL    string
	serializer serialization.Option
	transport  httpclient.Client
	log        Logger
	token      string
	hasToken   bool
	timeout    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBearerToken sends "Authorization: Bearer <token>" on every request.
func WithBearerToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
		c.hasToken = true
	}
}

// WithTransport replaces the default resty transport.
func WithTransport(t httpclient.Client) ClientOption {
	return func(c *Client) { c.transport = t }
}

// WithLogger sets the diagnostics sink.
func WithLogger(log Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// WithTimeout bounds each request of the default transport. It has no effect
// together with WithTransport.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// New builds a client. baseURL must be absolute; resources passed to Get are
// appended to it verbatim.
func New(baseURL string, opt serialization.Option, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	if opt == nil {
		return nil, errors.New("webclient: serialization option is required")
	}

	c := &Client{
		baseURL:    strings.TrimSpace(baseURL),
		serializer: opt,
	}
	for _, o := range opts {
		o(c)
	}
	c.log = ensureLogger(c.log)
	if c.transport == nil {
		c.transport = httpclient.NewRestyClient(c.timeout)
	}
	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// URL returns the request URL for resource. No encoding is applied.
func (c *Client) URL(resource string) string { return c.baseURL + resource }

// Headers returns the headers attached to every request.
func (c *Client) Headers() map[string]string {
	headers := map[string]string{
		HeaderContentType: c.serializer.ContentType(),
	}
	if c.hasToken {
		headers[HeaderAuthorization] = bearerPrefix + c.token
	}
	return headers
}

// Get requests resource and delivers the envelope to cb before returning.
// cb may be nil.
func Get[T any](ctx context.Context, c *Client, resource string, cb HandleResponse[T]) {
	resp := complete[T](c, resource, c.send(ctx, resource))
	if cb != nil {
		cb(resp)
	}
}

// GetAsync requests resource without blocking the caller. The envelope is
// built and cb invoked during a later sched.Tick. The returned handle ends
// Succeeded or Failed according to the transport status.
func GetAsync[T any](ctx context.Context, c *Client, sched *coroutine.Scheduler, resource string, cb HandleResponse[T]) (*coroutine.Handle, error) {
	return coroutine.Await(ctx, sched,
		func(ctx context.Context) exchange {
			return c.send(ctx, resource)
		},
		func(ex exchange) bool {
			resp := complete[T](c, resource, ex)
			if cb != nil {
				cb(resp)
			}
			return resp.IsSuccess()
		},
	)
}

// exchange is what the transport produced for one request.
type exchange struct {
	uri  string
	resp httpclient.Response
	err  error
}

func (c *Client) send(ctx context.Context, resource string) exchange {
	if ctx == nil {
		ctx = context.Background()
	}
	uri := c.URL(resource)
	resp, err := c.transport.Get(ctx, uri, c.Headers())
	return exchange{uri: uri, resp: resp, err: err}
}

func complete[T any](c *Client, resource string, ex exchange) Response[T] {
	var (
		status  int
		message string
		body    []byte
		ok      bool
	)
	switch {
	case ex.err != nil:
		message = ex.err.Error()
	case ex.resp == nil:
		message = "no response"
	default:
		status = ex.resp.StatusCode()
		message = ex.resp.Message()
		body = ex.resp.Body()
		ok = ex.resp.IsSuccess()
	}

	if !ok {
		fields := map[string]any{
			"uri":         ex.uri,
			"resource":    resource,
			"status_code": status,
			"message":     message,
			"data":        string(body),
		}
		if title := htmlPageTitle(body); title != "" {
			fields["page_title"] = title
		}
		c.log.ErrorObj("request failed", "request_error", fields)

		var zero T
		return newResponse(zero, false, false, status, message)
	}

	text := string(body)
	c.log.InfoObj("response received", "response", map[string]any{
		"uri":         ex.uri,
		"resource":    resource,
		"status_code": status,
		"data":        text,
	})
	dto, decoded := serialization.Deserialize[T](c.serializer, text)
	return newResponse(dto, decoded, true, status, message)
}
