package publishers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: "http"}
	bad := &stubPublisher{id: "bad", typ: "http", err: errors.New("failed")}
	fanout := NewFanout([]Publisher{ok, nil, bad})
	assert.Equal(t, 2, fanout.Size())

	count, err := fanout.Publish(context.Background(), Event{})
	assert.Equal(t, 1, count)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publisher[bad]")

	require.NoError(t, fanout.Close())
	assert.True(t, ok.closed)
	assert.True(t, bad.closed)
}

func TestNilFanoutIsEmpty(t *testing.T) {
	var fanout *Fanout
	count, err := fanout.Publish(context.Background(), Event{})
	assert.Zero(t, count)
	assert.NoError(t, err)
	assert.Zero(t, fanout.Size())
	assert.NoError(t, fanout.Close())
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	require.NoError(t, err)
	assert.Len(t, pubs, 1)

	_, err = BuildAll(context.Background(), reg, []PublisherConfig{{ID: "k", Type: "kafka"}}, nil)
	assert.Error(t, err)
}
