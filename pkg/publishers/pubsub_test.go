package publishers

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubSubPublisherPublishes(t *testing.T) {
	// Use the in-memory Pub/Sub emulator.
	server := pstest.NewServer()
	defer server.Close()
	t.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx := context.Background()
	admin, err := pubsub.NewClient(ctx, "test-project")
	require.NoError(t, err)
	defer admin.Close()
	_, err = admin.CreateTopic(ctx, "topic-1")
	require.NoError(t, err)

	pub, err := newPubSubPublisher(ctx, PublisherConfig{
		ID:        "ps",
		Type:      TypeGCPPubSub,
		GCPPubSub: &PubSubPublisherConfig{ProjectID: "test-project", Topic: "topic-1"},
	}, nil)
	require.NoError(t, err)
	defer pub.(*pubsubPublisher).Close()

	require.NoError(t, pub.Publish(ctx, testEvent()))

	msgs := server.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "branches/1", msgs[0].Attributes["resource"])
	var evt Event
	require.NoError(t, json.Unmarshal(msgs[0].Data, &evt))
	assert.Equal(t, "x1", evt.Branch.ID)
}
