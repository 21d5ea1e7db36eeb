package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvad-hq/branch-sync/internal/domain"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-123")}, nil
}

func testEvent() Event {
	return NewEvent("branches/1", 200, domain.BranchParameter{ID: "x1"})
}

func TestSQSPublisherSendsEvent(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "q", queueURL: "https://example.com/queue", client: client, log: noopLogger{}}

	require.NoError(t, pub.Publish(context.Background(), testEvent()))
	require.NotNil(t, client.input)
	assert.Equal(t, "https://example.com/queue", aws.ToString(client.input.QueueUrl))

	attr, ok := client.input.MessageAttributes["resource"]
	require.True(t, ok)
	assert.Equal(t, "branches/1", aws.ToString(attr.StringValue))
	assert.Equal(t, "String", aws.ToString(attr.DataType))
	assert.True(t, strings.Contains(aws.ToString(client.input.MessageBody), `"resource":"branches/1"`))
}

func TestSQSPublisherSendError(t *testing.T) {
	pub := &sqsPublisher{id: "q", client: &fakeSQSClient{err: errors.New("boom")}, log: noopLogger{}}
	assert.Error(t, pub.Publish(context.Background(), testEvent()))
}

func TestSNSPublisherSendsEvent(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{id: "t", topicARN: "arn:aws:sns:::topic", client: client, log: noopLogger{}}

	require.NoError(t, pub.Publish(context.Background(), testEvent()))
	require.NotNil(t, client.input)
	assert.Equal(t, "arn:aws:sns:::topic", aws.ToString(client.input.TopicArn))
	assert.Contains(t, aws.ToString(client.input.Message), `"_id":"x1"`)
	assert.Equal(t, "branches/1", aws.ToString(client.input.MessageAttributes["resource"].StringValue))
}

func TestSNSPublisherSendError(t *testing.T) {
	pub := &snsPublisher{id: "t", client: &fakeSNSClient{err: errors.New("boom")}, log: noopLogger{}}
	assert.Error(t, pub.Publish(context.Background(), testEvent()))
}

func TestNewSQSPublisherWithStaticCredentials(t *testing.T) {
	pub, err := newSQSPublisher(context.Background(), PublisherConfig{
		ID:   "q",
		Type: TypeSQS,
		SQS: &SQSPublisherConfig{
			QueueURL:    "https://example.com/queue",
			Region:      "us-east-1",
			Credentials: &AWSCredentials{AccessKeyID: "AKID", SecretAccessKey: "secret"},
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, TypeSQS, pub.Type())
}
