package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestSubmissionPublisherPublishesToRedis(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, "flowcoach:submissions")
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	publisher := NewSubmissionPublisher(client, nil, "flowcoach:submissions", testLogger())
	score := 38.0
	publisher.Publish(ctx, SubmissionEvent{Type: EventJSONEvaluated, SubmissionID: "s-1", UserID: "u-1", Score: &score, CreatedAt: time.Now()})

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var event SubmissionEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	require.Equal(t, EventJSONEvaluated, event.Type)
	require.Equal(t, "s-1", event.SubmissionID)
	require.Equal(t, 38.0, *event.Score)
}

func TestSubmissionPublisherWithoutTransports(t *testing.T) {
	publisher := NewSubmissionPublisher(nil, nil, "flowcoach:submissions", testLogger())
	require.NotPanics(t, func() {
		publisher.Publish(context.Background(), SubmissionEvent{Type: EventWorkflowEvaluated})
	})
}
