//go:build integration

package stream_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"coinscious/internal/audit"
	"coinscious/internal/audit/stream"
	id "coinscious/pkg/domain"
	"coinscious/pkg/testutil/containers"
)

func TestPublisherProducesToKafka(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	broker := containers.NewRedpandaContainer(t).Broker
	const topic = "coinscious.audit.events.test"

	publisher, err := stream.New([]string{broker}, topic)
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = publisher.Run(runCtx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	event := audit.Event{
		ID:          uuid.New(),
		Timestamp:   time.Now().UTC(),
		Action:      audit.ActionIssue,
		Actor:       "0x3333333333333333333333333333333333333333",
		Source:      "external",
		Destination: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		Partition:   id.PartitionRegD,
		Amount:      100,
		Allowed:     true,
		Reason:      id.ReasonOK,
	}
	publisher.Publish(context.Background(), event)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	fetchCtx, fetchCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer fetchCancel()

	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, event.Actor.String(), string(records[0].Key))

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, event.Action, got.Action)
	assert.Equal(t, event.Amount, got.Amount)
	assert.True(t, got.Allowed)
}
