package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinscious/internal/audit"
	"coinscious/internal/audit/store"
	id "coinscious/pkg/domain"
)

// Shared across tests: NewMetrics registers on the default Prometheus
// registry, which panics on duplicate registration.
var testMetrics = audit.NewMetrics()

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error {
	return errors.New("disk full")
}

type recordingMirror struct {
	events []audit.Event
}

func (m *recordingMirror) Publish(_ context.Context, event audit.Event) {
	m.events = append(m.events, event)
}

func TestEmitPersistsAndMirrors(t *testing.T) {
	st := store.NewInMemoryStore()
	mirror := &recordingMirror{}
	p := audit.NewPublisher(st, audit.WithMirror(mirror), audit.WithMetrics(testMetrics))

	event := audit.Event{
		Action:    audit.ActionIssue,
		Partition: id.PartitionRegD,
		Amount:    100,
		Allowed:   true,
		Reason:    id.ReasonOK,
	}
	require.NoError(t, p.Emit(context.Background(), event))

	stored, err := st.List(context.Background(), store.Filter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.NotEqual(t, uuid.Nil, stored[0].ID)
	assert.False(t, stored[0].Timestamp.IsZero())

	// The mirror sees the persisted event, IDs included.
	require.Len(t, mirror.events, 1)
	assert.Equal(t, stored[0].ID, mirror.events[0].ID)
}

func TestEmitKeepsCallerAssignedIdentity(t *testing.T) {
	st := store.NewInMemoryStore()
	p := audit.NewPublisher(st)

	eventID := uuid.New()
	ts := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, p.Emit(context.Background(), audit.Event{
		ID:        eventID,
		Timestamp: ts,
		Action:    audit.ActionTransfer,
	}))

	stored, err := st.List(context.Background(), store.Filter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, eventID, stored[0].ID)
	assert.Equal(t, ts, stored[0].Timestamp)
}

// Emit is fail-closed: a store failure propagates so the caller aborts.
func TestEmitFailsClosed(t *testing.T) {
	p := audit.NewPublisher(failingStore{}, audit.WithMetrics(testMetrics))
	err := p.Emit(context.Background(), audit.Event{Action: audit.ActionIssue})
	require.Error(t, err)
}

func TestListFiltering(t *testing.T) {
	st := store.NewInMemoryStore()
	p := audit.NewPublisher(st)
	ctx := context.Background()

	alice := id.WalletAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	bob := id.WalletAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	require.NoError(t, p.Emit(ctx, audit.Event{Action: audit.ActionIssue, Destination: alice}))
	require.NoError(t, p.Emit(ctx, audit.Event{Action: audit.ActionTransfer, Source: alice.String(), Destination: bob}))
	require.NoError(t, p.Emit(ctx, audit.Event{Action: audit.ActionRedeem, Source: bob.String()}))

	got, err := st.List(ctx, store.Filter{Wallet: alice})
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest first.
	assert.Equal(t, audit.ActionTransfer, got[0].Action)
	assert.Equal(t, audit.ActionIssue, got[1].Action)

	got, err = st.List(ctx, store.Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, audit.ActionRedeem, got[0].Action)
}
