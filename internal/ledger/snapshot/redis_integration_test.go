//go:build integration

package snapshot_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinscious/internal/ledger"
	"coinscious/internal/ledger/snapshot"
	id "coinscious/pkg/domain"
	"coinscious/pkg/testutil/containers"
)

type staticTaker struct {
	calls int
	snap  *ledger.Snapshot
}

func (t *staticTaker) TakeSnapshot(context.Context) (*ledger.Snapshot, error) {
	t.calls++
	return t.snap, nil
}

func TestRedisCacheRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	redis := containers.NewRedisContainer(t)
	cache := snapshot.NewRedisCache(redis.Client)

	taker := &staticTaker{snap: &ledger.Snapshot{
		TakenAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		Partitions: map[id.Partition]ledger.PartitionSnapshot{
			id.PartitionRegS: {
				Supply: 300,
				Balances: map[id.WalletAddress]int64{
					"0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb": 300,
				},
			},
		},
	}}
	svc := snapshot.NewService(taker, cache)
	ctx := context.Background()

	first, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, taker.calls)

	// Served from Redis, not the ledger.
	second, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, taker.calls)
	assert.True(t, first.TakenAt.Equal(second.TakenAt))
	assert.Equal(t, int64(300), second.Partitions[id.PartitionRegS].Supply)

	// Flushing Redis forces a fresh capture.
	require.NoError(t, redis.FlushAll(ctx))
	_, err = svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, taker.calls)
}
