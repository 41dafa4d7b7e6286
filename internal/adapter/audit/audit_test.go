package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MikeRez0/tgshop/internal/core/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func entry(i int) domain.AuditEntry {
	return domain.AuditEntry{
		ID:         fmt.Sprintf("e%d", i),
		ReceivedAt: time.Date(2024, 1, 1, 0, 0, i, 0, time.UTC),
		Outcome:    domain.WebhookApplied,
		OrderID:    fmt.Sprintf("order-%d", i),
		Payload:    json.RawMessage(`{"event":"payment.succeeded"}`),
	}
}

func ids(entries []domain.AuditEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestRing(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		appended int
		want     []string
	}{
		{name: "empty", capacity: 3, appended: 0, want: []string{}},
		{name: "partial", capacity: 3, appended: 2, want: []string{"e0", "e1"}},
		{name: "exactly full", capacity: 3, appended: 3, want: []string{"e0", "e1", "e2"}},
		{name: "evicts oldest", capacity: 3, appended: 5, want: []string{"e2", "e3", "e4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			r := NewRing(tt.capacity)
			for i := 0; i < tt.appended; i++ {
				require.NoError(t, r.Append(ctx, entry(i)))
			}

			got, err := r.Entries(ctx)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestRing_Concurrent(t *testing.T) {
	ctx := context.Background()
	r := NewRing(10)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Append(ctx, entry(i))
		}(i)
	}
	wg.Wait()

	got, err := r.Entries(ctx)
	assert.NoError(t, err)
	assert.Len(t, got, 10)
}

func TestRing_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRing(2)
	assert.Error(t, r.Append(ctx, entry(0)))
	_, err := r.Entries(ctx)
	assert.Error(t, err)
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestRedisLog(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	log := newRedisLog(client, "test:webhooks", 3, zap.NewNop())

	for i := 0; i < 5; i++ {
		require.NoError(t, log.Append(ctx, entry(i)))
	}

	got, err := log.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"e2", "e3", "e4"}, ids(got))
	assert.Equal(t, "order-4", got[2].OrderID)
	assert.JSONEq(t, `{"event":"payment.succeeded"}`, string(got[2].Payload))

	stored, err := mr.List("test:webhooks")
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestRedisLog_SkipsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	log := newRedisLog(client, "test:webhooks", 10, zap.NewNop())

	require.NoError(t, log.Append(ctx, entry(0)))
	_, err := mr.RPush("test:webhooks", "not json")
	require.NoError(t, err)
	require.NoError(t, log.Append(ctx, entry(1)))

	got, err := log.Entries(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"e0", "e1"}, ids(got))
}

func TestNewRedisLog(t *testing.T) {
	ctx := context.Background()
	mr, _ := setupRedis(t)

	log, err := NewRedisLog(ctx, "redis://"+mr.Addr(), "test:webhooks", 5, zap.NewNop())
	require.NoError(t, err)
	defer log.Close()

	assert.NoError(t, log.Append(ctx, entry(0)))

	_, err = NewRedisLog(ctx, "://bad", "k", 5, zap.NewNop())
	assert.Error(t, err)
}
