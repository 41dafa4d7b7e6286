package memory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MikeRez0/tgshop/internal/adapter/storage/memory"
	"github.com/MikeRez0/tgshop/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(id string) *domain.Order {
	return &domain.Order{
		ID:         id,
		CustomerID: "42",
		Lines:      []domain.OrderLine{{ProductID: "1", Name: "Tea", UnitPrice: 1000, Quantity: 2, LineTotal: 2000}},
		Total:      2000,
		Status:     domain.OrderStatusCreated,
		CreatedAt:  time.Now(),
	}
}

func TestRepository_CreateRead(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()

	created, err := repo.CreateOrder(ctx, newOrder("a"))
	require.NoError(t, err)
	assert.Equal(t, "a", created.ID)

	_, err = repo.CreateOrder(ctx, newOrder("a"))
	assert.ErrorIs(t, err, domain.ErrConflictingData)

	got, err := repo.ReadOrder(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), got.Total)

	_, err = repo.ReadOrder(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestRepository_ReadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	_, err := repo.CreateOrder(ctx, newOrder("a"))
	require.NoError(t, err)

	got, err := repo.ReadOrder(ctx, "a")
	require.NoError(t, err)
	got.Lines[0].Quantity = 99
	got.Status = domain.OrderStatusPaid

	again, err := repo.ReadOrder(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Lines[0].Quantity)
	assert.Equal(t, domain.OrderStatusCreated, again.Status)
}

func TestRepository_UpdateOrder(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	_, err := repo.CreateOrder(ctx, newOrder("a"))
	require.NoError(t, err)

	failing := errors.New("nope")
	_, err = repo.UpdateOrder(ctx, "a", func(o *domain.Order) error {
		o.Status = domain.OrderStatusPaid
		return failing
	})
	assert.ErrorIs(t, err, failing)

	got, err := repo.ReadOrder(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCreated, got.Status, "failed update must not be written")

	updated, err := repo.UpdateOrder(ctx, "a", func(o *domain.Order) error {
		o.Status = domain.OrderStatusPaid
		o.PaymentInfo = &domain.PaymentInfo{Provider: "test", PaymentID: "p1"}
		return nil
	})
	require.NoError(t, err)
	assert.True(t, updated.IsPaid())

	_, err = repo.UpdateOrder(ctx, "missing", func(o *domain.Order) error { return nil })
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestRepository_UpdateOrderConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	_, err := repo.CreateOrder(ctx, newOrder("a"))
	require.NoError(t, err)

	var applied atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.UpdateOrder(ctx, "a", func(o *domain.Order) error {
				if o.IsPaid() {
					return domain.ErrOrderAlreadyPaid
				}
				o.Status = domain.OrderStatusPaid
				return nil
			})
			if err == nil {
				applied.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), applied.Load())
}

func TestRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := memory.NewRepository()
	_, err := repo.CreateOrder(ctx, newOrder("a"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, repo.Len())
}
