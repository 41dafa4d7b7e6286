package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/MikeRez0/tgshop/internal/adapter/config"
	"github.com/MikeRez0/tgshop/internal/adapter/storage"
	"github.com/MikeRez0/tgshop/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRepo(t *testing.T) *Repository {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URI")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URI is not set")
	}

	db, err := storage.NewDBStorage(context.Background(), &config.Database{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.RunMigrations())

	repo, err := NewRepository(db)
	require.NoError(t, err)
	return repo
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:               uuid.NewString(),
		CustomerID:       "424242",
		CustomerUsername: "buyer",
		CustomerName:     "Ivan Petrov",
		CustomerPhone:    "+79991234567",
		PickupPoint:      &domain.PickupPoint{Code: "MSK1", Address: "Tverskaya 1", City: "Moscow", Resolved: true},
		Lines: []domain.OrderLine{
			{ProductID: "1", Name: "Oolong", UnitPrice: 89000, Quantity: 2, LineTotal: 178000},
		},
		Total:     178000,
		Status:    domain.OrderStatusCreated,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestRepository_CreateRead(t *testing.T) {
	repo := getRepo(t)
	ctx := context.Background()

	order := testOrder()
	_, err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	_, err = repo.CreateOrder(ctx, order)
	assert.ErrorIs(t, err, domain.ErrConflictingData)

	got, err := repo.ReadOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Lines, got.Lines)
	assert.Equal(t, order.PickupPoint, got.PickupPoint)
	assert.Nil(t, got.PaymentInfo)
	assert.True(t, order.CreatedAt.Equal(got.CreatedAt))

	noPickup := testOrder()
	noPickup.PickupPoint = nil
	_, err = repo.CreateOrder(ctx, noPickup)
	require.NoError(t, err)
	got, err = repo.ReadOrder(ctx, noPickup.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PickupPoint)
}

func TestRepository_ReadMissing(t *testing.T) {
	repo := getRepo(t)

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		_, err := repo.ReadOrder(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound, id)
	}
}

func TestRepository_UpdateOrder(t *testing.T) {
	repo := getRepo(t)
	ctx := context.Background()

	order := testOrder()
	_, err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	// a failing update leaves the row untouched
	_, err = repo.UpdateOrder(ctx, order.ID, func(o *domain.Order) error {
		o.Status = domain.OrderStatusPaid
		return domain.ErrOrderAlreadyPaid
	})
	assert.ErrorIs(t, err, domain.ErrOrderAlreadyPaid)
	got, err := repo.ReadOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCreated, got.Status)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.UpdateOrder(ctx, order.ID, func(o *domain.Order) error {
				if o.IsPaid() {
					return domain.ErrOrderAlreadyPaid
				}
				o.Status = domain.OrderStatusPaid
				o.PaymentInfo = &domain.PaymentInfo{Provider: "yookassa", PaymentID: "p1", Amount: "1780.00", Currency: "RUB"}
				return nil
			})
			if err == nil {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, applied)

	got, err = repo.ReadOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, got.Status)
	require.NotNil(t, got.PaymentInfo)
	assert.Equal(t, "p1", got.PaymentInfo.PaymentID)

	_, err = repo.UpdateOrder(ctx, uuid.NewString(), func(*domain.Order) error { return nil })
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
