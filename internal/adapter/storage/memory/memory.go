// Package memory keeps orders in process memory. It is used when no database is configured.
package memory

import (
	"context"
	"sync"

	"github.com/MikeRez0/tgshop/internal/core/domain"
	"github.com/MikeRez0/tgshop/internal/core/port"
)

type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewRepository() *Repository {
	return &Repository{orders: make(map[string]*domain.Order)}
}

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; ok {
		return nil, domain.ErrConflictingData
	}
	r.orders[order.ID] = order.Clone()

	return order.Clone(), nil
}

func (r *Repository) ReadOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order.Clone(), nil
}

// UpdateOrder holds the write lock for the whole read-modify-write, so
// concurrent updates of one order are serialized.
func (r *Repository) UpdateOrder(ctx context.Context, orderID string, updateFn port.UpdateOrderFn) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}

	order := current.Clone()
	if err := updateFn(order); err != nil {
		return nil, err
	}
	order.ID = orderID
	r.orders[orderID] = order

	return order.Clone(), nil
}

func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
