package port

import (
	"context"

	"github.com/MikeRez0/tgshop/internal/core/domain"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, orderID string) (*domain.Order, error)
	// UpdateOrder applies updateFn to the current order under exclusive access.
	// Nothing is written if updateFn returns an error.
	UpdateOrder(ctx context.Context, orderID string, updateFn UpdateOrderFn) (*domain.Order, error)
}

type UpdateOrderFn func(*domain.Order) error
