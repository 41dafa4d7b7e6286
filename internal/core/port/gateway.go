package port

import (
	"context"

	"github.com/MikeRez0/tgshop/internal/core/domain"
)

//go:generate mockgen -source=gateway.go -destination=mock/gateway.go -package=mock
type Catalog interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

type PickupResolver interface {
	// Resolve returns domain.ErrPickupNotFound when the code cannot be resolved.
	Resolve(ctx context.Context, code string) (*domain.PickupPoint, error)
}

type Notifier interface {
	NotifyOrderPaid(ctx context.Context, order *domain.Order) error
	NotifyCustomer(ctx context.Context, order *domain.Order) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
}

type PaymentLinker interface {
	CreateLink(order *domain.Order) (string, error)
	VerifyToken(token string) (string, error)
}
