package port

import (
	"context"

	"github.com/MikeRez0/tgshop/internal/core/domain"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock
type Service interface {
	CreateOrder(ctx context.Context, req *domain.OrderRequest) (*domain.Order, string, error)
	GetOrderByToken(ctx context.Context, token string) (*domain.Order, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)

	HandlePaymentWebhook(ctx context.Context, req *domain.WebhookRequest) (*domain.WebhookResult, error)
	WebhookLog(ctx context.Context) ([]domain.AuditEntry, error)
}
