package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/MikeRez0/tgshop/internal/core/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var phonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)

// ValidateOrderRequest checks customer fields and line count, first failure wins.
func ValidateOrderRequest(req *domain.OrderRequest) error {
	if req.CustomerID == "" {
		return domain.ErrInvalidCustomerID
	}
	if req.CustomerName == "" || utf8.RuneCountInString(req.CustomerName) > domain.MaxCustomerNameLen {
		return domain.ErrInvalidCustomerName
	}
	if !phonePattern.MatchString(req.CustomerPhone) {
		return domain.ErrInvalidPhone
	}
	if len(req.Lines) == 0 || len(req.Lines) > domain.MaxOrderLines {
		return domain.ErrInvalidLines
	}
	return nil
}

// PriceLines prices every requested line from the catalog snapshot.
// Quantities are clamped into [1, 100] instead of being rejected.
func PriceLines(requested []domain.OrderLineRequest, products []domain.Product) ([]domain.OrderLine, int64, error) {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]domain.OrderLine, 0, len(requested))
	var total int64
	for _, r := range requested {
		product, ok := byID[r.ProductID]
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s", domain.ErrUnknownProduct, r.ProductID)
		}

		qty := clampQuantity(r.Quantity)
		lineTotal := product.Price * int64(qty)
		lines = append(lines, domain.OrderLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  qty,
			LineTotal: lineTotal,
		})
		total += lineTotal
	}

	return lines, total, nil
}

func clampQuantity(q int) int {
	if q < domain.MinLineQuantity {
		return domain.MinLineQuantity
	}
	if q > domain.MaxLineQuantity {
		return domain.MaxLineQuantity
	}
	return q
}

func (s *Service) CreateOrder(ctx context.Context, req *domain.OrderRequest) (*domain.Order, string, error) {
	err := ValidateOrderRequest(req)
	if err != nil {
		return nil, "", err
	}

	pickup, err := s.resolvePickup(ctx, req.PickupCode)
	if err != nil {
		return nil, "", err
	}

	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, "", err
	}

	lines, total, err := PriceLines(req.Lines, products)
	if err != nil {
		return nil, "", err
	}

	order := &domain.Order{
		ID:               uuid.NewString(),
		CustomerID:       req.CustomerID,
		CustomerUsername: req.CustomerUsername,
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		PickupPoint:      pickup,
		Lines:            lines,
		Total:            total,
		Status:           domain.OrderStatusCreated,
		CreatedAt:        s.now().UTC(),
	}

	// link first: a failure here must not leave a stored order behind
	link, err := s.linker.CreateLink(order)
	if err != nil {
		s.logger.Error("Create payment link", zap.String("order", order.ID), zap.Error(err))
		return nil, "", domain.ErrInternal
	}

	newOrder, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("Create order", zap.String("order", order.ID), zap.Error(err))
		return nil, "", domain.ErrInternal
	}

	s.logger.Info("Order created",
		zap.String("order", newOrder.ID),
		zap.String("customer", newOrder.CustomerID),
		zap.Int64("total", newOrder.Total),
		zap.Int("lines", len(newOrder.Lines)))

	s.publish(ctx, domain.EventOrderCreated, newOrder)

	return newOrder, link, nil
}

func (s *Service) resolvePickup(ctx context.Context, code string) (*domain.PickupPoint, error) {
	if code == "" {
		return nil, nil
	}

	point, err := s.pickup.Resolve(ctx, code)
	if err != nil {
		if !errors.Is(err, domain.ErrPickupNotFound) {
			s.logger.Warn("Pickup point lookup failed", zap.String("code", code), zap.Error(err))
		}
		return nil, domain.ErrPickupNotFound
	}
	if point == nil {
		return nil, domain.ErrPickupNotFound
	}

	return point, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.CatalogTimeout)
	defer cancel()

	products, err := s.catalog.Products(ctx)
	if err != nil {
		s.logger.Error("Read catalog", zap.Error(err))
		return nil, domain.ErrCatalogUnavailable
	}
	return products, nil
}

func (s *Service) GetOrderByToken(ctx context.Context, token string) (*domain.Order, error) {
	orderID, err := s.linker.VerifyToken(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		s.logger.Error("Read order", zap.String("order", orderID), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return order, nil
}

func (s *Service) publish(ctx context.Context, eventType string, order *domain.Order) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.NotifyTimeout)
	defer cancel()

	err := s.events.Publish(ctx, domain.OrderEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Total:      order.Total,
		Status:     order.Status,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("Publish order event", zap.String("type", eventType),
			zap.String("order", order.ID), zap.Error(err))
	}
}
