package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"github.com/MikeRez0/tgshop/internal/core/domain"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

const maxAuditPayload = 64 << 10

var amountEpsilon = decimal.MustNew(1, domain.MinorUnitScale)

// HandlePaymentWebhook verifies a payment notification and marks the referenced order paid.
// Gates run in a fixed order and the first failing one ends processing without any mutation.
// Replays of an applied notification are acknowledged as duplicates.
func (s *Service) HandlePaymentWebhook(ctx context.Context, req *domain.WebhookRequest) (result *domain.WebhookResult, err error) {
	entry := domain.AuditEntry{
		ID:         uuid.NewString(),
		ReceivedAt: s.now().UTC(),
	}
	defer func() {
		s.recordAudit(ctx, &entry, req.Body, result, err)
	}()

	if !s.validSecret(req.Secret) {
		return nil, domain.ErrForbidden
	}
	if !s.validSignature(req.Body, req.Signature) {
		return nil, domain.ErrInvalidSignature
	}

	var n domain.PaymentNotification
	if err := json.Unmarshal(req.Body, &n); err != nil {
		return nil, domain.ErrMalformedPayload
	}
	entry.Event = n.Event

	if n.Event != domain.EventPaymentSucceeded {
		s.logger.Info("Ignore payment event", zap.String("event", n.Event))
		return &domain.WebhookResult{Outcome: domain.WebhookIgnored}, nil
	}

	orderID := n.Object.Metadata.Order()
	entry.OrderID = orderID
	if orderID == "" {
		return nil, domain.ErrMissingOrderID
	}

	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		s.logger.Error("Read order", zap.String("order", orderID), zap.Error(err))
		return nil, domain.ErrInternal
	}

	paid, err := s.checkAmount(order, n.Object.Amount)
	if err != nil {
		s.logger.Warn("Payment amount rejected",
			zap.String("order", orderID),
			zap.Int64("total", order.Total),
			zap.String("paid", string(n.Object.Amount.Value)),
			zap.String("currency", n.Object.Amount.Currency))
		return nil, err
	}

	if order.IsPaid() {
		return &domain.WebhookResult{Outcome: domain.WebhookDuplicate, OrderID: orderID, Order: order}, nil
	}

	info := &domain.PaymentInfo{
		Provider:  s.opts.Provider,
		PaymentID: n.Object.ID,
		Amount:    paid.String(),
		Currency:  n.Object.Amount.Currency,
		EventType: n.Event,
		PaidAt:    s.now().UTC(),
	}

	updated, err := s.repo.UpdateOrder(ctx, orderID, func(o *domain.Order) error {
		// a concurrent delivery may have won since the read above
		if o.IsPaid() {
			return domain.ErrOrderAlreadyPaid
		}
		o.Status = domain.OrderStatusPaid
		o.PaymentInfo = info
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrOrderAlreadyPaid) {
			return &domain.WebhookResult{Outcome: domain.WebhookDuplicate, OrderID: orderID, Order: order}, nil
		}
		s.logger.Error("Mark order paid", zap.String("order", orderID), zap.Error(err))
		return nil, domain.ErrInternal
	}

	s.logger.Info("Order paid",
		zap.String("order", orderID),
		zap.String("payment", info.PaymentID),
		zap.String("amount", info.Amount))

	s.afterPayment(ctx, updated)

	return &domain.WebhookResult{Outcome: domain.WebhookApplied, OrderID: orderID, Order: updated}, nil
}

func (s *Service) validSecret(secret string) bool {
	return subtle.ConstantTimeCompare([]byte(secret), []byte(s.opts.WebhookSecret)) == 1
}

func (s *Service) validSignature(body []byte, signature string) bool {
	given, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(signature), "sha256="))
	if err != nil || len(given) == 0 {
		return false
	}
	return hmac.Equal(Sign(s.opts.SigningKey, body), given)
}

// Sign computes the HMAC-SHA256 a provider attaches to a notification body.
func Sign(key string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(body)
	return mac.Sum(nil)
}

func (s *Service) checkAmount(order *domain.Order, amount domain.PaymentAmount) (decimal.Decimal, error) {
	if s.opts.Currency != "" && !strings.EqualFold(amount.Currency, s.opts.Currency) {
		return decimal.Zero, domain.ErrAmountMismatch
	}

	paid, err := decimal.Parse(strings.TrimSpace(string(amount.Value)))
	if err != nil {
		return decimal.Zero, domain.ErrAmountMismatch
	}

	diff, err := paid.Sub(domain.Amount(order.Total))
	if err != nil {
		return decimal.Zero, domain.ErrAmountMismatch
	}
	if diff.Abs().Cmp(amountEpsilon) >= 0 {
		return decimal.Zero, domain.ErrAmountMismatch
	}

	return paid, nil
}

// afterPayment runs the notifications. They are best-effort: the order is already paid.
func (s *Service) afterPayment(ctx context.Context, order *domain.Order) {
	ctx = context.WithoutCancel(ctx)

	notifyCtx, cancel := context.WithTimeout(ctx, s.opts.NotifyTimeout)
	err := s.notifier.NotifyOrderPaid(notifyCtx, order)
	cancel()
	if err != nil {
		s.logger.Warn("Operator notification failed", zap.String("order", order.ID), zap.Error(err))
	}

	notifyCtx, cancel = context.WithTimeout(ctx, s.opts.NotifyTimeout)
	err = s.notifier.NotifyCustomer(notifyCtx, order)
	cancel()
	if err != nil {
		s.logger.Warn("Customer notification failed", zap.String("order", order.ID), zap.Error(err))
	}

	s.publish(ctx, domain.EventOrderPaid, order)
}

// recordAudit stores the body only for callers that passed both the secret and the signature.
func (s *Service) recordAudit(ctx context.Context, entry *domain.AuditEntry, body []byte,
	result *domain.WebhookResult, err error) {
	switch {
	case err != nil:
		entry.Outcome = domain.WebhookRejected
		entry.Reason = err.Error()
	case result != nil:
		entry.Outcome = result.Outcome
	}

	entry.Payload = json.RawMessage(`null`)
	if !errors.Is(err, domain.ErrForbidden) && !errors.Is(err, domain.ErrInvalidSignature) {
		entry.Payload = auditPayload(body)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	if aerr := s.audit.Append(ctx, *entry); aerr != nil {
		s.logger.Warn("Append webhook audit entry", zap.String("entry", entry.ID), zap.Error(aerr))
	}
}

// auditPayload keeps valid JSON as is and stores anything else as a JSON string.
func auditPayload(body []byte) json.RawMessage {
	if len(body) <= maxAuditPayload && json.Valid(body) {
		return append(json.RawMessage(nil), body...)
	}
	if len(body) > maxAuditPayload {
		body = body[:maxAuditPayload]
	}
	raw, err := json.Marshal(string(body))
	if err != nil {
		return json.RawMessage(`null`)
	}
	return raw
}

func (s *Service) WebhookLog(ctx context.Context) ([]domain.AuditEntry, error) {
	entries, err := s.audit.Entries(ctx)
	if err != nil {
		s.logger.Error("Read webhook audit log", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return entries, nil
}
