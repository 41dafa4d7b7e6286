package http

import (
	"io"
	"net/http"

	"github.com/MikeRez0/tgshop/internal/adapter/metrics"
	"github.com/MikeRez0/tgshop/internal/core/domain"
	"github.com/MikeRez0/tgshop/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	webhookSecretHeader    = "X-Webhook-Secret"
	webhookSignatureHeader = "X-Webhook-Signature"

	maxWebhookBody = 1 << 20
)

type PaymentHandler struct {
	Handler
	service port.Service
}

func NewPaymentHandler(service port.Service, logger *zap.Logger) (*PaymentHandler, error) {
	return &PaymentHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type WebhookResp struct {
	Status  domain.WebhookOutcome `json:"status" example:"applied"`
	OrderID string                `json:"order_id,omitempty"`
}

// PaymentCallback godoc
//
//	@Summary	Payment provider notification
//	@Tags		payments
//	@Accept		json
//	@Produce	json
//	@Param		X-Webhook-Secret	header		string	true	"Shared secret"
//	@Param		X-Webhook-Signature	header		string	true	"Hex HMAC-SHA256 of the body"
//	@Success	200					{object}	WebhookResp
//	@Failure	400					{object}	ErrorResponse
//	@Failure	403					{object}	ErrorResponse
//	@Failure	404					{object}	ErrorResponse
//	@Router		/api/payment-callback [post]
func (ph *PaymentHandler) PaymentCallback(ctx *gin.Context) {
	// the signature covers the exact bytes, so the body is never re-encoded
	body, err := io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxWebhookBody))
	if err != nil {
		metrics.WebhooksTotal.WithLabelValues(string(domain.WebhookRejected)).Inc()
		ph.handleError(ctx, domain.ErrBadRequest)
		return
	}

	result, err := ph.service.HandlePaymentWebhook(ctx, &domain.WebhookRequest{
		Secret:    ctx.GetHeader(webhookSecretHeader),
		Signature: ctx.GetHeader(webhookSignatureHeader),
		Body:      body,
	})
	if err != nil {
		metrics.WebhooksTotal.WithLabelValues(string(domain.WebhookRejected)).Inc()
		ph.handleError(ctx, err)
		return
	}

	metrics.WebhooksTotal.WithLabelValues(string(result.Outcome)).Inc()
	ph.handleSuccess(ctx, WebhookResp{Status: result.Outcome, OrderID: result.OrderID})
}

// WebhookLog godoc
//
//	@Summary	Recent payment notifications, oldest first
//	@Tags		admin
//	@Produce	json
//	@Security	AdminToken
//	@Success	200	{array}		domain.AuditEntry
//	@Failure	401	{object}	ErrorResponse
//	@Router		/api/admin/webhook-log [get]
func (ph *PaymentHandler) WebhookLog(ctx *gin.Context) {
	entries, err := ph.service.WebhookLog(ctx)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}
	ph.handleSuccess(ctx, entries)
}
