package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MikeRez0/tgshop/internal/adapter/config"
	"github.com/MikeRez0/tgshop/internal/core/domain"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// maxRetryAfter bounds how long a rate limited message waits before its single retry.
const maxRetryAfter = 5 * time.Second

type sendMessageRequest struct {
	ChatID          string `json:"chat_id"`
	MessageThreadID int64  `json:"message_thread_id,omitempty"`
	Text            string `json:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

type errTooManyRequests struct {
	RetryAfter time.Duration
}

func (e *errTooManyRequests) Error() string {
	return fmt.Sprintf("Too Many Requests. Retry-After: %s", e.RetryAfter)
}

// Notifier sends order messages through the Telegram Bot API.
type Notifier struct {
	client   *resty.Client
	enabled  bool
	token    string
	chatID   string
	threadID int64
	currency string
	logger   *zap.Logger
}

func NewNotifier(conf *config.Notifier, currency string, logger *zap.Logger) *Notifier {
	return &Notifier{
		client: resty.New().
			SetBaseURL(conf.APIAddress).
			SetTimeout(conf.Timeout).
			SetRetryCount(0),
		enabled:  conf.Enabled && conf.BotToken != "",
		token:    conf.BotToken,
		chatID:   conf.OperatorChatID,
		threadID: conf.ThreadID,
		currency: currency,
		logger:   logger,
	}
}

func (n *Notifier) NotifyOrderPaid(ctx context.Context, order *domain.Order) error {
	if !n.enabled || n.chatID == "" {
		n.logger.Debug("Operator notification skipped", zap.String("order", order.ID))
		return nil
	}
	return n.send(ctx, sendMessageRequest{
		ChatID:          n.chatID,
		MessageThreadID: n.threadID,
		Text:            OperatorMessage(order, n.currency),
	})
}

// NotifyCustomer writes to the customer's private chat, whose id equals the Telegram user id.
func (n *Notifier) NotifyCustomer(ctx context.Context, order *domain.Order) error {
	if !n.enabled {
		n.logger.Debug("Customer notification skipped", zap.String("order", order.ID))
		return nil
	}
	return n.send(ctx, sendMessageRequest{
		ChatID: order.CustomerID,
		Text:   CustomerMessage(order, n.currency),
	})
}

func (n *Notifier) send(ctx context.Context, msg sendMessageRequest) error {
	err := n.sendMessage(ctx, msg)

	if e, ok := err.(*errTooManyRequests); ok && e.RetryAfter <= maxRetryAfter {
		n.logger.Debug("Telegram rate limit, waiting", zap.Duration("retry_after", e.RetryAfter))
		t := time.NewTimer(e.RetryAfter)
		defer t.Stop()
		select {
		case <-t.C:
			return n.sendMessage(ctx, msg)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (n *Notifier) sendMessage(ctx context.Context, msg sendMessageRequest) error {
	var result apiResponse
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(msg).
		SetResult(&result).
		SetError(&result).
		Post("/bot" + n.token + "/sendMessage")
	if err != nil {
		// the token is part of the url, keep it out of logs
		return fmt.Errorf("telegram request failed: %w", redact(err, n.token))
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		retryAfter := result.Parameters.RetryAfter
		if retryAfter == 0 {
			retryAfter, _ = strconv.Atoi(resp.Header().Get("Retry-After"))
		}
		return &errTooManyRequests{RetryAfter: time.Duration(retryAfter) * time.Second}
	}
	if resp.StatusCode() != http.StatusOK || !result.OK {
		return fmt.Errorf("telegram returned status %d: %s", resp.StatusCode(), result.Description)
	}
	return nil
}
