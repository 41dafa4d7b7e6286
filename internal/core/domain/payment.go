package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

const EventPaymentSucceeded = "payment.succeeded"

// WebhookRequest is an inbound payment notification as received from the transport.
type WebhookRequest struct {
	Secret    string
	Signature string
	Body      []byte
}

type PaymentNotification struct {
	Event  string        `json:"event"`
	Object PaymentObject `json:"object"`
}

type PaymentObject struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Amount    PaymentAmount   `json:"amount"`
	Metadata  PaymentMetadata `json:"metadata"`
	CreatedAt string          `json:"created_at"`
}

type PaymentAmount struct {
	Value    AmountValue `json:"value"`
	Currency string      `json:"currency"`
}

type PaymentMetadata struct {
	OrderID    string `json:"order_id"`
	OrderIDAlt string `json:"orderId"`
}

func (m PaymentMetadata) Order() string {
	if m.OrderID != "" {
		return m.OrderID
	}
	return m.OrderIDAlt
}

// AmountValue accepts both "12.50" and 12.50 on the wire.
type AmountValue string

func (v *AmountValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = AmountValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = AmountValue(n.String())
	return nil
}

type WebhookOutcome string

const (
	WebhookApplied   WebhookOutcome = "applied"
	WebhookDuplicate WebhookOutcome = "duplicate"
	WebhookIgnored   WebhookOutcome = "ignored"
	WebhookRejected  WebhookOutcome = "rejected"
)

type WebhookResult struct {
	Outcome WebhookOutcome
	OrderID string
	Order   *Order
}

// AuditEntry is one received webhook. It never holds request headers.
type AuditEntry struct {
	ID         string          `json:"id"`
	ReceivedAt time.Time       `json:"received_at"`
	Outcome    WebhookOutcome  `json:"outcome"`
	Reason     string          `json:"reason,omitempty"`
	Event      string          `json:"event,omitempty"`
	OrderID    string          `json:"order_id,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

const (
	EventOrderCreated = "order.created"
	EventOrderPaid    = "order.paid"
)

type OrderEvent struct {
	ID         string      `json:"event_id"`
	Type       string      `json:"type"`
	OrderID    string      `json:"order_id"`
	CustomerID string      `json:"customer_id"`
	Total      int64       `json:"total"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}
