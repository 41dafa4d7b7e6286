package domain

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "CREATED"
	OrderStatusPaid    OrderStatus = "PAID"
)

const (
	MaxOrderLines      = 50
	MinLineQuantity    = 1
	MaxLineQuantity    = 100
	MaxCustomerNameLen = 100

	// MaxProductPrice bounds catalog prices so no order total can overflow int64.
	MaxProductPrice = 1_000_000_000_000

	// MinorUnitScale is the number of minor-unit digits in prices and totals.
	MinorUnitScale = 2
)

type Product struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Price int64  `json:"price" yaml:"price"`
}

type OrderLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

// PickupPoint is a normalized delivery point. Resolved is false when the
// point was attached without a lookup.
type PickupPoint struct {
	Code       string `json:"code"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Resolved   bool   `json:"resolved"`
}

type PaymentInfo struct {
	Provider  string    `json:"provider"`
	PaymentID string    `json:"payment_id"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"currency"`
	EventType string    `json:"event_type"`
	PaidAt    time.Time `json:"paid_at"`
}

type Order struct {
	ID               string
	CustomerID       string
	CustomerUsername string
	CustomerName     string
	CustomerPhone    string
	PickupPoint      *PickupPoint
	Lines            []OrderLine
	Total            int64
	Status           OrderStatus
	PaymentInfo      *PaymentInfo
	CreatedAt        time.Time
}

// Clone returns a deep copy so stored orders never share memory with callers.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.PickupPoint != nil {
		p := *o.PickupPoint
		c.PickupPoint = &p
	}
	if o.PaymentInfo != nil {
		p := *o.PaymentInfo
		c.PaymentInfo = &p
	}
	c.Lines = append([]OrderLine(nil), o.Lines...)
	return &c
}

func (o *Order) IsPaid() bool {
	return o.Status == OrderStatusPaid
}

type OrderLineRequest struct {
	ProductID string
	Quantity  int
}

// OrderRequest carries only what a customer may choose. Prices are never part of it.
type OrderRequest struct {
	CustomerID       string
	CustomerUsername string
	CustomerName     string
	CustomerPhone    string
	PickupCode       string
	Lines            []OrderLineRequest
}
