package http

import (
	"net/http"
	"time"

	"github.com/MikeRez0/tgshop/internal/adapter/metrics"
	"github.com/MikeRez0/tgshop/internal/core/domain"
	"github.com/MikeRez0/tgshop/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Handler
	service  port.Service
	provider string
	currency string
}

func NewOrderHandler(service port.Service, provider, currency string, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler:  *NewHandler(logger),
		service:  service,
		provider: provider,
		currency: currency,
	}, nil
}

type pickupPointReq struct {
	Code string `json:"code"`
}

type orderItemReq struct {
	ID  string `json:"id" example:"1"`
	Qty int    `json:"qty" example:"2"`
}

// CreateOrderReq is what the web app posts. Item prices are not accepted.
type CreateOrderReq struct {
	UserID      string          `json:"user_id" example:"424242"`
	Username    string          `json:"username" example:"buyer"`
	Name        string          `json:"name" example:"Ivan Petrov"`
	Phone       string          `json:"phone" example:"+79991234567"`
	PickupPoint *pickupPointReq `json:"pickup_point,omitempty"`
	PickupCode  string          `json:"pickup_code,omitempty"`
	Items       []orderItemReq  `json:"items"`
}

func (r *CreateOrderReq) toDomain() *domain.OrderRequest {
	code := r.PickupCode
	if r.PickupPoint != nil && r.PickupPoint.Code != "" {
		code = r.PickupPoint.Code
	}

	lines := make([]domain.OrderLineRequest, 0, len(r.Items))
	for _, i := range r.Items {
		lines = append(lines, domain.OrderLineRequest{ProductID: i.ID, Quantity: i.Qty})
	}

	return &domain.OrderRequest{
		CustomerID:       r.UserID,
		CustomerUsername: r.Username,
		CustomerName:     r.Name,
		CustomerPhone:    r.Phone,
		PickupCode:       code,
		Lines:            lines,
	}
}

type PaymentLinkResp struct {
	URL      string `json:"url"`
	Provider string `json:"provider" example:"yookassa"`
}

type CreateOrderResp struct {
	OrderID     string              `json:"order_id"`
	Status      domain.OrderStatus  `json:"status" example:"CREATED"`
	Total       int64               `json:"total" example:"238000"`
	Amount      jsonDecimal         `json:"amount" swaggertype:"number" example:"2380.00"`
	Currency    string              `json:"currency" example:"RUB"`
	Items       []domain.OrderLine  `json:"items"`
	PickupPoint *domain.PickupPoint `json:"pickup_point"`
	Payment     PaymentLinkResp     `json:"payment"`
}

// CreateOrder godoc
//
//	@Summary	Create an order priced from the catalog
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		order	body		CreateOrderReq	true	"Order"
//	@Success	201		{object}	CreateOrderResp
//	@Failure	400		{object}	ErrorResponse
//	@Failure	429		{object}	ErrorResponse
//	@Failure	503		{object}	ErrorResponse
//	@Router		/api/create-order [post]
func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	var req CreateOrderReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		oh.handleError(ctx, domain.ErrBadRequest)
		return
	}

	order, link, err := oh.service.CreateOrder(ctx, req.toDomain())
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	metrics.OrdersCreated.Inc()

	oh.handleSuccessWithStatus(ctx, CreateOrderResp{
		OrderID:     order.ID,
		Status:      order.Status,
		Total:       order.Total,
		Amount:      jsonDecimal(domain.Amount(order.Total)),
		Currency:    oh.currency,
		Items:       order.Lines,
		PickupPoint: order.PickupPoint,
		Payment: PaymentLinkResp{
			URL:      link,
			Provider: oh.provider,
		},
	}, http.StatusCreated)
}

type OrderStatusResp struct {
	OrderID string             `json:"order_id"`
	Status  domain.OrderStatus `json:"status" example:"PAID"`
	Total   int64              `json:"total" example:"238000"`
	Amount  jsonDecimal        `json:"amount" swaggertype:"number" example:"2380.00"`
	PaidAt  *time.Time         `json:"paid_at,omitempty"`
}

// OrderStatus godoc
//
//	@Summary	Payment state of the order behind a payment link token
//	@Tags		orders
//	@Produce	json
//	@Param		token	query		string	true	"Token from the payment link"
//	@Success	200		{object}	OrderStatusResp
//	@Failure	401		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/orders/status [get]
func (oh *OrderHandler) OrderStatus(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		oh.handleError(ctx, domain.ErrInvalidToken)
		return
	}

	order, err := oh.service.GetOrderByToken(ctx, token)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	resp := OrderStatusResp{
		OrderID: order.ID,
		Status:  order.Status,
		Total:   order.Total,
		Amount:  jsonDecimal(domain.Amount(order.Total)),
	}
	if order.PaymentInfo != nil {
		paidAt := order.PaymentInfo.PaidAt
		resp.PaidAt = &paidAt
	}

	oh.handleSuccess(ctx, resp)
}

// ListProducts godoc
//
//	@Summary	Catalog products, prices in minor units
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}		domain.Product
//	@Failure	503	{object}	ErrorResponse
//	@Router		/api/products [get]
func (oh *OrderHandler) ListProducts(ctx *gin.Context) {
	products, err := oh.service.ListProducts(ctx)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, products)
}
