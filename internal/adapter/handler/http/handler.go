package http

import (
	"errors"
	"net/http"

	"github.com/MikeRez0/tgshop/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings is matched with errors.Is in order, so wrapped errors resolve too.
var errorMappings = []errorMapping{
	{domain.ErrInvalidCustomerID, http.StatusBadRequest, "invalid_customer_id"},
	{domain.ErrInvalidCustomerName, http.StatusBadRequest, "invalid_customer_name"},
	{domain.ErrInvalidPhone, http.StatusBadRequest, "invalid_phone"},
	{domain.ErrInvalidLines, http.StatusBadRequest, "invalid_lines"},
	{domain.ErrBadRequest, http.StatusBadRequest, "bad_request"},
	{domain.ErrMalformedPayload, http.StatusBadRequest, "malformed_payload"},
	{domain.ErrMissingOrderID, http.StatusBadRequest, "missing_order_id"},

	{domain.ErrUnknownProduct, http.StatusBadRequest, "unknown_product"},
	{domain.ErrPickupNotFound, http.StatusBadRequest, "pickup_not_found"},
	{domain.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},

	// secret and signature failures are indistinguishable to the caller
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrInvalidSignature, http.StatusForbidden, "forbidden"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{errUnauthorized, http.StatusUnauthorized, "unauthorized"},

	{domain.ErrAmountMismatch, http.StatusBadRequest, "amount_mismatch"},
	{domain.ErrConflictingData, http.StatusConflict, "conflict"},

	{domain.ErrCatalogUnavailable, http.StatusServiceUnavailable, "catalog_unavailable"},
	{errRateLimited, http.StatusTooManyRequests, "rate_limited"},

	{domain.ErrInternal, http.StatusInternalServerError, "internal"},
}

var (
	errUnauthorized = errors.New("missing or invalid admin token")
	errRateLimited  = errors.New("too many orders, try again in a minute")
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_phone"`
	Message string `json:"message,omitempty" example:"invalid phone number"`
}

// jsonDecimal renders a money amount as a JSON number with its scale kept, 1500.00.
type jsonDecimal decimal.Decimal

func (j jsonDecimal) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(j).String()), nil
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

func lookupError(err error) (errorMapping, bool) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m, true
		}
	}
	return errorMapping{err: domain.ErrInternal, status: http.StatusInternalServerError, code: "internal"}, false
}

func errorBody(m errorMapping, err error) ErrorResponse {
	switch m.status {
	case http.StatusForbidden:
		return ErrorResponse{Error: m.code}
	case http.StatusInternalServerError:
		return ErrorResponse{Error: m.code, Message: domain.ErrInternal.Error()}
	}
	return ErrorResponse{Error: m.code, Message: err.Error()}
}

// handleError sends the mapped status and error body.
func (h *Handler) handleError(ctx *gin.Context, err error) {
	m, ok := lookupError(err)
	if !ok {
		h.logger.Error("error processing request", zap.Error(err))
	}
	ctx.JSON(m.status, errorBody(m, err))
}

// handleAbort is handleError for middlewares, the rest of the chain is skipped.
func (h *Handler) handleAbort(ctx *gin.Context, err error) {
	m, ok := lookupError(err)
	if !ok {
		h.logger.Error("aborting request", zap.Error(err))
	}
	ctx.AbortWithStatusJSON(m.status, errorBody(m, err))
}

// handleSuccessWithStatus sends data with the given status, or only the status when data is nil.
func (h *Handler) handleSuccessWithStatus(ctx *gin.Context, data any, status int) {
	if data != nil {
		ctx.JSON(status, data)
	} else {
		ctx.Status(status)
	}
}

func (h *Handler) handleSuccess(ctx *gin.Context, data any) {
	h.handleSuccessWithStatus(ctx, data, http.StatusOK)
}
