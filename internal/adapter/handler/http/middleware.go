package http

import (
	"crypto/subtle"
	"strings"

	"github.com/MikeRez0/tgshop/internal/adapter/metrics"
	"github.com/gin-gonic/gin"
)

const authHeaderKey = "Authorization"
const authType = "Bearer"

// Limiter decides whether one more request from key is allowed now.
type Limiter interface {
	Allow(key string) bool
}

func (h *Handler) rateLimit(limiter Limiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !limiter.Allow(ctx.ClientIP()) {
			metrics.RateLimited.Inc()
			h.handleAbort(ctx, errRateLimited)
			return
		}
		ctx.Next()
	}
}

func (h *Handler) adminAuth(token string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		words := strings.Fields(ctx.Request.Header.Get(authHeaderKey))
		if len(words) != 2 || words[0] != authType {
			h.handleAbort(ctx, errUnauthorized)
			return
		}
		if subtle.ConstantTimeCompare([]byte(words[1]), []byte(token)) != 1 {
			h.handleAbort(ctx, errUnauthorized)
			return
		}
		ctx.Next()
	}
}
