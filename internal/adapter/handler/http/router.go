package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MikeRez0/tgshop/internal/adapter/config"
	"github.com/MikeRez0/tgshop/internal/adapter/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 5 * time.Second
	healthTimeout   = 2 * time.Second
)

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Router struct {
	*gin.Engine
	logger *zap.Logger
}

// NewRouter registers the API. Admin routes exist only when an admin token is configured.
// health may be nil when nothing external backs the orders.
func NewRouter(
	admin *config.Admin,
	limiter Limiter,
	health HealthChecker,
	orderHandler *OrderHandler,
	paymentHandler *PaymentHandler,
	logger *zap.Logger) (*Router, error) {

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), metrics.PrometheusMiddleware())

	router.GET("/health", func(ctx *gin.Context) {
		if health != nil {
			pingCtx, cancel := context.WithTimeout(ctx, healthTimeout)
			defer cancel()
			if err := health.Ping(pingCtx); err != nil {
				logger.Warn("Health check failed", zap.Error(err))
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		api.GET("/products", orderHandler.ListProducts)
		api.POST("/create-order", orderHandler.rateLimit(limiter), orderHandler.CreateOrder)
		api.GET("/orders/status", orderHandler.OrderStatus)
		api.POST("/payment-callback", paymentHandler.PaymentCallback)

		if admin != nil && admin.Token != "" {
			adm := api.Group("/admin")
			{
				adm.Use(paymentHandler.adminAuth(admin.Token))
				adm.GET("/webhook-log", paymentHandler.WebhookLog)
			}
		}
	}

	return &Router{Engine: router, logger: logger}, nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		logger.Debug("Request",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

// Serve runs the HTTP server until ctx is done, then drains in-flight requests.
func (r *Router) Serve(ctx context.Context, listenAddr string) error {
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           r.Engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("Starting HTTP server", zap.String("address", listenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	r.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
