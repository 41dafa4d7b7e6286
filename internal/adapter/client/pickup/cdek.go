package pickup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MikeRez0/tgshop/internal/adapter/config"
	"github.com/MikeRez0/tgshop/internal/adapter/metrics"
	"github.com/MikeRez0/tgshop/internal/core/domain"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	breakerName = "cdek"
	// a token is refreshed this long before CDEK expires it
	tokenSkew = 30 * time.Second
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type deliveryPoint struct {
	Code     string `json:"code"`
	Location struct {
		AddressFull string `json:"address_full"`
		City        string `json:"city"`
		PostalCode  string `json:"postal_code"`
	} `json:"location"`
}

// CDEKClient resolves pickup point codes through the CDEK v2 API.
type CDEKClient struct {
	client       *resty.Client
	breaker      *gobreaker.CircuitBreaker
	clientID     string
	clientSecret string
	logger       *zap.Logger
	now          func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewCDEKClient(conf *config.Pickup, logger *zap.Logger) *CDEKClient {
	c := &CDEKClient{
		client: resty.New().
			SetBaseURL(conf.HostString).
			SetTimeout(conf.Timeout).
			SetRetryCount(0),
		clientID:     conf.ClientID,
		clientSecret: conf.ClientSecret,
		logger:       logger,
		now:          time.Now,
	}
	c.breaker = newBreaker(breakerName, logger)
	return c
}

func newBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		// an unknown code is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrPickupNotFound)
		},
		OnStateChange: func(cbName string, from gobreaker.State, to gobreaker.State) {
			state := float64(0)
			switch to {
			case gobreaker.StateOpen:
				state = 1
			case gobreaker.StateHalfOpen:
				state = 2
			}
			metrics.CircuitBreakerState.WithLabelValues(cbName).Set(state)
			logger.Info("Circuit breaker state changed",
				zap.String("circuit", cbName),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// Resolve never reports a transport problem to the caller: every failure is a not found code.
func (c *CDEKClient) Resolve(ctx context.Context, code string) (*domain.PickupPoint, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.lookup(ctx, code)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrPickupNotFound) {
			c.logger.Warn("CDEK lookup failed", zap.String("code", code), zap.Error(err))
		}
		return nil, domain.ErrPickupNotFound
	}

	return result.(*domain.PickupPoint), nil
}

func (c *CDEKClient) lookup(ctx context.Context, code string) (*domain.PickupPoint, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var points []deliveryPoint
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("code", code).
		SetResult(&points).
		Get("/v2/deliverypoints")
	if err != nil {
		return nil, fmt.Errorf("request delivery points: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		c.resetToken()
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("cdek returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(points) == 0 {
		return nil, domain.ErrPickupNotFound
	}

	p := points[0]
	return &domain.PickupPoint{
		Code:       p.Code,
		Address:    p.Location.AddressFull,
		City:       p.Location.City,
		PostalCode: p.Location.PostalCode,
		Resolved:   true,
	}, nil
}

func (c *CDEKClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiresAt) {
		return c.token, nil
	}

	var token tokenResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     c.clientID,
			"client_secret": c.clientSecret,
		}).
		SetResult(&token).
		Post("/v2/oauth/token")
	if err != nil {
		return "", fmt.Errorf("request cdek token: %w", err)
	}
	if resp.StatusCode() != http.StatusOK || token.AccessToken == "" {
		return "", fmt.Errorf("cdek auth returned status %d", resp.StatusCode())
	}

	c.token = token.AccessToken
	c.expiresAt = c.now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenSkew)
	return c.token, nil
}

func (c *CDEKClient) resetToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}
