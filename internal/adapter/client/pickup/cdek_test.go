package pickup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MikeRez0/tgshop/internal/adapter/config"
	"github.com/MikeRez0/tgshop/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCDEK struct {
	tokens      atomic.Int32
	lookups     atomic.Int32
	pointStatus int
	points      []deliveryPoint
}

func (f *fakeCDEK) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokens.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "id", r.PostForm.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tkn","expires_in":3600}`))
	})
	mux.HandleFunc("/v2/deliverypoints", func(w http.ResponseWriter, r *http.Request) {
		f.lookups.Add(1)
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		if f.pointStatus != 0 {
			w.WriteHeader(f.pointStatus)
			return
		}
		var found []deliveryPoint
		for _, p := range f.points {
			if p.Code == r.URL.Query().Get("code") {
				found = append(found, p)
			}
		}
		if found == nil {
			found = []deliveryPoint{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(found)
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeCDEK) *CDEKClient {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	return NewCDEKClient(&config.Pickup{
		Enabled:      true,
		HostString:   srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
		Timeout:      time.Second,
	}, zap.NewNop())
}

func msk1() deliveryPoint {
	p := deliveryPoint{Code: "MSK1"}
	p.Location.AddressFull = "Tverskaya 1"
	p.Location.City = "Moscow"
	p.Location.PostalCode = "125009"
	return p
}

func TestCDEKClient_Resolve(t *testing.T) {
	f := &fakeCDEK{points: []deliveryPoint{msk1()}}
	c := newTestClient(t, f)
	ctx := context.Background()

	point, err := c.Resolve(ctx, "MSK1")
	require.NoError(t, err)
	assert.Equal(t, &domain.PickupPoint{
		Code:       "MSK1",
		Address:    "Tverskaya 1",
		City:       "Moscow",
		PostalCode: "125009",
		Resolved:   true,
	}, point)

	_, err = c.Resolve(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrPickupNotFound)

	assert.Equal(t, int32(1), f.tokens.Load(), "token is cached between lookups")
	assert.Equal(t, int32(2), f.lookups.Load())
}

func TestCDEKClient_TokenExpiry(t *testing.T) {
	f := &fakeCDEK{points: []deliveryPoint{msk1()}}
	c := newTestClient(t, f)
	ctx := context.Background()

	_, err := c.Resolve(ctx, "MSK1")
	require.NoError(t, err)

	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = c.Resolve(ctx, "MSK1")
	require.NoError(t, err)

	assert.Equal(t, int32(2), f.tokens.Load())
}

func TestCDEKClient_FailuresAreNotFound(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "server error", status: http.StatusInternalServerError},
		{name: "unauthorized", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeCDEK{pointStatus: tt.status})

			point, err := c.Resolve(context.Background(), "MSK1")
			assert.Nil(t, point)
			assert.ErrorIs(t, err, domain.ErrPickupNotFound)
		})
	}
}

func TestCDEKClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := NewCDEKClient(&config.Pickup{HostString: addr, Timeout: 200 * time.Millisecond}, zap.NewNop())

	_, err := c.Resolve(context.Background(), "MSK1")
	assert.ErrorIs(t, err, domain.ErrPickupNotFound)
}

func TestStub_Resolve(t *testing.T) {
	point, err := Stub{}.Resolve(context.Background(), "MSK1")
	assert.NoError(t, err)
	assert.Equal(t, &domain.PickupPoint{Code: "MSK1"}, point)
}
