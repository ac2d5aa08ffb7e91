package anubis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"github.com/riskibarqy/challenge-league/internal/platform/resilience"
	"github.com/riskibarqy/challenge-league/internal/usecase"
)

func newTestClient(srv *httptest.Server, cfg ClientConfig) *Client {
	cfg.BaseURL = srv.URL
	cfg.IntrospectPath = "/v1/auth/introspect"
	return NewClient(srv.Client(), cfg, logging.NewNop())
}

func TestClientVerifyAccessToken_SendsAdminKeyAndParsesResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/auth/introspect" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("x-admin-key"); got != "admin-secret" {
			t.Fatalf("unexpected x-admin-key: %s", got)
		}

		var req map[string]string
		if err := jsoniter.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if req["token"] != "token-abc" {
			t.Fatalf("unexpected token value: %s", req["token"])
		}

		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{
			"active":  true,
			"user_id": "user-alice",
			"email":   "alice@example.com",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv, ClientConfig{AdminKey: "admin-secret"})

	principal, err := client.VerifyAccessToken(context.Background(), "token-abc")
	if err != nil {
		t.Fatalf("verify token failed: %v", err)
	}
	if principal.UserID != "user-alice" {
		t.Fatalf("unexpected user id: %s", principal.UserID)
	}
	if principal.Email != "alice@example.com" {
		t.Fatalf("unexpected email: %s", principal.Email)
	}
}

func TestClientVerifyAccessToken_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "inactive token", status: http.StatusOK, body: `{"active":false}`, want: usecase.ErrUnauthorized},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, want: usecase.ErrUnauthorized},
		{name: "forbidden admin key", status: http.StatusForbidden, body: `{"error":"forbidden"}`, want: usecase.ErrDependencyUnavailable},
		{name: "server error", status: http.StatusBadGateway, body: `{}`, want: usecase.ErrDependencyUnavailable},
		{name: "missing user id", status: http.StatusOK, body: `{"active":true}`, want: usecase.ErrDependencyUnavailable},
		{name: "garbage body", status: http.StatusOK, body: `not-json`, want: usecase.ErrDependencyUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := newTestClient(srv, ClientConfig{AdminKey: "admin-secret"})
			_, err := client.VerifyAccessToken(context.Background(), "token-abc")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestClientVerifyAccessToken_EmptyToken(t *testing.T) {
	t.Parallel()

	client := NewClient(nil, ClientConfig{BaseURL: "http://127.0.0.1:1"}, logging.NewNop())
	_, err := client.VerifyAccessToken(context.Background(), "  ")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClientVerifyAccessToken_UsesPrincipalCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{
			"active":  true,
			"user_id": "user-cache",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv, ClientConfig{PrincipalCacheTTL: time.Minute})

	for i := 0; i < 2; i++ {
		principal, err := client.VerifyAccessToken(context.Background(), "cached-token")
		if err != nil {
			t.Fatalf("verify token failed: %v", err)
		}
		if principal.UserID != "user-cache" {
			t.Fatalf("unexpected user id: %s", principal.UserID)
		}
	}

	if calls.Load() != 1 {
		t.Fatalf("expected one introspection call with cache, got %d", calls.Load())
	}
}

func TestClientVerifyAccessToken_CircuitOpensOnTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(srv, ClientConfig{
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 3; i++ {
		_, err := client.VerifyAccessToken(context.Background(), "token-abc")
		if !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("attempt %d: expected ErrDependencyUnavailable, got %v", i, err)
		}
	}

	if calls.Load() != 2 {
		t.Fatalf("expected breaker to stop the third call, got %d calls", calls.Load())
	}
}

func TestClientVerifyAccessToken_InactiveTokensDoNotTripCircuit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"active":false}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, ClientConfig{
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1},
	})

	for i := 0; i < 3; i++ {
		if _, err := client.VerifyAccessToken(context.Background(), "expired"); !errors.Is(err, usecase.ErrUnauthorized) {
			t.Fatalf("attempt %d: expected ErrUnauthorized, got %v", i, err)
		}
	}
	if calls.Load() != 3 {
		t.Fatalf("expected every call to reach anubis, got %d", calls.Load())
	}
}

func TestIntrospectionURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base, path, want string
	}{
		{"https://anubis.example.com/", "v1/auth/introspect", "https://anubis.example.com/v1/auth/introspect"},
		{"https://anubis.example.com", "", "https://anubis.example.com"},
		{" https://anubis.example.com// ", "//v1/auth/introspect", "https://anubis.example.com/v1/auth/introspect"},
		{"https://anubis.example.com", "https://other.example.com/introspect", "https://other.example.com/introspect"},
	}
	for _, tc := range tests {
		if got := introspectionURL(tc.base, tc.path); got != tc.want {
			t.Fatalf("introspectionURL(%q, %q) = %q, want %q", tc.base, tc.path, got, tc.want)
		}
	}
}
