package anubis

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/challenge-league/internal/domain/user"
	"github.com/riskibarqy/challenge-league/internal/platform/cache"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"github.com/riskibarqy/challenge-league/internal/platform/resilience"
	"github.com/riskibarqy/challenge-league/internal/usecase"
)

const maxResponseBytes = 1 << 20

// errTransient marks failures that say nothing about the token and should
// trip the circuit breaker.
var errTransient = errors.New("anubis transient failure")

type ClientConfig struct {
	BaseURL        string
	IntrospectPath string
	AdminKey       string
	// PrincipalCacheTTL keeps verified principals keyed by token hash.
	// Zero disables the cache.
	PrincipalCacheTTL time.Duration
	CircuitBreaker    resilience.CircuitBreakerConfig
}

// Client verifies access tokens against the account service introspection
// endpoint.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	adminKey      string
	principals    *cache.Store
	breaker       *resilience.CircuitBreaker
	logger        *logging.Logger
}

func NewClient(httpClient *http.Client, cfg ClientConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}

	c := &Client{
		httpClient:    httpClient,
		introspectURL: introspectionURL(cfg.BaseURL, cfg.IntrospectPath),
		adminKey:      strings.TrimSpace(cfg.AdminKey),
		logger:        logger,
	}
	if cfg.PrincipalCacheTTL > 0 {
		c.principals = cache.NewStore(cfg.PrincipalCacheTTL)
	}
	if cfg.CircuitBreaker.Enabled {
		c.breaker = resilience.NewCircuitBreaker(cfg.CircuitBreaker)
		c.breaker.OnStateChange(func(from, to resilience.CircuitState) {
			logger.Warn("anubis circuit breaker state changed", "from", string(from), "to", string(to))
		})
	}

	return c
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, errors.Wrap(usecase.ErrUnauthorized, "token is required")
	}

	sum := sha256.Sum256([]byte(token))
	cacheKey := hex.EncodeToString(sum[:])
	if c.principals != nil {
		if cached, ok := c.principals.Get(ctx, cacheKey); ok {
			if principal, ok := cached.(user.Principal); ok {
				return principal, nil
			}
		}
	}

	var principal user.Principal
	call := func() error {
		var err error
		principal, err = c.introspect(ctx, token)
		return err
	}

	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(call, func(err error) bool { return errors.Is(err, errTransient) })
	} else {
		err = call()
	}
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return user.Principal{}, errors.Wrap(usecase.ErrDependencyUnavailable, "anubis circuit is open")
	}
	if err != nil {
		return user.Principal{}, err
	}

	if c.principals != nil {
		c.principals.Set(ctx, cacheKey, principal)
	}
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := jsoniter.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, errors.Wrap(err, "marshal introspect request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, errors.Wrap(err, "create introspect request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, transient(errors.Wrap(err, "request introspection to anubis"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return user.Principal{}, transient(errors.Wrap(err, "read introspect response"))
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return user.Principal{}, errors.Wrap(usecase.ErrUnauthorized, "introspection denied")
	case resp.StatusCode == http.StatusForbidden:
		// Our admin key was refused; the caller's token was never checked.
		c.logger.WarnContext(ctx, "anubis rejected admin key", "status_code", resp.StatusCode)
		return user.Principal{}, errors.Wrap(usecase.ErrDependencyUnavailable, "anubis rejected introspection credentials")
	case resp.StatusCode >= http.StatusInternalServerError:
		c.logger.WarnContext(ctx, "anubis introspection failed", "status_code", resp.StatusCode)
		return user.Principal{}, transient(errors.Newf("anubis introspection failed with status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		c.logger.WarnContext(ctx, "anubis introspection non-200", "status_code", resp.StatusCode)
		return user.Principal{}, errors.Wrapf(usecase.ErrDependencyUnavailable, "anubis introspection returned status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := jsoniter.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, errors.Wrapf(usecase.ErrDependencyUnavailable, "unmarshal introspect response: %v", err)
	}
	if !decoded.Active {
		return user.Principal{}, errors.Wrap(usecase.ErrUnauthorized, "inactive token")
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, errors.Wrap(usecase.ErrDependencyUnavailable, "invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID: decoded.UserID,
		Email:  decoded.Email,
	}, nil
}

// introspectionURL joins base and path. An absolute path overrides base.
func introspectionURL(base, path string) string {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if path == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

func transient(err error) error {
	return errors.Mark(errors.Wrapf(usecase.ErrDependencyUnavailable, "%v", err), errTransient)
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
