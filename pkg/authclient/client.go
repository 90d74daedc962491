package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrUnauthorized means the auth service rejected the token.
	ErrUnauthorized = errors.New("token rejected")
	// ErrUnavailable means the auth service could not be reached; callers must
	// fail the request, never fall back.
	ErrUnavailable = errors.New("auth service unavailable")
)

// Identity is the verified subject returned by the auth service.
type Identity struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      IdentityCache
}

func NewClient(authServiceURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(authServiceURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// WithCache enables short-lived caching of verification results. Without it
// every Verify is a network round trip.
func (c *Client) WithCache(cache IdentityCache) *Client {
	c.cache = cache
	return c
}

// Verify asks the auth service to validate token and returns the identity it
// carries. The token is opaque to this client.
func (c *Client) Verify(ctx context.Context, token string) (*Identity, error) {
	if c.cache != nil {
		if id, err := c.cache.Get(ctx, token); err == nil {
			return id, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/verify-token", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	default:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, token, &id)
	}

	return &id, nil
}
