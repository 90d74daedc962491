package cartclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrUnavailable = errors.New("cart service unavailable")

// Line is one priced cart row as the cart service reports it. These are the
// only trusted financial inputs to checkout.
type Line struct {
	ProductID uint            `json:"product_id"`
	Quantity  uint            `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cartServiceURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(cartServiceURL, "/"),
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

// FetchCart reads the caller's cart on their behalf by forwarding the bearer
// token.
func (c *Client) FetchCart(ctx context.Context, bearerToken string) ([]Line, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/cart", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var lines []Line
	if err := json.NewDecoder(resp.Body).Decode(&lines); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return lines, nil
}
