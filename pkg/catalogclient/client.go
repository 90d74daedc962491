package catalogclient

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

var (
	ErrNotFound    = errors.New("product not found")
	ErrUnavailable = errors.New("catalog service unavailable")
)

// Product mirrors the catalog service response. UnitPrice is a pointer so a
// product without a price is distinguishable from a zero price.
type Product struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

type Source string

const (
	SourceAuthoritative Source = "authoritative"
	SourceFallback      Source = "fallback"
)

// Snapshot carries display fields for an order item together with where they
// came from, so degraded data is never mistaken for catalog data.
type Snapshot struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Source      Source  `json:"source"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(catalogServiceURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(catalogServiceURL, "/"),
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

func (c *Client) GetProduct(ctx context.Context, id uint) (*Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var p Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &p, nil
}

// ProductSnapshot never fails: when the catalog can not answer, it synthesizes
// a placeholder name and marks the result as fallback data.
func (c *Client) ProductSnapshot(ctx context.Context, id uint) Snapshot {
	p, err := c.GetProduct(ctx, id)
	if err != nil {
		return Snapshot{
			Name:   fmt.Sprintf("Product %d", id),
			Source: SourceFallback,
		}
	}
	return Snapshot{
		Name:        p.Name,
		Description: p.Description,
		Source:      SourceAuthoritative,
	}
}
