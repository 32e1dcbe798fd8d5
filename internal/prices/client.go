// Package prices fetches live USD quotes from CoinGecko and maintains an
// in-memory snapshot that the portfolio computations read from. Fetch
// failures degrade to missing quotes; they never propagate past the feed.
package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"cryptofolio/internal/portfolio"
)

// Client is a minimal CoinGecko API client.
type Client struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewClient creates a CoinGecko client. baseURL should not include a
// trailing slash (e.g. "https://api.coingecko.com/api/v3").
func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{httpClient: httpClient, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// SimplePrice fetches current USD prices and 24h changes for the given
// CoinGecko IDs. IDs unknown to CoinGecko are absent from the result.
func (c *Client) SimplePrice(ctx context.Context, ids []string) (map[string]portfolio.Quote, error) {
	if len(ids) == 0 {
		return map[string]portfolio.Quote{}, nil
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")
	q.Set("include_24hr_change", "true")
	endpoint := c.baseURL + "/simple/price?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price request: unexpected status %d", resp.StatusCode)
	}

	// Response shape: {"bitcoin": {"usd": 50000.1, "usd_24h_change": -1.2}}
	var raw map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding price response: %w", err)
	}

	quotes := make(map[string]portfolio.Quote, len(raw))
	for id, fields := range raw {
		price, ok := fields["usd"]
		if !ok || price <= 0 {
			continue
		}
		quotes[id] = portfolio.Quote{
			PriceUSD:         decimal.NewFromFloat(price),
			Change24hPercent: decimal.NewFromFloat(fields["usd_24h_change"]),
		}
	}
	return quotes, nil
}
