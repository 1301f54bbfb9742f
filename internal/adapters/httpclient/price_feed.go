package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"presale/internal/domain"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// PriceFeedClient reads USD prices from an HTTP price-feed gateway that
// mirrors on-chain aggregator answers.
type PriceFeedClient struct {
	http    *http.Client
	baseURL string
}

type feedResponse struct {
	Answer    string    `json:"answer"`
	Decimals  uint8     `json:"decimals"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *PriceFeedClient) LatestPrice(ctx context.Context, feed common.Address) (domain.OraclePrice, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.OraclePrice{}, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/feeds/" + feed.Hex()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.OraclePrice{}, fmt.Errorf("failed to create request for feed %s: %w", feed.Hex(), err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.OraclePrice{}, fmt.Errorf("failed to execute request for feed %s: %w", feed.Hex(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.OraclePrice{}, fmt.Errorf("unexpected status code %d for feed %s: %s", resp.StatusCode, feed.Hex(), resp.Status)
	}

	var body feedResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.OraclePrice{}, fmt.Errorf("failed to decode response for feed %s: %w", feed.Hex(), err)
	}

	answer, ok := new(big.Int).SetString(strings.TrimSpace(body.Answer), 10)
	if !ok {
		return domain.OraclePrice{}, fmt.Errorf("feed %s returned malformed answer %q", feed.Hex(), body.Answer)
	}

	return domain.OraclePrice{Answer: answer, Decimals: body.Decimals, UpdatedAt: body.UpdatedAt}, nil
}

func NewPriceFeedClient(httpClient *http.Client, baseURL string) *PriceFeedClient {
	return &PriceFeedClient{http: httpClient, baseURL: baseURL}
}
