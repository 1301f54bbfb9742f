package presale

import (
	"context"
	"fmt"
	"presale/internal/adapters"
	"presale/internal/domain"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const defaultOracleTimeout = 5 * time.Second

// OracleReader turns raw feed answers into usable prices. Every read goes to
// the feed; nothing is cached and nothing is retried.
type OracleReader struct {
	feed    adapters.PriceFeed
	timeout time.Duration
}

type OracleResolver interface {
	PayTokenOracle(ctx context.Context, currency common.Address) (common.Address, bool, error)
}

// Read resolves the oracle bound to currency and reads its current price.
func (o *OracleReader) Read(ctx context.Context, registry OracleResolver, currency common.Address) (domain.Price, error) {
	oracle, ok, err := registry.PayTokenOracle(ctx, currency)
	if err != nil {
		return domain.Price{}, fmt.Errorf("failed to resolve %s: %w", currency.Hex(), err)
	}
	if !ok {
		return domain.Price{}, fmt.Errorf("%s: %w", currency.Hex(), domain.ErrUnsupportedCurrency)
	}
	price, _, err := o.Price(ctx, oracle)
	return price, err
}

// Price reads oracle directly and also returns the time of its last update.
func (o *OracleReader) Price(ctx context.Context, oracle common.Address) (domain.Price, time.Time, error) {
	readCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	raw, err := o.feed.LatestPrice(readCtx, oracle)
	if err != nil {
		return domain.Price{}, time.Time{}, fmt.Errorf("oracle %s: %w: %w", oracle.Hex(), domain.ErrOracleUnavailable, err)
	}
	if raw.Answer == nil || raw.Answer.Sign() <= 0 {
		return domain.Price{}, time.Time{}, fmt.Errorf("oracle %s returned non-positive price: %w", oracle.Hex(), domain.ErrOracleUnavailable)
	}
	value, overflow := uint256.FromBig(raw.Answer)
	if overflow {
		return domain.Price{}, time.Time{}, fmt.Errorf("oracle %s price overflows: %w", oracle.Hex(), domain.ErrOracleUnavailable)
	}
	return domain.Price{Value: value, Decimals: raw.Decimals}, raw.UpdatedAt, nil
}

func NewOracleReader(feed adapters.PriceFeed, timeout time.Duration) *OracleReader {
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}
	return &OracleReader{feed: feed, timeout: timeout}
}
