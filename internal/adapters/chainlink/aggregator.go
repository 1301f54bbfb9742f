package chainlink

import (
	"context"
	"fmt"
	"math/big"
	"presale/internal/adapters"
	"presale/internal/domain"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const aggregatorABI = `[
	{"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"latestRoundData","outputs":[
		{"name":"roundId","type":"uint80"},
		{"name":"answer","type":"int256"},
		{"name":"startedAt","type":"uint256"},
		{"name":"updatedAt","type":"uint256"},
		{"name":"answeredInRound","type":"uint80"}
	],"stateMutability":"view","type":"function"}
]`

// ContractCaller is the read-only slice of ethclient.Client used here.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// AggregatorFeed reads prices straight from AggregatorV3 contracts.
type AggregatorFeed struct {
	caller   ContractCaller
	abi      abi.ABI
	decimals adapters.DecimalsCache
}

func NewAggregatorFeed(caller ContractCaller, decimals adapters.DecimalsCache) (*AggregatorFeed, error) {
	parsed, err := abi.JSON(strings.NewReader(aggregatorABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse aggregator abi: %w", err)
	}
	return &AggregatorFeed{caller: caller, abi: parsed, decimals: decimals}, nil
}

func (f *AggregatorFeed) LatestPrice(ctx context.Context, feed common.Address) (domain.OraclePrice, error) {
	decimals, err := f.feedDecimals(ctx, feed)
	if err != nil {
		return domain.OraclePrice{}, err
	}

	out, err := f.call(ctx, feed, "latestRoundData")
	if err != nil {
		return domain.OraclePrice{}, err
	}
	if len(out) != 5 {
		return domain.OraclePrice{}, fmt.Errorf("latestRoundData of %s returned %d values", feed.Hex(), len(out))
	}
	answer, ok := out[1].(*big.Int)
	if !ok {
		return domain.OraclePrice{}, fmt.Errorf("latestRoundData of %s returned unexpected answer type %T", feed.Hex(), out[1])
	}
	updatedAt, ok := out[3].(*big.Int)
	if !ok {
		return domain.OraclePrice{}, fmt.Errorf("latestRoundData of %s returned unexpected updatedAt type %T", feed.Hex(), out[3])
	}

	return domain.OraclePrice{
		Answer:    answer,
		Decimals:  decimals,
		UpdatedAt: time.Unix(updatedAt.Int64(), 0).UTC(),
	}, nil
}

func (f *AggregatorFeed) feedDecimals(ctx context.Context, feed common.Address) (uint8, error) {
	if d, ok := f.decimals.Get(feed); ok {
		return d, nil
	}
	out, err := f.call(ctx, feed, "decimals")
	if err != nil {
		return 0, err
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("decimals of %s returned %d values", feed.Hex(), len(out))
	}
	d, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals of %s returned unexpected type %T", feed.Hex(), out[0])
	}
	f.decimals.Set(feed, d)
	return d, nil
}

func (f *AggregatorFeed) call(ctx context.Context, feed common.Address, method string) ([]interface{}, error) {
	data, err := f.abi.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	res, err := f.caller.CallContract(ctx, ethereum.CallMsg{To: &feed, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s on %s: %w", method, feed.Hex(), err)
	}
	out, err := f.abi.Unpack(method, res)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s of %s: %w", method, feed.Hex(), err)
	}
	return out, nil
}
