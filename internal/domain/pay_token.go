package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// NativeCurrency is the reserved identifier of the chain's native coin.
var NativeCurrency = common.HexToAddress("0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB")

// NativeDecimals is the canonical precision of the native coin.
const NativeDecimals uint8 = 18

// PayToken binds an accepted payment currency to its USD price oracle.
type PayToken struct {
	Currency common.Address `json:"currency"`
	Oracle   common.Address `json:"oracle"`
}

// OraclePrice is a raw feed answer as reported by the oracle.
type OraclePrice struct {
	Answer    *big.Int
	Decimals  uint8
	UpdatedAt time.Time
}

// Price is a strictly positive fixed-point USD price.
type Price struct {
	Value    *uint256.Int
	Decimals uint8
}

func IsNative(currency common.Address) bool {
	return currency == NativeCurrency
}
