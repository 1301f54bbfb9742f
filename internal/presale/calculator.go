package presale

import (
	"fmt"
	"presale/internal/domain"

	"github.com/holiman/uint256"
)

// 10^77 is the largest power of ten that fits in 256 bits.
const maxPow10 = 77

var ten = uint256.NewInt(10)

func pow10(exp int) (*uint256.Int, error) {
	if exp > maxPow10 {
		return nil, fmt.Errorf("10^%d: %w", exp, domain.ErrAmountOverflow)
	}
	return new(uint256.Int).Exp(ten, uint256.NewInt(uint64(exp))), nil
}

// PayAmount converts saleAmount of the sale token into the amount of the pay
// currency that buys it:
//
//	saleAmount * salePrice * 10^(payDecimals + payPrice.Decimals)
//	-------------------------------------------------------------
//	payPrice * 10^(salePrice.Decimals + saleDecimals)
//
// The powers of ten are reduced to one net exponent before multiplying and the
// division rounds up, so the buyer is never under-charged.
func PayAmount(saleAmount *uint256.Int, salePrice domain.Price, saleDecimals uint8, payPrice domain.Price, payDecimals uint8) (*uint256.Int, error) {
	if saleAmount == nil || saleAmount.IsZero() {
		return nil, domain.ErrZeroAmount
	}
	if payPrice.Value == nil || payPrice.Value.IsZero() {
		return nil, fmt.Errorf("zero pay currency price: %w", domain.ErrOracleUnavailable)
	}
	if salePrice.Value == nil || salePrice.Value.IsZero() {
		return nil, fmt.Errorf("zero sale token price")
	}

	num, overflow := new(uint256.Int).MulOverflow(saleAmount, salePrice.Value)
	if overflow {
		return nil, fmt.Errorf("sale value: %w", domain.ErrAmountOverflow)
	}
	den := new(uint256.Int).Set(payPrice.Value)

	exp := int(payDecimals) + int(payPrice.Decimals) - int(salePrice.Decimals) - int(saleDecimals)
	switch {
	case exp > 0:
		scale, err := pow10(exp)
		if err != nil {
			return nil, err
		}
		if _, overflow = num.MulOverflow(num, scale); overflow {
			return nil, fmt.Errorf("scaled sale value: %w", domain.ErrAmountOverflow)
		}
	case exp < 0:
		// A denominator past 256 bits exceeds num, so the rounded-up result is 1.
		scale, err := pow10(-exp)
		if err != nil {
			return uint256.NewInt(1), nil
		}
		if _, overflow = den.MulOverflow(den, scale); overflow {
			return uint256.NewInt(1), nil
		}
	}

	quo, rem := new(uint256.Int).DivMod(num, den, new(uint256.Int))
	if !rem.IsZero() {
		quo.AddUint64(quo, 1)
	}
	return quo, nil
}
