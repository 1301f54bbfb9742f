package presale

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type Info struct {
	Owner             common.Address
	Implementation    common.Address
	SaleToken         common.Address
	SalePrice         *uint256.Int
	SalePriceDecimals uint8
	Treasury          common.Address
}
