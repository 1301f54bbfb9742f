package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
)

// ExchangeRequest is a single buy attempt. NativeValue is the amount of
// native coin attached to the request; it is zero for token payments.
type ExchangeRequest struct {
	RequestID    uuid.UUID
	Buyer        common.Address
	SaleAmount   *uint256.Int
	PayCurrency  common.Address
	MaxPayAmount *uint256.Int
	NativeValue  *uint256.Int
}

type Purchase struct {
	ID          uuid.UUID
	Buyer       common.Address
	PayCurrency common.Address
	SaleAmount  *uint256.Int
	PayAmount   *uint256.Int
	Refund      *uint256.Int
	CreatedAt   time.Time
}
