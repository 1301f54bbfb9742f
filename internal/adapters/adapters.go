package adapters

import (
	"context"
	"presale/internal/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Ledger is the fungible-token book: the native coin is held under
// domain.NativeCurrency like any other token.
type Ledger interface {
	BalanceOf(ctx context.Context, token, holder common.Address) (*uint256.Int, error)
	Transfer(ctx context.Context, token, from, to common.Address, amount *uint256.Int) error
	TransferFrom(ctx context.Context, token, spender, from, to common.Address, amount *uint256.Int) error
	Approve(ctx context.Context, token, owner, spender common.Address, amount *uint256.Int) error
	Mint(ctx context.Context, token, holder common.Address, amount *uint256.Int) error
	Decimals(ctx context.Context, token common.Address) (uint8, error)
	SetDecimals(ctx context.Context, token common.Address, decimals uint8) error
}

type PayTokenRegistry interface {
	PayTokenOracle(ctx context.Context, currency common.Address) (common.Address, bool, error)
	PutPayToken(ctx context.Context, token domain.PayToken) error
	PayTokens(ctx context.Context) ([]domain.PayToken, error)
}

// OwnershipStore returns the zero address for an owner that was never set.
type OwnershipStore interface {
	Owner(ctx context.Context) (common.Address, error)
	SetOwner(ctx context.Context, owner common.Address) error
	Implementation(ctx context.Context) (common.Address, error)
	SetImplementation(ctx context.Context, impl common.Address) error
}

type PurchaseJournal interface {
	// RecordPurchase fails with domain.ErrDuplicateRequest when the id is taken.
	RecordPurchase(ctx context.Context, p domain.Purchase) error
}

type StateTx interface {
	Ledger
	PayTokenRegistry
	OwnershipStore
	PurchaseJournal
}

// StateStore runs fn against a consistent view of all presale state.
// Atomic transactions are serialized and either apply every effect of fn or
// none of them. View transactions reject writes.
type StateStore interface {
	Atomic(ctx context.Context, fn func(tx StateTx) error) error
	View(ctx context.Context, fn func(tx StateTx) error) error
}

type PriceFeed interface {
	LatestPrice(ctx context.Context, feed common.Address) (domain.OraclePrice, error)
}

type DecimalsCache interface {
	Get(token common.Address) (uint8, bool)
	Set(token common.Address, decimals uint8)
}
