package presale

import (
	"context"
	"errors"
	"fmt"
	"presale/internal/access"
	"presale/internal/adapters"
	"presale/internal/domain"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
)

// Sale holds the immutable parameters of the presale.
type Sale struct {
	Token    common.Address
	Price    domain.Price
	Treasury common.Address
}

// Allocation is an initial ledger balance written by Initialize.
type Allocation struct {
	Token  common.Address
	Holder common.Address
	Amount *uint256.Int
}

type Genesis struct {
	Owner       common.Address
	PayTokens   []domain.PayToken
	Decimals    map[common.Address]uint8
	Allocations []Allocation
}

type Service struct {
	store    adapters.StateStore
	oracle   *OracleReader
	decimals adapters.DecimalsCache
	sale     Sale
	now      func() time.Time
}

func NewService(store adapters.StateStore, oracle *OracleReader, decimals adapters.DecimalsCache, sale Sale) (*Service, error) {
	if sale.Price.Value == nil || sale.Price.Value.IsZero() {
		return nil, errors.New("sale token price must be positive")
	}
	if sale.Token == (common.Address{}) || sale.Treasury == (common.Address{}) {
		return nil, fmt.Errorf("sale token and treasury are required: %w", domain.ErrZeroAddress)
	}
	return &Service{
		store:    store,
		oracle:   oracle,
		decimals: decimals,
		sale:     sale,
		now:      time.Now,
	}, nil
}

// Initialize writes the owner and the initial state exactly once.
func (s *Service) Initialize(ctx context.Context, g Genesis) error {
	if g.Owner == (common.Address{}) {
		return fmt.Errorf("owner: %w", domain.ErrZeroAddress)
	}
	return s.store.Atomic(ctx, func(tx adapters.StateTx) error {
		owner, err := tx.Owner(ctx)
		if err != nil {
			return err
		}
		if owner != (common.Address{}) {
			return domain.ErrAlreadyInitialized
		}
		for token, d := range g.Decimals {
			if err = tx.SetDecimals(ctx, token, d); err != nil {
				return err
			}
		}
		for _, pt := range g.PayTokens {
			if err = putPayToken(ctx, tx, pt); err != nil {
				return err
			}
			if _, err = tx.Decimals(ctx, pt.Currency); err != nil {
				return fmt.Errorf("pay token: %w", err)
			}
		}
		if _, err = tx.Decimals(ctx, s.sale.Token); err != nil {
			return fmt.Errorf("sale token: %w", err)
		}
		for _, a := range g.Allocations {
			if err = tx.Mint(ctx, a.Token, a.Holder, a.Amount); err != nil {
				return err
			}
		}
		return tx.SetOwner(ctx, g.Owner)
	})
}

func putPayToken(ctx context.Context, tx adapters.StateTx, pt domain.PayToken) error {
	if pt.Currency == (common.Address{}) || pt.Oracle == (common.Address{}) {
		return fmt.Errorf("pay token %s with oracle %s: %w", pt.Currency.Hex(), pt.Oracle.Hex(), domain.ErrZeroAddress)
	}
	return tx.PutPayToken(ctx, pt)
}

// recordDecimals stores the precision of a newly listed token. decimals may
// be nil when the precision is already on record; a value that differs from
// the recorded one is rejected.
func recordDecimals(ctx context.Context, tx adapters.StateTx, token common.Address, decimals *uint8) error {
	known, err := tx.Decimals(ctx, token)
	switch {
	case errors.Is(err, domain.ErrUnknownDecimals):
		if decimals == nil {
			return fmt.Errorf("decimals of %s must be given: %w", token.Hex(), domain.ErrUnknownDecimals)
		}
		return tx.SetDecimals(ctx, token, *decimals)
	case err != nil:
		return err
	case decimals != nil && *decimals != known:
		return fmt.Errorf("%s has %d decimals, got %d: %w", token.Hex(), known, *decimals, domain.ErrDecimalsMismatch)
	}
	return nil
}

func (s *Service) tokenDecimals(ctx context.Context, tx adapters.StateTx, token common.Address) (uint8, error) {
	if d, ok := s.decimals.Get(token); ok {
		return d, nil
	}
	d, err := tx.Decimals(ctx, token)
	if err != nil {
		return 0, err
	}
	s.decimals.Set(token, d)
	return d, nil
}

func (s *Service) payAmount(ctx context.Context, tx adapters.StateTx, amount *uint256.Int, currency common.Address) (*uint256.Int, error) {
	if amount == nil || amount.IsZero() {
		return nil, domain.ErrZeroAmount
	}
	payPrice, err := s.oracle.Read(ctx, tx, currency)
	if err != nil {
		return nil, err
	}
	payDecimals, err := s.tokenDecimals(ctx, tx, currency)
	if err != nil {
		return nil, err
	}
	saleDecimals, err := s.tokenDecimals(ctx, tx, s.sale.Token)
	if err != nil {
		return nil, err
	}
	return PayAmount(amount, s.sale.Price, saleDecimals, payPrice, payDecimals)
}

// Quote returns what buying amount of the sale token with currency costs now.
func (s *Service) Quote(ctx context.Context, amount *uint256.Int, currency common.Address) (*uint256.Int, error) {
	var res *uint256.Int
	err := s.store.View(ctx, func(tx adapters.StateTx) error {
		var err error
		res, err = s.payAmount(ctx, tx, amount, currency)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Buy settles payment for req and releases the sale token to the buyer in a
// single atomic step.
func (s *Service) Buy(ctx context.Context, req domain.ExchangeRequest) (domain.Purchase, error) {
	if req.SaleAmount == nil || req.SaleAmount.IsZero() {
		return domain.Purchase{}, domain.ErrZeroAmount
	}
	maxPay := orZero(req.MaxPayAmount)
	nativeValue := orZero(req.NativeValue)
	if req.RequestID == uuid.Nil {
		req.RequestID = uuid.New()
	}

	var purchase domain.Purchase
	err := s.store.Atomic(ctx, func(tx adapters.StateTx) error {
		payAmount, err := s.payAmount(ctx, tx, req.SaleAmount, req.PayCurrency)
		if err != nil {
			return err
		}
		if payAmount.Gt(maxPay) {
			return fmt.Errorf("pay amount %s over max %s: %w", payAmount.Dec(), maxPay.Dec(), domain.ErrSlippageExceeded)
		}
		if !domain.IsNative(req.PayCurrency) && !nativeValue.IsZero() {
			return domain.ErrNativeValueNotAccepted
		}
		if domain.IsNative(req.PayCurrency) && nativeValue.Lt(payAmount) {
			return fmt.Errorf("attached %s, required %s: %w", nativeValue.Dec(), payAmount.Dec(), domain.ErrInsufficientPayment)
		}

		available, err := tx.BalanceOf(ctx, s.sale.Token, s.sale.Treasury)
		if err != nil {
			return err
		}
		if available.Lt(req.SaleAmount) {
			return fmt.Errorf("requested %s, available %s: %w", req.SaleAmount.Dec(), available.Dec(), domain.ErrInsufficientLiquidity)
		}

		refund, err := s.settle(ctx, tx, req.Buyer, req.PayCurrency, payAmount, nativeValue)
		if err != nil {
			return err
		}
		if err = tx.Transfer(ctx, s.sale.Token, s.sale.Treasury, req.Buyer, req.SaleAmount); err != nil {
			return fmt.Errorf("failed to release sale token: %w", err)
		}

		purchase = domain.Purchase{
			ID:          req.RequestID,
			Buyer:       req.Buyer,
			PayCurrency: req.PayCurrency,
			SaleAmount:  new(uint256.Int).Set(req.SaleAmount),
			PayAmount:   payAmount,
			Refund:      refund,
			CreatedAt:   s.now().UTC(),
		}
		return tx.RecordPurchase(ctx, purchase)
	})
	if err != nil {
		return domain.Purchase{}, err
	}
	return purchase, nil
}

// settle collects payAmount from buyer into the treasury and returns the
// native change sent back.
func (s *Service) settle(ctx context.Context, tx adapters.StateTx, buyer, currency common.Address, payAmount, nativeValue *uint256.Int) (*uint256.Int, error) {
	if !domain.IsNative(currency) {
		if err := tx.TransferFrom(ctx, currency, s.sale.Treasury, buyer, s.sale.Treasury, payAmount); err != nil {
			return nil, fmt.Errorf("failed to collect payment: %w", err)
		}
		return new(uint256.Int), nil
	}

	if err := tx.Transfer(ctx, domain.NativeCurrency, buyer, s.sale.Treasury, nativeValue); err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return nil, fmt.Errorf("buyer cannot fund attached value: %w: %w", domain.ErrInsufficientPayment, err)
		}
		return nil, fmt.Errorf("failed to collect payment: %w", err)
	}
	refund := new(uint256.Int).Sub(nativeValue, payAmount)
	if !refund.IsZero() {
		if err := tx.Transfer(ctx, domain.NativeCurrency, s.sale.Treasury, buyer, refund); err != nil {
			return nil, fmt.Errorf("failed to refund change: %w", err)
		}
	}
	return refund, nil
}

// AddPayToken binds currency to oracle. decimals is the currency's precision
// and may be nil when it is already on record.
func (s *Service) AddPayToken(ctx context.Context, caller, currency, oracle common.Address, decimals *uint8) error {
	err := s.store.Atomic(ctx, func(tx adapters.StateTx) error {
		if err := access.Check(ctx, tx, caller, access.AddPayToken); err != nil {
			return err
		}
		if err := putPayToken(ctx, tx, domain.PayToken{Currency: currency, Oracle: oracle}); err != nil {
			return err
		}
		return recordDecimals(ctx, tx, currency, decimals)
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"currency": currency.Hex(), "oracle": oracle.Hex()}).Info("Pay token registered")
	return nil
}

// Withdraw moves amount of currency from the treasury to the owner.
func (s *Service) Withdraw(ctx context.Context, caller, currency common.Address, amount *uint256.Int) error {
	return s.store.Atomic(ctx, func(tx adapters.StateTx) error {
		if err := access.Check(ctx, tx, caller, access.Withdraw); err != nil {
			return err
		}
		if amount == nil || amount.IsZero() {
			return domain.ErrZeroAmount
		}
		return tx.Transfer(ctx, currency, s.sale.Treasury, caller, amount)
	})
}

func (s *Service) TransferOwnership(ctx context.Context, caller, newOwner common.Address) error {
	err := s.store.Atomic(ctx, func(tx adapters.StateTx) error {
		if err := access.Check(ctx, tx, caller, access.TransferOwnership); err != nil {
			return err
		}
		if newOwner == (common.Address{}) {
			return fmt.Errorf("new owner: %w", domain.ErrZeroAddress)
		}
		return tx.SetOwner(ctx, newOwner)
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"previous": caller.Hex(), "owner": newOwner.Hex()}).Info("Ownership transferred")
	return nil
}

// UpgradeTo authorizes impl as the next logic version. Rolling it out is a
// redeploy of the service at that version.
func (s *Service) UpgradeTo(ctx context.Context, caller, impl common.Address) error {
	err := s.store.Atomic(ctx, func(tx adapters.StateTx) error {
		if err := access.Check(ctx, tx, caller, access.Upgrade); err != nil {
			return err
		}
		if impl == (common.Address{}) {
			return fmt.Errorf("implementation: %w", domain.ErrZeroAddress)
		}
		return tx.SetImplementation(ctx, impl)
	})
	if err != nil {
		return err
	}
	logrus.WithField("implementation", impl.Hex()).Warn("Upgrade authorized, redeploy required")
	return nil
}

// Approve lets spender pull up to amount of token from owner.
func (s *Service) Approve(ctx context.Context, owner, token, spender common.Address, amount *uint256.Int) error {
	return s.store.Atomic(ctx, func(tx adapters.StateTx) error {
		return tx.Approve(ctx, token, owner, spender, orZero(amount))
	})
}

func (s *Service) BalanceOf(ctx context.Context, token, holder common.Address) (*uint256.Int, error) {
	var res *uint256.Int
	err := s.store.View(ctx, func(tx adapters.StateTx) error {
		var err error
		res, err = tx.BalanceOf(ctx, token, holder)
		return err
	})
	return res, err
}

func (s *Service) PayTokenOracle(ctx context.Context, currency common.Address) (common.Address, bool, error) {
	var (
		oracle common.Address
		ok     bool
	)
	err := s.store.View(ctx, func(tx adapters.StateTx) error {
		var err error
		oracle, ok, err = tx.PayTokenOracle(ctx, currency)
		return err
	})
	return oracle, ok, err
}

func (s *Service) PayTokens(ctx context.Context) ([]domain.PayToken, error) {
	var res []domain.PayToken
	err := s.store.View(ctx, func(tx adapters.StateTx) error {
		var err error
		res, err = tx.PayTokens(ctx)
		return err
	})
	return res, err
}

func (s *Service) Info(ctx context.Context) (Info, error) {
	info := Info{
		SaleToken:         s.sale.Token,
		SalePrice:         new(uint256.Int).Set(s.sale.Price.Value),
		SalePriceDecimals: s.sale.Price.Decimals,
		Treasury:          s.sale.Treasury,
	}
	err := s.store.View(ctx, func(tx adapters.StateTx) error {
		var err error
		if info.Owner, err = tx.Owner(ctx); err != nil {
			return err
		}
		info.Implementation, err = tx.Implementation(ctx)
		return err
	})
	if err != nil {
		return Info{}, err
	}
	return info, nil
}

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}
