package memory

import (
	"context"
	"errors"
	"fmt"
	"presale/internal/adapters"
	"presale/internal/domain"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
)

var errReadOnly = errors.New("write in read-only transaction")

type allowanceKey struct {
	token, owner, spender common.Address
}

type balanceKey struct {
	token, holder common.Address
}

type state struct {
	owner          common.Address
	implementation common.Address
	payTokens      map[common.Address]common.Address
	payTokenOrder  []common.Address
	balances       map[balanceKey]*uint256.Int
	allowances     map[allowanceKey]*uint256.Int
	decimals       map[common.Address]uint8
	purchases      map[uuid.UUID]domain.Purchase
}

func newState() *state {
	return &state{
		payTokens:  make(map[common.Address]common.Address),
		balances:   make(map[balanceKey]*uint256.Int),
		allowances: make(map[allowanceKey]*uint256.Int),
		decimals:   make(map[common.Address]uint8),
		purchases:  make(map[uuid.UUID]domain.Purchase),
	}
}

// clone copies maps; amounts are never mutated in place so values are shared.
// The append-only purchase journal is shared too: a transaction stages its
// purchases and Atomic appends them on commit.
func (s *state) clone() *state {
	c := &state{
		owner:          s.owner,
		implementation: s.implementation,
		payTokens:      make(map[common.Address]common.Address, len(s.payTokens)),
		payTokenOrder:  append([]common.Address(nil), s.payTokenOrder...),
		balances:       make(map[balanceKey]*uint256.Int, len(s.balances)),
		allowances:     make(map[allowanceKey]*uint256.Int, len(s.allowances)),
		decimals:       make(map[common.Address]uint8, len(s.decimals)),
		purchases:      s.purchases,
	}
	for k, v := range s.payTokens {
		c.payTokens[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.allowances {
		c.allowances[k] = v
	}
	for k, v := range s.decimals {
		c.decimals[k] = v
	}
	return c
}

// Store keeps presale state in process memory. Atomic transactions work on
// a private copy that replaces the live state only when fn succeeds.
type Store struct {
	mu sync.RWMutex
	st *state
}

func (s *Store) Atomic(ctx context.Context, fn func(tx adapters.StateTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	draft := s.st.clone()
	t := &tx{st: draft}
	if err := fn(t); err != nil {
		return err
	}
	for id, p := range t.journal {
		draft.purchases[id] = p
	}
	s.st = draft
	return nil
}

func (s *Store) View(ctx context.Context, fn func(tx adapters.StateTx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(&tx{st: s.st, readOnly: true})
}

func NewStore() *Store {
	return &Store{st: newState()}
}

type tx struct {
	st       *state
	readOnly bool
	journal  map[uuid.UUID]domain.Purchase
}

func (t *tx) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

func (t *tx) balance(token, holder common.Address) *uint256.Int {
	if v, ok := t.st.balances[balanceKey{token, holder}]; ok {
		return v
	}
	return new(uint256.Int)
}

func (t *tx) BalanceOf(_ context.Context, token, holder common.Address) (*uint256.Int, error) {
	return new(uint256.Int).Set(t.balance(token, holder)), nil
}

func (t *tx) Transfer(_ context.Context, token, from, to common.Address, amount *uint256.Int) error {
	if err := t.writable(); err != nil {
		return err
	}
	return t.move(token, from, to, amount)
}

func (t *tx) move(token, from, to common.Address, amount *uint256.Int) error {
	fromBal := t.balance(token, from)
	if fromBal.Lt(amount) {
		return fmt.Errorf("failed to transfer %s of %s from %s: %w", amount.Dec(), token.Hex(), from.Hex(), domain.ErrInsufficientBalance)
	}
	if from == to {
		return nil
	}
	toBal, overflow := new(uint256.Int).AddOverflow(t.balance(token, to), amount)
	if overflow {
		return fmt.Errorf("failed to credit %s: %w", to.Hex(), domain.ErrAmountOverflow)
	}
	t.st.balances[balanceKey{token, from}] = new(uint256.Int).Sub(fromBal, amount)
	t.st.balances[balanceKey{token, to}] = toBal
	return nil
}

func (t *tx) TransferFrom(_ context.Context, token, spender, from, to common.Address, amount *uint256.Int) error {
	if err := t.writable(); err != nil {
		return err
	}
	key := allowanceKey{token: token, owner: from, spender: spender}
	allowance, ok := t.st.allowances[key]
	if !ok {
		allowance = new(uint256.Int)
	}
	if allowance.Lt(amount) {
		return fmt.Errorf("failed to spend %s of %s for %s: %w", amount.Dec(), token.Hex(), from.Hex(), domain.ErrInsufficientAllowance)
	}
	if err := t.move(token, from, to, amount); err != nil {
		return err
	}
	t.st.allowances[key] = new(uint256.Int).Sub(allowance, amount)
	return nil
}

func (t *tx) Approve(_ context.Context, token, owner, spender common.Address, amount *uint256.Int) error {
	if err := t.writable(); err != nil {
		return err
	}
	t.st.allowances[allowanceKey{token: token, owner: owner, spender: spender}] = new(uint256.Int).Set(amount)
	return nil
}

func (t *tx) Mint(_ context.Context, token, holder common.Address, amount *uint256.Int) error {
	if err := t.writable(); err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(t.balance(token, holder), amount)
	if overflow {
		return fmt.Errorf("failed to mint to %s: %w", holder.Hex(), domain.ErrAmountOverflow)
	}
	t.st.balances[balanceKey{token, holder}] = sum
	return nil
}

func (t *tx) Decimals(_ context.Context, token common.Address) (uint8, error) {
	if domain.IsNative(token) {
		return domain.NativeDecimals, nil
	}
	d, ok := t.st.decimals[token]
	if !ok {
		return 0, fmt.Errorf("decimals of %s: %w", token.Hex(), domain.ErrUnknownDecimals)
	}
	return d, nil
}

func (t *tx) SetDecimals(_ context.Context, token common.Address, decimals uint8) error {
	if err := t.writable(); err != nil {
		return err
	}
	t.st.decimals[token] = decimals
	return nil
}

func (t *tx) PayTokenOracle(_ context.Context, currency common.Address) (common.Address, bool, error) {
	oracle, ok := t.st.payTokens[currency]
	return oracle, ok, nil
}

func (t *tx) PutPayToken(_ context.Context, token domain.PayToken) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.payTokens[token.Currency]; !ok {
		t.st.payTokenOrder = append(t.st.payTokenOrder, token.Currency)
	}
	t.st.payTokens[token.Currency] = token.Oracle
	return nil
}

func (t *tx) PayTokens(_ context.Context) ([]domain.PayToken, error) {
	res := make([]domain.PayToken, 0, len(t.st.payTokenOrder))
	for _, c := range t.st.payTokenOrder {
		res = append(res, domain.PayToken{Currency: c, Oracle: t.st.payTokens[c]})
	}
	return res, nil
}

func (t *tx) Owner(_ context.Context) (common.Address, error) {
	return t.st.owner, nil
}

func (t *tx) SetOwner(_ context.Context, owner common.Address) error {
	if err := t.writable(); err != nil {
		return err
	}
	t.st.owner = owner
	return nil
}

func (t *tx) Implementation(_ context.Context) (common.Address, error) {
	return t.st.implementation, nil
}

func (t *tx) SetImplementation(_ context.Context, impl common.Address) error {
	if err := t.writable(); err != nil {
		return err
	}
	t.st.implementation = impl
	return nil
}

func (t *tx) RecordPurchase(_ context.Context, p domain.Purchase) error {
	if err := t.writable(); err != nil {
		return err
	}
	_, recorded := t.st.purchases[p.ID]
	_, staged := t.journal[p.ID]
	if recorded || staged {
		return fmt.Errorf("purchase %s: %w", p.ID, domain.ErrDuplicateRequest)
	}
	if t.journal == nil {
		t.journal = make(map[uuid.UUID]domain.Purchase)
	}
	t.journal[p.ID] = p
	return nil
}
