package postgres

import (
	"context"
	"errors"
	"fmt"
	"presale/internal/adapters"
	"presale/internal/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// stateLockKey serializes Atomic transactions across all service replicas.
const stateLockKey int64 = 0x70726573616c65

type StateStore struct {
	pool *pgxpool.Pool
}

func (s *StateStore) Atomic(ctx context.Context, fn func(tx adapters.StateTx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, `select pg_advisory_xact_lock($1)`, stateLockKey); err != nil {
		return fmt.Errorf("failed to acquire state lock: %w", err)
	}
	if err = fn(&stateTx{tx: tx}); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *StateStore) View(ctx context.Context, fn func(tx adapters.StateTx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("failed to begin read-only transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err = fn(&stateTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func NewStateStore(pool *pgxpool.Pool) *StateStore {
	return &StateStore{pool: pool}
}

type stateTx struct {
	tx pgx.Tx
}

func parseAmount(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored amount %q: %w", s, err)
	}
	return v, nil
}

// ---------- Ledger ----------

func (t *stateTx) BalanceOf(ctx context.Context, token, holder common.Address) (*uint256.Int, error) {
	const q = `select amount::text from balances where token = $1 and holder = $2`

	var amount string
	err := t.tx.QueryRow(ctx, q, token.Bytes(), holder.Bytes()).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance of %s in %s: %w", holder.Hex(), token.Hex(), err)
	}
	return parseAmount(amount)
}

func (t *stateTx) setBalance(ctx context.Context, token, holder common.Address, amount *uint256.Int) error {
	const q = `
		insert into balances (token, holder, amount) values ($1, $2, $3::numeric)
		on conflict (token, holder) do update set amount = excluded.amount
	`
	if _, err := t.tx.Exec(ctx, q, token.Bytes(), holder.Bytes(), amount.Dec()); err != nil {
		return fmt.Errorf("failed to set balance of %s in %s: %w", holder.Hex(), token.Hex(), err)
	}
	return nil
}

func (t *stateTx) Transfer(ctx context.Context, token, from, to common.Address, amount *uint256.Int) error {
	fromBal, err := t.BalanceOf(ctx, token, from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return fmt.Errorf("failed to transfer %s of %s from %s: %w", amount.Dec(), token.Hex(), from.Hex(), domain.ErrInsufficientBalance)
	}
	if from == to {
		return nil
	}
	toBal, err := t.BalanceOf(ctx, token, to)
	if err != nil {
		return err
	}
	credited, overflow := new(uint256.Int).AddOverflow(toBal, amount)
	if overflow {
		return fmt.Errorf("failed to credit %s: %w", to.Hex(), domain.ErrAmountOverflow)
	}
	if err = t.setBalance(ctx, token, from, new(uint256.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	return t.setBalance(ctx, token, to, credited)
}

func (t *stateTx) allowance(ctx context.Context, token, owner, spender common.Address) (*uint256.Int, error) {
	const q = `select amount::text from allowances where token = $1 and owner = $2 and spender = $3`

	var amount string
	err := t.tx.QueryRow(ctx, q, token.Bytes(), owner.Bytes(), spender.Bytes()).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get allowance: %w", err)
	}
	return parseAmount(amount)
}

func (t *stateTx) TransferFrom(ctx context.Context, token, spender, from, to common.Address, amount *uint256.Int) error {
	allowance, err := t.allowance(ctx, token, from, spender)
	if err != nil {
		return err
	}
	if allowance.Lt(amount) {
		return fmt.Errorf("failed to spend %s of %s for %s: %w", amount.Dec(), token.Hex(), from.Hex(), domain.ErrInsufficientAllowance)
	}
	if err = t.Transfer(ctx, token, from, to, amount); err != nil {
		return err
	}
	return t.Approve(ctx, token, from, spender, new(uint256.Int).Sub(allowance, amount))
}

func (t *stateTx) Approve(ctx context.Context, token, owner, spender common.Address, amount *uint256.Int) error {
	const q = `
		insert into allowances (token, owner, spender, amount) values ($1, $2, $3, $4::numeric)
		on conflict (token, owner, spender) do update set amount = excluded.amount
	`
	if _, err := t.tx.Exec(ctx, q, token.Bytes(), owner.Bytes(), spender.Bytes(), amount.Dec()); err != nil {
		return fmt.Errorf("failed to set allowance: %w", err)
	}
	return nil
}

func (t *stateTx) Mint(ctx context.Context, token, holder common.Address, amount *uint256.Int) error {
	bal, err := t.BalanceOf(ctx, token, holder)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(bal, amount)
	if overflow {
		return fmt.Errorf("failed to mint to %s: %w", holder.Hex(), domain.ErrAmountOverflow)
	}
	return t.setBalance(ctx, token, holder, sum)
}

func (t *stateTx) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	if domain.IsNative(token) {
		return domain.NativeDecimals, nil
	}
	var decimals int16
	err := t.tx.QueryRow(ctx, `select decimals from token_decimals where token = $1`, token.Bytes()).Scan(&decimals)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("decimals of %s: %w", token.Hex(), domain.ErrUnknownDecimals)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get decimals of %s: %w", token.Hex(), err)
	}
	return uint8(decimals), nil
}

func (t *stateTx) SetDecimals(ctx context.Context, token common.Address, decimals uint8) error {
	const q = `
		insert into token_decimals (token, decimals) values ($1, $2)
		on conflict (token) do update set decimals = excluded.decimals
	`
	if _, err := t.tx.Exec(ctx, q, token.Bytes(), int16(decimals)); err != nil {
		return fmt.Errorf("failed to set decimals of %s: %w", token.Hex(), err)
	}
	return nil
}

// ---------- PayTokenRegistry ----------

func (t *stateTx) PayTokenOracle(ctx context.Context, currency common.Address) (common.Address, bool, error) {
	var oracle []byte
	err := t.tx.QueryRow(ctx, `select oracle from pay_tokens where currency = $1`, currency.Bytes()).Scan(&oracle)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.Address{}, false, nil
	}
	if err != nil {
		return common.Address{}, false, fmt.Errorf("failed to get oracle of %s: %w", currency.Hex(), err)
	}
	return common.BytesToAddress(oracle), true, nil
}

func (t *stateTx) PutPayToken(ctx context.Context, token domain.PayToken) error {
	const q = `
		insert into pay_tokens (currency, oracle) values ($1, $2)
		on conflict (currency) do update set oracle = excluded.oracle, updated_at = now()
	`
	if _, err := t.tx.Exec(ctx, q, token.Currency.Bytes(), token.Oracle.Bytes()); err != nil {
		return fmt.Errorf("failed to put pay token %s: %w", token.Currency.Hex(), err)
	}
	return nil
}

func (t *stateTx) PayTokens(ctx context.Context) ([]domain.PayToken, error) {
	rows, err := t.tx.Query(ctx, `select currency, oracle from pay_tokens order by seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pay tokens: %w", err)
	}
	defer rows.Close()

	res := make([]domain.PayToken, 0, 8)
	for rows.Next() {
		var currency, oracle []byte
		if err = rows.Scan(&currency, &oracle); err != nil {
			return nil, fmt.Errorf("failed to scan pay token: %w", err)
		}
		res = append(res, domain.PayToken{Currency: common.BytesToAddress(currency), Oracle: common.BytesToAddress(oracle)})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pay tokens: %w", err)
	}
	return res, nil
}

// ---------- OwnershipStore ----------

func (t *stateTx) Owner(ctx context.Context) (common.Address, error) {
	return t.stateColumn(ctx, "owner")
}

func (t *stateTx) Implementation(ctx context.Context) (common.Address, error) {
	return t.stateColumn(ctx, "implementation")
}

func (t *stateTx) stateColumn(ctx context.Context, column string) (common.Address, error) {
	var v []byte
	err := t.tx.QueryRow(ctx, `select `+column+` from presale_state where id = 1`).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.Address{}, nil
	}
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to get %s: %w", column, err)
	}
	return common.BytesToAddress(v), nil
}

func (t *stateTx) SetOwner(ctx context.Context, owner common.Address) error {
	const q = `
		insert into presale_state (id, owner, implementation) values (1, $1, $2)
		on conflict (id) do update set owner = excluded.owner, updated_at = now()
	`
	if _, err := t.tx.Exec(ctx, q, owner.Bytes(), common.Address{}.Bytes()); err != nil {
		return fmt.Errorf("failed to set owner: %w", err)
	}
	return nil
}

func (t *stateTx) SetImplementation(ctx context.Context, impl common.Address) error {
	const q = `
		insert into presale_state (id, owner, implementation) values (1, $1, $2)
		on conflict (id) do update set implementation = excluded.implementation, updated_at = now()
	`
	if _, err := t.tx.Exec(ctx, q, common.Address{}.Bytes(), impl.Bytes()); err != nil {
		return fmt.Errorf("failed to set implementation: %w", err)
	}
	return nil
}

// ---------- PurchaseJournal ----------

func (t *stateTx) RecordPurchase(ctx context.Context, p domain.Purchase) error {
	const q = `
		insert into purchases (id, buyer, pay_currency, sale_amount, pay_amount, refund, created_at)
		values ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7)
		on conflict (id) do nothing
	`
	tag, err := t.tx.Exec(ctx, q,
		p.ID, p.Buyer.Bytes(), p.PayCurrency.Bytes(),
		p.SaleAmount.Dec(), p.PayAmount.Dec(), p.Refund.Dec(), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record purchase %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("purchase %s: %w", p.ID, domain.ErrDuplicateRequest)
	}
	return nil
}
