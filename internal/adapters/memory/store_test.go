package memory

import (
	"context"
	"errors"
	"testing"

	"presale/internal/adapters"
	"presale/internal/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

var (
	token = common.HexToAddress("0x55d398326f99059fF775485246999027B3197955")
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func mint(t *testing.T, s *Store, tok, holder common.Address, amount uint64) {
	t.Helper()
	require.NoError(t, s.Atomic(context.Background(), func(tx adapters.StateTx) error {
		return tx.Mint(context.Background(), tok, holder, uint256.NewInt(amount))
	}))
}

func balance(t *testing.T, s *Store, tok, holder common.Address) uint64 {
	t.Helper()
	var got *uint256.Int
	require.NoError(t, s.View(context.Background(), func(tx adapters.StateTx) error {
		var err error
		got, err = tx.BalanceOf(context.Background(), tok, holder)
		return err
	}))
	return got.Uint64()
}

func TestStore_Atomic_CommitsOnSuccess(t *testing.T) {
	s := NewStore()
	mint(t, s, token, alice, 100)

	err := s.Atomic(context.Background(), func(tx adapters.StateTx) error {
		return tx.Transfer(context.Background(), token, alice, bob, uint256.NewInt(40))
	})
	require.NoError(t, err)
	require.Equal(t, uint64(60), balance(t, s, token, alice))
	require.Equal(t, uint64(40), balance(t, s, token, bob))
}

func TestStore_Atomic_DiscardsAllEffectsOnError(t *testing.T) {
	s := NewStore()
	mint(t, s, token, alice, 100)
	boom := errors.New("boom")

	err := s.Atomic(context.Background(), func(tx adapters.StateTx) error {
		ctx := context.Background()
		require.NoError(t, tx.Transfer(ctx, token, alice, bob, uint256.NewInt(40)))
		require.NoError(t, tx.SetOwner(ctx, bob))
		require.NoError(t, tx.PutPayToken(ctx, domain.PayToken{Currency: token, Oracle: alice}))
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, uint64(100), balance(t, s, token, alice))
	require.Equal(t, uint64(0), balance(t, s, token, bob))

	require.NoError(t, s.View(context.Background(), func(tx adapters.StateTx) error {
		owner, _ := tx.Owner(context.Background())
		require.Equal(t, common.Address{}, owner)
		_, ok, _ := tx.PayTokenOracle(context.Background(), token)
		require.False(t, ok)
		return nil
	}))
}

func TestStore_Atomic_CanceledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Atomic(ctx, func(tx adapters.StateTx) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}

func TestStore_View_RejectsWrites(t *testing.T) {
	s := NewStore()
	err := s.View(context.Background(), func(tx adapters.StateTx) error {
		return tx.SetOwner(context.Background(), alice)
	})
	require.ErrorIs(t, err, errReadOnly)
}

func TestTx_Transfer_InsufficientBalance(t *testing.T) {
	s := NewStore()
	mint(t, s, token, alice, 10)

	err := s.Atomic(context.Background(), func(tx adapters.StateTx) error {
		return tx.Transfer(context.Background(), token, alice, bob, uint256.NewInt(11))
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	require.Equal(t, uint64(10), balance(t, s, token, alice))
}

func TestTx_Mint_Overflow(t *testing.T) {
	s := NewStore()
	maxAmount := new(uint256.Int).SetAllOne()
	err := s.Atomic(context.Background(), func(tx adapters.StateTx) error {
		ctx := context.Background()
		require.NoError(t, tx.Mint(ctx, token, alice, maxAmount))
		return tx.Mint(ctx, token, alice, uint256.NewInt(1))
	})
	require.ErrorIs(t, err, domain.ErrAmountOverflow)
}

func TestTx_TransferFrom_SpendsAllowance(t *testing.T) {
	s := NewStore()
	mint(t, s, token, alice, 100)
	ctx := context.Background()

	err := s.Atomic(ctx, func(tx adapters.StateTx) error {
		require.NoError(t, tx.Approve(ctx, token, alice, bob, uint256.NewInt(50)))
		return tx.TransferFrom(ctx, token, bob, alice, bob, uint256.NewInt(30))
	})
	require.NoError(t, err)
	require.Equal(t, uint64(70), balance(t, s, token, alice))

	err = s.Atomic(ctx, func(tx adapters.StateTx) error {
		return tx.TransferFrom(ctx, token, bob, alice, bob, uint256.NewInt(21))
	})
	require.ErrorIs(t, err, domain.ErrInsufficientAllowance)
}

func TestTx_TransferFrom_InsufficientBalanceKeepsAllowance(t *testing.T) {
	s := NewStore()
	mint(t, s, token, alice, 5)
	ctx := context.Background()

	require.NoError(t, s.Atomic(ctx, func(tx adapters.StateTx) error {
		return tx.Approve(ctx, token, alice, bob, uint256.NewInt(50))
	}))
	err := s.Atomic(ctx, func(tx adapters.StateTx) error {
		return tx.TransferFrom(ctx, token, bob, alice, bob, uint256.NewInt(6))
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestTx_Decimals(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Atomic(ctx, func(tx adapters.StateTx) error {
		return tx.SetDecimals(ctx, token, 6)
	}))

	require.NoError(t, s.View(ctx, func(tx adapters.StateTx) error {
		d, err := tx.Decimals(ctx, token)
		require.NoError(t, err)
		require.Equal(t, uint8(6), d)

		d, err = tx.Decimals(ctx, domain.NativeCurrency)
		require.NoError(t, err)
		require.Equal(t, domain.NativeDecimals, d)

		_, err = tx.Decimals(ctx, alice)
		require.ErrorIs(t, err, domain.ErrUnknownDecimals)
		return nil
	}))
}

func TestTx_PayTokens_OverwriteKeepsOrder(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	oracleA := common.HexToAddress("0x0567F2323251f0Aab15c8dFb1967E4e8A7D42aeE")
	oracleB := common.HexToAddress("0xB97Ad0E74fa7d920791E90258A6E2085088b4320")

	require.NoError(t, s.Atomic(ctx, func(tx adapters.StateTx) error {
		require.NoError(t, tx.PutPayToken(ctx, domain.PayToken{Currency: domain.NativeCurrency, Oracle: oracleA}))
		require.NoError(t, tx.PutPayToken(ctx, domain.PayToken{Currency: token, Oracle: oracleA}))
		return tx.PutPayToken(ctx, domain.PayToken{Currency: domain.NativeCurrency, Oracle: oracleB})
	}))

	require.NoError(t, s.View(ctx, func(tx adapters.StateTx) error {
		list, err := tx.PayTokens(ctx)
		require.NoError(t, err)
		require.Equal(t, []domain.PayToken{
			{Currency: domain.NativeCurrency, Oracle: oracleB},
			{Currency: token, Oracle: oracleA},
		}, list)
		return nil
	}))
}

func TestTx_RecordPurchase_RejectsDuplicate(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	p := domain.Purchase{ID: uuid.New(), Buyer: alice}

	require.NoError(t, s.Atomic(ctx, func(tx adapters.StateTx) error {
		return tx.RecordPurchase(ctx, p)
	}))
	err := s.Atomic(ctx, func(tx adapters.StateTx) error {
		return tx.RecordPurchase(ctx, p)
	})
	require.ErrorIs(t, err, domain.ErrDuplicateRequest)
}

func TestTx_RecordPurchase_DuplicateWithinOneTransaction(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	p := domain.Purchase{ID: uuid.New(), Buyer: alice}

	err := s.Atomic(ctx, func(tx adapters.StateTx) error {
		if err := tx.RecordPurchase(ctx, p); err != nil {
			return err
		}
		return tx.RecordPurchase(ctx, p)
	})
	require.ErrorIs(t, err, domain.ErrDuplicateRequest)
	require.Empty(t, s.st.purchases)
}

func TestTx_RecordPurchase_DiscardedOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	p := domain.Purchase{ID: uuid.New(), Buyer: alice}

	err := s.Atomic(ctx, func(tx adapters.StateTx) error {
		if err := tx.RecordPurchase(ctx, p); err != nil {
			return err
		}
		return errors.New("settlement failed")
	})
	require.Error(t, err)
	require.Empty(t, s.st.purchases)

	require.NoError(t, s.Atomic(ctx, func(tx adapters.StateTx) error {
		return tx.RecordPurchase(ctx, p)
	}))
	require.Contains(t, s.st.purchases, p.ID)
}

func TestState_CloneSharesPurchaseJournal(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Atomic(ctx, func(tx adapters.StateTx) error {
			return tx.RecordPurchase(ctx, domain.Purchase{ID: uuid.New(), Buyer: alice})
		}))
	}

	c := s.st.clone()
	id := uuid.New()
	s.st.purchases[id] = domain.Purchase{ID: id}

	// the journal is not copied, so the draft sees the same map
	require.Len(t, c.purchases, 4)
	require.Contains(t, c.purchases, id)
}
