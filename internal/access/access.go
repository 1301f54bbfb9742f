// Package access decides which caller may perform owner-only operations.
// Every capability currently maps to the single owner.
package access

import (
	"context"
	"fmt"
	"presale/internal/domain"

	"github.com/ethereum/go-ethereum/common"
)

type Capability string

const (
	AddPayToken       Capability = "add_pay_token"
	Withdraw          Capability = "withdraw"
	TransferOwnership Capability = "transfer_ownership"
	Upgrade           Capability = "upgrade"
)

type OwnerReader interface {
	Owner(ctx context.Context) (common.Address, error)
}

// Check returns nil when caller holds capability c.
func Check(ctx context.Context, r OwnerReader, caller common.Address, c Capability) error {
	owner, err := r.Owner(ctx)
	if err != nil {
		return fmt.Errorf("failed to read owner: %w", err)
	}
	if owner == (common.Address{}) {
		return fmt.Errorf("%s: %w", c, domain.ErrNotInitialized)
	}
	if caller != owner {
		return fmt.Errorf("%s by %s: %w", c, caller.Hex(), domain.ErrNotOwner)
	}
	return nil
}
