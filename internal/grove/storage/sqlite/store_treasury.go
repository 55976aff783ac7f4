package sqlite

import (
	"context"
	"fmt"

	"github.com/den-labs/dengrow/internal/grove/domain/treasury"
)

// Treasury methods. The account is a singleton row seeded by the initial
// migration.

// GetTreasury returns the singleton treasury account.
func (s *Store) GetTreasury(ctx context.Context) (treasury.Account, error) {
	if err := ctx.Err(); err != nil {
		return treasury.Account{}, err
	}
	var a treasury.Account
	row := s.q.QueryRowContext(ctx, `
SELECT balance, partner, price_per_tree, total_deposited, total_paid_out, total_withdrawn, total_redemptions
FROM treasury WHERE id = 1`)
	if err := row.Scan(&a.Balance, &a.Partner, &a.PricePerTree,
		&a.TotalDeposited, &a.TotalPaidOut, &a.TotalWithdrawn, &a.TotalRedemptions); err != nil {
		return treasury.Account{}, err
	}
	return a, nil
}

// PutTreasury rewrites the singleton account. The balance identity is
// verified before the write; a drifted account never reaches the ledger.
func (s *Store) PutTreasury(ctx context.Context, a treasury.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.CheckInvariant(); err != nil {
		return fmt.Errorf("refusing treasury write: %w", err)
	}
	_, err := s.q.ExecContext(ctx, `
UPDATE treasury SET balance = ?, partner = ?, price_per_tree = ?,
    total_deposited = ?, total_paid_out = ?, total_withdrawn = ?, total_redemptions = ?
WHERE id = 1`,
		a.Balance, a.Partner, a.PricePerTree,
		a.TotalDeposited, a.TotalPaidOut, a.TotalWithdrawn, a.TotalRedemptions)
	return err
}
