package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	apperrors "github.com/den-labs/dengrow/internal/platform/errors"
)

// Wallet methods. Unknown addresses read as zero-balance wallets.

// WalletBalance returns the balance for an address.
func (s *Store) WalletBalance(ctx context.Context, address string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var balance uint64
	row := s.q.QueryRowContext(ctx, "SELECT balance FROM wallets WHERE address = ?", address)
	err := row.Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// CreditWallet adds amount to an address balance, creating the wallet row on
// first credit.
func (s *Store) CreditWallet(ctx context.Context, address string, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.q.ExecContext(ctx, `
INSERT INTO wallets (address, balance) VALUES (?, ?)
ON CONFLICT (address) DO UPDATE SET balance = balance + excluded.balance`,
		address, amount)
	return err
}

// DebitWallet removes amount from an address balance.
func (s *Store) DebitWallet(ctx context.Context, address string, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	balance, err := s.WalletBalance(ctx, address)
	if err != nil {
		return err
	}
	if balance < amount {
		return apperrors.WithMetadata(apperrors.CodeInsufficientFunds,
			"wallet balance is insufficient",
			map[string]string{
				"Address": address,
				"Balance": strconv.FormatUint(balance, 10),
				"Amount":  strconv.FormatUint(amount, 10),
			})
	}
	_, err = s.q.ExecContext(ctx,
		"UPDATE wallets SET balance = balance - ? WHERE address = ?", amount, address)
	return err
}
