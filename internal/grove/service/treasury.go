package service

import (
	"context"
	"strconv"

	"github.com/den-labs/dengrow/internal/grove/authz"
	"github.com/den-labs/dengrow/internal/grove/domain/treasury"
	"github.com/den-labs/dengrow/internal/grove/storage"
	apperrors "github.com/den-labs/dengrow/internal/platform/errors"
	"github.com/den-labs/dengrow/internal/telemetry"
)

// TreasuryService holds custody of deposited funds and pays the partner per
// redeemed unit.
type TreasuryService struct {
	store  storage.Store
	impact *ImpactService
}

// NewTreasuryService creates the treasury ledger service. The impact service
// backs the composite redeem-with-payout path.
func NewTreasuryService(store storage.Store, impactSvc *ImpactService) *TreasuryService {
	return &TreasuryService{store: store, impact: impactSvc}
}

// Deposit moves amount from caller's wallet into the treasury. Anyone may
// deposit.
func (s *TreasuryService) Deposit(ctx context.Context, caller authz.Principal, amount uint64) error {
	if amount == 0 {
		return apperrors.New(apperrors.CodeInvalidAmount, "deposit amount must be positive")
	}
	return s.store.WithinTx(ctx, func(l storage.Ledger) error {
		if err := l.DebitWallet(ctx, string(caller), amount); err != nil {
			return err
		}
		account, err := l.GetTreasury(ctx)
		if err != nil {
			return err
		}
		account.Balance += amount
		account.TotalDeposited += amount
		return l.PutTreasury(ctx, account)
	})
}

// SetPartner configures the payout partner address. Admin-only.
func (s *TreasuryService) SetPartner(ctx context.Context, caller authz.Principal, partner string) error {
	return s.store.WithinTx(ctx, func(l storage.Ledger) error {
		if err := requireAdmin(ctx, l, authz.ModuleTreasury, caller); err != nil {
			return err
		}
		account, err := l.GetTreasury(ctx)
		if err != nil {
			return err
		}
		account.Partner = partner
		return l.PutTreasury(ctx, account)
	})
}

// SetPricePerTree configures the payout price per redeemed unit. Admin-only.
func (s *TreasuryService) SetPricePerTree(ctx context.Context, caller authz.Principal, price uint64) error {
	if price == 0 {
		return apperrors.New(apperrors.CodeInvalidPrice, "price per tree must be positive")
	}
	return s.store.WithinTx(ctx, func(l storage.Ledger) error {
		if err := requireAdmin(ctx, l, authz.ModuleTreasury, caller); err != nil {
			return err
		}
		account, err := l.GetTreasury(ctx)
		if err != nil {
			return err
		}
		account.PricePerTree = price
		return l.PutTreasury(ctx, account)
	})
}

// Withdraw moves amount from the treasury to the given address. Admin-only.
func (s *TreasuryService) Withdraw(ctx context.Context, caller authz.Principal, amount uint64, to string) error {
	if amount == 0 {
		return apperrors.New(apperrors.CodeInvalidAmount, "withdrawal amount must be positive")
	}
	return s.store.WithinTx(ctx, func(l storage.Ledger) error {
		if err := requireAdmin(ctx, l, authz.ModuleTreasury, caller); err != nil {
			return err
		}
		account, err := l.GetTreasury(ctx)
		if err != nil {
			return err
		}
		if amount > account.Balance {
			return apperrors.WithMetadata(apperrors.CodeInsufficientFunds,
				"withdrawal exceeds treasury balance",
				map[string]string{"Balance": strconv.FormatUint(account.Balance, 10)})
		}
		account.Balance -= amount
		account.TotalWithdrawn += amount
		if err := l.PutTreasury(ctx, account); err != nil {
			return err
		}
		return l.CreditWallet(ctx, to, amount)
	})
}

// PayoutResult describes a completed redeem-with-payout.
type PayoutResult struct {
	Quantity          uint64
	Payout            uint64
	Partner           string
	TreasuryRemaining uint64
}

// RedeemWithPayout records a redemption batch in the impact registry and pays
// the partner for it in one transaction. Admin-only. A failure in either
// module reverts both.
func (s *TreasuryService) RedeemWithPayout(ctx context.Context, caller authz.Principal, quantity uint64, proofHash []byte, proofURL string) (PayoutResult, error) {
	if quantity == 0 {
		return PayoutResult{}, apperrors.New(apperrors.CodeZeroQuantity, "redemption quantity must be positive")
	}

	var result PayoutResult
	self := authz.ModulePrincipal(authz.ModuleTreasury)
	err := s.store.WithinTx(ctx, func(l storage.Ledger) error {
		if err := requireAdmin(ctx, l, authz.ModuleTreasury, caller); err != nil {
			return err
		}
		account, err := l.GetTreasury(ctx)
		if err != nil {
			return err
		}
		if !account.HasPartner() {
			return apperrors.New(apperrors.CodeNoPartnerSet, "no payout partner configured")
		}
		payout := quantity * account.PricePerTree
		if payout > account.Balance {
			return apperrors.WithMetadata(apperrors.CodeInsufficientFunds,
				"payout exceeds treasury balance",
				map[string]string{
					"Payout":  strconv.FormatUint(payout, 10),
					"Balance": strconv.FormatUint(account.Balance, 10),
				})
		}

		// The registry write joins this transaction; its failure aborts the
		// payout and the payout's failure unwinds the registry write.
		if err := requireGrant(ctx, l, authz.ModuleImpact, self); err != nil {
			return err
		}
		redemption, err := s.impact.recordRedemption(ctx, l, self, quantity, proofHash, proofURL)
		if err != nil {
			return err
		}

		account.Balance -= payout
		account.TotalPaidOut += payout
		account.TotalRedemptions++
		if err := l.PutTreasury(ctx, account); err != nil {
			return err
		}
		if err := l.CreditWallet(ctx, account.Partner, payout); err != nil {
			return err
		}
		height, err := l.CurrentHeight(ctx)
		if err != nil {
			return err
		}
		if err := telemetry.NewEmitter(l).Payout(ctx, redemption.BatchID, height, account.Partner, payout); err != nil {
			return err
		}

		result = PayoutResult{
			Quantity:          quantity,
			Payout:            payout,
			Partner:           account.Partner,
			TreasuryRemaining: account.Balance,
		}
		return nil
	})
	if err != nil {
		return PayoutResult{}, err
	}
	return result, nil
}

// GetTreasury returns the singleton treasury account. Unrestricted read.
func (s *TreasuryService) GetTreasury(ctx context.Context) (treasury.Account, error) {
	return s.store.GetTreasury(ctx)
}

// FundWallet credits an address wallet out of thin air. Admin-only; intended
// for network seeding and tests.
func (s *TreasuryService) FundWallet(ctx context.Context, caller authz.Principal, address string, amount uint64) error {
	if amount == 0 {
		return apperrors.New(apperrors.CodeInvalidAmount, "funding amount must be positive")
	}
	return s.store.WithinTx(ctx, func(l storage.Ledger) error {
		if err := requireAdmin(ctx, l, authz.ModuleTreasury, caller); err != nil {
			return err
		}
		return l.CreditWallet(ctx, address, amount)
	})
}

// GetWalletBalance returns an address balance. Unrestricted read.
func (s *TreasuryService) GetWalletBalance(ctx context.Context, address string) (uint64, error) {
	return s.store.WalletBalance(ctx, address)
}
