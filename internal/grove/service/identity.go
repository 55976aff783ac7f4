package service

import (
	"context"
	"strconv"

	"github.com/den-labs/dengrow/internal/grove/authz"
	"github.com/den-labs/dengrow/internal/grove/domain/plant"
	"github.com/den-labs/dengrow/internal/grove/domain/token"
	"github.com/den-labs/dengrow/internal/grove/storage"
	apperrors "github.com/den-labs/dengrow/internal/platform/errors"
	"github.com/den-labs/dengrow/internal/telemetry"
)

// IdentityService mints tokens and transfers ownership. Every transfer
// rewrites the plant store's owner mirror in the same transaction so the two
// owner views never diverge.
type IdentityService struct {
	store storage.Store
	tiers token.TierCatalog
	// maxSupply caps the mint counter; zero means unlimited.
	maxSupply uint64
}

// NewIdentityService creates the identity module with the network's tier
// catalog and supply cap.
func NewIdentityService(store storage.Store, tiers token.TierCatalog, maxSupply uint64) *IdentityService {
	return &IdentityService{store: store, tiers: tiers, maxSupply: maxSupply}
}

// MintFree mints a token to recipient without payment. Admin-only.
func (s *IdentityService) MintFree(ctx context.Context, caller authz.Principal, recipient string) (uint64, error) {
	var tokenID uint64
	err := s.store.WithinTx(ctx, func(l storage.Ledger) error {
		if err := requireAdmin(ctx, l, authz.ModuleTokens, caller); err != nil {
			return err
		}
		id, err := s.mint(ctx, l, recipient, token.FreeMintTier)
		if err != nil {
			return err
		}
		tokenID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return tokenID, nil
}

// MintWithTier mints a token to recipient against a priced tier. The exact
// tier price moves from caller's wallet to the module admin's wallet in the
// same transaction as the mint.
func (s *IdentityService) MintWithTier(ctx context.Context, caller authz.Principal, recipient string, tier uint32) (uint64, error) {
	selected, ok := s.tiers.Lookup(tier)
	if !ok || tier == token.FreeMintTier {
		return 0, apperrors.WithMetadata(apperrors.CodeInvalidTier,
			"unknown mint tier",
			map[string]string{"Tier": strconv.FormatUint(uint64(tier), 10)})
	}

	var tokenID uint64
	err := s.store.WithinTx(ctx, func(l storage.Ledger) error {
		admin, err := l.ModuleAdmin(ctx, authz.ModuleTokens)
		if err != nil {
			return err
		}
		if err := l.DebitWallet(ctx, string(caller), selected.Price); err != nil {
			return err
		}
		if err := l.CreditWallet(ctx, string(admin), selected.Price); err != nil {
			return err
		}
		id, err := s.mint(ctx, l, recipient, tier)
		if err != nil {
			return err
		}
		tokenID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return tokenID, nil
}

// mint allocates the next token id, records ownership, and initializes the
// plant store entry through the module's own grant.
func (s *IdentityService) mint(ctx context.Context, l storage.Ledger, recipient string, tier uint32) (uint64, error) {
	self := authz.ModulePrincipal(authz.ModuleTokens)
	if err := requireGrant(ctx, l, authz.ModulePlants, self); err != nil {
		return 0, err
	}
	if s.maxSupply > 0 {
		last, err := l.LastTokenID(ctx)
		if err != nil {
			return 0, err
		}
		if last >= s.maxSupply {
			return 0, apperrors.WithMetadata(apperrors.CodeSoldOut,
				"token supply is exhausted",
				map[string]string{"MaxSupply": strconv.FormatUint(s.maxSupply, 10)})
		}
	}
	height, err := l.CurrentHeight(ctx)
	if err != nil {
		return 0, err
	}
	id, err := l.NextTokenID(ctx)
	if err != nil {
		return 0, err
	}
	if err := l.InsertToken(ctx, token.Token{
		TokenID:        id,
		Owner:          recipient,
		Tier:           tier,
		MintedAtHeight: height,
	}); err != nil {
		return 0, err
	}
	if err := l.InsertPlant(ctx, plant.NewPlant(id, recipient)); err != nil {
		return 0, err
	}
	err = telemetry.NewEmitter(l).Emit(ctx, storage.Event{
		Type:    telemetry.EventTokenMinted,
		Subject: telemetry.TokenSubject(id),
		Height:  height,
		Metadata: map[string]string{
			"Recipient": recipient,
			"Tier":      strconv.FormatUint(uint64(tier), 10),
		},
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Transfer moves a token from caller to the new owner and rewrites the plant
// store's owner mirror in the same transaction.
func (s *IdentityService) Transfer(ctx context.Context, caller authz.Principal, tokenID uint64, to string) error {
	self := authz.ModulePrincipal(authz.ModuleTokens)
	return s.store.WithinTx(ctx, func(l storage.Ledger) error {
		t, err := l.GetToken(ctx, tokenID)
		if err != nil {
			return err
		}
		if string(caller) != t.Owner {
			return apperrors.WithMetadata(apperrors.CodeNotOwner,
				"caller does not own the token",
				map[string]string{"TokenID": strconv.FormatUint(tokenID, 10)})
		}
		if err := l.UpdateTokenOwner(ctx, tokenID, to); err != nil {
			return err
		}
		if err := requireGrant(ctx, l, authz.ModulePlants, self); err != nil {
			return err
		}
		p, err := l.GetPlant(ctx, tokenID)
		if err != nil {
			return err
		}
		p.Owner = to
		if err := l.UpdatePlant(ctx, p); err != nil {
			return err
		}
		height, err := l.CurrentHeight(ctx)
		if err != nil {
			return err
		}
		return telemetry.NewEmitter(l).Emit(ctx, storage.Event{
			Type:    telemetry.EventTokenTransferred,
			Subject: telemetry.TokenSubject(tokenID),
			Height:  height,
			Metadata: map[string]string{
				"From": t.Owner,
				"To":   to,
			},
		})
	})
}

// GetToken returns the ownership record. Unrestricted read.
func (s *IdentityService) GetToken(ctx context.Context, tokenID uint64) (token.Token, error) {
	return s.store.GetToken(ctx, tokenID)
}

// GetLastTokenID returns the most recently minted id, zero before any mint.
func (s *IdentityService) GetLastTokenID(ctx context.Context) (uint64, error) {
	return s.store.LastTokenID(ctx)
}

// Tiers returns the immutable mint tier catalog.
func (s *IdentityService) Tiers() token.TierCatalog {
	return s.tiers
}
