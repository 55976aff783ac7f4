package service

import (
	"context"
	"strconv"

	"github.com/den-labs/dengrow/internal/grove/authz"
	"github.com/den-labs/dengrow/internal/grove/domain/badge"
	"github.com/den-labs/dengrow/internal/grove/storage"
	apperrors "github.com/den-labs/dengrow/internal/platform/errors"
	"github.com/den-labs/dengrow/internal/telemetry"
)

// BadgeService awards one-time achievement claims gated on the other
// modules' state. It reads ownership and stage but writes only its own
// claim table.
type BadgeService struct {
	store   storage.Store
	catalog badge.Catalog
	// earlyAdopterMax is the highest token id eligible for the early
	// adopter badge.
	earlyAdopterMax uint64
}

// NewBadgeService creates the achievement engine.
func NewBadgeService(store storage.Store, catalog badge.Catalog, earlyAdopterMax uint64) *BadgeService {
	return &BadgeService{store: store, catalog: catalog, earlyAdopterMax: earlyAdopterMax}
}

// ClaimFirstSeed awards the first seed badge: caller owns the token, any
// stage.
func (s *BadgeService) ClaimFirstSeed(ctx context.Context, caller authz.Principal, tokenID uint64) error {
	return s.claim(ctx, caller, badge.FirstSeed, func(l storage.Ledger) error {
		return s.requireOwned(ctx, l, caller, tokenID, false)
	})
}

// ClaimFirstTree awards the first tree badge: caller owns the token and it
// has reached the terminal stage.
func (s *BadgeService) ClaimFirstTree(ctx context.Context, caller authz.Principal, tokenID uint64) error {
	return s.claim(ctx, caller, badge.FirstTree, func(l storage.Ledger) error {
		return s.requireOwned(ctx, l, caller, tokenID, true)
	})
}

// ClaimGreenThumb awards the green thumb badge: three distinct tree-stage
// tokens, all owned by caller. Duplicate ids are not eligible.
func (s *BadgeService) ClaimGreenThumb(ctx context.Context, caller authz.Principal, tokenIDs []uint64) error {
	return s.claim(ctx, caller, badge.GreenThumb, func(l storage.Ledger) error {
		if len(tokenIDs) != badge.GreenThumbTreeCount {
			return notEligible("exactly three token ids are required")
		}
		seen := make(map[uint64]bool, len(tokenIDs))
		for _, id := range tokenIDs {
			if seen[id] {
				return notEligible("token ids must be distinct")
			}
			seen[id] = true
		}
		for _, id := range tokenIDs {
			if err := s.requireOwned(ctx, l, caller, id, true); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClaimEarlyAdopter awards the early adopter badge: caller owns the token
// and its id is at or below the configured threshold.
func (s *BadgeService) ClaimEarlyAdopter(ctx context.Context, caller authz.Principal, tokenID uint64) error {
	return s.claim(ctx, caller, badge.EarlyAdopter, func(l storage.Ledger) error {
		if err := s.requireOwned(ctx, l, caller, tokenID, false); err != nil {
			return err
		}
		if tokenID > s.earlyAdopterMax {
			return notEligible("token id is above the early adopter threshold")
		}
		return nil
	})
}

// claim runs the shared claim flow: presence check, eligibility predicate,
// then the one-time insert, all in one transaction.
func (s *BadgeService) claim(ctx context.Context, caller authz.Principal, badgeID uint32, eligible func(storage.Ledger) error) error {
	if _, ok := s.catalog.Lookup(badgeID); !ok {
		return apperrors.WithMetadata(apperrors.CodeNotFound,
			"unknown badge",
			map[string]string{"BadgeID": strconv.FormatUint(uint64(badgeID), 10)})
	}
	owner := string(caller)
	return s.store.WithinTx(ctx, func(l storage.Ledger) error {
		exists, err := l.ClaimExists(ctx, owner, badgeID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.WithMetadata(apperrors.CodeAlreadyClaimed,
				"badge was already claimed",
				map[string]string{"BadgeID": strconv.FormatUint(uint64(badgeID), 10)})
		}
		if err := eligible(l); err != nil {
			return err
		}
		height, err := l.CurrentHeight(ctx)
		if err != nil {
			return err
		}
		if err := l.InsertClaim(ctx, badge.Claim{
			Owner:          owner,
			BadgeID:        badgeID,
			EarnedAtHeight: height,
		}); err != nil {
			return err
		}
		return telemetry.NewEmitter(l).BadgeClaimed(ctx, owner, badgeID, height)
	})
}

// requireOwned checks caller's ownership of a token, optionally requiring
// the terminal stage. Any shortfall, including a missing token, reads as
// NOT_ELIGIBLE.
func (s *BadgeService) requireOwned(ctx context.Context, l storage.Ledger, caller authz.Principal, tokenID uint64, needTree bool) error {
	t, err := l.GetToken(ctx, tokenID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeTokenNotFound) {
			return notEligible("token does not exist")
		}
		return err
	}
	if t.Owner != string(caller) {
		return notEligible("caller does not own the token")
	}
	if needTree {
		p, err := l.GetPlant(ctx, tokenID)
		if err != nil {
			return err
		}
		if !p.Stage.Terminal() {
			return notEligible("token has not reached the tree stage")
		}
	}
	return nil
}

func notEligible(message string) error {
	return apperrors.New(apperrors.CodeNotEligible, message)
}

// GetClaim returns a recorded claim. Unrestricted read.
func (s *BadgeService) GetClaim(ctx context.Context, owner string, badgeID uint32) (badge.Claim, error) {
	return s.store.GetClaim(ctx, owner, badgeID)
}

// GetBadgeCount returns the number of badges an owner has claimed.
func (s *BadgeService) GetBadgeCount(ctx context.Context, owner string) (uint64, error) {
	return s.store.BadgeCount(ctx, owner)
}

// GetTotalClaimed returns the global claim count.
func (s *BadgeService) GetTotalClaimed(ctx context.Context) (uint64, error) {
	return s.store.TotalBadgesClaimed(ctx)
}

// Catalog returns the static badge table.
func (s *BadgeService) Catalog() badge.Catalog {
	return s.catalog
}
