package service

import (
	"context"
	"strconv"

	"github.com/den-labs/dengrow/internal/grove/authz"
	"github.com/den-labs/dengrow/internal/grove/domain/impact"
	"github.com/den-labs/dengrow/internal/grove/storage"
	"github.com/den-labs/dengrow/internal/telemetry"
)

// ImpactService keeps the graduation pool, redemption batches, and batch
// sponsorships.
type ImpactService struct {
	store storage.Store
	// minSponsorship is the smallest accepted sponsorship amount.
	minSponsorship uint64
}

// NewImpactService creates the impact registry service.
func NewImpactService(store storage.Store, minSponsorship uint64) *ImpactService {
	return &ImpactService{store: store, minSponsorship: minSponsorship}
}

// RegisterGraduation records a token's one-time graduation. Callable by the
// module admin or an allow-listed caller (the growth engine).
func (s *ImpactService) RegisterGraduation(ctx context.Context, caller authz.Principal, tokenID uint64, owner string) error {
	return s.store.WithinTx(ctx, func(l storage.Ledger) error {
		if err := requireAdminOrGrant(ctx, l, authz.ModuleImpact, caller); err != nil {
			return err
		}
		height, err := l.CurrentHeight(ctx)
		if err != nil {
			return err
		}
		return l.InsertGraduation(ctx, impact.Graduation{
			TokenID:           tokenID,
			GraduatedAtHeight: height,
			OwnerAtGraduation: owner,
		})
	})
}

// RedemptionResult describes a recorded batch.
type RedemptionResult struct {
	BatchID         uint64
	Quantity        uint64
	RemainingInPool uint64
}

// RecordRedemption converts quantity pooled graduations into a proof-backed
// batch. Callable by the module admin or an allow-listed caller (the
// treasury's composite redeem path).
func (s *ImpactService) RecordRedemption(ctx context.Context, caller authz.Principal, quantity uint64, proofHash []byte, proofURL string) (RedemptionResult, error) {
	var result RedemptionResult
	err := s.store.WithinTx(ctx, func(l storage.Ledger) error {
		if err := requireAdminOrGrant(ctx, l, authz.ModuleImpact, caller); err != nil {
			return err
		}
		r, err := s.recordRedemption(ctx, l, caller, quantity, proofHash, proofURL)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return RedemptionResult{}, err
	}
	return result, nil
}

// recordRedemption performs the batch mutation against an open transaction.
// Authorization is the caller's responsibility.
func (s *ImpactService) recordRedemption(ctx context.Context, l storage.Ledger, caller authz.Principal, quantity uint64, proofHash []byte, proofURL string) (RedemptionResult, error) {
	stats, err := l.PoolStats(ctx)
	if err != nil {
		return RedemptionResult{}, err
	}
	if err := impact.ValidateBatchRequest(quantity, stats.CurrentPoolSize(), proofHash); err != nil {
		return RedemptionResult{}, err
	}
	height, err := l.CurrentHeight(ctx)
	if err != nil {
		return RedemptionResult{}, err
	}
	batchID, err := l.NextBatchID(ctx)
	if err != nil {
		return RedemptionResult{}, err
	}
	if _, err := l.MarkRedeemed(ctx, quantity); err != nil {
		return RedemptionResult{}, err
	}
	if err := l.InsertBatch(ctx, impact.Batch{
		BatchID:          batchID,
		Quantity:         quantity,
		ProofHash:        proofHash,
		ProofURL:         proofURL,
		RecordedBy:       string(caller),
		RecordedAtHeight: height,
	}); err != nil {
		return RedemptionResult{}, err
	}
	if err := telemetry.NewEmitter(l).BatchRecorded(ctx, batchID, height, uint32(quantity)); err != nil {
		return RedemptionResult{}, err
	}
	return RedemptionResult{
		BatchID:         batchID,
		Quantity:        quantity,
		RemainingInPool: stats.CurrentPoolSize() - quantity,
	}, nil
}

// SponsorBatch attaches a funded endorsement to an existing batch. The first
// sponsorship wins; the amount moves from the sponsor's wallet into the
// registry's custody wallet.
func (s *ImpactService) SponsorBatch(ctx context.Context, caller authz.Principal, batchID uint64, sponsorName string, amount uint64) error {
	if err := impact.ValidateSponsorship(sponsorName, amount, s.minSponsorship); err != nil {
		return err
	}
	custody := string(authz.ModulePrincipal(authz.ModuleImpact))
	return s.store.WithinTx(ctx, func(l storage.Ledger) error {
		if _, err := l.GetBatch(ctx, batchID); err != nil {
			return err
		}
		height, err := l.CurrentHeight(ctx)
		if err != nil {
			return err
		}
		if err := l.DebitWallet(ctx, string(caller), amount); err != nil {
			return err
		}
		if err := l.CreditWallet(ctx, custody, amount); err != nil {
			return err
		}
		if err := l.InsertSponsorship(ctx, impact.Sponsorship{
			BatchID:           batchID,
			SponsorName:       sponsorName,
			Amount:            amount,
			Sponsor:           string(caller),
			SponsoredAtHeight: height,
		}); err != nil {
			return err
		}
		return telemetry.NewEmitter(l).Emit(ctx, storage.Event{
			Type:    telemetry.EventBatchSponsored,
			Subject: telemetry.BatchSubject(batchID),
			Height:  height,
			Metadata: map[string]string{
				"Sponsor": sponsorName,
				"Amount":  strconv.FormatUint(amount, 10),
			},
		})
	})
}

// GetPoolStats returns the aggregate pool counters. Unrestricted read.
func (s *ImpactService) GetPoolStats(ctx context.Context) (impact.PoolStats, error) {
	return s.store.PoolStats(ctx)
}

// GetGraduation returns a token's graduation record. Unrestricted read.
func (s *ImpactService) GetGraduation(ctx context.Context, tokenID uint64) (impact.Graduation, error) {
	return s.store.GetGraduation(ctx, tokenID)
}

// GetBatch returns a batch record. Unrestricted read.
func (s *ImpactService) GetBatch(ctx context.Context, batchID uint64) (impact.Batch, error) {
	return s.store.GetBatch(ctx, batchID)
}

// GetSponsorship returns a batch's sponsorship. Unrestricted read.
func (s *ImpactService) GetSponsorship(ctx context.Context, batchID uint64) (impact.Sponsorship, error) {
	return s.store.GetSponsorship(ctx, batchID)
}

// IsGraduated reports graduation record presence. Unrestricted read.
func (s *ImpactService) IsGraduated(ctx context.Context, tokenID uint64) (bool, error) {
	return s.store.GraduationExists(ctx, tokenID)
}
