package service

import (
	"context"

	"github.com/den-labs/dengrow/internal/grove/authz"
	"github.com/den-labs/dengrow/internal/grove/domain/growth"
	"github.com/den-labs/dengrow/internal/grove/domain/impact"
	"github.com/den-labs/dengrow/internal/grove/storage"
	"github.com/den-labs/dengrow/internal/telemetry"
)

// GrowthService drives the water/cooldown/stage state machine. It writes
// into the plant state store and, on a terminal transition, registers the
// graduation with the impact registry, all inside one transaction.
type GrowthService struct {
	store          storage.Store
	cooldownBlocks uint64
}

// NewGrowthService creates the growth engine with the network's cooldown
// length. A zero cooldown allows back-to-back watering.
func NewGrowthService(store storage.Store, cooldownBlocks uint64) *GrowthService {
	return &GrowthService{store: store, cooldownBlocks: cooldownBlocks}
}

// WaterResult describes a successful water action.
type WaterResult struct {
	TokenID      uint64
	GrowthPoints uint32
	Stage        string
	StageChanged bool
	Graduated    bool
}

// Water applies one water action on behalf of caller. The growth engine
// itself holds the grants for the plant store and the impact registry;
// caller only has to own the plant.
func (s *GrowthService) Water(ctx context.Context, caller authz.Principal, tokenID uint64) (WaterResult, error) {
	var result WaterResult
	self := authz.ModulePrincipal(authz.ModuleGrowth)

	err := s.store.WithinTx(ctx, func(l storage.Ledger) error {
		if err := requireGrant(ctx, l, authz.ModulePlants, self); err != nil {
			return err
		}
		height, err := l.CurrentHeight(ctx)
		if err != nil {
			return err
		}
		p, err := l.GetPlant(ctx, tokenID)
		if err != nil {
			return err
		}
		outcome, err := growth.Water(p, string(caller), height, s.cooldownBlocks)
		if err != nil {
			return err
		}
		if err := l.UpdatePlant(ctx, outcome.Plant); err != nil {
			return err
		}

		em := telemetry.NewEmitter(l)
		if outcome.StageChanged {
			if err := em.StageChanged(ctx, tokenID, height, outcome.PreviousStage.String(), outcome.Plant.Stage.String()); err != nil {
				return err
			}
		}
		if outcome.Graduated {
			if err := requireGrant(ctx, l, authz.ModuleImpact, self); err != nil {
				return err
			}
			// Each token graduates exactly once; a pre-existing record here
			// means the state machine let a tree get watered.
			if err := l.InsertGraduation(ctx, impact.Graduation{
				TokenID:           tokenID,
				GraduatedAtHeight: height,
				OwnerAtGraduation: outcome.Plant.Owner,
			}); err != nil {
				return err
			}
			if err := em.Graduated(ctx, tokenID, height, outcome.Plant.Owner); err != nil {
				return err
			}
		}

		result = WaterResult{
			TokenID:      tokenID,
			GrowthPoints: outcome.Plant.GrowthPoints,
			Stage:        outcome.Plant.Stage.String(),
			StageChanged: outcome.StageChanged,
			Graduated:    outcome.Graduated,
		}
		return nil
	})
	if err != nil {
		return WaterResult{}, err
	}
	return result, nil
}
