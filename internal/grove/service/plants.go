package service

import (
	"context"

	"github.com/den-labs/dengrow/internal/grove/authz"
	"github.com/den-labs/dengrow/internal/grove/domain/plant"
	"github.com/den-labs/dengrow/internal/grove/storage"
)

// PlantService is the canonical plant state store. All writes require an
// allow-list grant; the module admin does not pass implicitly, so end users
// can never reach a write path directly.
type PlantService struct {
	store storage.Store
}

// NewPlantService creates the plant state store service.
func NewPlantService(store storage.Store) *PlantService {
	return &PlantService{store: store}
}

// Initialize creates the record for a freshly minted token with stage Seed,
// zero growth points, and a zero last-action height.
func (s *PlantService) Initialize(ctx context.Context, caller authz.Principal, tokenID uint64, owner string) error {
	return s.store.WithinTx(ctx, func(l storage.Ledger) error {
		if err := requireGrant(ctx, l, authz.ModulePlants, caller); err != nil {
			return err
		}
		return l.InsertPlant(ctx, plant.NewPlant(tokenID, owner))
	})
}

// UpdatePlantState rewrites the mutable growth fields of an existing record.
func (s *PlantService) UpdatePlantState(ctx context.Context, caller authz.Principal, tokenID uint64, stage plant.Stage, growthPoints uint32, lastActionHeight uint64) error {
	return s.store.WithinTx(ctx, func(l storage.Ledger) error {
		if err := requireGrant(ctx, l, authz.ModulePlants, caller); err != nil {
			return err
		}
		current, err := l.GetPlant(ctx, tokenID)
		if err != nil {
			return err
		}
		current.Stage = stage
		current.GrowthPoints = growthPoints
		current.LastActionHeight = lastActionHeight
		return l.UpdatePlant(ctx, current)
	})
}

// UpdatePlantOwner rewrites the owner mirror. Only the identity module's
// transfer path holds the grant for this.
func (s *PlantService) UpdatePlantOwner(ctx context.Context, caller authz.Principal, tokenID uint64, newOwner string) error {
	return s.store.WithinTx(ctx, func(l storage.Ledger) error {
		if err := requireGrant(ctx, l, authz.ModulePlants, caller); err != nil {
			return err
		}
		current, err := l.GetPlant(ctx, tokenID)
		if err != nil {
			return err
		}
		current.Owner = newOwner
		return l.UpdatePlant(ctx, current)
	})
}

// GetPlant returns the full record. Unrestricted read.
func (s *PlantService) GetPlant(ctx context.Context, tokenID uint64) (plant.Plant, error) {
	return s.store.GetPlant(ctx, tokenID)
}

// GetStage returns the record's stage. Unrestricted read.
func (s *PlantService) GetStage(ctx context.Context, tokenID uint64) (plant.Stage, error) {
	p, err := s.store.GetPlant(ctx, tokenID)
	if err != nil {
		return plant.StageSeed, err
	}
	return p.Stage, nil
}

// GetOwner returns the record's owner mirror. Unrestricted read.
func (s *PlantService) GetOwner(ctx context.Context, tokenID uint64) (string, error) {
	p, err := s.store.GetPlant(ctx, tokenID)
	if err != nil {
		return "", err
	}
	return p.Owner, nil
}

// Exists reports record presence without an error for absence.
func (s *PlantService) Exists(ctx context.Context, tokenID uint64) (bool, error) {
	return s.store.PlantExists(ctx, tokenID)
}
