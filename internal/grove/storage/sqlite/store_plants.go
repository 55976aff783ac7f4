package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/den-labs/dengrow/internal/grove/domain/plant"
	apperrors "github.com/den-labs/dengrow/internal/platform/errors"
)

// Plant methods.

// InsertPlant creates a plant record for a freshly minted token.
func (s *Store) InsertPlant(ctx context.Context, p plant.Plant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	exists, err := s.PlantExists(ctx, p.TokenID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.WithMetadata(apperrors.CodePlantAlreadyExists,
			"plant record already exists",
			map[string]string{"TokenID": strconv.FormatUint(p.TokenID, 10)})
	}
	_, err = s.q.ExecContext(ctx, `
INSERT INTO plants (token_id, owner, stage, growth_points, last_action_height)
VALUES (?, ?, ?, ?, ?)`,
		p.TokenID, p.Owner, int(p.Stage), p.GrowthPoints, p.LastActionHeight)
	return err
}

// UpdatePlant rewrites an existing plant record.
func (s *Store) UpdatePlant(ctx context.Context, p plant.Plant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx, `
UPDATE plants SET owner = ?, stage = ?, growth_points = ?, last_action_height = ?
WHERE token_id = ?`,
		p.Owner, int(p.Stage), p.GrowthPoints, p.LastActionHeight, p.TokenID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return plantNotFound(p.TokenID)
	}
	return nil
}

// GetPlant fetches a plant record by token id.
func (s *Store) GetPlant(ctx context.Context, tokenID uint64) (plant.Plant, error) {
	if err := ctx.Err(); err != nil {
		return plant.Plant{}, err
	}
	var (
		p     plant.Plant
		stage int
	)
	row := s.q.QueryRowContext(ctx, `
SELECT token_id, owner, stage, growth_points, last_action_height
FROM plants WHERE token_id = ?`, tokenID)
	err := row.Scan(&p.TokenID, &p.Owner, &stage, &p.GrowthPoints, &p.LastActionHeight)
	if errors.Is(err, sql.ErrNoRows) {
		return plant.Plant{}, plantNotFound(tokenID)
	}
	if err != nil {
		return plant.Plant{}, err
	}
	p.Stage = plant.Stage(stage)
	return p, nil
}

// PlantExists reports whether a plant record exists.
func (s *Store) PlantExists(ctx context.Context, tokenID uint64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var found int
	row := s.q.QueryRowContext(ctx, "SELECT 1 FROM plants WHERE token_id = ?", tokenID)
	err := row.Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func plantNotFound(tokenID uint64) error {
	return apperrors.WithMetadata(apperrors.CodePlantNotFound,
		"plant not found",
		map[string]string{"TokenID": strconv.FormatUint(tokenID, 10)})
}
