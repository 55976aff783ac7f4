package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/den-labs/dengrow/internal/grove/domain/badge"
	apperrors "github.com/den-labs/dengrow/internal/platform/errors"
)

// Badge claim methods.

// InsertClaim creates a one-time claim for an (owner, badge) pair.
func (s *Store) InsertClaim(ctx context.Context, c badge.Claim) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	exists, err := s.ClaimExists(ctx, c.Owner, c.BadgeID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.WithMetadata(apperrors.CodeAlreadyClaimed,
			"badge already claimed",
			map[string]string{
				"Owner":   c.Owner,
				"BadgeID": strconv.FormatUint(uint64(c.BadgeID), 10),
			})
	}
	_, err = s.q.ExecContext(ctx, `
INSERT INTO badge_claims (owner, badge_id, earned_at_height) VALUES (?, ?, ?)`,
		c.Owner, c.BadgeID, c.EarnedAtHeight)
	return err
}

// GetClaim fetches a claim for an (owner, badge) pair.
func (s *Store) GetClaim(ctx context.Context, owner string, badgeID uint32) (badge.Claim, error) {
	if err := ctx.Err(); err != nil {
		return badge.Claim{}, err
	}
	var c badge.Claim
	row := s.q.QueryRowContext(ctx, `
SELECT owner, badge_id, earned_at_height FROM badge_claims
WHERE owner = ? AND badge_id = ?`, owner, badgeID)
	err := row.Scan(&c.Owner, &c.BadgeID, &c.EarnedAtHeight)
	if errors.Is(err, sql.ErrNoRows) {
		return badge.Claim{}, apperrors.WithMetadata(apperrors.CodeNotFound,
			"badge claim not found",
			map[string]string{
				"Owner":   owner,
				"BadgeID": strconv.FormatUint(uint64(badgeID), 10),
			})
	}
	if err != nil {
		return badge.Claim{}, err
	}
	return c, nil
}

// ClaimExists reports claim presence for an (owner, badge) pair.
func (s *Store) ClaimExists(ctx context.Context, owner string, badgeID uint32) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var found int
	row := s.q.QueryRowContext(ctx,
		"SELECT 1 FROM badge_claims WHERE owner = ? AND badge_id = ?", owner, badgeID)
	err := row.Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// BadgeCount returns the number of badges an owner has claimed.
func (s *Store) BadgeCount(ctx context.Context, owner string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var count uint64
	row := s.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM badge_claims WHERE owner = ?", owner)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// TotalBadgesClaimed returns the global claim count.
func (s *Store) TotalBadgesClaimed(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var count uint64
	row := s.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM badge_claims")
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
