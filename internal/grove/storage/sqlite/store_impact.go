package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/den-labs/dengrow/internal/grove/domain/impact"
	apperrors "github.com/den-labs/dengrow/internal/platform/errors"
)

// Impact registry methods.

// InsertGraduation creates the one-time graduation record for a token.
func (s *Store) InsertGraduation(ctx context.Context, g impact.Graduation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	exists, err := s.GraduationExists(ctx, g.TokenID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.WithMetadata(apperrors.CodeAlreadyGraduated,
			"token has already graduated",
			map[string]string{"TokenID": strconv.FormatUint(g.TokenID, 10)})
	}
	_, err = s.q.ExecContext(ctx, `
INSERT INTO graduations (token_id, graduated_at_height, owner_at_graduation, redeemed)
VALUES (?, ?, ?, ?)`,
		g.TokenID, g.GraduatedAtHeight, g.OwnerAtGraduation, boolToInt(g.Redeemed))
	return err
}

// GetGraduation fetches a graduation record by token id.
func (s *Store) GetGraduation(ctx context.Context, tokenID uint64) (impact.Graduation, error) {
	if err := ctx.Err(); err != nil {
		return impact.Graduation{}, err
	}
	var (
		g        impact.Graduation
		redeemed int
	)
	row := s.q.QueryRowContext(ctx, `
SELECT token_id, graduated_at_height, owner_at_graduation, redeemed
FROM graduations WHERE token_id = ?`, tokenID)
	err := row.Scan(&g.TokenID, &g.GraduatedAtHeight, &g.OwnerAtGraduation, &redeemed)
	if errors.Is(err, sql.ErrNoRows) {
		return impact.Graduation{}, apperrors.WithMetadata(apperrors.CodeNotFound,
			"graduation record not found",
			map[string]string{"TokenID": strconv.FormatUint(tokenID, 10)})
	}
	if err != nil {
		return impact.Graduation{}, err
	}
	g.Redeemed = redeemed != 0
	return g, nil
}

// GraduationExists reports whether a token has a graduation record.
func (s *Store) GraduationExists(ctx context.Context, tokenID uint64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var found int
	row := s.q.QueryRowContext(ctx, "SELECT 1 FROM graduations WHERE token_id = ?", tokenID)
	err := row.Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkRedeemed consumes quantity unredeemed records, oldest graduation first
// (ties broken by token id), and returns the consumed token ids.
func (s *Store) MarkRedeemed(ctx context.Context, quantity uint64) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.q.QueryContext(ctx, `
SELECT token_id FROM graduations WHERE redeemed = 0
ORDER BY graduated_at_height, token_id LIMIT ?`, quantity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokenIDs []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		tokenIDs = append(tokenIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if uint64(len(tokenIDs)) < quantity {
		return nil, fmt.Errorf("pool has %d unredeemed units, requested %d", len(tokenIDs), quantity)
	}

	for _, id := range tokenIDs {
		if _, err := s.q.ExecContext(ctx,
			"UPDATE graduations SET redeemed = 1 WHERE token_id = ?", id); err != nil {
			return nil, err
		}
	}
	return tokenIDs, nil
}

// PoolStats derives the aggregate counters from the stored records, so the
// pool size identity holds by construction.
func (s *Store) PoolStats(ctx context.Context) (impact.PoolStats, error) {
	if err := ctx.Err(); err != nil {
		return impact.PoolStats{}, err
	}
	var stats impact.PoolStats
	row := s.q.QueryRowContext(ctx, `
SELECT
    (SELECT COUNT(*) FROM graduations),
    (SELECT COUNT(*) FROM graduations WHERE redeemed = 1),
    (SELECT COUNT(*) FROM batches)`)
	if err := row.Scan(&stats.TotalGraduated, &stats.TotalRedeemed, &stats.TotalBatches); err != nil {
		return impact.PoolStats{}, err
	}
	return stats, nil
}

// InsertBatch stores an immutable batch record.
func (s *Store) InsertBatch(ctx context.Context, b impact.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.q.ExecContext(ctx, `
INSERT INTO batches (batch_id, quantity, proof_hash, proof_url, recorded_by, recorded_at_height)
VALUES (?, ?, ?, ?, ?, ?)`,
		b.BatchID, b.Quantity, b.ProofHash, b.ProofURL, b.RecordedBy, b.RecordedAtHeight)
	return err
}

// GetBatch fetches a batch by id.
func (s *Store) GetBatch(ctx context.Context, batchID uint64) (impact.Batch, error) {
	if err := ctx.Err(); err != nil {
		return impact.Batch{}, err
	}
	var b impact.Batch
	row := s.q.QueryRowContext(ctx, `
SELECT batch_id, quantity, proof_hash, proof_url, recorded_by, recorded_at_height
FROM batches WHERE batch_id = ?`, batchID)
	err := row.Scan(&b.BatchID, &b.Quantity, &b.ProofHash, &b.ProofURL, &b.RecordedBy, &b.RecordedAtHeight)
	if errors.Is(err, sql.ErrNoRows) {
		return impact.Batch{}, apperrors.WithMetadata(apperrors.CodeNotFound,
			"batch not found",
			map[string]string{"BatchID": strconv.FormatUint(batchID, 10)})
	}
	if err != nil {
		return impact.Batch{}, err
	}
	return b, nil
}

// NextBatchID returns the id the next batch will receive. Batches are never
// deleted, so MAX+1 keeps ids strictly sequential from 1.
func (s *Store) NextBatchID(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var last uint64
	row := s.q.QueryRowContext(ctx, "SELECT COALESCE(MAX(batch_id), 0) FROM batches")
	if err := row.Scan(&last); err != nil {
		return 0, err
	}
	return last + 1, nil
}

// InsertSponsorship stores a sponsorship. The first write per batch wins.
func (s *Store) InsertSponsorship(ctx context.Context, sp impact.Sponsorship) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var found int
	row := s.q.QueryRowContext(ctx, "SELECT 1 FROM sponsorships WHERE batch_id = ?", sp.BatchID)
	err := row.Scan(&found)
	if err == nil {
		return apperrors.WithMetadata(apperrors.CodeAlreadySponsored,
			"batch already has a sponsorship",
			map[string]string{"BatchID": strconv.FormatUint(sp.BatchID, 10)})
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = s.q.ExecContext(ctx, `
INSERT INTO sponsorships (batch_id, sponsor_name, amount, sponsor, sponsored_at_height)
VALUES (?, ?, ?, ?, ?)`,
		sp.BatchID, sp.SponsorName, sp.Amount, sp.Sponsor, sp.SponsoredAtHeight)
	return err
}

// GetSponsorship fetches a batch's sponsorship.
func (s *Store) GetSponsorship(ctx context.Context, batchID uint64) (impact.Sponsorship, error) {
	if err := ctx.Err(); err != nil {
		return impact.Sponsorship{}, err
	}
	var sp impact.Sponsorship
	row := s.q.QueryRowContext(ctx, `
SELECT batch_id, sponsor_name, amount, sponsor, sponsored_at_height
FROM sponsorships WHERE batch_id = ?`, batchID)
	err := row.Scan(&sp.BatchID, &sp.SponsorName, &sp.Amount, &sp.Sponsor, &sp.SponsoredAtHeight)
	if errors.Is(err, sql.ErrNoRows) {
		return impact.Sponsorship{}, apperrors.WithMetadata(apperrors.CodeNotFound,
			"sponsorship not found",
			map[string]string{"BatchID": strconv.FormatUint(batchID, 10)})
	}
	if err != nil {
		return impact.Sponsorship{}, err
	}
	return sp, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
