package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/den-labs/dengrow/internal/grove/domain/token"
	apperrors "github.com/den-labs/dengrow/internal/platform/errors"
)

// Token ownership methods.

// InsertToken creates an ownership record for a freshly minted token.
func (s *Store) InsertToken(ctx context.Context, t token.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.q.ExecContext(ctx, `
INSERT INTO tokens (token_id, owner, tier, minted_at_height)
VALUES (?, ?, ?, ?)`,
		t.TokenID, t.Owner, t.Tier, t.MintedAtHeight)
	return err
}

// UpdateTokenOwner rewrites the holder of a token.
func (s *Store) UpdateTokenOwner(ctx context.Context, tokenID uint64, owner string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx, "UPDATE tokens SET owner = ? WHERE token_id = ?", owner, tokenID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return tokenNotFound(tokenID)
	}
	return nil
}

// GetToken fetches an ownership record by token id.
func (s *Store) GetToken(ctx context.Context, tokenID uint64) (token.Token, error) {
	if err := ctx.Err(); err != nil {
		return token.Token{}, err
	}
	var t token.Token
	row := s.q.QueryRowContext(ctx, `
SELECT token_id, owner, tier, minted_at_height FROM tokens WHERE token_id = ?`, tokenID)
	err := row.Scan(&t.TokenID, &t.Owner, &t.Tier, &t.MintedAtHeight)
	if errors.Is(err, sql.ErrNoRows) {
		return token.Token{}, tokenNotFound(tokenID)
	}
	if err != nil {
		return token.Token{}, err
	}
	return t, nil
}

// NextTokenID allocates the next id from the monotonic mint counter.
func (s *Store) NextTokenID(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if _, err := s.q.ExecContext(ctx,
		"UPDATE counters SET value = value + 1 WHERE name = 'last_token_id'"); err != nil {
		return 0, err
	}
	return s.LastTokenID(ctx)
}

// LastTokenID returns the most recently allocated token id.
func (s *Store) LastTokenID(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var value uint64
	row := s.q.QueryRowContext(ctx, "SELECT value FROM counters WHERE name = 'last_token_id'")
	if err := row.Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

func tokenNotFound(tokenID uint64) error {
	return apperrors.WithMetadata(apperrors.CodeTokenNotFound,
		"token not found",
		map[string]string{"TokenID": strconv.FormatUint(tokenID, 10)})
}
