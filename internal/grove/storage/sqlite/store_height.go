package sqlite

import "context"

// Logical clock methods. The height row is seeded at zero by the initial
// migration and only ever increments.

// CurrentHeight returns the ledger's logical height.
func (s *Store) CurrentHeight(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var height uint64
	row := s.q.QueryRowContext(ctx, "SELECT height FROM chain_meta WHERE id = 1")
	if err := row.Scan(&height); err != nil {
		return 0, err
	}
	return height, nil
}

// AdvanceHeight increments the logical height and returns the new value.
func (s *Store) AdvanceHeight(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if _, err := s.q.ExecContext(ctx,
		"UPDATE chain_meta SET height = height + 1 WHERE id = 1"); err != nil {
		return 0, err
	}
	return s.CurrentHeight(ctx)
}
