package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/den-labs/dengrow/internal/grove/authz"
	apperrors "github.com/den-labs/dengrow/internal/platform/errors"
)

// Authorization registry methods.

// SetModuleAdmin records (or replaces) the admin principal for a module.
func (s *Store) SetModuleAdmin(ctx context.Context, module string, admin authz.Principal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.q.ExecContext(ctx, `
INSERT INTO module_admins (module, admin) VALUES (?, ?)
ON CONFLICT (module) DO UPDATE SET admin = excluded.admin`,
		module, string(admin))
	return err
}

// ModuleAdmin returns the admin principal for a module.
func (s *Store) ModuleAdmin(ctx context.Context, module string) (authz.Principal, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var admin string
	row := s.q.QueryRowContext(ctx, "SELECT admin FROM module_admins WHERE module = ?", module)
	err := row.Scan(&admin)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.WithMetadata(apperrors.CodeNotFound,
			"module admin not configured",
			map[string]string{"Module": module})
	}
	if err != nil {
		return "", err
	}
	return authz.Principal(admin), nil
}

// AddGrant adds an allow-list entry. Re-adding an existing grant is a no-op.
func (s *Store) AddGrant(ctx context.Context, g authz.Grant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.q.ExecContext(ctx, `
INSERT OR IGNORE INTO module_grants (module, grantee, granted_at_height)
VALUES (?, ?, ?)`,
		g.Module, string(g.Grantee), g.GrantedAtHeight)
	return err
}

// RemoveGrant deletes an allow-list entry if present.
func (s *Store) RemoveGrant(ctx context.Context, module string, grantee authz.Principal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.q.ExecContext(ctx,
		"DELETE FROM module_grants WHERE module = ? AND grantee = ?",
		module, string(grantee))
	return err
}

// HasGrant reports allow-list membership.
func (s *Store) HasGrant(ctx context.Context, module string, grantee authz.Principal) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var found int
	row := s.q.QueryRowContext(ctx,
		"SELECT 1 FROM module_grants WHERE module = ? AND grantee = ?",
		module, string(grantee))
	err := row.Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
