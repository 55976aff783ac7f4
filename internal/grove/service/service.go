// Package service implements the grove modules: authorization registry,
// plant state store, growth engine, identity, impact registry, treasury,
// and badges. Every mutating method runs as one all-or-nothing transaction
// against the shared ledger and returns either a payload or a coded error.
package service

import (
	"context"

	"github.com/den-labs/dengrow/internal/grove/authz"
	"github.com/den-labs/dengrow/internal/grove/storage"
	apperrors "github.com/den-labs/dengrow/internal/platform/errors"
)

// requireAdmin fails with ADMIN_ONLY unless caller is the module's admin.
func requireAdmin(ctx context.Context, l storage.Ledger, module string, caller authz.Principal) error {
	admin, err := l.ModuleAdmin(ctx, module)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return apperrors.WithMetadata(apperrors.CodeAdminOnly,
				"module has no admin configured",
				map[string]string{"Module": module})
		}
		return err
	}
	if caller != admin {
		return apperrors.WithMetadata(apperrors.CodeAdminOnly,
			"caller is not the module admin",
			map[string]string{"Module": module})
	}
	return nil
}

// requireGrant fails with NOT_AUTHORIZED unless caller is on the module's
// allow-list. The admin does not pass this check implicitly.
func requireGrant(ctx context.Context, l storage.Ledger, module string, caller authz.Principal) error {
	ok, err := l.HasGrant(ctx, module, caller)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeNotAuthorized,
			"caller is not authorized for the module",
			map[string]string{"Module": module})
	}
	return nil
}

// requireAdminOrGrant passes for the module admin or any allow-listed caller.
func requireAdminOrGrant(ctx context.Context, l storage.Ledger, module string, caller authz.Principal) error {
	admin, err := l.ModuleAdmin(ctx, module)
	if err == nil && caller == admin {
		return nil
	}
	if err != nil && !apperrors.IsCode(err, apperrors.CodeNotFound) {
		return err
	}
	return requireGrant(ctx, l, module, caller)
}
