package service

import (
	"context"

	"github.com/den-labs/dengrow/internal/grove/authz"
	"github.com/den-labs/dengrow/internal/grove/storage"
)

// AuthzService manages per-module admins and allow-lists.
type AuthzService struct {
	store storage.Store
}

// NewAuthzService creates the authorization registry service.
func NewAuthzService(store storage.Store) *AuthzService {
	return &AuthzService{store: store}
}

// Authorize adds grantee to the module's allow-list. Admin-only.
func (s *AuthzService) Authorize(ctx context.Context, caller authz.Principal, module string, grantee authz.Principal) error {
	return s.store.WithinTx(ctx, func(l storage.Ledger) error {
		if err := requireAdmin(ctx, l, module, caller); err != nil {
			return err
		}
		height, err := l.CurrentHeight(ctx)
		if err != nil {
			return err
		}
		return l.AddGrant(ctx, authz.Grant{
			Module:          module,
			Grantee:         grantee,
			GrantedAtHeight: height,
		})
	})
}

// Revoke removes grantee from the module's allow-list. Admin-only.
func (s *AuthzService) Revoke(ctx context.Context, caller authz.Principal, module string, grantee authz.Principal) error {
	return s.store.WithinTx(ctx, func(l storage.Ledger) error {
		if err := requireAdmin(ctx, l, module, caller); err != nil {
			return err
		}
		return l.RemoveGrant(ctx, module, grantee)
	})
}

// IsAuthorized reports allow-list membership. Unrestricted read.
func (s *AuthzService) IsAuthorized(ctx context.Context, module string, p authz.Principal) (bool, error) {
	return s.store.HasGrant(ctx, module, p)
}

// Admin returns the module's admin principal. Unrestricted read.
func (s *AuthzService) Admin(ctx context.Context, module string) (authz.Principal, error) {
	return s.store.ModuleAdmin(ctx, module)
}
