// Package authz defines principals and the per-module capability grants.
//
// Every module owns one admin principal plus an allow-list of authorized
// callers. Admin-only operations accept the admin alone; privileged
// cross-module writes accept only allow-list members — the admin is not
// implicitly on the allow-list.
package authz

import "strings"

// Principal identifies a caller: an end-user address or a module identity.
type Principal string

// Module names used as grant scopes and as module principal suffixes.
const (
	ModulePlants   = "plants"
	ModuleGrowth   = "growth"
	ModuleTokens   = "tokens"
	ModuleImpact   = "impact"
	ModuleTreasury = "treasury"
	ModuleBadges   = "badges"
)

const modulePrefix = "module:"

// ModulePrincipal returns the principal identity a module uses when calling
// into another module's privileged entry points.
func ModulePrincipal(module string) Principal {
	return Principal(modulePrefix + module)
}

// IsModule reports whether the principal is a module identity.
func (p Principal) IsModule() bool {
	return strings.HasPrefix(string(p), modulePrefix) && len(p) > len(modulePrefix)
}

// Grant is one allow-list entry: grantee may invoke the privileged write
// entry points of the named module.
type Grant struct {
	Module          string
	Grantee         Principal
	GrantedAtHeight uint64
}
