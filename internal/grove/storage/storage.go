// Package storage defines the persistence interfaces for the grove ledger.
package storage

import (
	"context"
	"time"

	"github.com/den-labs/dengrow/internal/grove/authz"
	"github.com/den-labs/dengrow/internal/grove/domain/badge"
	"github.com/den-labs/dengrow/internal/grove/domain/impact"
	"github.com/den-labs/dengrow/internal/grove/domain/plant"
	"github.com/den-labs/dengrow/internal/grove/domain/token"
	"github.com/den-labs/dengrow/internal/grove/domain/treasury"
)

// PlantStore persists canonical plant records.
type PlantStore interface {
	// InsertPlant creates a plant record; PLANT_ALREADY_EXISTS if present.
	InsertPlant(ctx context.Context, p plant.Plant) error
	// UpdatePlant rewrites an existing record; PLANT_NOT_FOUND if absent.
	UpdatePlant(ctx context.Context, p plant.Plant) error
	// GetPlant fetches a record; PLANT_NOT_FOUND if absent.
	GetPlant(ctx context.Context, tokenID uint64) (plant.Plant, error)
	// PlantExists reports record presence without an error for absence.
	PlantExists(ctx context.Context, tokenID uint64) (bool, error)
}

// TokenStore persists NFT ownership records and the mint counter.
type TokenStore interface {
	// InsertToken creates an ownership record for a freshly minted token.
	InsertToken(ctx context.Context, t token.Token) error
	// UpdateTokenOwner rewrites the holder; TOKEN_NOT_FOUND if absent.
	UpdateTokenOwner(ctx context.Context, tokenID uint64, owner string) error
	// GetToken fetches an ownership record; TOKEN_NOT_FOUND if absent.
	GetToken(ctx context.Context, tokenID uint64) (token.Token, error)
	// NextTokenID allocates the next id from the monotonic mint counter.
	NextTokenID(ctx context.Context) (uint64, error)
	// LastTokenID returns the most recently allocated id, zero before any mint.
	LastTokenID(ctx context.Context) (uint64, error)
}

// AuthzStore persists per-module admins and allow-list grants.
type AuthzStore interface {
	// SetModuleAdmin records the admin principal for a module.
	SetModuleAdmin(ctx context.Context, module string, admin authz.Principal) error
	// ModuleAdmin returns the admin principal; NOT_FOUND if unset.
	ModuleAdmin(ctx context.Context, module string) (authz.Principal, error)
	// AddGrant adds an allow-list entry. Adding an existing grant is a no-op.
	AddGrant(ctx context.Context, g authz.Grant) error
	// RemoveGrant deletes an allow-list entry if present.
	RemoveGrant(ctx context.Context, module string, grantee authz.Principal) error
	// HasGrant reports allow-list membership.
	HasGrant(ctx context.Context, module string, grantee authz.Principal) (bool, error)
}

// ImpactStore persists graduations, batches, and sponsorships.
type ImpactStore interface {
	// InsertGraduation creates a record; ALREADY_GRADUATED if present.
	InsertGraduation(ctx context.Context, g impact.Graduation) error
	// GetGraduation fetches a record; NOT_FOUND if absent.
	GetGraduation(ctx context.Context, tokenID uint64) (impact.Graduation, error)
	// GraduationExists reports record presence.
	GraduationExists(ctx context.Context, tokenID uint64) (bool, error)
	// MarkRedeemed flips quantity unredeemed records to redeemed, oldest
	// graduation first, and returns the consumed token ids.
	MarkRedeemed(ctx context.Context, quantity uint64) ([]uint64, error)
	// PoolStats derives the aggregate counters from the stored records.
	PoolStats(ctx context.Context) (impact.PoolStats, error)
	// InsertBatch stores an immutable batch record.
	InsertBatch(ctx context.Context, b impact.Batch) error
	// GetBatch fetches a batch; NOT_FOUND if absent.
	GetBatch(ctx context.Context, batchID uint64) (impact.Batch, error)
	// NextBatchID returns the id the next batch will receive, starting at 1.
	NextBatchID(ctx context.Context) (uint64, error)
	// InsertSponsorship stores a sponsorship; ALREADY_SPONSORED if the batch
	// already has one.
	InsertSponsorship(ctx context.Context, s impact.Sponsorship) error
	// GetSponsorship fetches a batch's sponsorship; NOT_FOUND if absent.
	GetSponsorship(ctx context.Context, batchID uint64) (impact.Sponsorship, error)
}

// TreasuryStore persists the singleton treasury account.
type TreasuryStore interface {
	// GetTreasury returns the singleton account.
	GetTreasury(ctx context.Context) (treasury.Account, error)
	// PutTreasury rewrites the singleton account after verifying its
	// balance invariant.
	PutTreasury(ctx context.Context, a treasury.Account) error
}

// WalletStore persists per-address micro-unit balances.
type WalletStore interface {
	// WalletBalance returns an address balance, zero for unknown addresses.
	WalletBalance(ctx context.Context, address string) (uint64, error)
	// CreditWallet adds amount to an address balance.
	CreditWallet(ctx context.Context, address string, amount uint64) error
	// DebitWallet removes amount; INSUFFICIENT_FUNDS when the balance is short.
	DebitWallet(ctx context.Context, address string, amount uint64) error
}

// BadgeStore persists one-time badge claims.
type BadgeStore interface {
	// InsertClaim creates a claim; ALREADY_CLAIMED if the (owner, badge)
	// pair exists.
	InsertClaim(ctx context.Context, c badge.Claim) error
	// GetClaim fetches a claim; NOT_FOUND if absent.
	GetClaim(ctx context.Context, owner string, badgeID uint32) (badge.Claim, error)
	// ClaimExists reports claim presence.
	ClaimExists(ctx context.Context, owner string, badgeID uint32) (bool, error)
	// BadgeCount returns the number of badges an owner has claimed.
	BadgeCount(ctx context.Context, owner string) (uint64, error)
	// TotalBadgesClaimed returns the global claim count.
	TotalBadgesClaimed(ctx context.Context) (uint64, error)
}

// HeightStore tracks the ledger's logical clock.
type HeightStore interface {
	// CurrentHeight returns the current logical height.
	CurrentHeight(ctx context.Context) (uint64, error)
	// AdvanceHeight increments the logical height and returns the new value.
	AdvanceHeight(ctx context.Context) (uint64, error)
}

// Event is one recorded domain signal.
type Event struct {
	// ID is assigned by the emitter.
	ID string
	// Type names the signal, e.g. "growth.stage_changed".
	Type string
	// Subject identifies the affected entity, e.g. "token/7".
	Subject string
	// Height is the logical height at which the signal fired.
	Height uint64
	// Metadata carries signal-specific key/value context.
	Metadata map[string]string
	// Timestamp is the wall-clock recording time, for operators only.
	Timestamp time.Time
}

// TelemetryStore persists domain signals.
type TelemetryStore interface {
	// AppendEvent records a signal.
	AppendEvent(ctx context.Context, evt Event) error
	// ListEvents returns up to limit signals for a subject, oldest first.
	// An empty subject returns signals for all subjects.
	ListEvents(ctx context.Context, subject string, limit int) ([]Event, error)
}

// Ledger bundles every entity store backed by one transactional database.
type Ledger interface {
	PlantStore
	TokenStore
	AuthzStore
	ImpactStore
	TreasuryStore
	WalletStore
	BadgeStore
	HeightStore
	TelemetryStore
}

// TxRunner executes a unit of work against a transaction-scoped ledger view.
// The mutations made inside fn commit together or not at all.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(Ledger) error) error
}

// Store is the full persistence surface the services are wired against.
type Store interface {
	Ledger
	TxRunner
}
