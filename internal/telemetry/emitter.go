// Package telemetry records domain signals to the ledger's event feed.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/den-labs/dengrow/internal/grove/storage"
)

// Event types emitted by the grove services.
const (
	EventStageChanged     = "growth.stage_changed"
	EventGraduated        = "growth.graduated"
	EventTokenMinted      = "tokens.minted"
	EventTokenTransferred = "tokens.transferred"
	EventBatchRecorded    = "impact.batch_recorded"
	EventBatchSponsored   = "impact.batch_sponsored"
	EventPayout           = "treasury.payout"
	EventBadgeClaimed     = "badges.claimed"
)

// Emitter appends domain signals to the event feed.
type Emitter struct {
	store storage.TelemetryStore
	clock func() time.Time
	newID func() string
}

// NewEmitter creates an emitter backed by the provided store.
func NewEmitter(store storage.TelemetryStore) *Emitter {
	return &Emitter{
		store: store,
		clock: time.Now,
		newID: uuid.NewString,
	}
}

// Emit records a signal. It is a no-op when the emitter or store is nil, so
// services can emit unconditionally.
func (e *Emitter) Emit(ctx context.Context, evt storage.Event) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.ID == "" {
		if e.newID == nil {
			evt.ID = uuid.NewString()
		} else {
			evt.ID = e.newID()
		}
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	return e.store.AppendEvent(ctx, evt)
}

// StageChanged records a plant moving to a new growth stage.
func (e *Emitter) StageChanged(ctx context.Context, tokenID uint64, height uint64, from, to string) error {
	return e.Emit(ctx, storage.Event{
		Type:    EventStageChanged,
		Subject: TokenSubject(tokenID),
		Height:  height,
		Metadata: map[string]string{
			"From": from,
			"To":   to,
		},
	})
}

// Graduated records a plant reaching the terminal stage.
func (e *Emitter) Graduated(ctx context.Context, tokenID uint64, height uint64, owner string) error {
	return e.Emit(ctx, storage.Event{
		Type:    EventGraduated,
		Subject: TokenSubject(tokenID),
		Height:  height,
		Metadata: map[string]string{
			"Owner": owner,
		},
	})
}

// BatchRecorded records an off-chain impact batch being registered.
func (e *Emitter) BatchRecorded(ctx context.Context, batchID uint64, height uint64, quantity uint32) error {
	return e.Emit(ctx, storage.Event{
		Type:    EventBatchRecorded,
		Subject: BatchSubject(batchID),
		Height:  height,
		Metadata: map[string]string{
			"Quantity": fmt.Sprintf("%d", quantity),
		},
	})
}

// Payout records a partner payout settled by the treasury.
func (e *Emitter) Payout(ctx context.Context, batchID uint64, height uint64, partner string, amount uint64) error {
	return e.Emit(ctx, storage.Event{
		Type:    EventPayout,
		Subject: BatchSubject(batchID),
		Height:  height,
		Metadata: map[string]string{
			"Partner": partner,
			"Amount":  fmt.Sprintf("%d", amount),
		},
	})
}

// BadgeClaimed records an achievement claim.
func (e *Emitter) BadgeClaimed(ctx context.Context, owner string, badgeID uint32, height uint64) error {
	return e.Emit(ctx, storage.Event{
		Type:    EventBadgeClaimed,
		Subject: "owner/" + owner,
		Height:  height,
		Metadata: map[string]string{
			"BadgeID": fmt.Sprintf("%d", badgeID),
		},
	})
}

// TokenSubject formats the event subject for a token.
func TokenSubject(tokenID uint64) string {
	return fmt.Sprintf("token/%d", tokenID)
}

// BatchSubject formats the event subject for an impact batch.
func BatchSubject(batchID uint64) string {
	return fmt.Sprintf("batch/%d", batchID)
}
