package service

import (
	"context"
	"testing"

	apperrors "github.com/den-labs/dengrow/internal/platform/errors"
	"github.com/den-labs/dengrow/internal/telemetry"
)

func TestWaterSevenTimesGraduates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.identity.MintWithTier(ctx, testOwner, string(testOwner), 1)
	if err != nil {
		t.Fatalf("mint tier 1: %v", err)
	}

	for i := 1; i <= 7; i++ {
		result, err := env.growth.Water(ctx, testOwner, id)
		if err != nil {
			t.Fatalf("water %d: %v", i, err)
		}
		if result.GrowthPoints != uint32(i) {
			t.Fatalf("water %d: expected %d growth points, got %d", i, i, result.GrowthPoints)
		}
		if i < 7 && result.Graduated {
			t.Fatalf("water %d: graduated early", i)
		}
	}

	p, err := env.plants.GetPlant(ctx, id)
	if err != nil {
		t.Fatalf("get plant: %v", err)
	}
	if p.Stage.String() != "tree" || p.GrowthPoints != 7 {
		t.Fatalf("expected tree at 7 points, got %+v", p)
	}

	grad, err := env.impact.GetGraduation(ctx, id)
	if err != nil {
		t.Fatalf("get graduation: %v", err)
	}
	if grad.OwnerAtGraduation != string(testOwner) || grad.Redeemed {
		t.Fatalf("unexpected graduation %+v", grad)
	}
	stats, err := env.impact.GetPoolStats(ctx)
	if err != nil {
		t.Fatalf("pool stats: %v", err)
	}
	if stats.TotalGraduated != 1 || stats.CurrentPoolSize() != 1 {
		t.Fatalf("expected pool of 1, got %+v", stats)
	}
}

func TestWaterStageTransitionsEmitSignals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.mintFor(t, testOwner)
	env.growToTree(t, testOwner, id)

	events, err := env.store.ListEvents(ctx, telemetry.TokenSubject(id), 20)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	var stageChanges, graduations int
	for _, evt := range events {
		switch evt.Type {
		case telemetry.EventStageChanged:
			stageChanges++
		case telemetry.EventGraduated:
			graduations++
		}
	}
	// Thresholds at 2, 4, 6, and 7 points.
	if stageChanges != 4 {
		t.Fatalf("expected 4 stage-changed signals, got %d", stageChanges)
	}
	if graduations != 1 {
		t.Fatalf("expected 1 graduation signal, got %d", graduations)
	}
}

func TestWaterUnknownTokenFails(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.growth.Water(context.Background(), testOwner, 42)
	wantCode(t, err, apperrors.CodePlantNotFound)
}

func TestWaterByNonOwnerFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.mintFor(t, testOwner)

	_, err := env.growth.Water(ctx, testOther, id)
	wantCode(t, err, apperrors.CodeNotOwner)

	p, err := env.plants.GetPlant(ctx, id)
	if err != nil {
		t.Fatalf("get plant: %v", err)
	}
	if p.GrowthPoints != 0 {
		t.Fatalf("rejected water must not mutate growth points, got %d", p.GrowthPoints)
	}
}

func TestWaterTreeFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.mintFor(t, testOwner)
	env.growToTree(t, testOwner, id)

	_, err := env.growth.Water(ctx, testOwner, id)
	wantCode(t, err, apperrors.CodeAlreadyTree)
}

func TestWaterCooldown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	slow := NewGrowthService(env.store, 5)
	id := env.mintFor(t, testOwner)

	if _, err := env.store.AdvanceHeight(ctx); err != nil {
		t.Fatalf("advance height: %v", err)
	}
	if _, err := slow.Water(ctx, testOwner, id); err != nil {
		t.Fatalf("first water: %v", err)
	}

	_, err := slow.Water(ctx, testOwner, id)
	wantCode(t, err, apperrors.CodeCooldownActive)

	for i := 0; i < 5; i++ {
		if _, err := env.store.AdvanceHeight(ctx); err != nil {
			t.Fatalf("advance height: %v", err)
		}
	}
	if _, err := slow.Water(ctx, testOwner, id); err != nil {
		t.Fatalf("water after cooldown: %v", err)
	}
}
