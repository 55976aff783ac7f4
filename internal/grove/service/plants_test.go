package service

import (
	"context"
	"testing"

	"github.com/den-labs/dengrow/internal/grove/authz"
	"github.com/den-labs/dengrow/internal/grove/domain/plant"
	apperrors "github.com/den-labs/dengrow/internal/platform/errors"
)

func TestInitializeCreatesSeedRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tokensModule := authz.ModulePrincipal(authz.ModuleTokens)

	if err := env.plants.Initialize(ctx, tokensModule, 1, string(testOwner)); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	p, err := env.plants.GetPlant(ctx, 1)
	if err != nil {
		t.Fatalf("get plant: %v", err)
	}
	if p.Stage != plant.StageSeed || p.GrowthPoints != 0 || p.LastActionHeight != 0 {
		t.Fatalf("unexpected initial record %+v", p)
	}

	err = env.plants.Initialize(ctx, tokensModule, 1, string(testOwner))
	wantCode(t, err, apperrors.CodePlantAlreadyExists)
}

func TestPlantWritesRejectUngrantedCallers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// The module admin holds no grant, so even the admin cannot write
	// directly.
	for name, err := range map[string]error{
		"initialize as admin":  env.plants.Initialize(ctx, testAdmin, 1, string(testOwner)),
		"initialize as user":   env.plants.Initialize(ctx, testOwner, 1, string(testOwner)),
		"update state as user": env.plants.UpdatePlantState(ctx, testOwner, 1, plant.StageTree, 7, 1),
		"update owner as user": env.plants.UpdatePlantOwner(ctx, testOwner, 1, string(testOther)),
	} {
		if code := apperrors.GetCode(err); code != apperrors.CodeNotAuthorized {
			t.Fatalf("%s: expected NOT_AUTHORIZED, got %s (%v)", name, code, err)
		}
	}

	if exists, _ := env.plants.Exists(ctx, 1); exists {
		t.Fatalf("rejected writes must leave no record")
	}
}

func TestUpdatePlantStateAndOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tokensModule := authz.ModulePrincipal(authz.ModuleTokens)
	growthModule := authz.ModulePrincipal(authz.ModuleGrowth)

	if err := env.plants.Initialize(ctx, tokensModule, 1, string(testOwner)); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := env.plants.UpdatePlantState(ctx, growthModule, 1, plant.StageSprout, 2, 5); err != nil {
		t.Fatalf("update state: %v", err)
	}
	if err := env.plants.UpdatePlantOwner(ctx, tokensModule, 1, string(testOther)); err != nil {
		t.Fatalf("update owner: %v", err)
	}

	p, err := env.plants.GetPlant(ctx, 1)
	if err != nil {
		t.Fatalf("get plant: %v", err)
	}
	if p.Stage != plant.StageSprout || p.GrowthPoints != 2 || p.LastActionHeight != 5 {
		t.Fatalf("state update did not stick: %+v", p)
	}
	if p.Owner != string(testOther) {
		t.Fatalf("owner update did not stick: %q", p.Owner)
	}

	stage, err := env.plants.GetStage(ctx, 1)
	if err != nil || stage != plant.StageSprout {
		t.Fatalf("get stage: %v %v", stage, err)
	}
	owner, err := env.plants.GetOwner(ctx, 1)
	if err != nil || owner != string(testOther) {
		t.Fatalf("get owner: %q %v", owner, err)
	}
}

func TestPlantReadsAreUnrestricted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.plants.GetPlant(ctx, 99)
	wantCode(t, err, apperrors.CodePlantNotFound)

	exists, err := env.plants.Exists(ctx, 99)
	if err != nil || exists {
		t.Fatalf("expected absent plant, got %v %v", exists, err)
	}
}
