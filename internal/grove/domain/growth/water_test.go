package growth

import (
	"testing"

	apperrors "github.com/den-labs/dengrow/internal/platform/errors"

	"github.com/den-labs/dengrow/internal/grove/domain/plant"
)

func TestWaterRejectsNonOwnerWithoutMutation(t *testing.T) {
	p := plant.NewPlant(1, "owner")

	_, err := Water(p, "stranger", 10, 0)
	if !apperrors.IsCode(err, apperrors.CodeNotOwner) {
		t.Fatalf("expected NOT_OWNER, got %v", err)
	}
	if p.GrowthPoints != 0 {
		t.Fatalf("expected input plant to stay unmodified")
	}
}

func TestWaterRejectsTerminalStage(t *testing.T) {
	p := plant.Plant{TokenID: 1, Owner: "owner", Stage: plant.StageTree, GrowthPoints: 7}

	_, err := Water(p, "owner", 10, 0)
	if !apperrors.IsCode(err, apperrors.CodeAlreadyTree) {
		t.Fatalf("expected ALREADY_TREE, got %v", err)
	}
}

func TestWaterOwnershipCheckedBeforeTerminalStage(t *testing.T) {
	p := plant.Plant{TokenID: 1, Owner: "owner", Stage: plant.StageTree, GrowthPoints: 7}

	_, err := Water(p, "stranger", 10, 0)
	if !apperrors.IsCode(err, apperrors.CodeNotOwner) {
		t.Fatalf("expected NOT_OWNER to win over ALREADY_TREE, got %v", err)
	}
}

func TestWaterCooldown(t *testing.T) {
	p := plant.Plant{TokenID: 1, Owner: "owner", Stage: plant.StageSprout, GrowthPoints: 2, LastActionHeight: 100}

	if _, err := Water(p, "owner", 105, 10); !apperrors.IsCode(err, apperrors.CodeCooldownActive) {
		t.Fatalf("expected COOLDOWN_ACTIVE inside the window, got %v", err)
	}

	out, err := Water(p, "owner", 110, 10)
	if err != nil {
		t.Fatalf("expected water to succeed at the cooldown boundary: %v", err)
	}
	if out.Plant.GrowthPoints != 3 || out.Plant.LastActionHeight != 110 {
		t.Fatalf("unexpected plant state after water: %+v", out.Plant)
	}
}

func TestWaterFirstActionIgnoresCooldown(t *testing.T) {
	// LastActionHeight zero means never watered; the cooldown window does not apply.
	p := plant.NewPlant(1, "owner")

	out, err := Water(p, "owner", 0, 144)
	if err != nil {
		t.Fatalf("expected first water to succeed: %v", err)
	}
	if out.Plant.GrowthPoints != 1 {
		t.Fatalf("expected 1 growth point, got %d", out.Plant.GrowthPoints)
	}
}

func TestWaterStageTransitions(t *testing.T) {
	p := plant.NewPlant(1, "owner")

	expected := []struct {
		points       uint32
		stage        plant.Stage
		stageChanged bool
		graduated    bool
	}{
		{1, plant.StageSeed, false, false},
		{2, plant.StageSprout, true, false},
		{3, plant.StageSprout, false, false},
		{4, plant.StagePlant, true, false},
		{5, plant.StagePlant, false, false},
		{6, plant.StageBloom, true, false},
		{7, plant.StageTree, true, true},
	}

	height := uint64(1)
	for _, step := range expected {
		out, err := Water(p, "owner", height, 0)
		if err != nil {
			t.Fatalf("water at %d points: %v", step.points, err)
		}
		if out.Plant.GrowthPoints != step.points {
			t.Fatalf("expected %d points, got %d", step.points, out.Plant.GrowthPoints)
		}
		if out.Plant.Stage != step.stage {
			t.Fatalf("at %d points expected stage %s, got %s", step.points, step.stage, out.Plant.Stage)
		}
		if out.StageChanged != step.stageChanged {
			t.Fatalf("at %d points expected stageChanged=%v", step.points, step.stageChanged)
		}
		if out.Graduated != step.graduated {
			t.Fatalf("at %d points expected graduated=%v", step.points, step.graduated)
		}
		p = out.Plant
		height++
	}

	if _, err := Water(p, "owner", height, 0); !apperrors.IsCode(err, apperrors.CodeAlreadyTree) {
		t.Fatalf("expected the 8th water to fail ALREADY_TREE, got %v", err)
	}
}
