// Package growth implements the water/cooldown/stage-transition state machine.
package growth

import (
	"strconv"

	apperrors "github.com/den-labs/dengrow/internal/platform/errors"

	"github.com/den-labs/dengrow/internal/grove/domain/plant"
)

// Outcome describes the effect of a successful water action.
type Outcome struct {
	// Plant is the updated record to persist.
	Plant plant.Plant
	// StageChanged reports whether the action crossed a stage threshold.
	StageChanged bool
	// PreviousStage is the stage before the action.
	PreviousStage plant.Stage
	// Graduated reports whether the action reached the terminal tree stage.
	Graduated bool
}

// Water applies one water action to the given plant record.
//
// Checks run in a fixed order and the first failure determines the error:
// ownership, terminal stage, then cooldown. The caller is responsible for the
// existence check (a missing record is PLANT_NOT_FOUND at the service layer).
// Water never mutates its input; the updated record is returned in Outcome.
func Water(p plant.Plant, caller string, currentHeight, cooldownBlocks uint64) (Outcome, error) {
	if caller != p.Owner {
		return Outcome{}, apperrors.WithMetadata(apperrors.CodeNotOwner,
			"caller does not own the token",
			map[string]string{"TokenID": strconv.FormatUint(p.TokenID, 10)})
	}
	if p.Stage.Terminal() {
		return Outcome{}, apperrors.WithMetadata(apperrors.CodeAlreadyTree,
			"plant growth is complete",
			map[string]string{"TokenID": strconv.FormatUint(p.TokenID, 10)})
	}
	if p.LastActionHeight != 0 && currentHeight < p.LastActionHeight+cooldownBlocks {
		return Outcome{}, apperrors.WithMetadata(apperrors.CodeCooldownActive,
			"water cooldown has not elapsed",
			map[string]string{
				"TokenID":     strconv.FormatUint(p.TokenID, 10),
				"ReadyHeight": strconv.FormatUint(p.LastActionHeight+cooldownBlocks, 10),
			})
	}

	previous := p.Stage
	p.GrowthPoints++
	p.Stage = plant.StageOf(p.GrowthPoints)
	p.LastActionHeight = currentHeight

	return Outcome{
		Plant:         p,
		StageChanged:  p.Stage != previous,
		PreviousStage: previous,
		Graduated:     p.Stage.Terminal(),
	}, nil
}
