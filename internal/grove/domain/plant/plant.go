// Package plant defines the canonical plant record and stage derivation rules.
package plant

// Stage describes one of the five ordinal growth phases.
type Stage int

const (
	// StageSeed is the initial stage of every plant.
	StageSeed Stage = iota
	// StageSprout is reached at 2 growth points.
	StageSprout
	// StagePlant is reached at 4 growth points.
	StagePlant
	// StageBloom is reached at 6 growth points.
	StageBloom
	// StageTree is the terminal stage, reached at 7 growth points.
	StageTree
)

// Stage thresholds in growth points. A plant's stage is always derived from
// its growth points; the two are never set independently.
const (
	sproutThreshold = 2
	plantThreshold  = 4
	bloomThreshold  = 6
	treeThreshold   = 7
)

// String returns the stage label used in telemetry and logs.
func (s Stage) String() string {
	switch s {
	case StageSeed:
		return "seed"
	case StageSprout:
		return "sprout"
	case StagePlant:
		return "plant"
	case StageBloom:
		return "bloom"
	case StageTree:
		return "tree"
	default:
		return "unknown"
	}
}

// Terminal reports whether the stage admits no further growth.
func (s Stage) Terminal() bool {
	return s == StageTree
}

// StageOf derives the stage for a growth point total.
func StageOf(growthPoints uint32) Stage {
	switch {
	case growthPoints >= treeThreshold:
		return StageTree
	case growthPoints >= bloomThreshold:
		return StageBloom
	case growthPoints >= plantThreshold:
		return StagePlant
	case growthPoints >= sproutThreshold:
		return StageSprout
	default:
		return StageSeed
	}
}

// Plant is the canonical per-token growth record.
//
// Plants are created once at mint and mutated only through the growth engine
// and the identity module's owner-sync path. Once a plant reaches StageTree
// its growth points and stage are frozen.
type Plant struct {
	// TokenID is the immutable token identifier assigned at mint.
	TokenID uint64
	// Owner mirrors the identity module's ownership record. It is rewritten
	// synchronously on transfer and is never updated by any other caller.
	Owner string
	// Stage is derived from GrowthPoints via StageOf.
	Stage Stage
	// GrowthPoints is monotonically non-decreasing.
	GrowthPoints uint32
	// LastActionHeight is the logical height of the last water action,
	// zero before the first one.
	LastActionHeight uint64
}

// NewPlant returns the freshly initialized record for a just-minted token.
func NewPlant(tokenID uint64, owner string) Plant {
	return Plant{
		TokenID: tokenID,
		Owner:   owner,
		Stage:   StageSeed,
	}
}
