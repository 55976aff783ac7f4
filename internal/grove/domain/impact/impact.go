// Package impact defines graduation bookkeeping, redemption batches, and
// batch sponsorships.
package impact

import (
	"strconv"
	"strings"

	apperrors "github.com/den-labs/dengrow/internal/platform/errors"
)

// ProofHashLen is the required byte length of a batch proof hash.
const ProofHashLen = 32

// MaxSponsorNameLen is the longest accepted sponsor display name.
const MaxSponsorNameLen = 64

// Graduation records the one-time event of a token reaching tree stage.
//
// A record is created exactly once per token and never deleted. Redeemed
// flips false to true exactly once, when the unit is consumed by a batch.
type Graduation struct {
	TokenID           uint64
	GraduatedAtHeight uint64
	OwnerAtGraduation string
	Redeemed          bool
}

// Batch is a recorded redemption of pooled units. Immutable once created.
type Batch struct {
	// BatchID is sequential, starting at 1.
	BatchID uint64
	// Quantity is the number of graduation records consumed by the batch.
	Quantity uint64
	// ProofHash is the 32-byte digest of the off-ledger redemption proof.
	ProofHash []byte
	// ProofURL points at the off-ledger proof document.
	ProofURL string
	// RecordedBy is the admin principal that recorded the batch.
	RecordedBy string
	// RecordedAtHeight is the logical height of the recording.
	RecordedAtHeight uint64
}

// Sponsorship is a funded, attributed endorsement of one batch.
// At most one sponsorship is accepted per batch; the first write wins.
type Sponsorship struct {
	BatchID           uint64
	SponsorName       string
	Amount            uint64
	Sponsor           string
	SponsoredAtHeight uint64
}

// PoolStats aggregates registry counters.
type PoolStats struct {
	TotalGraduated uint64
	TotalRedeemed  uint64
	TotalBatches   uint64
}

// CurrentPoolSize is the number of graduated-but-not-redeemed units.
func (s PoolStats) CurrentPoolSize() uint64 {
	return s.TotalGraduated - s.TotalRedeemed
}

// ValidateBatchRequest checks a redemption request against the pool.
func ValidateBatchRequest(quantity, poolSize uint64, proofHash []byte) error {
	if quantity == 0 || quantity > poolSize {
		return apperrors.WithMetadata(apperrors.CodeInvalidBatch,
			"batch quantity must be between 1 and the current pool size",
			map[string]string{
				"Quantity": strconv.FormatUint(quantity, 10),
				"PoolSize": strconv.FormatUint(poolSize, 10),
			})
	}
	if len(proofHash) != ProofHashLen {
		return apperrors.New(apperrors.CodeInvalidBatch, "proof hash must be 32 bytes")
	}
	return nil
}

// ValidateSponsorship checks sponsor inputs against the configured minimum.
func ValidateSponsorship(sponsorName string, amount, minimum uint64) error {
	if strings.TrimSpace(sponsorName) == "" {
		return apperrors.New(apperrors.CodeInvalidSponsorship, "sponsor name is required")
	}
	if len(sponsorName) > MaxSponsorNameLen {
		return apperrors.New(apperrors.CodeInvalidSponsorship, "sponsor name exceeds 64 characters")
	}
	if amount < minimum {
		return apperrors.WithMetadata(apperrors.CodeInvalidSponsorship,
			"sponsorship amount is below the minimum",
			map[string]string{
				"Amount":  strconv.FormatUint(amount, 10),
				"Minimum": strconv.FormatUint(minimum, 10),
			})
	}
	return nil
}
