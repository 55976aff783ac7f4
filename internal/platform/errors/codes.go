// Package errors provides structured, machine-readable error handling.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Authorization errors
	CodeAdminOnly     Code = "ADMIN_ONLY"
	CodeNotAuthorized Code = "NOT_AUTHORIZED"

	// Plant state errors
	CodePlantAlreadyExists Code = "PLANT_ALREADY_EXISTS"
	CodePlantNotFound      Code = "PLANT_NOT_FOUND"

	// Growth errors
	CodeNotOwner       Code = "NOT_OWNER"
	CodeAlreadyTree    Code = "ALREADY_TREE"
	CodeCooldownActive Code = "COOLDOWN_ACTIVE"

	// Identity/mint errors
	CodeInvalidTier   Code = "INVALID_TIER"
	CodeSoldOut       Code = "SOLD_OUT"
	CodeTokenNotFound Code = "TOKEN_NOT_FOUND"

	// Impact registry errors
	CodeAlreadyGraduated   Code = "ALREADY_GRADUATED"
	CodeInvalidBatch       Code = "INVALID_BATCH"
	CodeAlreadySponsored   Code = "ALREADY_SPONSORED"
	CodeInvalidSponsorship Code = "INVALID_SPONSORSHIP"

	// Treasury errors
	CodeInvalidAmount     Code = "INVALID_AMOUNT"
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
	CodeNoPartnerSet      Code = "NO_PARTNER_SET"
	CodeInvalidPrice      Code = "INVALID_PRICE"
	CodeZeroQuantity      Code = "ZERO_QUANTITY"

	// Badge errors
	CodeAlreadyClaimed Code = "ALREADY_CLAIMED"
	CodeNotEligible    Code = "NOT_ELIGIBLE"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidTier,
		CodeInvalidAmount,
		CodeInvalidPrice,
		CodeZeroQuantity,
		CodeInvalidSponsorship:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeAlreadyTree,
		CodeCooldownActive,
		CodeSoldOut,
		CodeInsufficientFunds,
		CodeNoPartnerSet,
		CodeInvalidBatch,
		CodeNotEligible:
		return codes.FailedPrecondition

	// AlreadyExists - one-time transitions attempted twice
	case CodePlantAlreadyExists,
		CodeAlreadyGraduated,
		CodeAlreadySponsored,
		CodeAlreadyClaimed:
		return codes.AlreadyExists

	// PermissionDenied - caller lacks capability
	case CodeAdminOnly,
		CodeNotAuthorized,
		CodeNotOwner:
		return codes.PermissionDenied

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodePlantNotFound,
		CodeTokenNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
