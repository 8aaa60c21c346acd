// Package errors provides structured error handling for treasury operations.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Access control errors
	CodeUnauthorized Code = "TREASURY_UNAUTHORIZED"
	CodeNotAlive     Code = "TREASURY_CULT_NOT_ALIVE"

	// Ledger errors
	CodeAlreadyInitialized  Code = "TREASURY_ALREADY_INITIALIZED"
	CodeInsufficientBalance Code = "TREASURY_INSUFFICIENT_BALANCE"

	// Escrow errors
	CodeInsufficientUnlockedFunds Code = "TREASURY_INSUFFICIENT_UNLOCKED_FUNDS"
	CodeInsufficientLocked        Code = "TREASURY_INSUFFICIENT_LOCKED"

	// Transfer errors
	CodeSelfTransferNotAllowed Code = "TREASURY_SELF_TRANSFER_NOT_ALLOWED"
	CodeSourceDead             Code = "TREASURY_SOURCE_DEAD"
	CodeTargetDead             Code = "TREASURY_TARGET_DEAD"

	// Rebirth errors
	CodeStillAlive          Code = "TREASURY_STILL_ALIVE"
	CodeNeverDied           Code = "TREASURY_NEVER_DIED"
	CodeCooldownActive      Code = "TREASURY_COOLDOWN_ACTIVE"
	CodeBelowMinimumFunding Code = "TREASURY_BELOW_MINIMUM_FUNDING"

	// Fee errors
	CodeNoFeesToDistribute       Code = "TREASURY_NO_FEES_TO_DISTRIBUTE"
	CodeInvalidDistributionRatio Code = "TREASURY_INVALID_DISTRIBUTION_RATIO"

	// Visibility errors
	CodeSelfGrantNotAllowed Code = "TREASURY_SELF_GRANT_NOT_ALLOWED"

	// Parameter errors
	CodeInvalidParameter Code = "TREASURY_INVALID_PARAMETER"

	// Operator grant errors
	CodeOperatorGrantInvalid Code = "OPERATOR_GRANT_INVALID"
	CodeOperatorGrantExpired Code = "OPERATOR_GRANT_EXPIRED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeSelfTransferNotAllowed,
		CodeSelfGrantNotAllowed,
		CodeInvalidDistributionRatio,
		CodeInvalidParameter,
		CodeOperatorGrantInvalid:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeNotAlive,
		CodeInsufficientBalance,
		CodeInsufficientUnlockedFunds,
		CodeInsufficientLocked,
		CodeSourceDead,
		CodeTargetDead,
		CodeStillAlive,
		CodeNeverDied,
		CodeCooldownActive,
		CodeBelowMinimumFunding,
		CodeNoFeesToDistribute,
		CodeOperatorGrantExpired:
		return codes.FailedPrecondition

	// PermissionDenied - caller is not the operator
	case CodeUnauthorized:
		return codes.PermissionDenied

	// AlreadyExists - unique resource constraint
	case CodeAlreadyInitialized:
		return codes.AlreadyExists

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
