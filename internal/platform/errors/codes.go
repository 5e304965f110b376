// Package errors provides structured error handling with message templates.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Rules engine rejections
	CodeInsufficientPoints       Code = "INSUFFICIENT_POINTS"
	CodeRequirementNotMet        Code = "REQUIREMENT_NOT_MET"
	CodeInvalidDieSize           Code = "INVALID_DIE_SIZE"
	CodeDuplicateSelection       Code = "DUPLICATE_SELECTION"
	CodeCompanionConflict        Code = "COMPANION_CONFLICT"
	CodeAdvancementRuleViolation Code = "ADVANCEMENT_RULE_VIOLATION"
	CodeInvalidMutation          Code = "INVALID_MUTATION"
	CodeCreationIncomplete       Code = "CREATION_INCOMPLETE"

	// Reference data errors
	CodeInvalidReference Code = "INVALID_REFERENCE"
	CodeInvalidConfig    Code = "INVALID_CONFIG"
	CodeInvalidFilter    Code = "INVALID_FILTER"

	// Character errors
	CodeCharacterEmptyName Code = "CHARACTER_EMPTY_NAME"
	CodeCharacterEmptyID   Code = "CHARACTER_EMPTY_ID"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidDieSize,
		CodeInvalidMutation,
		CodeInvalidReference,
		CodeInvalidConfig,
		CodeInvalidFilter,
		CodeCharacterEmptyName,
		CodeCharacterEmptyID:
		return codes.InvalidArgument

	// FailedPrecondition - character state doesn't allow the mutation
	case CodeInsufficientPoints,
		CodeRequirementNotMet,
		CodeCompanionConflict,
		CodeAdvancementRuleViolation,
		CodeCreationIncomplete:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// AlreadyExists - unique selection constraint
	case CodeDuplicateSelection,
		CodeAlreadyExists:
		return codes.AlreadyExists

	default:
		return codes.Internal
	}
}
