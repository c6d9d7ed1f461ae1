// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeInvalidRequest represents a malformed request envelope.
	CodeInvalidRequest Code = "INVALID_REQUEST"

	// Board errors
	CodeBoardNameEmpty    Code = "BOARD_NAME_EMPTY"
	CodeBoardTeamEmpty    Code = "BOARD_TEAM_EMPTY"
	CodeBoardInvalidPrice Code = "BOARD_INVALID_PRICE"
	CodeBoardInvalidCap   Code = "BOARD_INVALID_CAP"
	CodeBoardLocked       Code = "BOARD_LOCKED"

	// Square errors
	CodeSquareInvalidCoordinate Code = "SQUARE_INVALID_COORDINATE"
	CodeSquareAlreadyClaimed    Code = "SQUARE_ALREADY_CLAIMED"
	CodeSquareNotOwner          Code = "SQUARE_NOT_OWNER"
	CodeSquareClaimLimit        Code = "SQUARE_CLAIM_LIMIT_EXCEEDED"

	// Digit errors
	CodeDigitsAlreadySet  Code = "DIGITS_ALREADY_SET"
	CodeDigitsNotAssigned Code = "DIGITS_NOT_ASSIGNED"

	// Score errors
	CodeScoreInvalidQuarter Code = "SCORE_INVALID_QUARTER"
	CodeScoreNegative       Code = "SCORE_NEGATIVE"

	// Authorization errors
	CodeActorNotAdmin    Code = "ACTOR_NOT_ADMIN"
	CodeActorEmptyID     Code = "ACTOR_EMPTY_ID"
	CodeActorInvalidRole Code = "ACTOR_INVALID_ROLE"
	CodeAuditInvalidKeep Code = "AUDIT_INVALID_KEEP"
	CodeSeedOutOfRange   Code = "SEED_OUT_OF_RANGE"

	// Token errors
	CodeTokenInvalid Code = "TOKEN_INVALID"
	CodeTokenExpired Code = "TOKEN_EXPIRED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidRequest,
		CodeBoardNameEmpty,
		CodeBoardTeamEmpty,
		CodeBoardInvalidPrice,
		CodeBoardInvalidCap,
		CodeSquareInvalidCoordinate,
		CodeScoreInvalidQuarter,
		CodeScoreNegative,
		CodeActorEmptyID,
		CodeActorInvalidRole,
		CodeAuditInvalidKeep,
		CodeSeedOutOfRange:
		return codes.InvalidArgument

	// FailedPrecondition - board state doesn't allow the operation
	case CodeBoardLocked,
		CodeSquareAlreadyClaimed,
		CodeSquareClaimLimit,
		CodeDigitsAlreadySet,
		CodeDigitsNotAssigned:
		return codes.FailedPrecondition

	// PermissionDenied - caller lacks the required role
	case CodeActorNotAdmin,
		CodeSquareNotOwner:
		return codes.PermissionDenied

	// Unauthenticated - caller identity could not be established
	case CodeTokenInvalid,
		CodeTokenExpired:
		return codes.Unauthenticated

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
