package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeInvalidRequest          = "INVALID_REQUEST"
	CodeBoardNameEmpty          = "BOARD_NAME_EMPTY"
	CodeBoardTeamEmpty          = "BOARD_TEAM_EMPTY"
	CodeBoardInvalidPrice       = "BOARD_INVALID_PRICE"
	CodeBoardInvalidCap         = "BOARD_INVALID_CAP"
	CodeBoardLocked             = "BOARD_LOCKED"
	CodeSquareInvalidCoordinate = "SQUARE_INVALID_COORDINATE"
	CodeSquareAlreadyClaimed    = "SQUARE_ALREADY_CLAIMED"
	CodeSquareNotOwner          = "SQUARE_NOT_OWNER"
	CodeSquareClaimLimit        = "SQUARE_CLAIM_LIMIT_EXCEEDED"
	CodeDigitsAlreadySet        = "DIGITS_ALREADY_SET"
	CodeDigitsNotAssigned       = "DIGITS_NOT_ASSIGNED"
	CodeScoreInvalidQuarter     = "SCORE_INVALID_QUARTER"
	CodeScoreNegative           = "SCORE_NEGATIVE"
	CodeActorNotAdmin           = "ACTOR_NOT_ADMIN"
	CodeActorEmptyID            = "ACTOR_EMPTY_ID"
	CodeActorInvalidRole        = "ACTOR_INVALID_ROLE"
	CodeAuditInvalidKeep        = "AUDIT_INVALID_KEEP"
	CodeSeedOutOfRange          = "SEED_OUT_OF_RANGE"
	CodeTokenInvalid            = "TOKEN_INVALID"
	CodeTokenExpired            = "TOKEN_EXPIRED"
	CodeNotFound                = "NOT_FOUND"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		CodeInvalidRequest: "The request is malformed",

		// Board errors
		CodeBoardNameEmpty:    "Board name cannot be empty",
		CodeBoardTeamEmpty:    "Both team names are required",
		CodeBoardInvalidPrice: "Price per square cannot be negative",
		CodeBoardInvalidCap:   "Per-participant square cap cannot be negative",
		CodeBoardLocked:       "The board is locked",

		// Square errors
		CodeSquareInvalidCoordinate: "Square ({{.Row}}, {{.Col}}) is outside the board",
		CodeSquareAlreadyClaimed:    "That square is already taken",
		CodeSquareNotOwner:          "Only the square owner can release it",
		CodeSquareClaimLimit:        "Limit of {{.Limit}} squares per participant reached",

		// Digit errors
		CodeDigitsAlreadySet:  "Digits have already been assigned; clear them first",
		CodeDigitsNotAssigned: "Digits have not been assigned yet",

		// Score errors
		CodeScoreInvalidQuarter: "Quarter {{.Quarter}} is not a valid quarter",
		CodeScoreNegative:       "Scores cannot be negative",

		// Authorization errors
		CodeActorNotAdmin:    "Only an admin can perform this action",
		CodeActorEmptyID:     "Participant ID is required",
		CodeActorInvalidRole: "Invalid actor role specified",
		CodeAuditInvalidKeep: "Audit prune keep value cannot be negative",
		CodeSeedOutOfRange:   "Random seed is out of valid range",

		// Token errors
		CodeTokenInvalid: "The access token is invalid",
		CodeTokenExpired: "The access token has expired",

		// Storage errors
		CodeNotFound: "The requested resource was not found",
	},
}
