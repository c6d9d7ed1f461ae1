package domain

import (
	"strings"
	"time"

	apperrors "github.com/louisbranch/squarepool/internal/platform/errors"
)

// BoardSize is the fixed edge length of the grid. The game is defined for
// 10x10 boards only; score digits map one-to-one onto rows and columns.
const BoardSize = 10

// SquareCount is the total number of claimable squares on a board.
const SquareCount = BoardSize * BoardSize

var (
	// ErrEmptyName indicates a missing board name.
	ErrEmptyName = apperrors.New(apperrors.CodeBoardNameEmpty, "board name is required")
	// ErrEmptyTeam indicates a missing team name.
	ErrEmptyTeam = apperrors.New(apperrors.CodeBoardTeamEmpty, "both team names are required")
	// ErrInvalidPrice indicates a negative price per square.
	ErrInvalidPrice = apperrors.New(apperrors.CodeBoardInvalidPrice, "price per square cannot be negative")
	// ErrInvalidCap indicates a negative per-participant claim cap.
	ErrInvalidCap = apperrors.New(apperrors.CodeBoardInvalidCap, "claim cap cannot be negative")
	// ErrBoardLocked indicates the board does not accept the operation while locked.
	ErrBoardLocked = apperrors.New(apperrors.CodeBoardLocked, "board is locked")
)

// Board is the aggregate for one squares game: the grid metadata, digit
// assignment state, and the lock flag. Squares and scores are stored as
// separate records keyed by the board ID.
type Board struct {
	ID   string
	Name string

	// RowTeam's score selects the winning row digit; ColTeam's score
	// selects the winning column digit. The mapping is fixed at creation
	// and holds for every quarter.
	RowTeam string
	ColTeam string

	// PriceCents is the buy-in per square, in cents.
	PriceCents int64

	// MaxSquaresPerParticipant caps claims per participant. Zero means
	// unlimited.
	MaxSquaresPerParticipant int

	Locked bool

	// RowDigits and ColDigits are either both nil (unassigned) or both
	// full permutations of 0..9.
	RowDigits Digits
	ColDigits Digits

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DigitsAssigned reports whether both digit permutations are set.
func (b Board) DigitsAssigned() bool {
	return len(b.RowDigits) == BoardSize && len(b.ColDigits) == BoardSize
}

// Settings carries the admin-editable board fields.
type Settings struct {
	Name                     string
	RowTeam                  string
	ColTeam                  string
	PriceCents               int64
	MaxSquaresPerParticipant int
}

// Validate normalizes and checks the settings values.
func (s *Settings) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.RowTeam = strings.TrimSpace(s.RowTeam)
	s.ColTeam = strings.TrimSpace(s.ColTeam)
	if s.Name == "" {
		return ErrEmptyName
	}
	if s.RowTeam == "" || s.ColTeam == "" {
		return ErrEmptyTeam
	}
	if s.PriceCents < 0 {
		return ErrInvalidPrice
	}
	if s.MaxSquaresPerParticipant < 0 {
		return ErrInvalidCap
	}
	return nil
}

// CreateBoardInput defines the inputs for creating a board.
type CreateBoardInput struct {
	Name                     string
	RowTeam                  string
	ColTeam                  string
	PriceCents               int64
	MaxSquaresPerParticipant int
}

// CreateBoard validates input and builds a new unlocked board with no
// digits, no owners, and no scores.
func CreateBoard(input CreateBoardInput, clock func() time.Time, idGenerator func() (string, error)) (Board, error) {
	settings := Settings{
		Name:                     input.Name,
		RowTeam:                  input.RowTeam,
		ColTeam:                  input.ColTeam,
		PriceCents:               input.PriceCents,
		MaxSquaresPerParticipant: input.MaxSquaresPerParticipant,
	}
	if err := settings.Validate(); err != nil {
		return Board{}, err
	}

	id, err := idGenerator()
	if err != nil {
		return Board{}, err
	}

	now := clock().UTC()
	return Board{
		ID:                       id,
		Name:                     settings.Name,
		RowTeam:                  settings.RowTeam,
		ColTeam:                  settings.ColTeam,
		PriceCents:               settings.PriceCents,
		MaxSquaresPerParticipant: settings.MaxSquaresPerParticipant,
		CreatedAt:                now,
		UpdatedAt:                now,
	}, nil
}
