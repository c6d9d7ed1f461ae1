// Package storage defines the persistence contract for the board service.
// Implementations must make every mutating method atomic: the state change
// and its audit entry commit together or not at all.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/squarepool/internal/services/board/domain"
	"github.com/louisbranch/squarepool/internal/services/board/event"
)

// Sentinel errors reported by implementations. The service layer maps
// these onto caller-facing error codes.
var (
	// ErrNotFound indicates the board or square does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrSquareOwned indicates a claim lost the race: the square already
	// has an owner.
	ErrSquareOwned = errors.New("storage: square already owned")
	// ErrSquareUnowned indicates a release or reassign targeted a square
	// whose owner changed or was never set.
	ErrSquareUnowned = errors.New("storage: square has no matching owner")
	// ErrDigitsAssigned indicates digits are already present and force was
	// not requested.
	ErrDigitsAssigned = errors.New("storage: digits already assigned")
	// ErrDigitsUnassigned indicates a clear targeted a board without
	// digits.
	ErrDigitsUnassigned = errors.New("storage: digits not assigned")
	// ErrBoardLocked indicates the board is locked against the operation.
	ErrBoardLocked = errors.New("storage: board is locked")
	// ErrClaimLimit indicates the participant reached the per-board square
	// cap.
	ErrClaimLimit = errors.New("storage: claim limit reached")
)

// EntryFilter narrows audit listings. Zero values mean no constraint.
type EntryFilter struct {
	ActorID string
	Types   []event.Type
	Since   time.Time
	Until   time.Time
	Limit   int
}

// BoardStore persists boards, squares, and scores.
//
// Mutating methods take a prepared audit entry and append it in the same
// transaction as the change. Callers set BoardID, Timestamp, Type,
// ActorType, ActorID, and PayloadJSON; Seq is assigned by the store. For
// ResetBoard, UpdateSettings, and PruneEntries the payload depends on
// state read inside the transaction, so the store fills PayloadJSON
// itself and ignores any caller-provided value.
type BoardStore interface {
	CreateBoard(ctx context.Context, board domain.Board, entry event.Entry) error
	GetBoard(ctx context.Context, boardID string) (domain.Board, error)
	ListBoards(ctx context.Context) ([]domain.Board, error)

	GetSquare(ctx context.Context, boardID string, row, col int) (domain.Square, error)
	ListSquares(ctx context.Context, boardID string) ([]domain.Square, error)

	// ClaimSquare sets the owner if and only if the square is currently
	// unowned, the board is unlocked, and the owner holds fewer squares
	// than the board's cap. The cap is read inside the claim transaction
	// (a cap of 0 means uncapped).
	ClaimSquare(ctx context.Context, boardID string, row, col int, ownerID string, entry event.Entry) error
	// ReleaseSquare clears the owner if it still equals expectedOwner.
	// bypassLock permits the release on a locked board.
	ReleaseSquare(ctx context.Context, boardID string, row, col int, expectedOwner string, bypassLock bool, entry event.Entry) error
	// ReassignSquare overwrites ownership, conditioned on the currently
	// observed fromOwner. An empty toOwner clears the square. It is not
	// subject to the board lock.
	ReassignSquare(ctx context.Context, boardID string, row, col int, fromOwner, toOwner string, entry event.Entry) error

	// AssignDigits stores both permutations. Without force it fails when
	// digits are already present.
	AssignDigits(ctx context.Context, boardID string, rowDigits, colDigits domain.Digits, force bool, entry event.Entry) error
	ClearDigits(ctx context.Context, boardID string, entry event.Entry) error

	// SetLocked flips the lock flag. The entry is appended only when the
	// flag actually changes; changed reports whether it did.
	SetLocked(ctx context.Context, boardID string, locked bool, entry event.Entry) (changed bool, err error)

	// ResetBoard releases every square, clears digits and scores, and
	// unlocks the board. Audit history is preserved.
	ResetBoard(ctx context.Context, boardID string, entry event.Entry) error

	UpdateSettings(ctx context.Context, boardID string, settings domain.Settings, entry event.Entry) error

	// UpdateScore upserts the score pair for one quarter.
	UpdateScore(ctx context.Context, boardID string, score domain.ScoreEntry, entry event.Entry) error
	ListScores(ctx context.Context, boardID string) ([]domain.ScoreEntry, error)
}

// AuditStore reads and trims the audit log.
type AuditStore interface {
	// ListEntries returns entries most recent first.
	ListEntries(ctx context.Context, boardID string, filter EntryFilter) ([]event.Entry, error)
	// PruneEntries keeps the newest keep entries plus the prune record it
	// appends. Sequence numbers of surviving entries are unchanged.
	PruneEntries(ctx context.Context, boardID string, keep int, entry event.Entry) (removed int, err error)
}

// Store is the full persistence surface the board service depends on.
type Store interface {
	BoardStore
	AuditStore

	Close() error
}
