package service

import (
	"context"

	"github.com/louisbranch/squarepool/internal/services/board/domain"
	"github.com/louisbranch/squarepool/internal/services/board/event"
)

// CreateBoard validates input and persists a new board with a hundred
// unclaimed squares.
func (s *Service) CreateBoard(ctx context.Context, input domain.CreateBoardInput, actor domain.Principal) (domain.Board, error) {
	ctx, span, err := s.start(ctx, "CreateBoard")
	if err != nil {
		return domain.Board{}, err
	}
	defer endSpan(span)

	if err := actor.RequireAdmin(); err != nil {
		return domain.Board{}, err
	}

	board, err := domain.CreateBoard(input, s.clock, s.newID)
	if err != nil {
		return domain.Board{}, err
	}

	entry, err := s.newEntry(board.ID, event.TypeBoardCreated, actor, event.SettingsSnapshot{
		Name:                     board.Name,
		RowTeam:                  board.RowTeam,
		ColTeam:                  board.ColTeam,
		PriceCents:               board.PriceCents,
		MaxSquaresPerParticipant: board.MaxSquaresPerParticipant,
	})
	if err != nil {
		return domain.Board{}, err
	}
	if err := s.store.CreateBoard(ctx, board, entry); err != nil {
		return domain.Board{}, translate(err)
	}
	return board, nil
}

// GetBoard returns one board by ID.
func (s *Service) GetBoard(ctx context.Context, boardID string) (domain.Board, error) {
	ctx, span, err := s.start(ctx, "GetBoard")
	if err != nil {
		return domain.Board{}, err
	}
	defer endSpan(span)

	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return domain.Board{}, translate(err)
	}
	return board, nil
}

// ListBoards returns every board ordered by creation time.
func (s *Service) ListBoards(ctx context.Context) ([]domain.Board, error) {
	ctx, span, err := s.start(ctx, "ListBoards")
	if err != nil {
		return nil, err
	}
	defer endSpan(span)

	boards, err := s.store.ListBoards(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return boards, nil
}

// ListSquares returns the full grid in row-major order.
func (s *Service) ListSquares(ctx context.Context, boardID string) ([]domain.Square, error) {
	ctx, span, err := s.start(ctx, "ListSquares")
	if err != nil {
		return nil, err
	}
	defer endSpan(span)

	squares, err := s.store.ListSquares(ctx, boardID)
	if err != nil {
		return nil, translate(err)
	}
	return squares, nil
}

// LockBoard freezes claims and releases. Locking an already locked board
// is a silent no-op; the audit entry is written only on transition.
func (s *Service) LockBoard(ctx context.Context, boardID string, actor domain.Principal) (bool, error) {
	return s.setLocked(ctx, "LockBoard", boardID, true, actor)
}

// UnlockBoard reopens the board for claims and releases.
func (s *Service) UnlockBoard(ctx context.Context, boardID string, actor domain.Principal) (bool, error) {
	return s.setLocked(ctx, "UnlockBoard", boardID, false, actor)
}

func (s *Service) setLocked(ctx context.Context, op, boardID string, locked bool, actor domain.Principal) (bool, error) {
	ctx, span, err := s.start(ctx, op)
	if err != nil {
		return false, err
	}
	defer endSpan(span)

	if err := actor.RequireAdmin(); err != nil {
		return false, err
	}

	entryType := event.TypeBoardUnlocked
	if locked {
		entryType = event.TypeBoardLocked
	}
	entry, err := s.newEntry(boardID, entryType, actor, nil)
	if err != nil {
		return false, err
	}
	changed, err := s.store.SetLocked(ctx, boardID, locked, entry)
	if err != nil {
		return false, translate(err)
	}
	return changed, nil
}

// ResetBoard releases every square, clears digits and scores, and unlocks
// the board. The audit history from before the reset is preserved.
func (s *Service) ResetBoard(ctx context.Context, boardID string, actor domain.Principal) error {
	ctx, span, err := s.start(ctx, "ResetBoard")
	if err != nil {
		return err
	}
	defer endSpan(span)

	if err := actor.RequireAdmin(); err != nil {
		return err
	}

	entry, err := s.newEntry(boardID, event.TypeBoardReset, actor, nil)
	if err != nil {
		return err
	}
	if err := s.store.ResetBoard(ctx, boardID, entry); err != nil {
		return translate(err)
	}
	return nil
}

// UpdateSettings replaces the admin-editable board fields.
func (s *Service) UpdateSettings(ctx context.Context, boardID string, settings domain.Settings, actor domain.Principal) (domain.Board, error) {
	ctx, span, err := s.start(ctx, "UpdateSettings")
	if err != nil {
		return domain.Board{}, err
	}
	defer endSpan(span)

	if err := actor.RequireAdmin(); err != nil {
		return domain.Board{}, err
	}
	if err := settings.Validate(); err != nil {
		return domain.Board{}, err
	}

	entry, err := s.newEntry(boardID, event.TypeSettingsUpdated, actor, nil)
	if err != nil {
		return domain.Board{}, err
	}
	if err := s.store.UpdateSettings(ctx, boardID, settings, entry); err != nil {
		return domain.Board{}, translate(err)
	}
	return s.GetBoard(ctx, boardID)
}
