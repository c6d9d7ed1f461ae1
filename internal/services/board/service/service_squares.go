package service

import (
	"context"
	"errors"
	"strconv"

	apperrors "github.com/louisbranch/squarepool/internal/platform/errors"
	"github.com/louisbranch/squarepool/internal/services/board/domain"
	"github.com/louisbranch/squarepool/internal/services/board/event"
	"github.com/louisbranch/squarepool/internal/services/board/storage"
)

// ClaimSquare assigns the square to the caller. Exactly one of any number
// of concurrent claimers for the same square succeeds; the losers get a
// definitive already-claimed error with no retry, since the square they
// wanted is gone.
func (s *Service) ClaimSquare(ctx context.Context, boardID string, row, col int, actor domain.Principal) (domain.Square, error) {
	ctx, span, err := s.start(ctx, "ClaimSquare")
	if err != nil {
		return domain.Square{}, err
	}
	defer endSpan(span)

	if err := actor.Validate(); err != nil {
		return domain.Square{}, err
	}
	if actor.ID == "" {
		return domain.Square{}, domain.ErrEmptyActorID
	}
	if err := domain.ValidateCoordinate(row, col); err != nil {
		return domain.Square{}, err
	}

	entry, err := s.newEntry(boardID, event.TypeSquareClaimed, actor, event.ClaimPayload{
		Row:     row,
		Col:     col,
		OwnerID: actor.ID,
	})
	if err != nil {
		return domain.Square{}, err
	}

	err = s.store.ClaimSquare(ctx, boardID, row, col, actor.ID, entry)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrSquareOwned):
		return domain.Square{}, apperrors.WithMetadata(
			apperrors.CodeSquareAlreadyClaimed,
			"square is already claimed",
			coordinateMetadata(row, col),
		)
	case errors.Is(err, storage.ErrClaimLimit):
		limit := 0
		if board, lookupErr := s.store.GetBoard(ctx, boardID); lookupErr == nil {
			limit = board.MaxSquaresPerParticipant
		}
		return domain.Square{}, apperrors.WithMetadata(
			apperrors.CodeSquareClaimLimit,
			"claim limit reached",
			map[string]string{"Limit": strconv.Itoa(limit)},
		)
	default:
		return domain.Square{}, translate(err)
	}

	square, err := s.store.GetSquare(ctx, boardID, row, col)
	if err != nil {
		return domain.Square{}, translate(err)
	}
	return square, nil
}

// ReleaseSquare returns the square to the pool. Participants may release
// only their own squares while the board is unlocked; admins may release
// any square at any time.
func (s *Service) ReleaseSquare(ctx context.Context, boardID string, row, col int, actor domain.Principal) error {
	ctx, span, err := s.start(ctx, "ReleaseSquare")
	if err != nil {
		return err
	}
	defer endSpan(span)

	if err := actor.Validate(); err != nil {
		return err
	}
	if err := domain.ValidateCoordinate(row, col); err != nil {
		return err
	}

	expectedOwner := actor.ID
	if actor.IsAdmin() {
		square, err := s.store.GetSquare(ctx, boardID, row, col)
		if err != nil {
			return translate(err)
		}
		expectedOwner = square.OwnerID
	}
	if expectedOwner == "" {
		return apperrors.WithMetadata(
			apperrors.CodeSquareNotOwner,
			"square has no matching owner",
			coordinateMetadata(row, col),
		)
	}

	entry, err := s.newEntry(boardID, event.TypeSquareReleased, actor, event.ReleasePayload{
		Row:        row,
		Col:        col,
		OwnerID:    expectedOwner,
		ReleasedBy: actor.ID,
	})
	if err != nil {
		return err
	}

	err = s.store.ReleaseSquare(ctx, boardID, row, col, expectedOwner, actor.IsAdmin(), entry)
	if errors.Is(err, storage.ErrSquareUnowned) {
		return apperrors.WithMetadata(
			apperrors.CodeSquareNotOwner,
			"square has no matching owner",
			coordinateMetadata(row, col),
		)
	}
	if err != nil {
		return translate(err)
	}
	return nil
}

// ReassignSquare overwrites ownership of a square, bypassing the lock.
// An empty toOwner clears the square. The overwrite is conditioned on the
// owner read here, so a concurrent change surfaces as a conflict instead
// of silently winning.
func (s *Service) ReassignSquare(ctx context.Context, boardID string, row, col int, toOwner string, actor domain.Principal) error {
	ctx, span, err := s.start(ctx, "ReassignSquare")
	if err != nil {
		return err
	}
	defer endSpan(span)

	if err := actor.RequireAdmin(); err != nil {
		return err
	}
	if err := domain.ValidateCoordinate(row, col); err != nil {
		return err
	}

	square, err := s.store.GetSquare(ctx, boardID, row, col)
	if err != nil {
		return translate(err)
	}

	entry, err := s.newEntry(boardID, event.TypeSquareReassigned, actor, event.ReassignPayload{
		Row:       row,
		Col:       col,
		FromOwner: square.OwnerID,
		ToOwner:   toOwner,
	})
	if err != nil {
		return err
	}

	err = s.store.ReassignSquare(ctx, boardID, row, col, square.OwnerID, toOwner, entry)
	if errors.Is(err, storage.ErrSquareUnowned) {
		return apperrors.WithMetadata(
			apperrors.CodeSquareNotOwner,
			"square owner changed during reassignment",
			coordinateMetadata(row, col),
		)
	}
	if err != nil {
		return translate(err)
	}
	return nil
}
