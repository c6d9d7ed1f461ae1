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

// AssignDigitsInput configures a digit assignment. A nil Seed draws a
// fresh random seed; Force overwrites existing digits.
type AssignDigitsInput struct {
	Seed  *int64
	Force bool
}

// AssignDigits draws both digit permutations and stores them atomically.
// Without Force, assigning over existing digits fails so the published
// permutations cannot change silently mid-game.
func (s *Service) AssignDigits(ctx context.Context, boardID string, input AssignDigitsInput, actor domain.Principal) (domain.Board, error) {
	ctx, span, err := s.start(ctx, "AssignDigits")
	if err != nil {
		return domain.Board{}, err
	}
	defer endSpan(span)

	if err := actor.RequireAdmin(); err != nil {
		return domain.Board{}, err
	}

	var seed int64
	if input.Seed != nil {
		seed = *input.Seed
		if seed < 0 {
			return domain.Board{}, apperrors.WithMetadata(
				apperrors.CodeSeedOutOfRange,
				"seed cannot be negative",
				map[string]string{"Seed": strconv.FormatInt(seed, 10)},
			)
		}
	} else {
		seed, err = s.newSeed()
		if err != nil {
			return domain.Board{}, err
		}
	}

	rowDigits, colDigits := domain.NewDigitAssigner(seed).Assign()

	entry, err := s.newEntry(boardID, event.TypeDigitsAssigned, actor, event.DigitsPayload{
		RowDigits: rowDigits,
		ColDigits: colDigits,
		Forced:    input.Force,
	})
	if err != nil {
		return domain.Board{}, err
	}

	err = s.store.AssignDigits(ctx, boardID, rowDigits, colDigits, input.Force, entry)
	if errors.Is(err, storage.ErrDigitsAssigned) {
		return domain.Board{}, apperrors.New(
			apperrors.CodeDigitsAlreadySet,
			"digits are already assigned",
		)
	}
	if err != nil {
		return domain.Board{}, translate(err)
	}
	return s.GetBoard(ctx, boardID)
}

// ClearDigits removes both permutations so they can be redrawn.
func (s *Service) ClearDigits(ctx context.Context, boardID string, actor domain.Principal) error {
	ctx, span, err := s.start(ctx, "ClearDigits")
	if err != nil {
		return err
	}
	defer endSpan(span)

	if err := actor.RequireAdmin(); err != nil {
		return err
	}

	entry, err := s.newEntry(boardID, event.TypeDigitsCleared, actor, nil)
	if err != nil {
		return err
	}
	err = s.store.ClearDigits(ctx, boardID, entry)
	if errors.Is(err, storage.ErrDigitsUnassigned) {
		return apperrors.New(apperrors.CodeDigitsNotAssigned, "digits are not assigned")
	}
	if err != nil {
		return translate(err)
	}
	return nil
}
