package service

import (
	"context"

	"github.com/louisbranch/squarepool/internal/services/board/domain"
	"github.com/louisbranch/squarepool/internal/services/board/event"
)

// UpdateScore records the score pair for one quarter. Quarters may be
// entered in any order and re-entered to correct mistakes; every write
// is audited.
func (s *Service) UpdateScore(ctx context.Context, boardID string, quarter, rowScore, colScore int, actor domain.Principal) (domain.ScoreEntry, error) {
	ctx, span, err := s.start(ctx, "UpdateScore")
	if err != nil {
		return domain.ScoreEntry{}, err
	}
	defer endSpan(span)

	if err := actor.RequireAdmin(); err != nil {
		return domain.ScoreEntry{}, err
	}
	if err := domain.ValidateQuarter(quarter); err != nil {
		return domain.ScoreEntry{}, err
	}
	if err := domain.ValidateScores(rowScore, colScore); err != nil {
		return domain.ScoreEntry{}, err
	}

	score := domain.ScoreEntry{
		Quarter:   quarter,
		RowScore:  rowScore,
		ColScore:  colScore,
		UpdatedBy: actor.ID,
		UpdatedAt: s.clock().UTC(),
	}
	entry, err := s.newEntry(boardID, event.TypeScoreUpdated, actor, event.ScorePayload{
		Quarter:  quarter,
		RowScore: rowScore,
		ColScore: colScore,
	})
	if err != nil {
		return domain.ScoreEntry{}, err
	}
	if err := s.store.UpdateScore(ctx, boardID, score, entry); err != nil {
		return domain.ScoreEntry{}, translate(err)
	}
	return score, nil
}

// ListScores returns every entered quarter ordered by quarter number.
func (s *Service) ListScores(ctx context.Context, boardID string) ([]domain.ScoreEntry, error) {
	ctx, span, err := s.start(ctx, "ListScores")
	if err != nil {
		return nil, err
	}
	defer endSpan(span)

	scores, err := s.store.ListScores(ctx, boardID)
	if err != nil {
		return nil, translate(err)
	}
	return scores, nil
}

// QuarterWinner evaluates the winning square for one quarter from the
// current board state. The result is a pure function of digits, score,
// and square owners.
func (s *Service) QuarterWinner(ctx context.Context, boardID string, quarter int) (domain.QuarterWinner, error) {
	ctx, span, err := s.start(ctx, "QuarterWinner")
	if err != nil {
		return domain.QuarterWinner{}, err
	}
	defer endSpan(span)

	if err := domain.ValidateQuarter(quarter); err != nil {
		return domain.QuarterWinner{}, err
	}
	winners, err := s.winners(ctx, boardID, quarter)
	if err != nil {
		return domain.QuarterWinner{}, err
	}
	return winners[0], nil
}

// Winners evaluates every quarter, first through final.
func (s *Service) Winners(ctx context.Context, boardID string) ([]domain.QuarterWinner, error) {
	ctx, span, err := s.start(ctx, "Winners")
	if err != nil {
		return nil, err
	}
	defer endSpan(span)

	return s.winners(ctx, boardID)
}

func (s *Service) winners(ctx context.Context, boardID string, quarters ...int) ([]domain.QuarterWinner, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, translate(err)
	}
	squares, err := s.store.ListSquares(ctx, boardID)
	if err != nil {
		return nil, translate(err)
	}
	scores, err := s.store.ListScores(ctx, boardID)
	if err != nil {
		return nil, translate(err)
	}

	byQuarter := make(map[int]domain.ScoreEntry, len(scores))
	for _, score := range scores {
		byQuarter[score.Quarter] = score
	}

	if len(quarters) == 0 {
		for quarter := domain.QuarterFirst; quarter <= domain.QuarterFinal; quarter++ {
			quarters = append(quarters, quarter)
		}
	}

	winners := make([]domain.QuarterWinner, 0, len(quarters))
	for _, quarter := range quarters {
		var score *domain.ScoreEntry
		if entry, ok := byQuarter[quarter]; ok {
			score = &entry
		}
		winners = append(winners, domain.EvaluateQuarter(quarter, board.RowDigits, board.ColDigits, score, squares))
	}
	return winners, nil
}
