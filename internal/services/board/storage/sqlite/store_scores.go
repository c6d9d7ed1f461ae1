package sqlite

import (
	"context"
	"fmt"

	"github.com/louisbranch/squarepool/internal/services/board/domain"
	"github.com/louisbranch/squarepool/internal/services/board/event"
)

// UpdateScore upserts the score pair for one quarter. Re-entering a
// quarter overwrites the previous pair; both writes are audited.
func (s *Store) UpdateScore(ctx context.Context, boardID string, score domain.ScoreEntry, entry event.Entry) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := boardStateTx(ctx, tx, boardID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO scores (board_id, quarter, row_score, col_score, updated_by, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (board_id, quarter) DO UPDATE SET
		   row_score = excluded.row_score,
		   col_score = excluded.col_score,
		   updated_by = excluded.updated_by,
		   updated_at = excluded.updated_at`,
		boardID,
		score.Quarter,
		score.RowScore,
		score.ColScore,
		score.UpdatedBy,
		toMillis(entryTime(entry)),
	); err != nil {
		return fmt.Errorf("update score: %w", err)
	}

	if _, err := appendEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListScores returns every entered quarter ordered by quarter number.
func (s *Store) ListScores(ctx context.Context, boardID string) ([]domain.ScoreEntry, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT quarter, row_score, col_score, updated_by, updated_at
		   FROM scores
		  WHERE board_id = ?
		  ORDER BY quarter ASC`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var scores []domain.ScoreEntry
	for rows.Next() {
		var score domain.ScoreEntry
		var updatedAt int64
		if err := rows.Scan(&score.Quarter, &score.RowScore, &score.ColScore, &score.UpdatedBy, &updatedAt); err != nil {
			return nil, fmt.Errorf("list scores: %w", err)
		}
		score.UpdatedAt = fromMillis(updatedAt)
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return scores, nil
}
