package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/squarepool/internal/services/board/domain"
	"github.com/louisbranch/squarepool/internal/services/board/event"
	"github.com/louisbranch/squarepool/internal/services/board/storage"
)

// GetSquare returns one square by coordinate.
func (s *Store) GetSquare(ctx context.Context, boardID string, row, col int) (domain.Square, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Square{}, err
	}

	var square domain.Square
	var claimedAt sql.NullInt64
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT row_index, col_index, owner_id, claimed_at
		   FROM squares
		  WHERE board_id = ? AND row_index = ? AND col_index = ?`,
		boardID, row, col,
	).Scan(&square.Row, &square.Col, &square.OwnerID, &claimedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Square{}, storage.ErrNotFound
		}
		return domain.Square{}, fmt.Errorf("get square: %w", err)
	}
	if claimedAt.Valid {
		at := fromMillis(claimedAt.Int64)
		square.ClaimedAt = &at
	}
	return square, nil
}

// ListSquares returns all hundred squares in canonical row-major order.
func (s *Store) ListSquares(ctx context.Context, boardID string) ([]domain.Square, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT row_index, col_index, owner_id, claimed_at
		   FROM squares
		  WHERE board_id = ?
		  ORDER BY row_index ASC, col_index ASC`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("list squares: %w", err)
	}
	defer rows.Close()

	squares := make([]domain.Square, 0, domain.SquareCount)
	for rows.Next() {
		var square domain.Square
		var claimedAt sql.NullInt64
		if err := rows.Scan(&square.Row, &square.Col, &square.OwnerID, &claimedAt); err != nil {
			return nil, fmt.Errorf("list squares: %w", err)
		}
		if claimedAt.Valid {
			at := fromMillis(claimedAt.Int64)
			square.ClaimedAt = &at
		}
		squares = append(squares, square)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list squares: %w", err)
	}
	if len(squares) == 0 {
		return nil, storage.ErrNotFound
	}
	return squares, nil
}

// ClaimSquare sets the owner with a compare-and-set on the empty owner
// column. Exactly one of N concurrent claimers for the same square sees a
// row affected; the rest get ErrSquareOwned. The lock flag and the
// per-participant cap are read and checked inside the same transaction,
// so a concurrent settings change cannot apply a stale cap.
func (s *Store) ClaimSquare(ctx context.Context, boardID string, row, col int, ownerID string, entry event.Entry) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	state, err := boardStateTx(ctx, tx, boardID)
	if err != nil {
		return err
	}
	if state.locked {
		return storage.ErrBoardLocked
	}

	if limit := state.maxSquares; limit > 0 {
		var held int
		if err := tx.QueryRowContext(
			ctx,
			`SELECT COUNT(*) FROM squares WHERE board_id = ? AND owner_id = ?`,
			boardID, ownerID,
		).Scan(&held); err != nil {
			return fmt.Errorf("count owned squares: %w", err)
		}
		if held >= limit {
			return storage.ErrClaimLimit
		}
	}

	result, err := tx.ExecContext(
		ctx,
		`UPDATE squares SET owner_id = ?, claimed_at = ?
		  WHERE board_id = ? AND row_index = ? AND col_index = ? AND owner_id = ''`,
		ownerID,
		toMillis(entryTime(entry)),
		boardID, row, col,
	)
	if err != nil {
		return fmt.Errorf("claim square: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim square: %w", err)
	}
	if affected == 0 {
		if _, err := s.squareExistsTx(ctx, tx, boardID, row, col); err != nil {
			return err
		}
		return storage.ErrSquareOwned
	}

	if _, err := appendEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ReleaseSquare clears the owner with a compare-and-set against
// expectedOwner. bypassLock permits admin releases on a locked board.
func (s *Store) ReleaseSquare(ctx context.Context, boardID string, row, col int, expectedOwner string, bypassLock bool, entry event.Entry) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if expectedOwner == "" {
		return storage.ErrSquareUnowned
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	state, err := boardStateTx(ctx, tx, boardID)
	if err != nil {
		return err
	}
	if state.locked && !bypassLock {
		return storage.ErrBoardLocked
	}

	result, err := tx.ExecContext(
		ctx,
		`UPDATE squares SET owner_id = '', claimed_at = NULL
		  WHERE board_id = ? AND row_index = ? AND col_index = ? AND owner_id = ?`,
		boardID, row, col, expectedOwner,
	)
	if err != nil {
		return fmt.Errorf("release square: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("release square: %w", err)
	}
	if affected == 0 {
		if _, err := s.squareExistsTx(ctx, tx, boardID, row, col); err != nil {
			return err
		}
		return storage.ErrSquareUnowned
	}

	if _, err := appendEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ReassignSquare overwrites ownership, conditioned on the owner the
// caller observed. An empty toOwner clears the square. Reassignment is an
// admin operation and is not subject to the board lock.
func (s *Store) ReassignSquare(ctx context.Context, boardID string, row, col int, fromOwner, toOwner string, entry event.Entry) error {
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

	var claimedAt any
	if toOwner != "" {
		claimedAt = toMillis(entryTime(entry))
	}
	result, err := tx.ExecContext(
		ctx,
		`UPDATE squares SET owner_id = ?, claimed_at = ?
		  WHERE board_id = ? AND row_index = ? AND col_index = ? AND owner_id = ?`,
		toOwner,
		claimedAt,
		boardID, row, col, fromOwner,
	)
	if err != nil {
		return fmt.Errorf("reassign square: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reassign square: %w", err)
	}
	if affected == 0 {
		if _, err := s.squareExistsTx(ctx, tx, boardID, row, col); err != nil {
			return err
		}
		return storage.ErrSquareUnowned
	}

	if _, err := appendEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) squareExistsTx(ctx context.Context, tx *sql.Tx, boardID string, row, col int) (bool, error) {
	var found int
	err := tx.QueryRowContext(
		ctx,
		`SELECT 1 FROM squares WHERE board_id = ? AND row_index = ? AND col_index = ?`,
		boardID, row, col,
	).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, storage.ErrNotFound
		}
		return false, fmt.Errorf("check square: %w", err)
	}
	return true, nil
}
