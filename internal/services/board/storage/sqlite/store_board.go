package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/squarepool/internal/services/board/domain"
	"github.com/louisbranch/squarepool/internal/services/board/event"
	"github.com/louisbranch/squarepool/internal/services/board/storage"
)

func entryTime(entry event.Entry) time.Time {
	if entry.Timestamp.IsZero() {
		return time.Now().UTC()
	}
	return entry.Timestamp.UTC()
}

// CreateBoard inserts the board row, its hundred square rows, and the
// creation audit entry in one transaction.
func (s *Store) CreateBoard(ctx context.Context, board domain.Board, entry event.Entry) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO boards (
		   id, name, row_team, col_team, price_cents,
		   max_squares_per_participant, locked, row_digits, col_digits,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, 0, '', '', ?, ?)`,
		board.ID,
		board.Name,
		board.RowTeam,
		board.ColTeam,
		board.PriceCents,
		board.MaxSquaresPerParticipant,
		toMillis(board.CreatedAt),
		toMillis(board.UpdatedAt),
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("board id %s already exists: %w", board.ID, err)
		}
		return fmt.Errorf("create board: %w", err)
	}

	stmt, err := tx.PrepareContext(
		ctx,
		`INSERT INTO squares (board_id, row_index, col_index, owner_id, claimed_at)
		 VALUES (?, ?, ?, '', NULL)`,
	)
	if err != nil {
		return fmt.Errorf("prepare squares insert: %w", err)
	}
	defer stmt.Close()
	for index := 0; index < domain.SquareCount; index++ {
		row, col := domain.RowColFromIndex(index)
		if _, err := stmt.ExecContext(ctx, board.ID, row, col); err != nil {
			return fmt.Errorf("create square (%d,%d): %w", row, col, err)
		}
	}

	if _, err := appendEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetBoard returns one board by ID.
func (s *Store) GetBoard(ctx context.Context, boardID string) (domain.Board, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Board{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, row_team, col_team, price_cents,
		        max_squares_per_participant, locked, row_digits, col_digits,
		        created_at, updated_at
		   FROM boards
		  WHERE id = ?`,
		boardID,
	)
	return scanBoard(row)
}

// ListBoards returns every board ordered by creation time.
func (s *Store) ListBoards(ctx context.Context) ([]domain.Board, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, row_team, col_team, price_cents,
		        max_squares_per_participant, locked, row_digits, col_digits,
		        created_at, updated_at
		   FROM boards
		  ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	var boards []domain.Board
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, board)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return boards, nil
}

type rowScanner interface {
	Scan(targets ...any) error
}

func scanBoard(row rowScanner) (domain.Board, error) {
	var board domain.Board
	var locked int
	var rowDigits, colDigits string
	var createdAt, updatedAt int64
	err := row.Scan(
		&board.ID,
		&board.Name,
		&board.RowTeam,
		&board.ColTeam,
		&board.PriceCents,
		&board.MaxSquaresPerParticipant,
		&locked,
		&rowDigits,
		&colDigits,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Board{}, storage.ErrNotFound
		}
		return domain.Board{}, fmt.Errorf("scan board: %w", err)
	}

	board.Locked = locked != 0
	board.CreatedAt = fromMillis(createdAt)
	board.UpdatedAt = fromMillis(updatedAt)
	if board.RowDigits, err = domain.ParseDigits(rowDigits); err != nil {
		return domain.Board{}, fmt.Errorf("board %s row digits: %w", board.ID, err)
	}
	if board.ColDigits, err = domain.ParseDigits(colDigits); err != nil {
		return domain.Board{}, fmt.Errorf("board %s col digits: %w", board.ID, err)
	}
	return board, nil
}

// AssignDigits stores both permutations. Without force the update is
// conditional on the digit columns being empty, so a concurrent assign
// loses cleanly.
func (s *Store) AssignDigits(ctx context.Context, boardID string, rowDigits, colDigits domain.Digits, force bool, entry event.Entry) error {
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

	query := `UPDATE boards SET row_digits = ?, col_digits = ?, updated_at = ? WHERE id = ?`
	if !force {
		query += ` AND row_digits = '' AND col_digits = ''`
	}
	result, err := tx.ExecContext(ctx, query, rowDigits.String(), colDigits.String(), toMillis(entryTime(entry)), boardID)
	if err != nil {
		return fmt.Errorf("assign digits: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("assign digits: %w", err)
	}
	if affected == 0 {
		return storage.ErrDigitsAssigned
	}

	if _, err := appendEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ClearDigits removes both permutations. It fails when digits are not
// assigned so no-op clears do not pollute the audit log.
func (s *Store) ClearDigits(ctx context.Context, boardID string, entry event.Entry) error {
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

	result, err := tx.ExecContext(
		ctx,
		`UPDATE boards SET row_digits = '', col_digits = '', updated_at = ?
		  WHERE id = ? AND row_digits != ''`,
		toMillis(entryTime(entry)),
		boardID,
	)
	if err != nil {
		return fmt.Errorf("clear digits: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("clear digits: %w", err)
	}
	if affected == 0 {
		return storage.ErrDigitsUnassigned
	}

	if _, err := appendEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SetLocked flips the lock flag. The audit entry is appended only when
// the flag transitions; repeated locks and unlocks are silent no-ops.
func (s *Store) SetLocked(ctx context.Context, boardID string, locked bool, entry event.Entry) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := boardStateTx(ctx, tx, boardID); err != nil {
		return false, err
	}

	target := 0
	if locked {
		target = 1
	}
	result, err := tx.ExecContext(
		ctx,
		`UPDATE boards SET locked = ?, updated_at = ? WHERE id = ? AND locked != ?`,
		target,
		toMillis(entryTime(entry)),
		boardID,
		target,
	)
	if err != nil {
		return false, fmt.Errorf("set locked: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set locked: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if _, err := appendEntryTx(ctx, tx, entry); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

// ResetBoard releases every square, clears digits and scores, and unlocks
// the board. Prior audit entries are preserved; the reset itself is
// recorded with counts gathered inside the transaction.
func (s *Store) ResetBoard(ctx context.Context, boardID string, entry event.Entry) error {
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

	squaresResult, err := tx.ExecContext(
		ctx,
		`UPDATE squares SET owner_id = '', claimed_at = NULL
		  WHERE board_id = ? AND owner_id != ''`,
		boardID,
	)
	if err != nil {
		return fmt.Errorf("reset squares: %w", err)
	}
	released, err := squaresResult.RowsAffected()
	if err != nil {
		return fmt.Errorf("reset squares: %w", err)
	}

	scoresResult, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE board_id = ?`, boardID)
	if err != nil {
		return fmt.Errorf("reset scores: %w", err)
	}
	scoresCleared, err := scoresResult.RowsAffected()
	if err != nil {
		return fmt.Errorf("reset scores: %w", err)
	}

	if _, err := tx.ExecContext(
		ctx,
		`UPDATE boards SET locked = 0, row_digits = '', col_digits = '', updated_at = ?
		  WHERE id = ?`,
		toMillis(entryTime(entry)),
		boardID,
	); err != nil {
		return fmt.Errorf("reset board: %w", err)
	}

	payload, err := event.Marshal(event.ResetPayload{
		SquaresReleased: int(released),
		DigitsCleared:   state.rowDigits != "" || state.colDigits != "",
		ScoresCleared:   int(scoresCleared),
		WasLocked:       state.locked,
	})
	if err != nil {
		return fmt.Errorf("encode reset payload: %w", err)
	}
	entry.PayloadJSON = payload

	if _, err := appendEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// UpdateSettings replaces the admin-editable fields and records the
// before and after values read inside the transaction.
func (s *Store) UpdateSettings(ctx context.Context, boardID string, settings domain.Settings, entry event.Entry) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var before event.SettingsSnapshot
	row := tx.QueryRowContext(
		ctx,
		`SELECT name, row_team, col_team, price_cents, max_squares_per_participant
		   FROM boards WHERE id = ?`,
		boardID,
	)
	if err := row.Scan(
		&before.Name,
		&before.RowTeam,
		&before.ColTeam,
		&before.PriceCents,
		&before.MaxSquaresPerParticipant,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("load board settings: %w", err)
	}

	if _, err := tx.ExecContext(
		ctx,
		`UPDATE boards
		    SET name = ?, row_team = ?, col_team = ?, price_cents = ?,
		        max_squares_per_participant = ?, updated_at = ?
		  WHERE id = ?`,
		settings.Name,
		settings.RowTeam,
		settings.ColTeam,
		settings.PriceCents,
		settings.MaxSquaresPerParticipant,
		toMillis(entryTime(entry)),
		boardID,
	); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	payload, err := event.Marshal(event.SettingsPayload{
		Before: before,
		After: event.SettingsSnapshot{
			Name:                     settings.Name,
			RowTeam:                  settings.RowTeam,
			ColTeam:                  settings.ColTeam,
			PriceCents:               settings.PriceCents,
			MaxSquaresPerParticipant: settings.MaxSquaresPerParticipant,
		},
	})
	if err != nil {
		return fmt.Errorf("encode settings payload: %w", err)
	}
	entry.PayloadJSON = payload

	if _, err := appendEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
