// Package sqlite provides a SQLite-backed board storage implementation.
//
// Every mutating method runs in a single transaction that performs the
// state change and appends the audit entry, so concurrent writers are
// arbitrated by the database: the loser of a compare-and-set update sees
// zero affected rows and reports the matching sentinel error.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/squarepool/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/squarepool/internal/services/board/event"
	"github.com/louisbranch/squarepool/internal/services/board/storage"
	"github.com/louisbranch/squarepool/internal/services/board/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists board state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite board store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	// Write transactions start immediate so a writer that loses the race
	// waits on busy_timeout instead of failing its lock upgrade.
	dsn := cleanPath + "?_txlock=immediate" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// boardState is the subset of board columns mutations consult before
// deciding whether to proceed.
type boardState struct {
	locked     bool
	rowDigits  string
	colDigits  string
	maxSquares int
}

func boardStateTx(ctx context.Context, tx *sql.Tx, boardID string) (boardState, error) {
	var state boardState
	var locked int
	row := tx.QueryRowContext(
		ctx,
		`SELECT locked, row_digits, col_digits, max_squares_per_participant
		   FROM boards WHERE id = ?`,
		boardID,
	)
	if err := row.Scan(&locked, &state.rowDigits, &state.colDigits, &state.maxSquares); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return boardState{}, storage.ErrNotFound
		}
		return boardState{}, fmt.Errorf("load board state: %w", err)
	}
	state.locked = locked != 0
	return state, nil
}

// appendEntryTx allocates the next per-board sequence number and inserts
// the audit entry inside the caller's transaction.
func appendEntryTx(ctx context.Context, tx *sql.Tx, entry event.Entry) (uint64, error) {
	if !entry.Type.IsValid() {
		return 0, fmt.Errorf("audit entry type %q is not recognized", entry.Type)
	}
	if !entry.ActorType.IsValid() {
		return 0, fmt.Errorf("audit actor type %q is not recognized", entry.ActorType)
	}
	timestamp := entry.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO audit_seq (board_id, next_seq) VALUES (?, 1)`,
		entry.BoardID,
	); err != nil {
		return 0, fmt.Errorf("init audit seq: %w", err)
	}

	var seq int64
	row := tx.QueryRowContext(
		ctx,
		`SELECT next_seq FROM audit_seq WHERE board_id = ?`,
		entry.BoardID,
	)
	if err := row.Scan(&seq); err != nil {
		return 0, fmt.Errorf("get audit seq: %w", err)
	}

	if _, err := tx.ExecContext(
		ctx,
		`UPDATE audit_seq SET next_seq = next_seq + 1 WHERE board_id = ?`,
		entry.BoardID,
	); err != nil {
		return 0, fmt.Errorf("increment audit seq: %w", err)
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO audit_entries (
		   board_id, seq, timestamp, entry_type, actor_type, actor_id, payload_json
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.BoardID,
		seq,
		toMillis(timestamp),
		string(entry.Type),
		string(entry.ActorType),
		entry.ActorID,
		entry.PayloadJSON,
	); err != nil {
		return 0, fmt.Errorf("append audit entry: %w", err)
	}
	return uint64(seq), nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.Store = (*Store)(nil)
