package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/squarepool/internal/services/board/event"
	"github.com/louisbranch/squarepool/internal/services/board/storage"
)

// ListEntries returns audit entries most recent first, optionally
// filtered by actor, type, and time window.
func (s *Store) ListEntries(ctx context.Context, boardID string, filter storage.EntryFilter) ([]event.Entry, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	query := strings.Builder{}
	query.WriteString(
		`SELECT board_id, seq, timestamp, entry_type, actor_type, actor_id, payload_json
		   FROM audit_entries
		  WHERE board_id = ?`,
	)
	args := []any{boardID}

	if filter.ActorID != "" {
		query.WriteString(` AND actor_id = ?`)
		args = append(args, filter.ActorID)
	}
	if len(filter.Types) > 0 {
		query.WriteString(` AND entry_type IN (?` + strings.Repeat(", ?", len(filter.Types)-1) + `)`)
		for _, entryType := range filter.Types {
			args = append(args, string(entryType))
		}
	}
	if !filter.Since.IsZero() {
		query.WriteString(` AND timestamp >= ?`)
		args = append(args, toMillis(filter.Since))
	}
	if !filter.Until.IsZero() {
		query.WriteString(` AND timestamp <= ?`)
		args = append(args, toMillis(filter.Until))
	}
	query.WriteString(` ORDER BY seq DESC`)
	if filter.Limit > 0 {
		query.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []event.Entry
	for rows.Next() {
		var entry event.Entry
		var timestamp int64
		var entryType, actorType string
		if err := rows.Scan(
			&entry.BoardID,
			&entry.Seq,
			&timestamp,
			&entryType,
			&actorType,
			&entry.ActorID,
			&entry.PayloadJSON,
		); err != nil {
			return nil, fmt.Errorf("list audit entries: %w", err)
		}
		entry.Timestamp = fromMillis(timestamp)
		entry.Type = event.Type(entryType)
		entry.ActorType = event.ActorType(actorType)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

// PruneEntries deletes all but the newest keep entries and appends the
// prune record, all in one transaction. Surviving sequence numbers are
// untouched so entry identity is stable across trims.
func (s *Store) PruneEntries(ctx context.Context, boardID string, keep int, entry event.Entry) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if keep < 0 {
		return 0, fmt.Errorf("keep must not be negative")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := boardStateTx(ctx, tx, boardID); err != nil {
		return 0, err
	}

	result, err := tx.ExecContext(
		ctx,
		`DELETE FROM audit_entries
		  WHERE board_id = ?
		    AND seq NOT IN (
		      SELECT seq FROM audit_entries
		       WHERE board_id = ?
		       ORDER BY seq DESC
		       LIMIT ?
		    )`,
		boardID, boardID, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune audit entries: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune audit entries: %w", err)
	}

	payload, err := event.Marshal(event.PrunePayload{Keep: keep, Removed: int(removed)})
	if err != nil {
		return 0, fmt.Errorf("encode prune payload: %w", err)
	}
	entry.PayloadJSON = payload

	if _, err := appendEntryTx(ctx, tx, entry); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return int(removed), nil
}
