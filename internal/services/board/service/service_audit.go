package service

import (
	"context"
	"strconv"

	apperrors "github.com/louisbranch/squarepool/internal/platform/errors"
	"github.com/louisbranch/squarepool/internal/services/board/domain"
	"github.com/louisbranch/squarepool/internal/services/board/event"
	"github.com/louisbranch/squarepool/internal/services/board/storage"
)

// AuditLog returns audit entries most recent first, optionally filtered.
func (s *Service) AuditLog(ctx context.Context, boardID string, filter storage.EntryFilter) ([]event.Entry, error) {
	ctx, span, err := s.start(ctx, "AuditLog")
	if err != nil {
		return nil, err
	}
	defer endSpan(span)

	entries, err := s.store.ListEntries(ctx, boardID, filter)
	if err != nil {
		return nil, translate(err)
	}
	return entries, nil
}

// PruneAudit trims the audit log to the newest keep entries. The prune
// itself is recorded, and surviving sequence numbers do not change.
func (s *Service) PruneAudit(ctx context.Context, boardID string, keep int, actor domain.Principal) (int, error) {
	ctx, span, err := s.start(ctx, "PruneAudit")
	if err != nil {
		return 0, err
	}
	defer endSpan(span)

	if err := actor.RequireAdmin(); err != nil {
		return 0, err
	}
	if keep < 0 {
		return 0, apperrors.WithMetadata(
			apperrors.CodeAuditInvalidKeep,
			"keep cannot be negative",
			map[string]string{"Keep": strconv.Itoa(keep)},
		)
	}

	entry, err := s.newEntry(boardID, event.TypeAuditPruned, actor, nil)
	if err != nil {
		return 0, err
	}
	removed, err := s.store.PruneEntries(ctx, boardID, keep, entry)
	if err != nil {
		return 0, translate(err)
	}
	return removed, nil
}
