// Package service orchestrates board use-cases on top of the storage
// contract. Authorization is enforced here; mutual exclusion of
// concurrent writers is delegated to storage.
package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/squarepool/internal/platform/errors"
	"github.com/louisbranch/squarepool/internal/platform/id"
	"github.com/louisbranch/squarepool/internal/platform/random"
	"github.com/louisbranch/squarepool/internal/services/board/domain"
	"github.com/louisbranch/squarepool/internal/services/board/event"
	"github.com/louisbranch/squarepool/internal/services/board/storage"
)

// ErrStoreNotConfigured indicates the service is missing persistence wiring.
var ErrStoreNotConfigured = errors.New("board store is not configured")

// Service exposes the board use-cases.
type Service struct {
	store   storage.Store
	clock   func() time.Time
	newID   func() (string, error)
	newSeed func() (int64, error)
	tracer  trace.Tracer
}

// New constructs a board service. Nil clock, id, and seed functions fall
// back to production defaults; tests inject fixed ones.
func New(store storage.Store, clock func() time.Time, newID func() (string, error), newSeed func() (int64, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.New
	}
	if newSeed == nil {
		newSeed = random.NewSeed
	}
	return &Service{
		store:   store,
		clock:   clock,
		newID:   newID,
		newSeed: newSeed,
		tracer:  otel.Tracer("squarepool/board"),
	}
}

func (s *Service) start(ctx context.Context, name string) (context.Context, trace.Span, error) {
	if s == nil || s.store == nil {
		return ctx, nil, ErrStoreNotConfigured
	}
	ctx, span := s.tracer.Start(ctx, name)
	return ctx, span, nil
}

func endSpan(span trace.Span) {
	if span != nil {
		span.End()
	}
}

func actorType(actor domain.Principal) event.ActorType {
	if actor.IsAdmin() {
		return event.ActorAdmin
	}
	return event.ActorParticipant
}

func (s *Service) newEntry(boardID string, entryType event.Type, actor domain.Principal, payload any) (event.Entry, error) {
	entry := event.Entry{
		BoardID:   boardID,
		Timestamp: s.clock().UTC(),
		Type:      entryType,
		ActorType: actorType(actor),
		ActorID:   actor.ID,
	}
	if payload != nil {
		data, err := event.Marshal(payload)
		if err != nil {
			return event.Entry{}, err
		}
		entry.PayloadJSON = data
	}
	return entry, nil
}

// translate maps shared storage sentinels onto caller-facing errors.
// Operation-specific sentinels are handled at the call sites.
func translate(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.Wrap(apperrors.CodeNotFound, "board or square not found", err)
	case errors.Is(err, storage.ErrBoardLocked):
		return domain.ErrBoardLocked
	default:
		return err
	}
}

func coordinateMetadata(row, col int) map[string]string {
	return map[string]string{
		"Row": strconv.Itoa(row),
		"Col": strconv.Itoa(col),
	}
}
