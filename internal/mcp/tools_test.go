package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/louisbranch/squarepool/internal/services/board/domain"
	"github.com/louisbranch/squarepool/internal/services/board/service"
	"github.com/louisbranch/squarepool/internal/services/board/storage/sqlite"
)

var admin = domain.Admin("commissioner")

func newTestService(t *testing.T) *service.Service {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})

	ids := 0
	newID := func() (string, error) {
		ids++
		return fmt.Sprintf("board-%d", ids), nil
	}
	return service.New(store, nil, newID, nil)
}

func createTestBoard(t *testing.T, svc *service.Service) string {
	t.Helper()

	board, err := svc.CreateBoard(context.Background(), domain.CreateBoardInput{
		Name:       "Office Pool",
		RowTeam:    "Away",
		ColTeam:    "Home",
		PriceCents: 500,
	}, admin)
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	return board.ID
}

func TestBoardGetReportsClaimCount(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	boardID := createTestBoard(t, svc)
	ctx := context.Background()

	if _, err := svc.ClaimSquare(ctx, boardID, 2, 3, domain.Participant("pat")); err != nil {
		t.Fatalf("claim square: %v", err)
	}
	if _, err := svc.ClaimSquare(ctx, boardID, 4, 4, domain.Participant("sam")); err != nil {
		t.Fatalf("claim square: %v", err)
	}

	handler := BoardGetHandler(svc)
	_, result, err := handler(ctx, nil, BoardGetInput{BoardID: boardID})
	if err != nil {
		t.Fatalf("board_get: %v", err)
	}
	if result.ID != boardID || result.Name != "Office Pool" {
		t.Fatalf("unexpected board: %+v", result)
	}
	if result.ClaimedSquares != 2 {
		t.Fatalf("claimed squares = %d, want 2", result.ClaimedSquares)
	}
	if result.DigitsAssigned || result.Locked {
		t.Fatalf("fresh board reports digits or lock: %+v", result)
	}
}

func TestBoardGetUnknownBoard(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	handler := BoardGetHandler(svc)
	if _, _, err := handler(context.Background(), nil, BoardGetInput{BoardID: "missing"}); err == nil {
		t.Fatal("expected error for unknown board")
	}
}

func TestBoardListReturnsSummaries(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	first := createTestBoard(t, svc)
	second := createTestBoard(t, svc)

	handler := BoardListHandler(svc)
	_, result, err := handler(context.Background(), nil, BoardListInput{})
	if err != nil {
		t.Fatalf("board_list: %v", err)
	}
	if len(result.Boards) != 2 {
		t.Fatalf("boards = %d, want 2", len(result.Boards))
	}
	ids := map[string]bool{}
	for _, board := range result.Boards {
		ids[board.ID] = true
	}
	if !ids[first] || !ids[second] {
		t.Fatalf("missing boards in %+v", result.Boards)
	}
}

func TestSquaresListReportsOwners(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	boardID := createTestBoard(t, svc)
	ctx := context.Background()

	if _, err := svc.ClaimSquare(ctx, boardID, 5, 6, domain.Participant("pat")); err != nil {
		t.Fatalf("claim square: %v", err)
	}

	handler := SquaresListHandler(svc)
	_, result, err := handler(ctx, nil, SquaresListInput{BoardID: boardID})
	if err != nil {
		t.Fatalf("squares_list: %v", err)
	}
	if len(result.Squares) != 100 {
		t.Fatalf("squares = %d, want 100", len(result.Squares))
	}
	owned := 0
	for _, square := range result.Squares {
		if square.OwnerID != "" {
			owned++
			if square.Row != 5 || square.Col != 6 || square.OwnerID != "pat" {
				t.Fatalf("unexpected owned square: %+v", square)
			}
		}
	}
	if owned != 1 {
		t.Fatalf("owned squares = %d, want 1", owned)
	}
}

func TestWinnersReportsEveryQuarter(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	boardID := createTestBoard(t, svc)
	ctx := context.Background()

	seed := int64(7)
	if _, err := svc.AssignDigits(ctx, boardID, service.AssignDigitsInput{Seed: &seed}, admin); err != nil {
		t.Fatalf("assign digits: %v", err)
	}
	if _, err := svc.UpdateScore(ctx, boardID, 1, 7, 3, admin); err != nil {
		t.Fatalf("update score: %v", err)
	}

	handler := WinnersHandler(svc)
	_, result, err := handler(ctx, nil, WinnersInput{BoardID: boardID})
	if err != nil {
		t.Fatalf("winners_get: %v", err)
	}
	if len(result.Winners) != 5 {
		t.Fatalf("winners = %d, want 5", len(result.Winners))
	}
	if result.Winners[0].Status != "decided" {
		t.Fatalf("quarter 1 status = %q, want decided", result.Winners[0].Status)
	}
	for _, winner := range result.Winners[1:] {
		if winner.Status != "no_score" {
			t.Fatalf("quarter %d status = %q, want no_score", winner.Quarter, winner.Status)
		}
	}
}

func TestAuditTailNewestFirst(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	boardID := createTestBoard(t, svc)
	ctx := context.Background()

	if _, err := svc.ClaimSquare(ctx, boardID, 0, 0, domain.Participant("pat")); err != nil {
		t.Fatalf("claim square: %v", err)
	}
	if _, err := svc.LockBoard(ctx, boardID, admin); err != nil {
		t.Fatalf("lock board: %v", err)
	}

	handler := AuditTailHandler(svc)
	_, result, err := handler(ctx, nil, AuditTailInput{BoardID: boardID, Limit: 2})
	if err != nil {
		t.Fatalf("audit_tail: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(result.Entries))
	}
	if result.Entries[0].Type != "board.locked" || result.Entries[1].Type != "square.claimed" {
		t.Fatalf("unexpected order: %q then %q", result.Entries[0].Type, result.Entries[1].Type)
	}
	if result.Entries[0].Seq <= result.Entries[1].Seq {
		t.Fatalf("seq order not descending: %d then %d", result.Entries[0].Seq, result.Entries[1].Seq)
	}
}
