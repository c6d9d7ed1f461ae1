// Package mcp exposes a read-only board surface to model-driven clients.
// Tools report board state, the grid, winners, and the audit tail; all
// mutations stay behind the HTTP API where callers authenticate.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/squarepool/internal/services/board/domain"
	"github.com/louisbranch/squarepool/internal/services/board/service"
	"github.com/louisbranch/squarepool/internal/services/board/storage"
)

// BoardGetInput identifies one board.
type BoardGetInput struct {
	BoardID string `json:"board_id" jsonschema:"the board identifier"`
}

// BoardGetResult is the board state snapshot.
type BoardGetResult struct {
	ID                       string `json:"id"`
	Name                     string `json:"name"`
	RowTeam                  string `json:"row_team"`
	ColTeam                  string `json:"col_team"`
	PriceCents               int64  `json:"price_cents"`
	MaxSquaresPerParticipant int    `json:"max_squares_per_participant"`
	Locked                   bool   `json:"locked"`
	DigitsAssigned           bool   `json:"digits_assigned"`
	RowDigits                []int  `json:"row_digits,omitempty"`
	ColDigits                []int  `json:"col_digits,omitempty"`
	ClaimedSquares           int    `json:"claimed_squares"`
}

// BoardGetHandler reports one board's state and claim count.
func BoardGetHandler(svc *service.Service) mcp.ToolHandlerFor[BoardGetInput, BoardGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BoardGetInput) (*mcp.CallToolResult, BoardGetResult, error) {
		board, err := svc.GetBoard(ctx, input.BoardID)
		if err != nil {
			return nil, BoardGetResult{}, fmt.Errorf("get board: %w", err)
		}
		squares, err := svc.ListSquares(ctx, input.BoardID)
		if err != nil {
			return nil, BoardGetResult{}, fmt.Errorf("list squares: %w", err)
		}
		claimed := 0
		for _, square := range squares {
			if square.Claimed() {
				claimed++
			}
		}
		return nil, BoardGetResult{
			ID:                       board.ID,
			Name:                     board.Name,
			RowTeam:                  board.RowTeam,
			ColTeam:                  board.ColTeam,
			PriceCents:               board.PriceCents,
			MaxSquaresPerParticipant: board.MaxSquaresPerParticipant,
			Locked:                   board.Locked,
			DigitsAssigned:           board.DigitsAssigned(),
			RowDigits:                board.RowDigits,
			ColDigits:                board.ColDigits,
			ClaimedSquares:           claimed,
		}, nil
	}
}

// BoardListInput has no parameters.
type BoardListInput struct{}

// BoardListResult lists every board.
type BoardListResult struct {
	Boards []BoardSummary `json:"boards"`
}

// BoardSummary is one board in a listing.
type BoardSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	RowTeam string `json:"row_team"`
	ColTeam string `json:"col_team"`
	Locked  bool   `json:"locked"`
}

// BoardListHandler lists the known boards.
func BoardListHandler(svc *service.Service) mcp.ToolHandlerFor[BoardListInput, BoardListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ BoardListInput) (*mcp.CallToolResult, BoardListResult, error) {
		boards, err := svc.ListBoards(ctx)
		if err != nil {
			return nil, BoardListResult{}, fmt.Errorf("list boards: %w", err)
		}
		result := BoardListResult{Boards: make([]BoardSummary, 0, len(boards))}
		for _, board := range boards {
			result.Boards = append(result.Boards, BoardSummary{
				ID:      board.ID,
				Name:    board.Name,
				RowTeam: board.RowTeam,
				ColTeam: board.ColTeam,
				Locked:  board.Locked,
			})
		}
		return nil, result, nil
	}
}

// SquaresListInput identifies one board grid.
type SquaresListInput struct {
	BoardID string `json:"board_id" jsonschema:"the board identifier"`
}

// SquaresListResult is the grid in row-major order.
type SquaresListResult struct {
	Squares []SquareState `json:"squares"`
}

// SquareState is one square's claim state.
type SquareState struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	OwnerID string `json:"owner_id,omitempty"`
}

// SquaresListHandler reports the full grid.
func SquaresListHandler(svc *service.Service) mcp.ToolHandlerFor[SquaresListInput, SquaresListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SquaresListInput) (*mcp.CallToolResult, SquaresListResult, error) {
		squares, err := svc.ListSquares(ctx, input.BoardID)
		if err != nil {
			return nil, SquaresListResult{}, fmt.Errorf("list squares: %w", err)
		}
		result := SquaresListResult{Squares: make([]SquareState, 0, len(squares))}
		for _, square := range squares {
			result.Squares = append(result.Squares, SquareState{
				Row:     square.Row,
				Col:     square.Col,
				OwnerID: square.OwnerID,
			})
		}
		return nil, result, nil
	}
}

// WinnersInput identifies one board.
type WinnersInput struct {
	BoardID string `json:"board_id" jsonschema:"the board identifier"`
}

// WinnersResult reports every quarter's winner evaluation.
type WinnersResult struct {
	Winners []WinnerState `json:"winners"`
}

// WinnerState is one quarter's evaluation.
type WinnerState struct {
	Quarter  int    `json:"quarter"`
	Status   string `json:"status"`
	RowDigit int    `json:"row_digit,omitempty"`
	ColDigit int    `json:"col_digit,omitempty"`
	Row      int    `json:"row,omitempty"`
	Col      int    `json:"col,omitempty"`
	OwnerID  string `json:"owner_id,omitempty"`
}

func winnerStatusLabel(status domain.WinnerStatus) string {
	switch status {
	case domain.WinnerNoScore:
		return "no_score"
	case domain.WinnerDecided:
		return "decided"
	default:
		return "pending"
	}
}

// WinnersHandler evaluates every quarter for one board.
func WinnersHandler(svc *service.Service) mcp.ToolHandlerFor[WinnersInput, WinnersResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input WinnersInput) (*mcp.CallToolResult, WinnersResult, error) {
		winners, err := svc.Winners(ctx, input.BoardID)
		if err != nil {
			return nil, WinnersResult{}, fmt.Errorf("evaluate winners: %w", err)
		}
		result := WinnersResult{Winners: make([]WinnerState, 0, len(winners))}
		for _, winner := range winners {
			state := WinnerState{
				Quarter: winner.Quarter,
				Status:  winnerStatusLabel(winner.Status),
			}
			if winner.Status == domain.WinnerDecided {
				state.RowDigit = winner.RowDigit
				state.ColDigit = winner.ColDigit
				state.Row = winner.Row
				state.Col = winner.Col
				state.OwnerID = winner.OwnerID
			}
			result.Winners = append(result.Winners, state)
		}
		return nil, result, nil
	}
}

// AuditTailInput requests the newest audit entries for one board.
type AuditTailInput struct {
	BoardID string `json:"board_id" jsonschema:"the board identifier"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum entries to return, newest first"`
}

// AuditTailResult is the newest slice of the audit log.
type AuditTailResult struct {
	Entries []AuditEntry `json:"entries"`
}

// AuditEntry is one audit record.
type AuditEntry struct {
	Seq       uint64 `json:"seq"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	ActorType string `json:"actor_type"`
	ActorID   string `json:"actor_id,omitempty"`
	Payload   string `json:"payload,omitempty"`
}

const defaultAuditTailLimit = 20

// AuditTailHandler reports the newest audit entries.
func AuditTailHandler(svc *service.Service) mcp.ToolHandlerFor[AuditTailInput, AuditTailResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AuditTailInput) (*mcp.CallToolResult, AuditTailResult, error) {
		limit := input.Limit
		if limit <= 0 {
			limit = defaultAuditTailLimit
		}
		entries, err := svc.AuditLog(ctx, input.BoardID, storage.EntryFilter{Limit: limit})
		if err != nil {
			return nil, AuditTailResult{}, fmt.Errorf("list audit entries: %w", err)
		}
		result := AuditTailResult{Entries: make([]AuditEntry, 0, len(entries))}
		for _, entry := range entries {
			result.Entries = append(result.Entries, AuditEntry{
				Seq:       entry.Seq,
				Timestamp: entry.Timestamp.Format(time.RFC3339),
				Type:      string(entry.Type),
				ActorType: string(entry.ActorType),
				ActorID:   entry.ActorID,
				Payload:   string(entry.PayloadJSON),
			})
		}
		return nil, result, nil
	}
}
