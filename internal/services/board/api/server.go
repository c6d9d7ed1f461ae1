// Package api exposes the board service over a JSON HTTP surface.
// Reads are public; mutations require a bearer access token resolved to
// a participant or admin principal.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/squarepool/internal/platform/errors"
	"github.com/louisbranch/squarepool/internal/services/board/domain"
	"github.com/louisbranch/squarepool/internal/services/board/event"
	"github.com/louisbranch/squarepool/internal/services/board/service"
	"github.com/louisbranch/squarepool/internal/services/board/storage"
)

// Server handles the HTTP JSON API.
type Server struct {
	service *service.Service
	tokens  TokenConfig
	mux     *http.ServeMux
}

// NewServer wires the HTTP routes.
func NewServer(svc *service.Service, tokens TokenConfig) *Server {
	s := &Server{service: svc, tokens: tokens, mux: http.NewServeMux()}

	s.mux.HandleFunc("POST /v1/boards", s.handleCreateBoard)
	s.mux.HandleFunc("GET /v1/boards", s.handleListBoards)
	s.mux.HandleFunc("GET /v1/boards/{board}", s.handleGetBoard)
	s.mux.HandleFunc("PATCH /v1/boards/{board}/settings", s.handleUpdateSettings)
	s.mux.HandleFunc("GET /v1/boards/{board}/squares", s.handleListSquares)
	s.mux.HandleFunc("POST /v1/boards/{board}/squares/{row}/{col}/claim", s.handleClaimSquare)
	s.mux.HandleFunc("POST /v1/boards/{board}/squares/{row}/{col}/release", s.handleReleaseSquare)
	s.mux.HandleFunc("POST /v1/boards/{board}/squares/{row}/{col}/reassign", s.handleReassignSquare)
	s.mux.HandleFunc("POST /v1/boards/{board}/digits", s.handleAssignDigits)
	s.mux.HandleFunc("DELETE /v1/boards/{board}/digits", s.handleClearDigits)
	s.mux.HandleFunc("POST /v1/boards/{board}/lock", s.handleLockBoard)
	s.mux.HandleFunc("POST /v1/boards/{board}/unlock", s.handleUnlockBoard)
	s.mux.HandleFunc("POST /v1/boards/{board}/reset", s.handleResetBoard)
	s.mux.HandleFunc("PUT /v1/boards/{board}/scores/{quarter}", s.handleUpdateScore)
	s.mux.HandleFunc("GET /v1/boards/{board}/scores", s.handleListScores)
	s.mux.HandleFunc("GET /v1/boards/{board}/winners", s.handleWinners)
	s.mux.HandleFunc("GET /v1/boards/{board}/winners/{quarter}", s.handleQuarterWinner)
	s.mux.HandleFunc("GET /v1/boards/{board}/audit", s.handleAuditLog)
	s.mux.HandleFunc("POST /v1/boards/{board}/audit/prune", s.handlePruneAudit)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func locale(r *http.Request) string {
	return r.Header.Get("Accept-Language")
}

func (s *Server) principal(r *http.Request) (domain.Principal, error) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return domain.Principal{}, apperrors.New(apperrors.CodeTokenInvalid, "bearer token is required")
	}
	return VerifyToken(token, s.tokens)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, body := toErrorResponse(err, locale(r))
	writeJSON(w, code, body)
}

// decodeJSON tolerates an empty body so optional request bodies can be
// omitted entirely.
func decodeJSON(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(target)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperrors.Wrap(apperrors.CodeInvalidRequest, "request body is not valid JSON", err)
}

func pathInt(r *http.Request, name string) (int, bool) {
	value, err := strconv.Atoi(r.PathValue(name))
	return value, err == nil
}

// boardView is the JSON shape of a board.
type boardView struct {
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
	CreatedAt                string `json:"created_at"`
	UpdatedAt                string `json:"updated_at"`
}

func toBoardView(board domain.Board) boardView {
	return boardView{
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
		CreatedAt:                board.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                board.UpdatedAt.Format(time.RFC3339),
	}
}

type squareView struct {
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	OwnerID   string `json:"owner_id,omitempty"`
	ClaimedAt string `json:"claimed_at,omitempty"`
}

func toSquareView(square domain.Square) squareView {
	view := squareView{Row: square.Row, Col: square.Col, OwnerID: square.OwnerID}
	if square.ClaimedAt != nil {
		view.ClaimedAt = square.ClaimedAt.Format(time.RFC3339)
	}
	return view
}

type scoreView struct {
	Quarter   int    `json:"quarter"`
	RowScore  int    `json:"row_score"`
	ColScore  int    `json:"col_score"`
	UpdatedBy string `json:"updated_by,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

func toScoreView(score domain.ScoreEntry) scoreView {
	return scoreView{
		Quarter:   score.Quarter,
		RowScore:  score.RowScore,
		ColScore:  score.ColScore,
		UpdatedBy: score.UpdatedBy,
		UpdatedAt: score.UpdatedAt.Format(time.RFC3339),
	}
}

type winnerView struct {
	Quarter  int    `json:"quarter"`
	Status   string `json:"status"`
	RowDigit *int   `json:"row_digit,omitempty"`
	ColDigit *int   `json:"col_digit,omitempty"`
	Row      *int   `json:"row,omitempty"`
	Col      *int   `json:"col,omitempty"`
	OwnerID  string `json:"owner_id,omitempty"`
}

func toWinnerView(winner domain.QuarterWinner) winnerView {
	view := winnerView{Quarter: winner.Quarter}
	switch winner.Status {
	case domain.WinnerPending:
		view.Status = "pending"
	case domain.WinnerNoScore:
		view.Status = "no_score"
	case domain.WinnerDecided:
		view.Status = "decided"
		rowDigit, colDigit := winner.RowDigit, winner.ColDigit
		row, col := winner.Row, winner.Col
		view.RowDigit = &rowDigit
		view.ColDigit = &colDigit
		view.Row = &row
		view.Col = &col
		view.OwnerID = winner.OwnerID
	}
	return view
}

type entryView struct {
	Seq       uint64          `json:"seq"`
	Timestamp string          `json:"timestamp"`
	Type      string          `json:"type"`
	ActorType string          `json:"actor_type"`
	ActorID   string          `json:"actor_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func toEntryView(entry event.Entry) entryView {
	return entryView{
		Seq:       entry.Seq,
		Timestamp: entry.Timestamp.Format(time.RFC3339),
		Type:      string(entry.Type),
		ActorType: string(entry.ActorType),
		ActorID:   entry.ActorID,
		Payload:   entry.PayloadJSON,
	}
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	actor, err := s.principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body struct {
		Name                     string `json:"name"`
		RowTeam                  string `json:"row_team"`
		ColTeam                  string `json:"col_team"`
		PriceCents               int64  `json:"price_cents"`
		MaxSquaresPerParticipant int    `json:"max_squares_per_participant"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	board, err := s.service.CreateBoard(r.Context(), domain.CreateBoardInput{
		Name:                     body.Name,
		RowTeam:                  body.RowTeam,
		ColTeam:                  body.ColTeam,
		PriceCents:               body.PriceCents,
		MaxSquaresPerParticipant: body.MaxSquaresPerParticipant,
	}, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBoardView(board))
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.service.ListBoards(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]boardView, 0, len(boards))
	for _, board := range boards {
		views = append(views, toBoardView(board))
	}
	writeJSON(w, http.StatusOK, map[string]any{"boards": views})
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.service.GetBoard(r.Context(), r.PathValue("board"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardView(board))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	actor, err := s.principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body struct {
		Name                     string `json:"name"`
		RowTeam                  string `json:"row_team"`
		ColTeam                  string `json:"col_team"`
		PriceCents               int64  `json:"price_cents"`
		MaxSquaresPerParticipant int    `json:"max_squares_per_participant"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	board, err := s.service.UpdateSettings(r.Context(), r.PathValue("board"), domain.Settings{
		Name:                     body.Name,
		RowTeam:                  body.RowTeam,
		ColTeam:                  body.ColTeam,
		PriceCents:               body.PriceCents,
		MaxSquaresPerParticipant: body.MaxSquaresPerParticipant,
	}, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardView(board))
}

func (s *Server) handleListSquares(w http.ResponseWriter, r *http.Request) {
	squares, err := s.service.ListSquares(r.Context(), r.PathValue("board"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]squareView, 0, len(squares))
	for _, square := range squares {
		views = append(views, toSquareView(square))
	}
	writeJSON(w, http.StatusOK, map[string]any{"squares": views})
}

func (s *Server) coordinate(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	row, rowOK := pathInt(r, "row")
	col, colOK := pathInt(r, "col")
	if !rowOK || !colOK {
		writeError(w, r, apperrors.WithMetadata(
			apperrors.CodeSquareInvalidCoordinate,
			"square coordinate is out of range",
			map[string]string{"Row": r.PathValue("row"), "Col": r.PathValue("col")},
		))
		return 0, 0, false
	}
	return row, col, true
}

func (s *Server) handleClaimSquare(w http.ResponseWriter, r *http.Request) {
	actor, err := s.principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	row, col, ok := s.coordinate(w, r)
	if !ok {
		return
	}

	square, err := s.service.ClaimSquare(r.Context(), r.PathValue("board"), row, col, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSquareView(square))
}

func (s *Server) handleReleaseSquare(w http.ResponseWriter, r *http.Request) {
	actor, err := s.principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	row, col, ok := s.coordinate(w, r)
	if !ok {
		return
	}

	if err := s.service.ReleaseSquare(r.Context(), r.PathValue("board"), row, col, actor); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReassignSquare(w http.ResponseWriter, r *http.Request) {
	actor, err := s.principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	row, col, ok := s.coordinate(w, r)
	if !ok {
		return
	}

	var body struct {
		ToOwner string `json:"to_owner"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.service.ReassignSquare(r.Context(), r.PathValue("board"), row, col, body.ToOwner, actor); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAssignDigits(w http.ResponseWriter, r *http.Request) {
	actor, err := s.principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body struct {
		Seed  *int64 `json:"seed"`
		Force bool   `json:"force"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	board, err := s.service.AssignDigits(r.Context(), r.PathValue("board"), service.AssignDigitsInput{
		Seed:  body.Seed,
		Force: body.Force,
	}, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardView(board))
}

func (s *Server) handleClearDigits(w http.ResponseWriter, r *http.Request) {
	actor, err := s.principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.service.ClearDigits(r.Context(), r.PathValue("board"), actor); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLockBoard(w http.ResponseWriter, r *http.Request) {
	s.handleSetLocked(w, r, true)
}

func (s *Server) handleUnlockBoard(w http.ResponseWriter, r *http.Request) {
	s.handleSetLocked(w, r, false)
}

func (s *Server) handleSetLocked(w http.ResponseWriter, r *http.Request, locked bool) {
	actor, err := s.principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var changed bool
	if locked {
		changed, err = s.service.LockBoard(r.Context(), r.PathValue("board"), actor)
	} else {
		changed, err = s.service.UnlockBoard(r.Context(), r.PathValue("board"), actor)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"locked": locked, "changed": changed})
}

func (s *Server) handleResetBoard(w http.ResponseWriter, r *http.Request) {
	actor, err := s.principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.service.ResetBoard(r.Context(), r.PathValue("board"), actor); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateScore(w http.ResponseWriter, r *http.Request) {
	actor, err := s.principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	quarter, ok := pathInt(r, "quarter")
	if !ok {
		writeError(w, r, apperrors.WithMetadata(
			apperrors.CodeScoreInvalidQuarter,
			"quarter is out of range",
			map[string]string{"Quarter": r.PathValue("quarter")},
		))
		return
	}

	var body struct {
		RowScore int `json:"row_score"`
		ColScore int `json:"col_score"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	score, err := s.service.UpdateScore(r.Context(), r.PathValue("board"), quarter, body.RowScore, body.ColScore, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toScoreView(score))
}

func (s *Server) handleListScores(w http.ResponseWriter, r *http.Request) {
	scores, err := s.service.ListScores(r.Context(), r.PathValue("board"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]scoreView, 0, len(scores))
	for _, score := range scores {
		views = append(views, toScoreView(score))
	}
	writeJSON(w, http.StatusOK, map[string]any{"scores": views})
}

func (s *Server) handleWinners(w http.ResponseWriter, r *http.Request) {
	winners, err := s.service.Winners(r.Context(), r.PathValue("board"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]winnerView, 0, len(winners))
	for _, winner := range winners {
		views = append(views, toWinnerView(winner))
	}
	writeJSON(w, http.StatusOK, map[string]any{"winners": views})
}

func (s *Server) handleQuarterWinner(w http.ResponseWriter, r *http.Request) {
	quarter, ok := pathInt(r, "quarter")
	if !ok {
		writeError(w, r, apperrors.WithMetadata(
			apperrors.CodeScoreInvalidQuarter,
			"quarter is out of range",
			map[string]string{"Quarter": r.PathValue("quarter")},
		))
		return
	}

	winner, err := s.service.QuarterWinner(r.Context(), r.PathValue("board"), quarter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWinnerView(winner))
}

func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	filter := storage.EntryFilter{
		ActorID: r.URL.Query().Get("actor"),
	}
	if value := r.URL.Query().Get("type"); value != "" {
		for _, entryType := range strings.Split(value, ",") {
			filter.Types = append(filter.Types, event.Type(entryType))
		}
	}
	if value := r.URL.Query().Get("since"); value != "" {
		since, err := time.Parse(time.RFC3339, value)
		if err != nil {
			writeError(w, r, apperrors.New(apperrors.CodeInvalidRequest, "since must be an RFC 3339 timestamp"))
			return
		}
		filter.Since = since
	}
	if value := r.URL.Query().Get("until"); value != "" {
		until, err := time.Parse(time.RFC3339, value)
		if err != nil {
			writeError(w, r, apperrors.New(apperrors.CodeInvalidRequest, "until must be an RFC 3339 timestamp"))
			return
		}
		filter.Until = until
	}
	if value := r.URL.Query().Get("limit"); value != "" {
		limit, err := strconv.Atoi(value)
		if err != nil || limit < 0 {
			writeError(w, r, apperrors.New(apperrors.CodeInvalidRequest, "limit must be a non-negative integer"))
			return
		}
		filter.Limit = limit
	}

	entries, err := s.service.AuditLog(r.Context(), r.PathValue("board"), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, toEntryView(entry))
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": views})
}

func (s *Server) handlePruneAudit(w http.ResponseWriter, r *http.Request) {
	actor, err := s.principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body struct {
		Keep int `json:"keep"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	removed, err := s.service.PruneAudit(r.Context(), r.PathValue("board"), body.Keep, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed, "kept": body.Keep})
}
