package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/louisbranch/squarepool/internal/services/board/service"
	"github.com/louisbranch/squarepool/internal/services/board/storage/sqlite"
)

func newTestServer(t *testing.T) *Server {
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
	svc := service.New(store, nil, newID, nil)
	return NewServer(svc, testTokenConfig())
}

func bearer(t *testing.T, role, subject string) string {
	t.Helper()
	return "Bearer " + signToken(t, validClaims(role, subject))
}

func doRequest(t *testing.T, server *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if token != "" {
		request.Header.Set("Authorization", token)
	}
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	return recorder
}

func createBoardRequest(t *testing.T, server *Server) string {
	t.Helper()

	recorder := doRequest(t, server, http.MethodPost, "/v1/boards", bearer(t, "admin", "commissioner"),
		`{"name":"Office Pool","row_team":"Away","col_team":"Home","price_cents":500}`)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create board status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	var view boardView
	if err := json.Unmarshal(recorder.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	return view.ID
}

func TestCreateBoardRequiresToken(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	recorder := doRequest(t, server, http.MethodPost, "/v1/boards", "", `{"name":"Pool"}`)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestCreateBoardRejectsParticipant(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	recorder := doRequest(t, server, http.MethodPost, "/v1/boards", bearer(t, "participant", "pat"),
		`{"name":"Office Pool","row_team":"Away","col_team":"Home"}`)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403, body %s", recorder.Code, recorder.Body.String())
	}

	var body errorBody
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error.Code != "ACTOR_NOT_ADMIN" {
		t.Fatalf("error code = %q, want ACTOR_NOT_ADMIN", body.Error.Code)
	}
}

func TestBoardReadsArePublic(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	boardID := createBoardRequest(t, server)

	recorder := doRequest(t, server, http.MethodGet, "/v1/boards/"+boardID, "", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("get board status = %d", recorder.Code)
	}
	recorder = doRequest(t, server, http.MethodGet, "/v1/boards/"+boardID+"/squares", "", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("list squares status = %d", recorder.Code)
	}

	var squares struct {
		Squares []squareView `json:"squares"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &squares); err != nil {
		t.Fatalf("decode squares: %v", err)
	}
	if len(squares.Squares) != 100 {
		t.Fatalf("squares = %d, want 100", len(squares.Squares))
	}
}

func TestClaimConflictMapsToConflictStatus(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	boardID := createBoardRequest(t, server)

	recorder := doRequest(t, server, http.MethodPost,
		"/v1/boards/"+boardID+"/squares/5/6/claim", bearer(t, "participant", "pat"), "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("claim status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	recorder = doRequest(t, server, http.MethodPost,
		"/v1/boards/"+boardID+"/squares/5/6/claim", bearer(t, "participant", "sam"), "")
	if recorder.Code != http.StatusConflict {
		t.Fatalf("rival claim status = %d, want 409", recorder.Code)
	}

	var body errorBody
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error.Code != "SQUARE_ALREADY_CLAIMED" {
		t.Fatalf("error code = %q, want SQUARE_ALREADY_CLAIMED", body.Error.Code)
	}
}

func TestInvalidCoordinateMapsToBadRequest(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	boardID := createBoardRequest(t, server)

	recorder := doRequest(t, server, http.MethodPost,
		"/v1/boards/"+boardID+"/squares/10/0/claim", bearer(t, "participant", "pat"), "")
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}

	recorder = doRequest(t, server, http.MethodPost,
		"/v1/boards/"+boardID+"/squares/x/0/claim", bearer(t, "participant", "pat"), "")
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for non-numeric coordinate", recorder.Code)
	}
}

func TestMissingBoardMapsToNotFound(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	recorder := doRequest(t, server, http.MethodGet, "/v1/boards/missing", "", "")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
}

func TestGameFlowOverHTTP(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	boardID := createBoardRequest(t, server)
	adminToken := bearer(t, "admin", "commissioner")

	recorder := doRequest(t, server, http.MethodPost,
		"/v1/boards/"+boardID+"/squares/5/6/claim", bearer(t, "participant", "pat"), "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("claim status = %d", recorder.Code)
	}

	recorder = doRequest(t, server, http.MethodPost,
		"/v1/boards/"+boardID+"/digits", adminToken, `{"seed":7}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("assign digits status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	var board boardView
	if err := json.Unmarshal(recorder.Body.Bytes(), &board); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	if !board.DigitsAssigned || len(board.RowDigits) != 10 || len(board.ColDigits) != 10 {
		t.Fatalf("unexpected digits: %+v", board)
	}

	recorder = doRequest(t, server, http.MethodPost, "/v1/boards/"+boardID+"/lock", adminToken, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("lock status = %d", recorder.Code)
	}

	recorder = doRequest(t, server, http.MethodPut,
		"/v1/boards/"+boardID+"/scores/1", adminToken, `{"row_score":7,"col_score":3}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("score status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	recorder = doRequest(t, server, http.MethodGet, "/v1/boards/"+boardID+"/winners/1", "", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("winner status = %d", recorder.Code)
	}
	var winner winnerView
	if err := json.Unmarshal(recorder.Body.Bytes(), &winner); err != nil {
		t.Fatalf("decode winner: %v", err)
	}
	if winner.Status != "decided" || winner.Row == nil || winner.Col == nil {
		t.Fatalf("unexpected winner: %+v", winner)
	}

	recorder = doRequest(t, server, http.MethodGet,
		"/v1/boards/"+boardID+"/audit?limit=2", "", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("audit status = %d", recorder.Code)
	}
	var audit struct {
		Entries []entryView `json:"entries"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &audit); err != nil {
		t.Fatalf("decode audit: %v", err)
	}
	if len(audit.Entries) != 2 {
		t.Fatalf("audit entries = %d, want 2", len(audit.Entries))
	}
	if audit.Entries[0].Type != "score.updated" {
		t.Fatalf("newest entry = %q, want score.updated", audit.Entries[0].Type)
	}
}

func TestExpiredTokenMapsToUnauthorized(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	claims := validClaims("participant", "pat")
	claims.ExpiresAt = jwt.NewNumericDate(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))

	recorder := doRequest(t, server, http.MethodPost,
		"/v1/boards/any/squares/0/0/claim", "Bearer "+signToken(t, claims), "")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}
