package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SANNNNN-123/threeDials/internal/service"
	"github.com/SANNNNN-123/threeDials/internal/store"
)

func fixedNow() time.Time { return time.Unix(1_700_000_000, 0) }

func newTestServer(t *testing.T, rolls ...int) (*Server, *store.Memory) {
	t.Helper()
	mem := store.NewMemory(store.SessionTTL)

	opts := []service.GamesOption{service.WithNow(fixedNow)}
	if len(rolls) > 0 {
		i := 0
		opts = append(opts, service.WithIntN(func(int) int {
			v := rolls[i%len(rolls)]
			i++
			return v
		}))
	}
	games := service.NewGames(mem, opts...)
	board := service.NewLeaderboard(mem, games, service.WithLeaderboardNow(fixedNow))
	return New(games, board), mem
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestCreateGame(t *testing.T) {
	srv, _ := newTestServer(t, 12, 47, 83)

	rec := doJSON(t, srv, http.MethodPost, "/api/game", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var g store.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.NotEmpty(t, g.SessionID)
	assert.Equal(t, [3]int{12, 47, 83}, g.Targets)
	assert.Equal(t, fixedNow().UnixMilli(), g.StartTime)
	assert.Empty(t, g.Attempts)

	rec = doJSON(t, srv, http.MethodGet, "/api/game/"+g.SessionID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched store.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, g, fetched)
}

func TestGetGame_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/game/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"session not found"}`, rec.Body.String())
}

func TestUpdateGame_RecordsAttempt(t *testing.T) {
	srv, mem := newTestServer(t)
	g := store.Game{SessionID: "s1", Targets: [3]int{12, 47, 83}}
	require.NoError(t, mem.Put(context.Background(), g))

	rec := doJSON(t, srv, http.MethodPut, "/api/game", `{"sessionId":"s1","value":42}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated store.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, []int{42}, updated.Attempts)
}

func TestUpdateGame_RejectsBadInput(t *testing.T) {
	srv, mem := newTestServer(t)
	require.NoError(t, mem.Put(context.Background(), store.Game{SessionID: "s1"}))

	cases := []struct {
		label string
		body  string
		want  int
	}{
		{"malformed json", `{"sessionId":`, http.StatusBadRequest},
		{"missing value", `{"sessionId":"s1"}`, http.StatusBadRequest},
		{"value out of range", `{"sessionId":"s1","value":99}`, http.StatusBadRequest},
		{"unknown session", `{"sessionId":"nope","value":1}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := doJSON(t, srv, http.MethodPut, "/api/game", tc.body)
		assert.Equal(t, tc.want, rec.Code, tc.label)
		assert.Contains(t, rec.Body.String(), `"error"`, tc.label)
	}
}

func TestUpdateGame_WinClaimSubmitsScore(t *testing.T) {
	srv, mem := newTestServer(t)
	g := store.Game{SessionID: "s1", Targets: [3]int{12, 47, 83}, Attempts: []int{12, 47}}
	require.NoError(t, mem.Put(context.Background(), g))

	body := `{"sessionId":"s1","value":83,"playerName":"alice","timeElapsedSeconds":30}`
	rec := doJSON(t, srv, http.MethodPut, "/api/game", body)
	require.Equal(t, http.StatusOK, rec.Code)

	top, err := mem.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "alice", top[0].Name)
	assert.Equal(t, 30, top[0].Time)
	assert.Equal(t, "Unknown", top[0].Country)
}

func TestUpdateGame_PartialWinClaimIsJustAnAttempt(t *testing.T) {
	srv, mem := newTestServer(t)
	g := store.Game{SessionID: "s1", Targets: [3]int{12, 47, 83}, Attempts: []int{12, 47}}
	require.NoError(t, mem.Put(context.Background(), g))

	// Name and time must both be present to claim a win; either one alone
	// records the attempt and nothing more.
	for _, body := range []string{
		`{"sessionId":"s1","value":83,"playerName":"alice"}`,
		`{"sessionId":"s1","value":83,"timeElapsedSeconds":30}`,
	} {
		rec := doJSON(t, srv, http.MethodPut, "/api/game", body)
		require.Equal(t, http.StatusOK, rec.Code, body)
	}

	top, err := mem.Top(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestUpdateGame_WinClaimWithoutWinFails(t *testing.T) {
	srv, mem := newTestServer(t)
	g := store.Game{SessionID: "s1", Targets: [3]int{12, 47, 83}}
	require.NoError(t, mem.Put(context.Background(), g))

	// The claimed win does not match the stored attempt log.
	body := `{"sessionId":"s1","value":5,"playerName":"alice","timeElapsedSeconds":30}`
	rec := doJSON(t, srv, http.MethodPut, "/api/game", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	top, err := mem.Top(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestSubmitScore(t *testing.T) {
	srv, mem := newTestServer(t)
	g := store.Game{SessionID: "s1", Targets: [3]int{12, 47, 83}, Attempts: []int{12, 47, 83}}
	require.NoError(t, mem.Put(context.Background(), g))

	cases := []struct {
		label string
		body  string
		want  int
	}{
		{"missing name", `{"sessionId":"s1","time":30}`, http.StatusBadRequest},
		{"missing time", `{"sessionId":"s1","name":"alice"}`, http.StatusBadRequest},
		{"unknown session", `{"sessionId":"nope","name":"alice","time":30}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := doJSON(t, srv, http.MethodPatch, "/api/leaderboard", tc.body)
		assert.Equal(t, tc.want, rec.Code, tc.label)
	}

	rec := doJSON(t, srv, http.MethodPatch, "/api/leaderboard", `{"sessionId":"s1","name":"alice","time":30,"country":"NZ"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	top, err := mem.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "NZ", top[0].Country)
}

func TestGetLeaderboard_EmptyIsArray(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/leaderboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetLeaderboard_RejectsBadLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/leaderboard?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLeaderboard_Golden(t *testing.T) {
	srv, mem := newTestServer(t)
	ctx := context.Background()
	at := fixedNow().UnixMilli()

	for _, e := range []store.Entry{
		{Name: "alice", Time: 45, CompletedAt: at, Country: "CA"},
		{Name: "bob", Time: 12, CompletedAt: at, Country: "NZ"},
		{Name: "carol", Time: 30, CompletedAt: at, Country: "Unknown"},
	} {
		require.NoError(t, mem.Add(ctx, e))
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/leaderboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "leaderboard", rec.Body.Bytes())
}
