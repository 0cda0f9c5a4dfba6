package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songowen/duelboard/internal/channel"
	"github.com/songowen/duelboard/internal/db"
	"github.com/songowen/duelboard/internal/dice"
	"github.com/songowen/duelboard/internal/game"
	"github.com/songowen/duelboard/internal/logger"
	"github.com/songowen/duelboard/internal/parser"
)

func setup(t *testing.T) *httptest.Server {
	store := &db.SqliteStore{
		Logger:  logger.New("test_database"),
		Roller:  dice.NewRoller(7),
		RoomTTL: time.Hour,
		Now:     time.Now,
	}
	require.NoError(t, store.SetupConnection(filepath.Join(t.TempDir(), "duelboard_int")))
	gs := NewGameServerWithRepo(store, channel.NewHub(15*time.Second), "0")
	server := httptest.NewServer(gs.Router)
	t.Cleanup(func() {
		gs.Hub.Close()
		server.Close()
		gs.Shutdown()
	})
	return server
}

func apiCall(t *testing.T, server *httptest.Server, method, path string, body any, target any) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	}
	req, err := http.NewRequest(method, fmt.Sprintf("%s%s%s", server.URL, HTTP_API_V1_PREFIX, path), reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	raw, err := ReadResponseBody(resp)
	require.NoError(t, err)
	envelope, err := parser.ParseResponse(raw, target)
	require.NoError(t, err)
	return resp.StatusCode, envelope.Code
}

func TestRoomFlow(t *testing.T) {
	server := setup(t)

	created := parser.CreateRoomResponse{}
	status, _ := apiCall(t, server, "POST", "/rooms", map[string]any{"player_key": "host", "nickname": "Host"}, &created)
	require.Equal(t, http.StatusCreated, status)

	var state *parser.GameState
	status, _ = apiCall(t, server, "GET", "/rooms/"+created.RoomID+"/state", nil, &state)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, state)

	joined := parser.JoinRoomResponse{}
	status, _ = apiCall(t, server, "POST", "/rooms/"+created.RoomID+"/players", map[string]any{"player_key": "guest"}, &joined)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, joined.Seat)

	status, code := apiCall(t, server, "POST", "/rooms/"+created.RoomID+"/players", map[string]any{"player_key": "third"}, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "room_full", code)

	status, _ = apiCall(t, server, "GET", "/rooms/"+created.RoomID+"/state", nil, &state)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, state)
	assert.Equal(t, int64(1), state.Version)

	moved := parser.MakeMoveResponse{}
	status, _ = apiCall(t, server, "POST", "/rooms/"+created.RoomID+"/moves", map[string]any{
		"player_key": "host", "expected_version": 1, "move": game.RollMove(dice.HoldMask{}),
	}, &moved)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(2), moved.NewVersion)

	status, code = apiCall(t, server, "POST", "/rooms/"+created.RoomID+"/moves", map[string]any{
		"player_key": "guest", "expected_version": 2, "move": game.RollMove(dice.HoldMask{}),
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "not_your_turn", code)

	status, code = apiCall(t, server, "POST", "/rooms/"+created.RoomID+"/moves", map[string]any{
		"player_key": "host", "expected_version": 1, "move": game.ScoreMove(dice.Choice),
	}, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "version_mismatch", code)
}

func TestConcurrentMovesOverHTTP(t *testing.T) {
	server := setup(t)
	created := parser.CreateRoomResponse{}
	apiCall(t, server, "POST", "/rooms", map[string]any{"player_key": "host"}, &created)
	apiCall(t, server, "POST", "/rooms/"+created.RoomID+"/players", map[string]any{"player_key": "guest"}, nil)

	var wg sync.WaitGroup
	statuses := make([]int, 4)
	for i := range statuses {
		wg.Add(1)
		go func() {
			defer wg.Done()
			statuses[i], _ = apiCall(t, server, "POST", "/rooms/"+created.RoomID+"/moves", map[string]any{
				"player_key": "host", "expected_version": 1, "move": game.RollMove(dice.HoldMask{}),
			}, nil)
		}()
	}
	wg.Wait()

	ok, conflict := 0, 0
	for _, status := range statuses {
		switch status {
		case http.StatusOK:
			ok++
		case http.StatusConflict:
			conflict++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 3, conflict)

	var state *parser.GameState
	apiCall(t, server, "GET", "/rooms/"+created.RoomID+"/state", nil, &state)
	require.NotNil(t, state)
	assert.Equal(t, int64(2), state.Version)
}
