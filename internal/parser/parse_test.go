package parser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMakeMoveRequestKeepsMoveOpaque(t *testing.T) {
	req, err := ParseMakeMoveRequest([]byte(`{"player_key":"k1","expected_version":4,"move":{"action":"score","category":"yacht"}}`))
	require.NoError(t, err)
	assert.Equal(t, "k1", req.PlayerKey)
	assert.Equal(t, int64(4), req.ExpectedVersion)
	assert.JSONEq(t, `{"action":"score","category":"yacht"}`, string(req.Move))

	_, err = ParseMakeMoveRequest([]byte(`{"expected_version":"four"}`))
	assert.Error(t, err)
}

func TestParseResponseEnvelope(t *testing.T) {
	var created CreateRoomResponse
	resp, err := ParseResponse([]byte(`{"error":false,"data":{"room_id":"r","seat":1}}`), &created)
	require.NoError(t, err)
	assert.False(t, resp.Error)
	assert.Equal(t, CreateRoomResponse{RoomID: "r", Seat: 1}, created)

	resp, err = ParseResponse([]byte(`{"error":true,"code":"room_full","message":"full"}`), &created)
	require.NoError(t, err)
	assert.True(t, resp.Error)
	assert.Equal(t, "room_full", resp.Code)
}

func TestEventWireShape(t *testing.T) {
	data, err := json.Marshal(RematchRoomCreated("old", "new"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"rematch_room_created","room_id":"old","next_room_id":"new"}`, string(data))

	data, err = json.Marshal(PregameReady("room", "k1", true))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pregame_ready","room_id":"room","player_key":"k1","ready":true}`, string(data))

	event, err := ParseEvent([]byte(`{"type":"state_updated","room_id":"room","version":7}`))
	require.NoError(t, err)
	assert.Equal(t, StateUpdated("room", 7), *event)

	_, err = ParseEvent([]byte(`{"room_id":"room"}`))
	assert.Error(t, err)
}

func TestRelayedEvents(t *testing.T) {
	assert.True(t, EventStateUpdated.Relayed())
	assert.True(t, EventRematchRoomCreated.Relayed())
	assert.False(t, EventHeartbeat.Relayed())
	assert.False(t, EventPresenceSync.Relayed())
}
