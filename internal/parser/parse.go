package parser

import (
	"encoding/json"
	"time"
)

// GameTypeYacht is the only game type the room service hosts.
const GameTypeYacht = "yacht_dice"

type CreateRoomRequest struct {
	GameType  string `json:"game_type"`
	PlayerKey string `json:"player_key"`
	Nickname  string `json:"nickname"`
}

type CreateRoomResponse struct {
	RoomID string `json:"room_id"`
	Seat   int    `json:"seat"`
}

type JoinRoomRequest struct {
	PlayerKey string `json:"player_key"`
	Nickname  string `json:"nickname"`
}

type JoinRoomResponse struct {
	Seat int `json:"seat"`
}

// MakeMoveRequest carries the move payload opaque; the room service decodes
// it against the stored state.
type MakeMoveRequest struct {
	PlayerKey       string          `json:"player_key"`
	ExpectedVersion int64           `json:"expected_version"`
	Move            json.RawMessage `json:"move"`
}

type MakeMoveResponse struct {
	NewVersion int64 `json:"new_version"`
}

type Room struct {
	RoomID    string    `json:"room_id"`
	GameType  string    `json:"game_type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Player struct {
	PlayerKey string `json:"player_key"`
	Nickname  string `json:"nickname"`
	Seat      int    `json:"seat"`
}

type GameState struct {
	RoomID    string          `json:"room_id"`
	State     json.RawMessage `json:"state"`
	TurnSeat  int             `json:"turn_seat"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Response is the envelope every HTTP answer is wrapped in.
type Response struct {
	Error   bool            `json:"error"`
	Code    string          `json:"code,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

func ParseCreateRoomRequest(data []byte) (*CreateRoomRequest, error) {
	request := &CreateRoomRequest{}
	err := json.Unmarshal(data, request)
	return request, err
}

func ParseJoinRoomRequest(data []byte) (*JoinRoomRequest, error) {
	request := &JoinRoomRequest{}
	err := json.Unmarshal(data, request)
	return request, err
}

func ParseMakeMoveRequest(data []byte) (*MakeMoveRequest, error) {
	request := &MakeMoveRequest{}
	err := json.Unmarshal(data, request)
	return request, err
}

// ParseResponse unwraps the envelope, decoding data into target when the
// answer was not an error.
func ParseResponse(data []byte, target any) (*Response, error) {
	response := &Response{}
	if err := json.Unmarshal(data, response); err != nil {
		return nil, err
	}
	if response.Error || target == nil || len(response.Data) == 0 {
		return response, nil
	}
	return response, json.Unmarshal(response.Data, target)
}
