package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/songowen/duelboard/internal/errors"
	"github.com/songowen/duelboard/internal/game"
	"github.com/songowen/duelboard/internal/logger"
	"github.com/songowen/duelboard/internal/parser"
	"github.com/songowen/duelboard/internal/utils"
)

const apiPrefix = "/api/v1"

// Session is the connection handle for one identity. Build it once and
// pass it to whatever needs to talk to the room service.
type Session struct {
	Identity Identity
	Logger   logger.Logger

	baseURL    string
	httpClient *http.Client
}

func NewSession(serverURL string, identity Identity) *Session {
	return &Session{
		Identity:   identity,
		Logger:     logger.New("session").With("player_key", identity.PlayerKey),
		baseURL:    strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Session) do(ctx context.Context, method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+apiPrefix+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	envelope, err := parser.ParseResponse(raw, target)
	if err != nil {
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, err)
	}
	if envelope.Error {
		code := apperrors.ParseCode(envelope.Code)
		if code == apperrors.CodeUnknown {
			code = apperrors.Classify(envelope.Message)
		}
		return apperrors.New(code, envelope.Message)
	}
	return nil
}

func checkRoomID(roomID string) (string, error) {
	id, err := utils.ParseRoomID(roomID)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidRoomID, err)
	}
	return id, nil
}

func (s *Session) CreateRoom(ctx context.Context) (parser.CreateRoomResponse, error) {
	created := parser.CreateRoomResponse{}
	err := s.do(ctx, http.MethodPost, "/rooms", parser.CreateRoomRequest{
		GameType:  parser.GameTypeYacht,
		PlayerKey: s.Identity.PlayerKey,
		Nickname:  s.Identity.Nickname,
	}, &created)
	return created, err
}

// JoinRoom rejects a malformed room id before any request is made.
func (s *Session) JoinRoom(ctx context.Context, roomID string) (int, error) {
	roomID, err := checkRoomID(roomID)
	if err != nil {
		return 0, err
	}
	joined := parser.JoinRoomResponse{}
	err = s.do(ctx, http.MethodPost, "/rooms/"+roomID+"/players", parser.JoinRoomRequest{
		PlayerKey: s.Identity.PlayerKey,
		Nickname:  s.Identity.Nickname,
	}, &joined)
	return joined.Seat, err
}

func (s *Session) MakeMove(ctx context.Context, roomID string, expectedVersion int64, move game.Move) (int64, error) {
	payload, err := json.Marshal(move)
	if err != nil {
		return 0, err
	}
	moved := parser.MakeMoveResponse{}
	err = s.do(ctx, http.MethodPost, "/rooms/"+roomID+"/moves", parser.MakeMoveRequest{
		PlayerKey:       s.Identity.PlayerKey,
		ExpectedVersion: expectedVersion,
		Move:            payload,
	}, &moved)
	return moved.NewVersion, err
}

func (s *Session) GetRoom(ctx context.Context, roomID string) (*parser.Room, error) {
	room := &parser.Room{}
	if err := s.do(ctx, http.MethodGet, "/rooms/"+roomID, nil, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Session) GetRoomPlayers(ctx context.Context, roomID string) ([]parser.Player, error) {
	players := []parser.Player{}
	if err := s.do(ctx, http.MethodGet, "/rooms/"+roomID+"/players", nil, &players); err != nil {
		return nil, err
	}
	return players, nil
}

// GetGameState returns nil while the room has no match yet.
func (s *Session) GetGameState(ctx context.Context, roomID string) (*parser.GameState, error) {
	var state *parser.GameState
	if err := s.do(ctx, http.MethodGet, "/rooms/"+roomID+"/state", nil, &state); err != nil {
		return nil, err
	}
	return state, nil
}

// ChannelURL is the websocket address of roomID's broadcast channel.
func (s *Session) ChannelURL(roomID string) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + apiPrefix + "/connect/rooms/" + roomID
	u.RawQuery = url.Values{"player_key": {s.Identity.PlayerKey}}.Encode()
	return u.String(), nil
}
