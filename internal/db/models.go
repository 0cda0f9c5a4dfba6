package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/songowen/duelboard/internal/game"
	"github.com/songowen/duelboard/internal/parser"
)

type RoomStatus string

const (
	StatusWaiting   RoomStatus = "waiting"
	StatusPlaying   RoomStatus = "playing"
	StatusFinished  RoomStatus = "finished"
	StatusCancelled RoomStatus = "cancelled"
)

const MaxSeats = 2

type Room struct {
	RoomID    string     `db:"room_id"`
	GameType  string     `db:"game_type"`
	Status    RoomStatus `db:"status"`
	CreatedAt time.Time  `db:"created_at"`
	ExpiresAt time.Time  `db:"expires_at"`
}

type Player struct {
	RoomID    string    `db:"room_id"`
	PlayerKey string    `db:"player_key"`
	Nickname  string    `db:"nickname"`
	Seat      int       `db:"seat"`
	JoinedAt  time.Time `db:"joined_at"`
}

type GameState struct {
	RoomID    string    `db:"room_id"`
	State     string    `db:"state"`
	TurnSeat  int       `db:"turn_seat"`
	Version   int64     `db:"version"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Decode parses the stored payload into a match state.
func (g *GameState) Decode() (*game.State, error) {
	state := &game.State{}
	if err := json.Unmarshal([]byte(g.State), state); err != nil {
		return nil, fmt.Errorf("decode state of room %s: %w", g.RoomID, err)
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("room %s: %w", g.RoomID, err)
	}
	return state, nil
}

func (r *Room) View() parser.Room {
	return parser.Room{
		RoomID:    r.RoomID,
		GameType:  r.GameType,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
	}
}

func (p *Player) View() parser.Player {
	return parser.Player{PlayerKey: p.PlayerKey, Nickname: p.Nickname, Seat: p.Seat}
}

func (g *GameState) View() parser.GameState {
	return parser.GameState{
		RoomID:    g.RoomID,
		State:     json.RawMessage(g.State),
		TurnSeat:  g.TurnSeat,
		Version:   g.Version,
		UpdatedAt: g.UpdatedAt,
	}
}
