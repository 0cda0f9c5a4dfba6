//go:generate mockery --with-expecter=true --name=Repository --output=./mocks
package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/songowen/duelboard/internal/dice"
	"github.com/songowen/duelboard/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

// Repository is the room service's persistence. MakeMove is the only write
// path for a match once it started.
type Repository interface {
	CreateRoom(ctx context.Context, gameType, playerKey, nickname string) (string, int, error)
	JoinRoom(ctx context.Context, roomID, playerKey, nickname string) (int, error)
	MakeMove(ctx context.Context, roomID, playerKey string, expectedVersion int64, move json.RawMessage) (int64, error)
	GetRoom(ctx context.Context, roomID string) (*Room, error)
	GetRoomPlayers(ctx context.Context, roomID string) ([]Player, error)
	GetGameState(ctx context.Context, roomID string) (*GameState, error)
	ExpireRooms(ctx context.Context) (int, error)
	CloseConnection()
}

func SetupDB(dbName string, roomTTL time.Duration, roller dice.Roller) (Repository, error) {
	store := &SqliteStore{
		Logger:  logger.New("database"),
		Roller:  roller,
		RoomTTL: roomTTL,
		Now:     time.Now,
	}
	err := store.SetupConnection(dbName)
	return store, err
}
