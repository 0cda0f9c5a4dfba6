package db

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/songowen/duelboard/internal/dice"
	apperrors "github.com/songowen/duelboard/internal/errors"
	"github.com/songowen/duelboard/internal/game"
	"github.com/songowen/duelboard/internal/logger"
	"github.com/songowen/duelboard/internal/parser"
)

type SqliteStoreTestSuite struct {
	suite.Suite
	store *SqliteStore
	ctx   context.Context
	now   time.Time
}

func (suite *SqliteStoreTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	suite.store = &SqliteStore{
		Logger:  logger.New("test_database"),
		Roller:  dice.NewRoller(42),
		RoomTTL: time.Hour,
		Now:     func() time.Time { return suite.now },
	}
	suite.Require().NoError(suite.store.SetupConnection(filepath.Join(suite.T().TempDir(), "duelboard_test")))
}

func (suite *SqliteStoreTestSuite) TearDownTest() {
	suite.store.CloseConnection()
}

func TestSqliteStoreSuite(t *testing.T) {
	suite.Run(t, new(SqliteStoreTestSuite))
}

func (suite *SqliteStoreTestSuite) playingRoom() string {
	roomID, seat, err := suite.store.CreateRoom(suite.ctx, parser.GameTypeYacht, "host-key", "Host")
	suite.Require().NoError(err)
	suite.Require().Equal(1, seat)
	seat, err = suite.store.JoinRoom(suite.ctx, roomID, "guest-key", "Guest")
	suite.Require().NoError(err)
	suite.Require().Equal(2, seat)
	return roomID
}

func move(m game.Move) json.RawMessage {
	data, _ := json.Marshal(m)
	return data
}

func (suite *SqliteStoreTestSuite) TestCreateRoomSeatsCreator() {
	roomID, seat, err := suite.store.CreateRoom(suite.ctx, parser.GameTypeYacht, "host-key", "")
	suite.Require().NoError(err)
	suite.Equal(1, seat)

	room, err := suite.store.GetRoom(suite.ctx, roomID)
	suite.Require().NoError(err)
	suite.Equal(StatusWaiting, room.Status)
	suite.True(suite.now.Add(time.Hour).Equal(room.ExpiresAt))

	players, err := suite.store.GetRoomPlayers(suite.ctx, roomID)
	suite.Require().NoError(err)
	suite.Require().Len(players, 1)
	suite.Equal("PLAYER-HOST", players[0].Nickname)

	state, err := suite.store.GetGameState(suite.ctx, roomID)
	suite.NoError(err)
	suite.Nil(state, "no state before the second player joins")
}

func (suite *SqliteStoreTestSuite) TestJoinStartsMatch() {
	roomID := suite.playingRoom()

	room, err := suite.store.GetRoom(suite.ctx, roomID)
	suite.Require().NoError(err)
	suite.Equal(StatusPlaying, room.Status)

	players, err := suite.store.GetRoomPlayers(suite.ctx, roomID)
	suite.Require().NoError(err)
	suite.Require().Len(players, 2)
	suite.Equal("host-key", players[0].PlayerKey)
	suite.Equal("guest-key", players[1].PlayerKey)

	row, err := suite.store.GetGameState(suite.ctx, roomID)
	suite.Require().NoError(err)
	suite.Require().NotNil(row)
	suite.Equal(int64(1), row.Version)
	suite.Equal(1, row.TurnSeat)
	state, err := row.Decode()
	suite.Require().NoError(err)
	suite.Equal(game.PhaseRolling, state.Phase)
	suite.Equal(dice.InitialDice(), state.Dice)
}

func (suite *SqliteStoreTestSuite) TestJoinErrors() {
	roomID := suite.playingRoom()

	seat, err := suite.store.JoinRoom(suite.ctx, roomID, "guest-key", "Guest")
	suite.NoError(err, "rejoining returns the held seat")
	suite.Equal(2, seat)

	_, err = suite.store.JoinRoom(suite.ctx, roomID, "third-key", "Third")
	suite.ErrorIs(err, apperrors.ErrRoomFull)

	_, err = suite.store.JoinRoom(suite.ctx, "8c1f3a7e-0000-4000-8000-000000000000", "third-key", "")
	suite.ErrorIs(err, apperrors.ErrRoomNotFound)

	waiting, _, err := suite.store.CreateRoom(suite.ctx, parser.GameTypeYacht, "host-key", "Host")
	suite.Require().NoError(err)
	suite.now = suite.now.Add(2 * time.Hour)
	_, err = suite.store.JoinRoom(suite.ctx, waiting, "late-key", "Late")
	suite.ErrorIs(err, apperrors.ErrRoomNotJoinable)

	expired, err := suite.store.ExpireRooms(suite.ctx)
	suite.NoError(err)
	suite.Equal(1, expired)
	room, err := suite.store.GetRoom(suite.ctx, waiting)
	suite.Require().NoError(err)
	suite.Equal(StatusCancelled, room.Status)

	_, err = suite.store.JoinRoom(suite.ctx, waiting, "host-key", "Host")
	suite.ErrorIs(err, apperrors.ErrRoomNotJoinable, "a cancelled room takes no one back")
}

func (suite *SqliteStoreTestSuite) TestMakeMoveVersioning() {
	roomID := suite.playingRoom()

	_, err := suite.store.MakeMove(suite.ctx, roomID, "host-key", 1, move(game.HoldMove(dice.HoldMask{})))
	suite.ErrorIs(err, apperrors.ErrInvalidMove, "holding needs a roll first")
	fresh, err := suite.store.GetGameState(suite.ctx, roomID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), fresh.Version)

	version, err := suite.store.MakeMove(suite.ctx, roomID, "host-key", 1, move(game.RollMove(dice.HoldMask{})))
	suite.Require().NoError(err)
	suite.Equal(int64(2), version)

	version, err = suite.store.MakeMove(suite.ctx, roomID, "host-key", 2, move(game.HoldMove(dice.HoldMask{true, true})))
	suite.Require().NoError(err)
	suite.Equal(int64(3), version)

	before, err := suite.store.GetGameState(suite.ctx, roomID)
	suite.Require().NoError(err)

	_, err = suite.store.MakeMove(suite.ctx, roomID, "host-key", 2, move(game.RollMove(dice.HoldMask{})))
	suite.ErrorIs(err, apperrors.ErrVersionMismatch)

	_, err = suite.store.MakeMove(suite.ctx, roomID, "guest-key", 3, move(game.RollMove(dice.HoldMask{})))
	suite.ErrorIs(err, apperrors.ErrNotYourTurn)

	_, err = suite.store.MakeMove(suite.ctx, roomID, "stranger", 3, move(game.RollMove(dice.HoldMask{})))
	suite.ErrorIs(err, apperrors.ErrNotYourTurn)

	_, err = suite.store.MakeMove(suite.ctx, roomID, "host-key", 3, json.RawMessage(`{"action":"dance"}`))
	suite.ErrorIs(err, apperrors.ErrInvalidMove)

	after, err := suite.store.GetGameState(suite.ctx, roomID)
	suite.Require().NoError(err)
	suite.Equal(before.Version, after.Version)
	suite.JSONEq(before.State, after.State, "rejected moves never mutate state")

	version, err = suite.store.MakeMove(suite.ctx, roomID, "host-key", 3, move(game.ScoreMove(dice.Choice)))
	suite.Require().NoError(err)
	suite.Equal(int64(4), version)

	row, err := suite.store.GetGameState(suite.ctx, roomID)
	suite.Require().NoError(err)
	suite.Equal(2, row.TurnSeat)
}

func (suite *SqliteStoreTestSuite) TestConcurrentMovesOnSameVersion() {
	roomID := suite.playingRoom()

	var wg sync.WaitGroup
	results := make([]error, 2)
	versions := make([]int64, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			versions[i], results[i] = suite.store.MakeMove(suite.ctx, roomID, "host-key", 1, move(game.RollMove(dice.HoldMask{})))
		}()
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for i, err := range results {
		switch {
		case err == nil:
			successes++
			suite.Equal(int64(2), versions[i])
		case apperrors.CodeOf(err) == apperrors.CodeVersionMismatch:
			conflicts++
		default:
			suite.Failf("unexpected error", "%v", err)
		}
	}
	suite.Equal(1, successes)
	suite.Equal(1, conflicts)

	row, err := suite.store.GetGameState(suite.ctx, roomID)
	suite.Require().NoError(err)
	suite.Equal(int64(2), row.Version)
	state, err := row.Decode()
	suite.Require().NoError(err)
	suite.Equal(1, state.RollsUsed)
}

func (suite *SqliteStoreTestSuite) TestFullMatchFinishesRoom() {
	roomID := suite.playingRoom()
	keys := map[int]string{1: "host-key", 2: "guest-key"}

	version := int64(1)
	for turn := 0; turn < 2*len(dice.Categories); turn++ {
		row, err := suite.store.GetGameState(suite.ctx, roomID)
		suite.Require().NoError(err)
		state, err := row.Decode()
		suite.Require().NoError(err)
		key := keys[row.TurnSeat]

		version, err = suite.store.MakeMove(suite.ctx, roomID, key, version, move(game.RollMove(dice.HoldMask{})))
		suite.Require().NoError(err)
		category := state.Available()[0]
		version, err = suite.store.MakeMove(suite.ctx, roomID, key, version, move(game.ScoreMove(category)))
		suite.Require().NoError(err)
	}
	suite.Equal(int64(1+4*len(dice.Categories)), version)

	room, err := suite.store.GetRoom(suite.ctx, roomID)
	suite.Require().NoError(err)
	suite.Equal(StatusFinished, room.Status)

	_, err = suite.store.MakeMove(suite.ctx, roomID, "host-key", version, move(game.RollMove(dice.HoldMask{})))
	suite.ErrorIs(err, apperrors.ErrRoomNotActive)

	row, err := suite.store.GetGameState(suite.ctx, roomID)
	suite.Require().NoError(err)
	state, err := row.Decode()
	suite.Require().NoError(err)
	suite.True(state.Finished())
}
