package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/songowen/duelboard/internal/dice"
	apperrors "github.com/songowen/duelboard/internal/errors"
	"github.com/songowen/duelboard/internal/game"
	"github.com/songowen/duelboard/internal/logger"
	"github.com/songowen/duelboard/internal/utils"
)

var schema = `CREATE TABLE IF NOT EXISTS rooms (
  room_id varchar(36) PRIMARY KEY,
  game_type varchar(32) NOT NULL,
  status varchar(16) DEFAULT 'waiting' NOT NULL,
  created_at timestamp NOT NULL,
  expires_at timestamp NOT NULL,

  CONSTRAINT valid_status CHECK (status IN ('waiting', 'playing', 'finished', 'cancelled'))
);

CREATE TABLE IF NOT EXISTS room_players (
  room_id varchar(36) NOT NULL REFERENCES rooms(room_id) ON DELETE CASCADE,
  player_key varchar(64) NOT NULL,
  nickname varchar(32) NOT NULL,
  seat int NOT NULL,
  joined_at timestamp NOT NULL,
  PRIMARY KEY (room_id, player_key),
  UNIQUE (room_id, seat),

  CONSTRAINT valid_seat CHECK (seat IN (1, 2)),
  CONSTRAINT non_empty_player CHECK (TRIM(player_key) <> '')
);

CREATE TABLE IF NOT EXISTS game_states (
  room_id varchar(36) PRIMARY KEY REFERENCES rooms(room_id) ON DELETE CASCADE,
  state text NOT NULL,
  turn_seat int NOT NULL,
  version int DEFAULT 1 NOT NULL,
  updated_at timestamp NOT NULL
);`

type SqliteStore struct {
	Conn    *sqlx.DB
	Logger  logger.Logger
	Roller  dice.Roller
	RoomTTL time.Duration
	Now     func() time.Time
}

func (s *SqliteStore) SetupConnection(dbname string) error {
	sqliteDBFile := dbname + ".db"
	db, err := sqlx.Connect("sqlite3", sqliteDBFile+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		s.Logger.Error("Database setup failed", err)
		return err
	}
	// One connection serializes every transaction, which makes the version
	// check and the update in MakeMove a single atomic unit.
	db.SetMaxOpenConns(1)
	s.Conn = db
	if _, err := s.Conn.Exec(schema); err != nil {
		s.Logger.Error("Schema setup failed", err)
		s.Conn.Close()
		return err
	}
	s.Logger.Info(fmt.Sprintf("Database %s setup successfully", sqliteDBFile))
	return nil
}

func (s *SqliteStore) CloseConnection() {
	s.Logger.Info("Closing database connection")
	if err := s.Conn.Close(); err != nil {
		s.Logger.Error("Failed to tear down database connection", err)
		return
	}
	s.Logger.Info("Database connection closed successfully")
}

func (s *SqliteStore) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// withTx runs fn inside a transaction, rolling back when fn fails.
func (s *SqliteStore) withTx(ctx context.Context, op string, fn func(txn *sqlx.Tx) error) error {
	txn, err := s.Conn.BeginTxx(ctx, nil)
	if err != nil {
		s.Logger.Error(fmt.Sprintf("Failed to begin %s txn", op), err)
		return err
	}
	if err := fn(txn); err != nil {
		if errRoll := txn.Rollback(); errRoll != nil {
			s.Logger.Error(fmt.Sprintf("Failed to rollback %s txn", op), errRoll)
		}
		return err
	}
	if errCommit := txn.Commit(); errCommit != nil {
		s.Logger.Error(fmt.Sprintf("Failed to Commit %s txn", op), errCommit)
		return errCommit
	}
	return nil
}

func getRoom(ctx context.Context, q sqlx.QueryerContext, roomID string) (*Room, error) {
	room := &Room{}
	err := sqlx.GetContext(ctx, q, room, `SELECT * FROM rooms WHERE room_id = ?;`, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.New(apperrors.CodeRoomNotFound, roomID)
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *SqliteStore) CreateRoom(ctx context.Context, gameType, playerKey, nickname string) (string, int, error) {
	roomID := utils.NewRoomID()
	now := s.now()
	err := s.withTx(ctx, "CreateRoom", func(txn *sqlx.Tx) error {
		createRoomSQL := `INSERT INTO rooms(room_id, game_type, status, created_at, expires_at) VALUES(?, ?, ?, ?, ?);`
		if _, err := txn.ExecContext(ctx, createRoomSQL, roomID, gameType, StatusWaiting, now, now.Add(s.RoomTTL)); err != nil {
			s.Logger.Error("Failed to create room", err)
			return err
		}
		insertPlayerSQL := `INSERT INTO room_players(room_id, player_key, nickname, seat, joined_at) VALUES(?, ?, ?, ?, ?);`
		if _, err := txn.ExecContext(ctx, insertPlayerSQL, roomID, playerKey, utils.Nickname(nickname, playerKey), int(game.Seat1), now); err != nil {
			s.Logger.Error("Failed to save player", err)
			return err
		}
		return nil
	})
	if err != nil {
		return "", 0, apperrors.Wrap(apperrors.CodeCreateFailed, err)
	}
	s.Logger.Info(fmt.Sprintf("Room %s created", roomID))
	return roomID, int(game.Seat1), nil
}

// JoinRoom seats playerKey in the room. A player already seated gets the
// same seat back. The second join starts the match.
func (s *SqliteStore) JoinRoom(ctx context.Context, roomID, playerKey, nickname string) (int, error) {
	seat := 0
	err := s.withTx(ctx, "JoinRoom", func(txn *sqlx.Tx) error {
		room, err := getRoom(ctx, txn, roomID)
		if err != nil {
			return err
		}
		if room.Status == StatusCancelled {
			return apperrors.New(apperrors.CodeRoomNotJoinable, "room is cancelled")
		}
		players := []Player{}
		if err := txn.SelectContext(ctx, &players, `SELECT * FROM room_players WHERE room_id = ? ORDER BY seat;`, roomID); err != nil {
			return err
		}
		taken := map[int]bool{}
		for _, p := range players {
			if p.PlayerKey == playerKey {
				seat = p.Seat
				return nil
			}
			taken[p.Seat] = true
		}
		if len(players) >= MaxSeats {
			return apperrors.New(apperrors.CodeRoomFull, roomID)
		}
		now := s.now()
		if room.Status != StatusWaiting {
			return apperrors.New(apperrors.CodeRoomNotJoinable, fmt.Sprintf("room is %s", room.Status))
		}
		if now.After(room.ExpiresAt) {
			return apperrors.New(apperrors.CodeRoomNotJoinable, "room expired")
		}
		for candidate := int(game.Seat1); candidate <= MaxSeats; candidate++ {
			if !taken[candidate] {
				seat = candidate
				break
			}
		}
		insertPlayerSQL := `INSERT INTO room_players(room_id, player_key, nickname, seat, joined_at) VALUES(?, ?, ?, ?, ?);`
		if _, err := txn.ExecContext(ctx, insertPlayerSQL, roomID, playerKey, utils.Nickname(nickname, playerKey), seat, now); err != nil {
			s.Logger.Error("Failed to add player to room", err)
			return err
		}
		if len(players)+1 < MaxSeats {
			return nil
		}
		return s.startMatch(ctx, txn, roomID, now)
	})
	if err != nil {
		return 0, err
	}
	s.Logger.Info(fmt.Sprintf("Player joined room %s at seat %d", roomID, seat))
	return seat, nil
}

func (s *SqliteStore) startMatch(ctx context.Context, txn *sqlx.Tx, roomID string, now time.Time) error {
	state := game.NewState()
	encoded, err := json.Marshal(state)
	if err != nil {
		return err
	}
	insertStateSQL := `INSERT INTO game_states(room_id, state, turn_seat, version, updated_at) VALUES(?, ?, ?, 1, ?);`
	if _, err := txn.ExecContext(ctx, insertStateSQL, roomID, string(encoded), int(state.TurnSeat), now); err != nil {
		s.Logger.Error("Failed to create game state", err)
		return err
	}
	if _, err := txn.ExecContext(ctx, `UPDATE rooms SET status = ? WHERE room_id = ?;`, StatusPlaying, roomID); err != nil {
		s.Logger.Error("Failed to update room status", err)
		return err
	}
	s.Logger.Info(fmt.Sprintf("Match started in room %s", roomID))
	return nil
}

// MakeMove checks turn ownership and the expected version, applies the move
// and bumps the version, all inside one transaction.
func (s *SqliteStore) MakeMove(ctx context.Context, roomID, playerKey string, expectedVersion int64, payload json.RawMessage) (int64, error) {
	var newVersion int64
	err := s.withTx(ctx, "MakeMove", func(txn *sqlx.Tx) error {
		room, err := getRoom(ctx, txn, roomID)
		if err != nil {
			return err
		}
		if room.Status != StatusPlaying {
			return apperrors.New(apperrors.CodeRoomNotActive, fmt.Sprintf("room is %s", room.Status))
		}
		var seat int
		err = txn.GetContext(ctx, &seat, `SELECT seat FROM room_players WHERE room_id = ? AND player_key = ?;`, roomID, playerKey)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.New(apperrors.CodeNotYourTurn, "player is not seated in this room")
		}
		if err != nil {
			return err
		}
		row := &GameState{}
		if err := txn.GetContext(ctx, row, `SELECT * FROM game_states WHERE room_id = ?;`, roomID); err != nil {
			return err
		}
		if row.TurnSeat != seat {
			return apperrors.New(apperrors.CodeNotYourTurn, fmt.Sprintf("seat %d to move", row.TurnSeat))
		}
		if row.Version != expectedVersion {
			return apperrors.New(apperrors.CodeVersionMismatch, fmt.Sprintf("expected %d, have %d", expectedVersion, row.Version))
		}
		move, err := game.ParseMove(payload)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeInvalidMove, err)
		}
		state, err := row.Decode()
		if err != nil {
			return err
		}
		if err := state.Apply(game.Seat(seat), move, s.Roller); err != nil {
			return moveError(err)
		}
		encoded, err := json.Marshal(state)
		if err != nil {
			return err
		}
		updateStateSQL := `UPDATE game_states SET state = ?, turn_seat = ?, version = version + 1, updated_at = ?
WHERE room_id = ? AND version = ?;`
		result, err := txn.ExecContext(ctx, updateStateSQL, string(encoded), int(state.TurnSeat), s.now(), roomID, expectedVersion)
		if err != nil {
			s.Logger.Error("Failed to update game state", err)
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperrors.New(apperrors.CodeVersionMismatch, "state changed concurrently")
		}
		if state.Finished() {
			if _, err := txn.ExecContext(ctx, `UPDATE rooms SET status = ? WHERE room_id = ?;`, StatusFinished, roomID); err != nil {
				s.Logger.Error("Failed to finish room", err)
				return err
			}
		}
		newVersion = expectedVersion + 1
		return nil
	})
	if err != nil {
		s.Logger.Debug(fmt.Sprintf("Move rejected in room %s: %s", roomID, apperrors.CodeOf(err)))
		return 0, err
	}
	s.Logger.Info(fmt.Sprintf("Room %s moved to version %d", roomID, newVersion))
	return newVersion, nil
}

func moveError(err error) error {
	switch {
	case errors.Is(err, game.ErrNotYourTurn):
		return apperrors.Wrap(apperrors.CodeNotYourTurn, err)
	case errors.Is(err, game.ErrFinished):
		return apperrors.Wrap(apperrors.CodeRoomNotActive, err)
	default:
		return apperrors.Wrap(apperrors.CodeInvalidMove, err)
	}
}

func (s *SqliteStore) GetRoom(ctx context.Context, roomID string) (*Room, error) {
	return getRoom(ctx, s.Conn, roomID)
}

func (s *SqliteStore) GetRoomPlayers(ctx context.Context, roomID string) ([]Player, error) {
	if _, err := getRoom(ctx, s.Conn, roomID); err != nil {
		return nil, err
	}
	players := []Player{}
	err := s.Conn.SelectContext(ctx, &players, `SELECT * FROM room_players WHERE room_id = ? ORDER BY seat;`, roomID)
	if err != nil {
		s.Logger.Error("Failed to fetch room players", err)
		return nil, err
	}
	return players, nil
}

// GetGameState returns nil without error while the room still waits for
// its second player.
func (s *SqliteStore) GetGameState(ctx context.Context, roomID string) (*GameState, error) {
	if _, err := getRoom(ctx, s.Conn, roomID); err != nil {
		return nil, err
	}
	state := &GameState{}
	err := s.Conn.GetContext(ctx, state, `SELECT * FROM game_states WHERE room_id = ?;`, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.Logger.Error("Failed to fetch game state", err)
		return nil, err
	}
	return state, nil
}

// ExpireRooms cancels waiting rooms past their expiry and reports how many
// were cancelled.
func (s *SqliteStore) ExpireRooms(ctx context.Context) (int, error) {
	expired := 0
	err := s.withTx(ctx, "ExpireRooms", func(txn *sqlx.Tx) error {
		rooms := []Room{}
		if err := txn.SelectContext(ctx, &rooms, `SELECT * FROM rooms WHERE status = ?;`, StatusWaiting); err != nil {
			return err
		}
		now := s.now()
		for _, room := range rooms {
			if !now.After(room.ExpiresAt) {
				continue
			}
			if _, err := txn.ExecContext(ctx, `UPDATE rooms SET status = ? WHERE room_id = ?;`, StatusCancelled, room.RoomID); err != nil {
				return err
			}
			expired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		s.Logger.Info(fmt.Sprintf("Cancelled %d expired rooms", expired))
	}
	return expired, nil
}
