package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/songowen/duelboard/internal/channel"
	"github.com/songowen/duelboard/internal/config"
	"github.com/songowen/duelboard/internal/db"
	"github.com/songowen/duelboard/internal/dice"
	apperrors "github.com/songowen/duelboard/internal/errors"
	"github.com/songowen/duelboard/internal/logger"
	"github.com/songowen/duelboard/internal/parser"
	"github.com/songowen/duelboard/internal/utils"
)

const HTTP_API_V1_PREFIX = "/api/v1"

const expirySweepInterval = time.Minute

type GameServer struct {
	Db          db.Repository
	Logger      logger.Logger
	Hub         *channel.Hub
	Router      *mux.Router
	port        string
	wssUpgrader websocket.Upgrader
}

func NewGameServer(cfg config.ServerConfig) (*GameServer, error) {
	seed, err := dice.NewSeed()
	if err != nil {
		return nil, err
	}
	repo, err := db.SetupDB(cfg.DB, cfg.RoomTTL, dice.NewRoller(seed))
	if err != nil {
		return nil, err
	}
	return NewGameServerWithRepo(repo, channel.NewHub(cfg.PresenceTTL), cfg.Port), nil
}

// NewGameServerWithRepo wires the routes over an existing repository and hub.
func NewGameServerWithRepo(repo db.Repository, hub *channel.Hub, port string) *GameServer {
	root := mux.NewRouter()
	router := root.PathPrefix(HTTP_API_V1_PREFIX).Subrouter()
	gs := &GameServer{
		Db:     repo,
		Logger: logger.New("api_server"),
		Hub:    hub,
		Router: root,
		port:   port,
		wssUpgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	router.HandleFunc("/rooms", gs.CreateRoom).Methods("POST")
	router.HandleFunc("/rooms/{roomId}", gs.GetRoom).Methods("GET")
	router.HandleFunc("/rooms/{roomId}/players", gs.JoinRoom).Methods("POST")
	router.HandleFunc("/rooms/{roomId}/players", gs.GetRoomPlayers).Methods("GET")
	router.HandleFunc("/rooms/{roomId}/moves", gs.MakeMove).Methods("POST")
	router.HandleFunc("/rooms/{roomId}/state", gs.GetGameState).Methods("GET")
	router.HandleFunc("/connect/rooms/{roomId}", gs.Connect)
	return gs
}

// Run serves until ctx is cancelled, then shuts down.
func (s *GameServer) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.port),
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.Logger.Info(fmt.Sprintf("Starting server on port %s", s.port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error(fmt.Sprintf("Failed to start server on port %s", s.port), err)
			return err
		}
		return nil
	})
	g.Go(func() error {
		s.Hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		s.expireRooms(ctx)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Hub.Close()
		return httpServer.Shutdown(shutdownCtx)
	})
	err := g.Wait()
	s.Shutdown()
	return err
}

func (s *GameServer) expireRooms(ctx context.Context) {
	ticker := time.NewTicker(expirySweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Db.ExpireRooms(ctx); err != nil && ctx.Err() == nil {
				s.Logger.Error("Failed to expire rooms", err)
			}
		}
	}
}

func (s *GameServer) Shutdown() {
	s.Logger.Info("Shutting down server....")
	s.Db.CloseConnection()
	s.Logger.Info("Goodbye !")
}

func (s *GameServer) ReadRequestBody(request *http.Request) ([]byte, error) {
	bytesRead, err := io.ReadAll(request.Body)
	if err != nil {
		s.Logger.Error("Failed to read request body", err)
		return nil, err
	}
	return bytesRead, nil
}

func (s *GameServer) sendResponse(writer http.ResponseWriter, status int, data any) {
	body := parser.Response{}
	encoded, err := json.Marshal(data)
	if err != nil {
		s.Logger.Error("Failed to encode response data", err)
		s.sendError(writer, err, apperrors.CodeUnknown)
		return
	}
	body.Data = encoded
	s.writeJSON(writer, status, body)
}

// sendError answers with the error's code, or fallback when it carries none.
func (s *GameServer) sendError(writer http.ResponseWriter, err error, fallback apperrors.Code) {
	code := apperrors.CodeOf(err)
	if code == apperrors.CodeUnknown || code == "" {
		code = fallback
	}
	s.writeJSON(writer, code.HTTPStatus(), parser.Response{
		Error:   true,
		Code:    string(code),
		Message: apperrors.Message(language.English, code),
	})
}

func (s *GameServer) writeJSON(writer http.ResponseWriter, status int, body parser.Response) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(body); err != nil {
		s.Logger.Info("Failed to write response body")
	}
}

// roomID validates the path parameter, answering the request itself when
// it is malformed.
func (s *GameServer) roomID(writer http.ResponseWriter, request *http.Request) (string, bool) {
	roomID, err := utils.ParseRoomID(mux.Vars(request)["roomId"])
	if err != nil {
		s.Logger.Debug(err.Error())
		s.sendError(writer, apperrors.ErrInvalidRoomID, apperrors.CodeInvalidRoomID)
		return "", false
	}
	return roomID, true
}

func (s *GameServer) CreateRoom(writer http.ResponseWriter, request *http.Request) {
	s.Logger.Info("Player is creating a new room")
	data, err := s.ReadRequestBody(request)
	if err != nil {
		s.sendError(writer, apperrors.ErrInvalidRequest, apperrors.CodeInvalidRequest)
		return
	}
	roomRequest, err := parser.ParseCreateRoomRequest(data)
	if err != nil {
		s.Logger.Error("Failed to parse create room request", err)
		s.sendError(writer, apperrors.ErrInvalidRequest, apperrors.CodeInvalidRequest)
		return
	}
	roomRequest.PlayerKey = strings.TrimSpace(roomRequest.PlayerKey)
	if roomRequest.GameType == "" {
		roomRequest.GameType = parser.GameTypeYacht
	}
	if roomRequest.PlayerKey == "" || roomRequest.GameType != parser.GameTypeYacht {
		s.Logger.Debug("Bad create room request")
		s.sendError(writer, apperrors.ErrInvalidRequest, apperrors.CodeInvalidRequest)
		return
	}
	roomID, seat, err := s.Db.CreateRoom(request.Context(), roomRequest.GameType, roomRequest.PlayerKey, roomRequest.Nickname)
	if err != nil {
		s.Logger.Error("CreateRoom request failed", err)
		s.sendError(writer, err, apperrors.CodeCreateFailed)
		return
	}
	s.sendResponse(writer, http.StatusCreated, parser.CreateRoomResponse{RoomID: roomID, Seat: seat})
}

func (s *GameServer) JoinRoom(writer http.ResponseWriter, request *http.Request) {
	roomID, ok := s.roomID(writer, request)
	if !ok {
		return
	}
	s.Logger.Info(fmt.Sprintf("Player is joining room %s", roomID))
	data, err := s.ReadRequestBody(request)
	if err != nil {
		s.sendError(writer, apperrors.ErrInvalidRequest, apperrors.CodeInvalidRequest)
		return
	}
	joinRequest, err := parser.ParseJoinRoomRequest(data)
	if err != nil || strings.TrimSpace(joinRequest.PlayerKey) == "" {
		s.Logger.Error("Failed to parse join room request", err)
		s.sendError(writer, apperrors.ErrInvalidRequest, apperrors.CodeInvalidRequest)
		return
	}
	seat, err := s.Db.JoinRoom(request.Context(), roomID, strings.TrimSpace(joinRequest.PlayerKey), joinRequest.Nickname)
	if err != nil {
		s.Logger.Debug(fmt.Sprintf("Join of room %s rejected: %v", roomID, err))
		s.sendError(writer, err, apperrors.CodeJoinFailed)
		return
	}
	s.sendResponse(writer, http.StatusOK, parser.JoinRoomResponse{Seat: seat})
}

func (s *GameServer) MakeMove(writer http.ResponseWriter, request *http.Request) {
	roomID, ok := s.roomID(writer, request)
	if !ok {
		return
	}
	data, err := s.ReadRequestBody(request)
	if err != nil {
		s.sendError(writer, apperrors.ErrInvalidRequest, apperrors.CodeInvalidRequest)
		return
	}
	moveRequest, err := parser.ParseMakeMoveRequest(data)
	if err != nil || moveRequest.PlayerKey == "" || len(moveRequest.Move) == 0 || moveRequest.ExpectedVersion < 1 {
		s.Logger.Debug(fmt.Sprintf("Bad move request for room %s", roomID))
		s.sendError(writer, apperrors.ErrInvalidRequest, apperrors.CodeInvalidRequest)
		return
	}
	version, err := s.Db.MakeMove(request.Context(), roomID, moveRequest.PlayerKey, moveRequest.ExpectedVersion, moveRequest.Move)
	if err != nil {
		s.sendError(writer, err, apperrors.CodeMoveFailed)
		return
	}
	s.sendResponse(writer, http.StatusOK, parser.MakeMoveResponse{NewVersion: version})
}

func (s *GameServer) GetRoom(writer http.ResponseWriter, request *http.Request) {
	roomID, ok := s.roomID(writer, request)
	if !ok {
		return
	}
	room, err := s.Db.GetRoom(request.Context(), roomID)
	if err != nil {
		s.sendError(writer, err, apperrors.CodeUnknown)
		return
	}
	s.sendResponse(writer, http.StatusOK, room.View())
}

func (s *GameServer) GetRoomPlayers(writer http.ResponseWriter, request *http.Request) {
	roomID, ok := s.roomID(writer, request)
	if !ok {
		return
	}
	players, err := s.Db.GetRoomPlayers(request.Context(), roomID)
	if err != nil {
		s.sendError(writer, err, apperrors.CodeUnknown)
		return
	}
	views := make([]parser.Player, 0, len(players))
	for _, p := range players {
		views = append(views, p.View())
	}
	s.sendResponse(writer, http.StatusOK, views)
}

// GetGameState answers with null data while the room has no match yet.
func (s *GameServer) GetGameState(writer http.ResponseWriter, request *http.Request) {
	roomID, ok := s.roomID(writer, request)
	if !ok {
		return
	}
	state, err := s.Db.GetGameState(request.Context(), roomID)
	if err != nil {
		s.sendError(writer, err, apperrors.CodeUnknown)
		return
	}
	if state == nil {
		s.sendResponse(writer, http.StatusOK, nil)
		return
	}
	s.sendResponse(writer, http.StatusOK, state.View())
}

// Connect upgrades a seated player to the room's broadcast channel.
func (s *GameServer) Connect(writer http.ResponseWriter, request *http.Request) {
	roomID, ok := s.roomID(writer, request)
	if !ok {
		return
	}
	playerKey := request.URL.Query().Get("player_key")
	players, err := s.Db.GetRoomPlayers(request.Context(), roomID)
	if err != nil {
		s.sendError(writer, err, apperrors.CodeUnknown)
		return
	}
	seated := false
	for _, p := range players {
		if p.PlayerKey == playerKey {
			seated = true
			break
		}
	}
	if !seated {
		s.Logger.Debug(fmt.Sprintf("Refusing channel for a player not seated in room %s", roomID))
		s.sendError(writer, apperrors.New(apperrors.CodeInvalidRequest, "not seated"), apperrors.CodeInvalidRequest)
		return
	}
	conn, err := s.wssUpgrader.Upgrade(writer, request, nil)
	if err != nil {
		s.Logger.Error("Failed to upgrade to WS connection", err)
		return
	}
	s.Hub.Serve(conn, roomID, playerKey)
}
