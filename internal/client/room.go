package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/songowen/duelboard/internal/dice"
	apperrors "github.com/songowen/duelboard/internal/errors"
	"github.com/songowen/duelboard/internal/game"
	"github.com/songowen/duelboard/internal/logger"
	"github.com/songowen/duelboard/internal/parser"
)

// Snapshot is the last authoritative view of a room. State is nil until
// the second player joined.
type Snapshot struct {
	RoomID  string
	Seat    game.Seat
	Room    *parser.Room
	Players []parser.Player
	State   *game.State
	Version int64
	Busy    bool
	Err     error
}

// MySeatToMove reports whether the local player may act now.
func (s Snapshot) MySeatToMove() bool {
	return s.State != nil && !s.State.Finished() && s.State.TurnSeat == s.Seat
}

// Opponent returns the other seated player, if any.
func (s Snapshot) Opponent() (parser.Player, bool) {
	for _, p := range s.Players {
		if p.Seat != int(s.Seat) {
			return p, true
		}
	}
	return parser.Player{}, false
}

type RoomOptions struct {
	PollInterval      time.Duration
	HeartbeatInterval time.Duration
}

// Room keeps a local view of one room in sync with the room service.
// Broadcast events and a polling ticker both trigger the same refetch; the
// refetched state is the only thing ever shown.
type Room struct {
	Logger logger.Logger

	session *Session
	opts    RoomOptions
	scratch dice.Roller

	mu        sync.Mutex
	snap      Snapshot
	presence  map[string]bool
	channel   *Channel
	chanRoom  string
	listeners map[parser.EventType][]func(parser.Event)
	watchers  []chan struct{}

	wake     chan struct{}
	switched chan struct{}
}

func NewRoom(session *Session, opts RoomOptions) *Room {
	return &Room{
		Logger:    logger.New("room_client").With("player_key", session.Identity.PlayerKey),
		session:   session,
		opts:      opts,
		scratch:   dice.NewRoller(1),
		presence:  make(map[string]bool),
		listeners: make(map[parser.EventType][]func(parser.Event)),
		wake:      make(chan struct{}, 1),
		switched:  make(chan struct{}, 1),
	}
}

// Create allocates a fresh room and enters it as seat 1.
func (r *Room) Create(ctx context.Context) (string, error) {
	created, err := r.session.CreateRoom(ctx)
	if err != nil {
		return "", err
	}
	r.enter(created.RoomID, game.Seat(created.Seat))
	return created.RoomID, nil
}

// Join takes a seat in roomID and makes it the current room.
func (r *Room) Join(ctx context.Context, roomID string) (game.Seat, error) {
	roomID, err := checkRoomID(roomID)
	if err != nil {
		return 0, err
	}
	seat, err := r.session.JoinRoom(ctx, roomID)
	if err != nil {
		return 0, err
	}
	r.enter(roomID, game.Seat(seat))
	return game.Seat(seat), nil
}

func (r *Room) enter(roomID string, seat game.Seat) {
	r.mu.Lock()
	changed := r.snap.RoomID != roomID
	r.snap = Snapshot{RoomID: roomID, Seat: seat}
	r.presence = make(map[string]bool)
	r.mu.Unlock()
	r.Logger.Info(fmt.Sprintf("Entered room %s as seat %d", roomID, seat))
	if changed {
		signal(r.switched)
	}
	r.notify()
}

func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.snap
	if snap.State != nil {
		snap.State = snap.State.Clone()
	}
	snap.Players = append([]parser.Player(nil), snap.Players...)
	return snap
}

func (r *Room) Session() *Session {
	return r.session
}

func (r *Room) RoomID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap.RoomID
}

// Online reports the advisory presence of playerKey.
func (r *Room) Online(playerKey string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presence[playerKey]
}

// On registers fn for broadcast events of type t. Listeners survive room
// switches.
func (r *Room) On(t parser.EventType, fn func(parser.Event)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[t] = append(r.listeners[t], fn)
}

// Watch returns a channel signalled after every snapshot change.
func (r *Room) Watch() <-chan struct{} {
	ch := make(chan struct{}, 1)
	r.mu.Lock()
	r.watchers = append(r.watchers, ch)
	r.mu.Unlock()
	return ch
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (r *Room) notify() {
	r.mu.Lock()
	watchers := append([]chan struct{}(nil), r.watchers...)
	r.mu.Unlock()
	for _, ch := range watchers {
		signal(ch)
	}
}

// Broadcast sends event on the current room's channel. Delivery is best
// effort; nothing is sent while the channel still belongs to a room we left.
func (r *Room) Broadcast(event parser.Event) error {
	return r.broadcastIn("", event)
}

// broadcastIn sends event only while roomID, when set, is still the
// current room.
func (r *Room) broadcastIn(roomID string, event parser.Event) error {
	r.mu.Lock()
	if roomID != "" && roomID != r.snap.RoomID {
		r.mu.Unlock()
		return errRoomChanged
	}
	ch := r.channel
	if r.chanRoom != r.snap.RoomID {
		ch = nil
	}
	event.RoomID = r.snap.RoomID
	r.mu.Unlock()
	if ch == nil {
		return errNotConnected
	}
	return ch.Send(event)
}

// Connected reports whether the broadcast channel is up.
func (r *Room) Connected() bool {
	r.mu.Lock()
	ch := r.channel
	r.mu.Unlock()
	return ch != nil && ch.Connected()
}

func (r *Room) dispatch(roomID string, event parser.Event) {
	r.mu.Lock()
	if r.snap.RoomID != roomID {
		r.mu.Unlock()
		return
	}
	if event.Type == parser.EventPresenceSync {
		r.presence = make(map[string]bool, len(event.Online))
		for _, key := range event.Online {
			r.presence[key] = true
		}
	}
	listeners := slices.Clone(r.listeners[event.Type])
	r.mu.Unlock()

	switch event.Type {
	case parser.EventStateUpdated:
		signal(r.wake)
	case parser.EventPresenceSync:
		r.notify()
	}
	for _, fn := range listeners {
		fn(event)
	}
}

// attach connects the broadcast channel of the current room and returns a
// function that tears it down.
func (r *Room) attach(ctx context.Context) context.CancelFunc {
	roomID := r.RoomID()
	if roomID == "" {
		return func() {}
	}
	url, err := r.session.ChannelURL(roomID)
	if err != nil {
		r.Logger.Error("Bad channel address", err)
		return func() {}
	}
	ch := NewChannel(url, r.opts.HeartbeatInterval,
		func(e parser.Event) { r.dispatch(roomID, e) },
		func() { signal(r.wake) },
	)
	r.mu.Lock()
	r.channel = ch
	r.chanRoom = roomID
	r.mu.Unlock()

	chCtx, cancel := context.WithCancel(ctx)
	go ch.Run(chCtx)
	return func() {
		cancel()
		r.mu.Lock()
		if r.channel == ch {
			r.channel = nil
		}
		r.mu.Unlock()
	}
}

// Run drives refetching until ctx is done: on broadcast wake-ups, on every
// poll tick, and right after entering a room.
func (r *Room) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.opts.PollInterval)
	defer ticker.Stop()
	select {
	case <-r.switched:
	default:
	}
	detach := r.attach(ctx)
	defer func() { detach() }()
	r.refetch(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.switched:
			detach()
			detach = r.attach(ctx)
			r.refetch(ctx)
		case <-r.wake:
			r.refetch(ctx)
		case <-ticker.C:
			r.refetch(ctx)
		}
	}
}

func (r *Room) refetch(ctx context.Context) {
	if err := r.RefetchLatest(ctx); err != nil && ctx.Err() == nil {
		r.Logger.Debug(fmt.Sprintf("Refetch failed: %v", err))
	}
}

// RefetchLatest loads room, players and state in parallel and replaces the
// snapshot. Responses for a room we already left, or older than what we
// hold, are dropped.
func (r *Room) RefetchLatest(ctx context.Context) error {
	roomID := r.RoomID()
	if roomID == "" {
		return nil
	}
	var (
		room    *parser.Room
		players []parser.Player
		view    *parser.GameState
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		room, err = r.session.GetRoom(gctx, roomID)
		return err
	})
	g.Go(func() error {
		var err error
		players, err = r.session.GetRoomPlayers(gctx, roomID)
		return err
	})
	g.Go(func() error {
		var err error
		view, err = r.session.GetGameState(gctx, roomID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	var state *game.State
	if view != nil {
		state = &game.State{}
		if err := json.Unmarshal(view.State, state); err != nil {
			return fmt.Errorf("decode state: %w", err)
		}
		if err := state.Validate(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	if r.snap.RoomID != roomID {
		r.mu.Unlock()
		return nil
	}
	if view != nil && view.Version < r.snap.Version {
		r.mu.Unlock()
		return nil
	}
	r.snap.Room = room
	r.snap.Players = players
	if view != nil {
		r.snap.State = state
		r.snap.Version = view.Version
	}
	r.mu.Unlock()
	r.notify()
	return nil
}

// Roll rerolls the unheld dice.
func (r *Room) Roll(ctx context.Context) error {
	return r.submit(ctx, func(s Snapshot) (game.Move, error) {
		return game.RollMove(s.State.Holds), nil
	})
}

// ToggleHold flips the hold flag of one die.
func (r *Room) ToggleHold(ctx context.Context, index int) error {
	return r.submit(ctx, func(s Snapshot) (game.Move, error) {
		next := s.State.Clone()
		if err := next.ToggleHold(s.Seat, index); err != nil {
			return game.Move{}, err
		}
		return game.HoldMove(next.Holds), nil
	})
}

// Score locks category for the current dice.
func (r *Room) Score(ctx context.Context, category dice.Category) error {
	return r.submit(ctx, func(Snapshot) (game.Move, error) {
		return game.ScoreMove(category), nil
	})
}

// Submit sends an already built move.
func (r *Room) Submit(ctx context.Context, move game.Move) error {
	return r.submit(ctx, func(Snapshot) (game.Move, error) { return move, nil })
}

// submit checks the move against the local view, sends it with the known
// version and refetches whatever the outcome. A version_mismatch is never
// retried: the user decides again against the fresh state.
func (r *Room) submit(ctx context.Context, build func(Snapshot) (game.Move, error)) error {
	r.mu.Lock()
	if r.snap.Busy {
		r.mu.Unlock()
		return apperrors.ErrBusy
	}
	if r.snap.State == nil {
		r.mu.Unlock()
		return apperrors.ErrRoomNotActive
	}
	snap := r.snap
	move, err := build(snap)
	if err == nil {
		err = snap.State.Clone().Apply(snap.Seat, move, r.scratch)
	}
	if err != nil {
		r.mu.Unlock()
		return localMoveError(err)
	}
	r.snap.Busy = true
	r.snap.Err = nil
	r.mu.Unlock()
	r.notify()

	newVersion, err := r.session.MakeMove(ctx, snap.RoomID, snap.Version, move)

	r.mu.Lock()
	if r.snap.RoomID == snap.RoomID {
		r.snap.Busy = false
		r.snap.Err = err
	}
	r.mu.Unlock()

	if err != nil {
		r.Logger.Info(fmt.Sprintf("Move rejected: %s", apperrors.CodeOf(err)))
		r.refetch(ctx)
		return err
	}
	if err := r.broadcastIn(snap.RoomID, parser.StateUpdated(snap.RoomID, newVersion)); err != nil {
		if errors.Is(err, errRoomChanged) {
			return nil
		}
		r.Logger.Debug("state_updated not broadcast, peers will poll")
	}
	r.refetch(ctx)
	return nil
}

func localMoveError(err error) error {
	switch {
	case errors.Is(err, game.ErrNotYourTurn):
		return apperrors.Wrap(apperrors.CodeNotYourTurn, err)
	case errors.Is(err, game.ErrFinished):
		return apperrors.Wrap(apperrors.CodeRoomNotActive, err)
	default:
		return apperrors.Wrap(apperrors.CodeInvalidMove, err)
	}
}

// Message renders the last move error for the user, or "" when the last
// move went through.
func (r *Room) Message(lang language.Tag) string {
	r.mu.Lock()
	err := r.snap.Err
	r.mu.Unlock()
	if err == nil {
		return ""
	}
	return apperrors.UserMessage(lang, err, apperrors.CodeMoveFailed)
}
