// Package lobby runs the ready and rematch handshakes between the two
// players of a room. Votes live only in client memory and travel over the
// room's broadcast channel, so every vote is repeated until the opponent's
// vote has been seen.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-set/v3"

	"github.com/songowen/duelboard/internal/client"
	apperrors "github.com/songowen/duelboard/internal/errors"
	"github.com/songowen/duelboard/internal/game"
	"github.com/songowen/duelboard/internal/logger"
	"github.com/songowen/duelboard/internal/parser"
	"github.com/songowen/duelboard/internal/utils"
)

const DefaultVoteInterval = 1400 * time.Millisecond

// handoffTicks bounds how many vote intervals the rematch creator keeps
// announcing the new room while the opponent is still in the old one.
const handoffTicks = 5

var ErrMatchNotFinished = errors.New("match not finished")

// Votes is the lobby as seen by the local player.
type Votes struct {
	RoomID      string
	SelfReady   bool
	PeerReady   bool
	SelfRematch bool
	PeerRematch bool
	NextRoomID  string
}

func (v Votes) BothReady() bool {
	return v.SelfReady && v.PeerReady
}

func (v Votes) BothRematch() bool {
	return v.SelfRematch && v.PeerRematch
}

type Lobby struct {
	Logger logger.Logger

	room     *client.Room
	self     string
	interval time.Duration

	mu        sync.Mutex
	roomID    string
	finished  bool
	ready     *set.Set[string]
	rematch   *set.Set[string]
	sentReady time.Time
	sentVote  time.Time
	starting  bool
	creator   bool
	nextRoom  string
	announced time.Time

	kick chan struct{}
}

func New(room *client.Room, interval time.Duration) *Lobby {
	if interval <= 0 {
		interval = DefaultVoteInterval
	}
	self := room.Session().Identity.PlayerKey
	l := &Lobby{
		Logger:   logger.New("lobby").With("player_key", self),
		room:     room,
		self:     self,
		interval: interval,
		ready:    set.New[string](2),
		rematch:  set.New[string](2),
		kick:     make(chan struct{}, 1),
	}
	room.On(parser.EventPregameReady, l.onReady)
	room.On(parser.EventRematchVote, l.onRematchVote)
	room.On(parser.EventRematchRoomCreated, l.onRematchCreated)
	return l
}

func (l *Lobby) signal() {
	select {
	case l.kick <- struct{}{}:
	default:
	}
}

// syncLocked aligns the votes with the room snapshot. All votes are dropped
// when the room changes; a match that just finished drops them too, but
// keeps an already announced successor room.
func (l *Lobby) syncLocked(snap client.Snapshot) {
	finished := snap.State != nil && snap.State.Finished()
	switch {
	case snap.RoomID != l.roomID:
		l.roomID = snap.RoomID
		l.finished = finished
		l.nextRoom = ""
		l.creator = false
		l.resetLocked()
	case finished && !l.finished:
		l.finished = true
		l.resetLocked()
	case !finished:
		l.finished = false
	}
}

func (l *Lobby) resetLocked() {
	l.ready = set.New[string](2)
	l.rematch = set.New[string](2)
	l.sentReady = time.Time{}
	l.sentVote = time.Time{}
	l.starting = false
}

func (l *Lobby) votesLocked(snap client.Snapshot) Votes {
	v := Votes{
		RoomID:      l.roomID,
		SelfReady:   l.ready.Contains(l.self),
		SelfRematch: l.rematch.Contains(l.self),
		NextRoomID:  l.nextRoom,
	}
	if peer, ok := snap.Opponent(); ok {
		v.PeerReady = l.ready.Contains(peer.PlayerKey)
		v.PeerRematch = l.rematch.Contains(peer.PlayerKey)
	}
	return v
}

func (l *Lobby) Votes() Votes {
	snap := l.room.Snapshot()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.syncLocked(snap)
	return l.votesLocked(snap)
}

// BoardUnlocked reports whether both players are ready and the match is on.
func (l *Lobby) BoardUnlocked() bool {
	snap := l.room.Snapshot()
	return l.Votes().BothReady() && snap.State != nil && !snap.State.Finished()
}

// SetReady records and announces the local ready vote.
func (l *Lobby) SetReady(ready bool) {
	snap := l.room.Snapshot()
	l.mu.Lock()
	l.syncLocked(snap)
	if ready {
		l.ready.Insert(l.self)
	} else {
		l.ready.Remove(l.self)
	}
	l.mu.Unlock()
	l.sendReady()
	l.signal()
}

// VoteRematch records and announces the local rematch vote. Only a finished
// match can be voted on.
func (l *Lobby) VoteRematch() error {
	snap := l.room.Snapshot()
	if snap.State == nil || !snap.State.Finished() {
		return ErrMatchNotFinished
	}
	l.mu.Lock()
	l.syncLocked(snap)
	l.rematch.Insert(l.self)
	l.mu.Unlock()
	l.Logger.Info(fmt.Sprintf("Voted rematch in room %s", snap.RoomID))
	l.sendRematch()
	l.signal()
	return nil
}

func (l *Lobby) sendReady() {
	l.mu.Lock()
	ready := l.ready.Contains(l.self)
	l.sentReady = time.Now()
	l.mu.Unlock()
	if err := l.room.Broadcast(parser.PregameReady("", l.self, ready)); err != nil {
		l.Logger.Debug("pregame_ready not sent, will repeat")
	}
}

func (l *Lobby) sendRematch() {
	l.mu.Lock()
	l.sentVote = time.Now()
	l.mu.Unlock()
	if err := l.room.Broadcast(parser.RematchVote("", l.self, true)); err != nil {
		l.Logger.Debug("rematch_vote not sent, will repeat")
	}
}

func (l *Lobby) onReady(e parser.Event) {
	if e.PlayerKey == "" || e.PlayerKey == l.self {
		return
	}
	snap := l.room.Snapshot()
	l.mu.Lock()
	l.syncLocked(snap)
	if e.Ready {
		l.ready.Insert(e.PlayerKey)
	} else {
		l.ready.Remove(e.PlayerKey)
	}
	// Answer a vote so a late subscriber learns ours without waiting a tick.
	reply := l.ready.Contains(l.self) && time.Since(l.sentReady) > l.interval/2
	l.mu.Unlock()
	if reply {
		l.sendReady()
	}
	l.signal()
}

func (l *Lobby) onRematchVote(e parser.Event) {
	if e.PlayerKey == "" || e.PlayerKey == l.self {
		return
	}
	snap := l.room.Snapshot()
	l.mu.Lock()
	l.syncLocked(snap)
	if e.Ready {
		l.rematch.Insert(e.PlayerKey)
	} else {
		l.rematch.Remove(e.PlayerKey)
	}
	reply := l.rematch.Contains(l.self) && l.nextRoom == "" && time.Since(l.sentVote) > l.interval/2
	l.mu.Unlock()
	if reply {
		l.sendRematch()
	}
	l.signal()
}

func (l *Lobby) onRematchCreated(e parser.Event) {
	next, err := utils.ParseRoomID(e.NextRoomID)
	if err != nil {
		l.Logger.Warn(fmt.Sprintf("Ignoring rematch room %q", e.NextRoomID))
		return
	}
	snap := l.room.Snapshot()
	l.mu.Lock()
	l.syncLocked(snap)
	if l.nextRoom == "" && next != snap.RoomID {
		l.nextRoom = next
	}
	l.mu.Unlock()
	l.signal()
}

// Run repeats unanswered votes every interval and performs the rematch
// hand-off once both players voted for it.
func (l *Lobby) Run(ctx context.Context) error {
	watch := l.room.Watch()
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-watch:
			l.advance(ctx)
		case <-l.kick:
			l.advance(ctx)
		case <-ticker.C:
			l.repeat()
			l.advance(ctx)
		}
	}
}

func (l *Lobby) repeat() {
	snap := l.room.Snapshot()
	l.mu.Lock()
	l.syncLocked(snap)
	v := l.votesLocked(snap)
	announce := l.creator && l.nextRoom != ""
	next := l.nextRoom
	l.mu.Unlock()

	if v.SelfReady && !v.PeerReady {
		l.sendReady()
	}
	if v.SelfRematch && !v.PeerRematch && next == "" {
		l.sendRematch()
	}
	if announce {
		l.announce(next)
	}
}

func (l *Lobby) announce(next string) {
	if err := l.room.Broadcast(parser.RematchRoomCreated("", next)); err != nil {
		l.Logger.Debug("rematch_room_created not sent")
	}
}

func (l *Lobby) advance(ctx context.Context) {
	snap := l.room.Snapshot()
	l.mu.Lock()
	l.syncLocked(snap)
	v := l.votesLocked(snap)
	next := l.nextRoom
	create := next == "" && !l.starting && snap.Seat == game.Seat1 && v.BothRematch()
	if create {
		l.starting = true
	}
	wait := false
	if next != "" && l.creator {
		// Stay until the opponent moved over, or give up waiting.
		peer, ok := snap.Opponent()
		wait = ok && l.room.Online(peer.PlayerKey) && time.Since(l.announced) < handoffTicks*l.interval
	}
	l.mu.Unlock()

	switch {
	case create:
		l.createNext(ctx, snap.RoomID)
	case next != "" && next != snap.RoomID && !wait:
		l.enterNext(ctx, next)
	}
}

// createNext is run by seat 1 only, so one rematch yields one room.
func (l *Lobby) createNext(ctx context.Context, current string) {
	created, err := l.room.Session().CreateRoom(ctx)
	if err != nil {
		l.Logger.Error("Failed to create rematch room", err)
		l.mu.Lock()
		if l.roomID == current {
			l.starting = false
		}
		l.mu.Unlock()
		return
	}
	l.Logger.Info(fmt.Sprintf("Created rematch room %s after %s", created.RoomID, current))
	l.mu.Lock()
	if l.roomID == current {
		l.nextRoom = created.RoomID
		l.creator = true
		l.announced = time.Now()
	}
	l.mu.Unlock()
	l.announce(created.RoomID)
	l.signal()
}

// enterNext moves the room to next and votes ready there.
func (l *Lobby) enterNext(ctx context.Context, next string) {
	if _, err := l.room.Join(ctx, next); err != nil {
		l.Logger.Error(fmt.Sprintf("Failed to join rematch room %s", next), err)
		if apperrors.CodeOf(err).Kind() != apperrors.KindTransport {
			l.mu.Lock()
			if l.nextRoom == next {
				l.nextRoom = ""
			}
			l.mu.Unlock()
		}
		return
	}
	l.Logger.Info(fmt.Sprintf("Moved to rematch room %s", next))
	l.SetReady(true)
}
