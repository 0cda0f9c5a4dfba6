package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-set/v3"

	"github.com/songowen/duelboard/internal/logger"
	"github.com/songowen/duelboard/internal/parser"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Hub relays broadcast events between the members of a room and tracks
// which player keys are online. Nothing it carries is authoritative; clients
// refetch room state from the repository.
type Hub struct {
	Logger      logger.Logger
	PresenceTTL time.Duration
	Now         func() time.Time

	mu    sync.RWMutex
	rooms map[string]*room
}

type room struct {
	members  map[*member]struct{}
	online   *set.Set[string]
	lastSeen map[string]time.Time
}

type member struct {
	roomID    string
	playerKey string
	conn      *websocket.Conn
	send      chan []byte
}

func NewHub(presenceTTL time.Duration) *Hub {
	return &Hub{
		Logger:      logger.New("channel_hub"),
		PresenceTTL: presenceTTL,
		Now:         time.Now,
		rooms:       make(map[string]*room),
	}
}

// Serve owns conn until the peer goes away.
func (h *Hub) Serve(conn *websocket.Conn, roomID, playerKey string) {
	m := &member{
		roomID:    roomID,
		playerKey: playerKey,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
	}
	h.join(m)
	done := make(chan struct{})
	go h.writePump(m, done)
	h.readPump(m)
	h.leave(m)
	close(m.send)
	<-done
}

func (h *Hub) readPump(m *member) {
	m.conn.SetReadLimit(maxMessageSize)
	m.conn.SetReadDeadline(time.Now().Add(pongWait))
	m.conn.SetPongHandler(func(string) error {
		return m.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := m.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logger.Error("Channel connection dropped", err)
			}
			return
		}
		m.conn.SetReadDeadline(time.Now().Add(pongWait))
		event, err := parser.ParseEvent(data)
		if err != nil {
			h.Logger.Debug(fmt.Sprintf("Ignoring malformed event in room %s", m.roomID))
			continue
		}
		h.handle(m, event)
	}
}

func (h *Hub) writePump(m *member, done chan<- struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		m.conn.Close()
		close(done)
	}()
	for {
		select {
		case msg, ok := <-m.send:
			m.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				m.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := m.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			m.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := m.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) handle(m *member, event *parser.Event) {
	h.touch(m.roomID, m.playerKey)
	if !event.Type.Relayed() {
		return
	}
	event.RoomID = m.roomID
	switch event.Type {
	case parser.EventPregameReady, parser.EventRematchVote:
		event.PlayerKey = m.playerKey
	}
	h.broadcast(m.roomID, *event, m)
}

func (h *Hub) join(m *member) {
	h.mu.Lock()
	r, ok := h.rooms[m.roomID]
	if !ok {
		r = &room{
			members:  make(map[*member]struct{}),
			online:   set.New[string](2),
			lastSeen: make(map[string]time.Time),
		}
		h.rooms[m.roomID] = r
	}
	r.members[m] = struct{}{}
	r.online.Insert(m.playerKey)
	r.lastSeen[m.playerKey] = h.Now()
	h.mu.Unlock()

	h.Logger.Info(fmt.Sprintf("Player connected to room %s", m.roomID))
	h.syncPresence(m.roomID)
}

func (h *Hub) leave(m *member) {
	h.mu.Lock()
	r, ok := h.rooms[m.roomID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(r.members, m)
	stillHere := false
	for other := range r.members {
		if other.playerKey == m.playerKey {
			stillHere = true
			break
		}
	}
	if !stillHere {
		r.online.Remove(m.playerKey)
		delete(r.lastSeen, m.playerKey)
	}
	if len(r.members) == 0 {
		delete(h.rooms, m.roomID)
	}
	h.mu.Unlock()

	h.Logger.Info(fmt.Sprintf("Player disconnected from room %s", m.roomID))
	h.syncPresence(m.roomID)
}

// touch records liveness for playerKey, bringing it back online after a
// sweep marked it stale.
func (h *Hub) touch(roomID, playerKey string) {
	h.mu.Lock()
	r, ok := h.rooms[roomID]
	if !ok {
		h.mu.Unlock()
		return
	}
	r.lastSeen[playerKey] = h.Now()
	returned := r.online.Insert(playerKey)
	h.mu.Unlock()

	if returned {
		h.syncPresence(roomID)
	}
}

// Sweep marks players offline whose last heartbeat is older than the
// presence TTL.
func (h *Hub) Sweep() {
	now := h.Now()
	var changed []string
	h.mu.Lock()
	for roomID, r := range h.rooms {
		stale := false
		for _, key := range r.online.Slice() {
			if now.Sub(r.lastSeen[key]) > h.PresenceTTL {
				r.online.Remove(key)
				stale = true
			}
		}
		if stale {
			changed = append(changed, roomID)
		}
	}
	h.mu.Unlock()

	for _, roomID := range changed {
		h.Logger.Debug(fmt.Sprintf("Presence expired in room %s", roomID))
		h.syncPresence(roomID)
	}
}

// Run sweeps stale presence until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	interval := h.PresenceTTL / 3
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Sweep()
		}
	}
}

// Online returns the sorted player keys currently online in roomID.
func (h *Hub) Online(roomID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[roomID]
	if !ok {
		return nil
	}
	online := r.online.Slice()
	slices.Sort(online)
	return online
}

func (h *Hub) syncPresence(roomID string) {
	h.broadcast(roomID, parser.Event{
		Type:   parser.EventPresenceSync,
		RoomID: roomID,
		Online: h.Online(roomID),
	}, nil)
}

// broadcast sends event to every member of roomID except the sender. A
// member whose buffer is full misses the event; polling covers the gap.
func (h *Hub) broadcast(roomID string, event parser.Event, except *member) {
	data, err := json.Marshal(event)
	if err != nil {
		h.Logger.Error("Failed to encode event", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[roomID]
	if !ok {
		return
	}
	for m := range r.members {
		if m == except {
			continue
		}
		select {
		case m.send <- data:
		default:
			h.Logger.Warn(fmt.Sprintf("Dropped %s event for a slow member of room %s", event.Type, roomID))
		}
	}
}

// Close disconnects every member.
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, r := range h.rooms {
		for m := range r.members {
			m.conn.Close()
		}
	}
}
