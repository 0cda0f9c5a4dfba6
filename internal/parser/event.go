package parser

import (
	"encoding/json"
	"fmt"
)

type EventType string

const (
	// Relayed between room members.
	EventStateUpdated       EventType = "state_updated"
	EventPregameReady       EventType = "pregame_ready"
	EventRematchVote        EventType = "rematch_vote"
	EventRematchRoomCreated EventType = "rematch_room_created"

	// Client to server only.
	EventHeartbeat EventType = "heartbeat"

	// Server to client only.
	EventPresenceSync EventType = "presence_sync"
)

// Event is the single frame shape on the room channel. Fields a given type
// does not use stay empty.
type Event struct {
	Type       EventType `json:"type"`
	RoomID     string    `json:"room_id"`
	PlayerKey  string    `json:"player_key,omitempty"`
	Version    int64     `json:"version,omitempty"`
	Ready      bool      `json:"ready,omitempty"`
	NextRoomID string    `json:"next_room_id,omitempty"`
	Online     []string  `json:"online,omitempty"`
}

// Relayed reports whether members may broadcast this event type to each other.
func (t EventType) Relayed() bool {
	switch t {
	case EventStateUpdated, EventPregameReady, EventRematchVote, EventRematchRoomCreated:
		return true
	}
	return false
}

func ParseEvent(data []byte) (*Event, error) {
	event := &Event{}
	if err := json.Unmarshal(data, event); err != nil {
		return nil, err
	}
	if event.Type == "" {
		return nil, fmt.Errorf("event without type")
	}
	return event, nil
}

func StateUpdated(roomID string, version int64) Event {
	return Event{Type: EventStateUpdated, RoomID: roomID, Version: version}
}

func PregameReady(roomID, playerKey string, ready bool) Event {
	return Event{Type: EventPregameReady, RoomID: roomID, PlayerKey: playerKey, Ready: ready}
}

func RematchVote(roomID, playerKey string, ready bool) Event {
	return Event{Type: EventRematchVote, RoomID: roomID, PlayerKey: playerKey, Ready: ready}
}

func RematchRoomCreated(roomID, nextRoomID string) Event {
	return Event{Type: EventRematchRoomCreated, RoomID: roomID, NextRoomID: nextRoomID}
}
