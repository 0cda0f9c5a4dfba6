package utils

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

const nicknamePrefix = "PLAYER-"

// InvitePath is where the online board lives relative to the client base URL.
const InvitePath = "/games/yacht-dice/online"

func NewRoomID() string {
	return uuid.NewString()
}

func NewPlayerKey() string {
	return uuid.NewString()
}

// IsValidUUID reports whether s is a canonical hyphenated UUID.
func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// ParseRoomID trims and lowercases a room id, rejecting anything that is
// not a UUID.
func ParseRoomID(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !IsValidUUID(s) {
		return "", fmt.Errorf("invalid room id %q", s)
	}
	return s, nil
}

// FallbackNickname derives PLAYER-XXXX from the first four characters of
// the player key.
func FallbackNickname(playerKey string) string {
	tag := strings.ReplaceAll(playerKey, "-", "")
	if len(tag) > 4 {
		tag = tag[:4]
	}
	return nicknamePrefix + strings.ToUpper(tag)
}

// Nickname returns name trimmed, or the fallback for playerKey when blank.
func Nickname(name, playerKey string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return FallbackNickname(playerKey)
	}
	return name
}

// InviteLink builds <base>/games/yacht-dice/online?room=<id>.
func InviteLink(base, roomID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.Path = path.Join("/", u.Path, InvitePath)
	q := u.Query()
	q.Set("room", roomID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// RoomFromInvite extracts the room id from an invite link or a bare id.
func RoomFromInvite(link string) (string, error) {
	link = strings.TrimSpace(link)
	if IsValidUUID(strings.ToLower(link)) {
		return strings.ToLower(link), nil
	}
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	return ParseRoomID(u.Query().Get("room"))
}
