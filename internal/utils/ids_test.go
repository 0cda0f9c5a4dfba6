package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoomIDIsUUID(t *testing.T) {
	a, b := NewRoomID(), NewRoomID()
	assert.True(t, IsValidUUID(a))
	assert.NotEqual(t, a, b)
	assert.True(t, IsValidUUID(NewPlayerKey()))
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("0b8d2f6e-7f0e-4d7c-9a39-2b3d0c6f4a11"))
	assert.False(t, IsValidUUID(""))
	assert.False(t, IsValidUUID("room-1"))
	assert.False(t, IsValidUUID("0b8d2f6e7f0e4d7c9a392b3d0c6f4a11"))
	assert.False(t, IsValidUUID("{0b8d2f6e-7f0e-4d7c-9a39-2b3d0c6f4a11}"))
}

func TestParseRoomIDNormalizes(t *testing.T) {
	id, err := ParseRoomID("  0B8D2F6E-7F0E-4D7C-9A39-2B3D0C6F4A11 ")
	require.NoError(t, err)
	assert.Equal(t, "0b8d2f6e-7f0e-4d7c-9a39-2b3d0c6f4a11", id)

	_, err = ParseRoomID("nope")
	assert.Error(t, err)
}

func TestFallbackNickname(t *testing.T) {
	assert.Equal(t, "PLAYER-0B8D", FallbackNickname("0b8d2f6e-7f0e-4d7c-9a39-2b3d0c6f4a11"))
	assert.Equal(t, "PLAYER-AB", FallbackNickname("ab"))
	assert.Regexp(t, regexp.MustCompile(`^PLAYER-[0-9A-F]{4}$`), FallbackNickname(NewPlayerKey()))
	assert.Equal(t, "Mina", Nickname("  Mina ", "0b8d"))
	assert.True(t, strings.HasPrefix(Nickname("   ", "0b8d"), "PLAYER-"))
}

func TestInviteLinkRoundTrip(t *testing.T) {
	id := NewRoomID()
	link, err := InviteLink("https://yacht.example/?lang=ko", id)
	require.NoError(t, err)
	assert.Contains(t, link, "https://yacht.example/games/yacht-dice/online?")
	assert.Contains(t, link, "room="+id)
	assert.Contains(t, link, "lang=ko")

	got, err := RoomFromInvite(link)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = RoomFromInvite(id)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = RoomFromInvite("https://yacht.example/play?room=lobby")
	assert.Error(t, err)
}
