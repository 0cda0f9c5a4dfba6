package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/songowen/duelboard/internal/utils"
)

// Identity is the persisted player key and nickname of this client.
type Identity struct {
	PlayerKey string `json:"player_key"`
	Nickname  string `json:"nickname"`
}

// LoadIdentity reads the identity stored at path, creating one on first
// use. A non-empty nickname replaces the stored one.
func LoadIdentity(path, nickname string) (Identity, error) {
	var id Identity
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &id); err != nil {
			return Identity{}, fmt.Errorf("decode identity %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Identity{}, fmt.Errorf("read identity %s: %w", path, err)
	}

	changed := false
	if strings.TrimSpace(id.PlayerKey) == "" {
		id.PlayerKey = utils.NewPlayerKey()
		changed = true
	}
	if nickname = strings.TrimSpace(nickname); nickname != "" && nickname != id.Nickname {
		id.Nickname = nickname
		changed = true
	}
	if id.Nickname == "" {
		id.Nickname = utils.FallbackNickname(id.PlayerKey)
		changed = true
	}
	if changed {
		if err := saveIdentity(path, id); err != nil {
			return Identity{}, err
		}
	}
	return id, nil
}

func saveIdentity(path string, id Identity) error {
	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create identity dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write identity %s: %w", path, err)
	}
	return nil
}
