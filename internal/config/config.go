package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ServerConfig configures the room service.
type ServerConfig struct {
	Port        string        `env:"DUELBOARD_PORT" envDefault:"9000"`
	DB          string        `env:"DUELBOARD_DB" envDefault:"duelboard"`
	RoomTTL     time.Duration `env:"DUELBOARD_ROOM_TTL" envDefault:"1h"`
	PresenceTTL time.Duration `env:"DUELBOARD_PRESENCE_TTL" envDefault:"15s"`
	LogLevel    string        `env:"DUELBOARD_LOG_LEVEL" envDefault:"info"`
	LogFormat   string        `env:"DUELBOARD_LOG_FORMAT" envDefault:"text"`
}

// ClientConfig configures a player client.
type ClientConfig struct {
	ServerURL         string        `env:"DUELBOARD_SERVER_URL" envDefault:"http://localhost:9000"`
	IdentityFile      string        `env:"DUELBOARD_IDENTITY_FILE" envDefault:".duelboard_identity.json"`
	Nickname          string        `env:"DUELBOARD_NICKNAME"`
	PollInterval      time.Duration `env:"DUELBOARD_POLL_INTERVAL" envDefault:"2500ms"`
	VoteInterval      time.Duration `env:"DUELBOARD_VOTE_INTERVAL" envDefault:"1400ms"`
	HeartbeatInterval time.Duration `env:"DUELBOARD_HEARTBEAT_INTERVAL" envDefault:"5s"`
	LogLevel          string        `env:"DUELBOARD_LOG_LEVEL" envDefault:"info"`
	LogFormat         string        `env:"DUELBOARD_LOG_FORMAT" envDefault:"text"`
}

// LoadDotEnv loads the given .env files (".env" when none are named).
// Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadServer(files ...string) (ServerConfig, error) {
	var cfg ServerConfig
	if err := LoadDotEnv(files...); err != nil {
		return cfg, err
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Port == "" {
		return cfg, errors.New("DUELBOARD_PORT not set")
	}
	return cfg, nil
}

func LoadClient(files ...string) (ClientConfig, error) {
	var cfg ClientConfig
	if err := LoadDotEnv(files...); err != nil {
		return cfg, err
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.PollInterval <= 0 || cfg.VoteInterval <= 0 || cfg.HeartbeatInterval <= 0 {
		return cfg, errors.New("client intervals must be positive")
	}
	return cfg, nil
}
