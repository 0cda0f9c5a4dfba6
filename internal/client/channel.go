package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"

	"github.com/songowen/duelboard/internal/logger"
	"github.com/songowen/duelboard/internal/parser"
)

const (
	channelWriteWait = 5 * time.Second
	redialGiveUp     = time.Minute
	redialPause      = 5 * time.Second
)

var errNotConnected = errors.New("channel not connected")
var errRoomChanged = errors.New("room changed")

// Channel is one player's connection to a room's broadcast channel. It
// redials with exponential backoff whenever the connection drops; events
// sent while disconnected are lost and polling makes up for them.
type Channel struct {
	Logger logger.Logger

	url       string
	heartbeat time.Duration
	handle    func(parser.Event)
	onConnect func()
	dialer    *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewChannel(url string, heartbeat time.Duration, handle func(parser.Event), onConnect func()) *Channel {
	return &Channel{
		Logger:    logger.New("room_channel"),
		url:       url,
		heartbeat: heartbeat,
		handle:    handle,
		onConnect: onConnect,
		dialer:    websocket.DefaultDialer,
	}
}

func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Send writes event if the channel is currently connected.
func (c *Channel) Send(event parser.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return errNotConnected
	}
	c.conn.SetWriteDeadline(time.Now().Add(channelWriteWait))
	return c.conn.WriteJSON(event)
}

// Run keeps the channel connected until ctx is done.
func (c *Channel) Run(ctx context.Context) {
	for ctx.Err() == nil {
		conn, err := backoff.Retry(ctx, func() (*websocket.Conn, error) {
			conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
			if err != nil {
				c.Logger.Debug("Channel dial failed, retrying")
				return nil, err
			}
			return conn, nil
		}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxElapsedTime(redialGiveUp))
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.Logger.Error("Channel unavailable, relying on polling", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(redialPause):
			}
			continue
		}
		c.Logger.Info("Channel connected")
		c.serve(ctx, conn)
	}
}

func (c *Channel) serve(ctx context.Context, conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	done := make(chan struct{})
	defer func() {
		close(done)
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
	}()
	go func() {
		ticker := time.NewTicker(c.heartbeat)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				conn.Close()
				return
			case <-ticker.C:
				if err := c.Send(parser.Event{Type: parser.EventHeartbeat}); err != nil {
					c.Logger.Debug("Heartbeat not sent")
				}
			}
		}
	}()

	if c.onConnect != nil {
		c.onConnect()
	}
	for {
		var event parser.Event
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() == nil {
				c.Logger.Warn("Channel disconnected")
			}
			return
		}
		c.handle(event)
	}
}
