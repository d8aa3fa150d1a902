package registry

import (
	"encoding/json"
	"sync"
	"time"

	relayerr "pushrelay/pkg/errors"

	"github.com/gorilla/websocket"
)

// Client represents one live push channel. The registry entry owns the
// underlying connection exclusively; nothing else writes to it.
type Client struct {
	id          string
	conn        *websocket.Conn
	send        chan []byte
	remoteAddr  string
	connectedAt time.Time

	mu      sync.RWMutex
	closed  bool
	writeMu sync.Mutex // WebSocket writes are not concurrency-safe
}

// ID returns the client identifier
func (c *Client) ID() string {
	return c.id
}

// Conn returns the underlying WebSocket connection. Read-side use only;
// writes go through Send so they stay serialized.
func (c *Client) Conn() *websocket.Conn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

// RemoteAddr returns the peer address recorded at connect time
func (c *Client) RemoteAddr() string {
	return c.remoteAddr
}

// ConnectedAt returns when the channel was established
func (c *Client) ConnectedAt() time.Time {
	return c.connectedAt
}

// Send enqueues a frame for delivery. It never blocks: a full buffer
// returns ErrSendBufferFull and the frame is dropped for this client only.
func (c *Client) Send(frame []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return relayerr.ErrClientClosed
	}

	select {
	case c.send <- frame:
		return nil
	default:
		return relayerr.ErrSendBufferFull
	}
}

// SendJSON marshals a value and enqueues it as a frame
func (c *Client) SendJSON(v interface{}) error {
	frame, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Send(frame)
}

// Ping sends a WebSocket ping control frame
func (c *Client) Ping(deadline time.Time) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return relayerr.ErrClientClosed
	}
	conn := c.conn
	c.mu.RUnlock()

	return conn.WriteControl(websocket.PingMessage, nil, deadline)
}

// Close closes the push channel. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	close(c.send)
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// IsClosed checks if the channel has been closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// writeLoop drains the send buffer onto the wire. Runs until the send
// channel is closed or a write fails.
func (c *Client) writeLoop(writeTimeout time.Duration, onError func(string)) {
	for frame := range c.send {
		c.writeMu.Lock()
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		err := c.conn.WriteMessage(websocket.TextMessage, frame)
		c.writeMu.Unlock()

		if err != nil {
			onError(c.id)
			return
		}
	}
}
