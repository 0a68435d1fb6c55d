package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Conn wraps a websocket and coordinates outbound writes via a buffered
// channel. A connection carries the authenticated user identity, fixed at
// handshake time, and is safe for concurrent use.
type Conn struct {
	id     string
	userID string

	ws    *websocket.Conn
	send  chan []byte
	once  sync.Once
	close chan struct{}
}

// NewConn constructs a Conn for the given authenticated user.
func NewConn(userID string, ws *websocket.Conn) *Conn {
	return &Conn{
		id:     uuid.NewString(),
		userID: userID,
		ws:     ws,
		send:   make(chan []byte, 128),
		close:  make(chan struct{}),
	}
}

// ID returns the session identifier, unique per connection.
func (c *Conn) ID() string { return c.id }

// UserID returns the identity pinned to the connection at handshake.
func (c *Conn) UserID() string { return c.userID }

// Start launches the write loop. It must be called exactly once per connection.
func (c *Conn) Start() {
	go c.writeLoop()
}

var errConnClosed = errors.New("connection closed")

// Send enqueues payload for delivery. If the client is slow and the buffer is
// full, the connection is closed to keep backpressure bounded. Safe to call
// after Close; late sends report errConnClosed instead of delivering.
func (c *Conn) Send(payload []byte) error {
	// The send channel is never closed, so a racing Close can at worst strand
	// a payload in the buffer. Check the gate first so late sends fail fast.
	select {
	case <-c.close:
		return errConnClosed
	default:
	}

	select {
	case <-c.close:
		return errConnClosed
	case c.send <- payload:
		return nil
	default:
		c.Close(websocket.CloseGoingAway, "send buffer full")
		return errors.New("connection buffer exceeded")
	}
}

// Close terminates the connection and stops the write loop. The write loop
// exits on the close signal; c.send stays open so concurrent Sends never hit
// a closed channel.
func (c *Conn) Close(code int, reason string) {
	c.once.Do(func() {
		close(c.close)
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		_ = c.ws.Close()
	})
}

func (c *Conn) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.close:
			return
		case msg := <-c.send:
			if err := c.writeMessage(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.writePing(); err != nil {
				return
			}
		}
	}
}

func (c *Conn) writeMessage(payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *Conn) writePing() error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}
