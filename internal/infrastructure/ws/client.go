package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // SDP bodies run a few KB; candidates are tiny
)

// Client is the per-connection session. Its ID is the connection
// identifier every signaling event is addressed by; it lives exactly as
// long as the websocket.
type Client struct {
	ID   string
	conn *connWrapper
	send chan *Message

	mu          sync.Mutex
	roomID      string
	userID      string
	displayName string
	closed      bool
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		conn: newConnWrapper(conn),
		send: make(chan *Message, 64), // buffered to avoid dead-locks on slow clients
	}
}

// RoomID returns the room this session is currently joined to, or "".
func (c *Client) RoomID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.roomID
}

func (c *Client) setIdentity(roomID, userID, displayName string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.roomID = roomID
	c.userID = userID
	c.displayName = displayName
}

func (c *Client) clearRoom() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.roomID = ""
}

// trySend enqueues msg without blocking. A full buffer means the client
// stopped draining; the message is dropped, consistent with the
// best-effort relay contract.
func (c *Client) trySend(msg *Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// shutdown closes the send queue exactly once, terminating WritePump.
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ReadPump reads signaling events off the wire and hands them to the
// relay. It owns disconnect cleanup: whatever ends the read loop, the
// relay sees exactly one Disconnect for this session.
func (c *Client) ReadPump(relay *Relay) {
	defer func() {
		relay.Disconnect(c)
		_ = c.conn.Close()
	}()

	c.conn.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.conn.SetPongHandler(func(string) error {
		return c.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				relay.logger.Warnw("ws read error", "connectionId", c.ID, "error", err)
			}
			break
		}

		relay.Dispatch(c, raw)
	}
}

// WritePump drains the send queue onto the wire and keeps the connection
// alive with periodic pings. It exits when shutdown closes the queue or a
// write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(); err != nil {
				return
			}
		}
	}
}
