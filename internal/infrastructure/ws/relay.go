package ws

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/dev-date/media-service/internal/domain"
)

// Relay routes signaling events between connected peers. It owns the
// connection-id -> session table; room membership lives in the registry,
// and the relay is its sole writer.
type Relay struct {
	registry domain.RoomRegistry
	logger   *zap.SugaredLogger

	clients map[string]*Client // connection ID -> session
	mu      sync.RWMutex
}

func NewRelay(registry domain.RoomRegistry, logger *zap.SugaredLogger) *Relay {
	return &Relay{
		registry: registry,
		logger:   logger,
		clients:  make(map[string]*Client),
	}
}

// Register adds a freshly upgraded connection. The session is addressable
// by other peers from this point on.
func (r *Relay) Register(c *Client) {
	r.mu.Lock()
	r.clients[c.ID] = c
	r.mu.Unlock()

	r.logger.Infow("socket connected", "connectionId", c.ID)
}

// Disconnect tears a session down: it leaves whatever room the session is
// tracked in, sweeps all rooms for leftover membership, and closes the
// send queue. Terminal; events for this connection are not processed
// afterwards.
func (r *Relay) Disconnect(c *Client) {
	r.mu.Lock()
	_, live := r.clients[c.ID]
	delete(r.clients, c.ID)
	r.mu.Unlock()

	if !live {
		return
	}

	ctx := context.Background()

	if roomID := c.RoomID(); roomID != "" {
		if room, err := r.registry.GetByID(ctx, roomID); err == nil {
			r.leaveRoom(ctx, c, room)
		}
	}

	// Defensive sweep: membership must never outlive the connection, even
	// if the tracked room id went stale.
	for _, room := range r.registry.FindByConnection(ctx, c.ID) {
		r.leaveRoom(ctx, c, room)
	}

	c.shutdown()
	r.logger.Infow("socket disconnected", "connectionId", c.ID)
}

// Dispatch handles one inbound event. Malformed payloads are logged and
// discarded; they never terminate the connection.
func (r *Relay) Dispatch(c *Client, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		r.logger.Warnw("discarding malformed event", "connectionId", c.ID, "error", err)
		return
	}

	switch env.Event {
	case JoinRoomEvent:
		r.handleJoin(c, env.Data)
	case LeaveRoomEvent:
		r.handleLeave(c, env.Data)
	case OfferEvent, AnswerEvent, IceCandidateEvent:
		r.handleSignal(c, env.Event, env.Data)
	default:
		r.logger.Warnw("discarding unknown event", "connectionId", c.ID, "event", env.Event)
	}
}

func (r *Relay) handleJoin(c *Client, raw json.RawMessage) {
	var req joinRoomPayload
	if err := json.Unmarshal(raw, &req); err != nil {
		r.logger.Warnw("discarding malformed join-room", "connectionId", c.ID, "error", err)
		return
	}

	ctx := context.Background()

	room, err := r.registry.GetByID(ctx, req.RoomID)
	if err != nil {
		c.trySend(NewError("Room not found"))
		return
	}

	participant := &domain.Participant{
		ConnectionID: c.ID,
		UserID:       req.UserID,
		DisplayName:  req.DisplayName,
	}

	// Join registers the participant and snapshots the peers present
	// strictly before it, in one step. A room emptied out concurrently
	// reports closed, which the protocol treats the same as missing.
	others, err := room.Join(participant)
	if err != nil {
		c.trySend(NewError("Room not found"))
		return
	}

	c.setIdentity(room.ID, req.UserID, req.DisplayName)

	joined := NewUserJoined(*participant)
	for _, other := range others {
		r.sendTo(other.ConnectionID, joined)
	}

	c.trySend(NewRoomParticipants(others))

	r.logger.Infow("participant joined",
		"roomId", room.ID,
		"connectionId", c.ID,
		"userId", req.UserID,
		"displayName", req.DisplayName,
	)
}

func (r *Relay) handleSignal(c *Client, event string, raw json.RawMessage) {
	var in signalPayload
	if err := json.Unmarshal(raw, &in); err != nil {
		r.logger.Warnw("discarding malformed signal", "connectionId", c.ID, "event", event, "error", err)
		return
	}

	if in.To == "" {
		r.logger.Warnw("discarding unaddressed signal", "connectionId", c.ID, "event", event)
		return
	}

	target, ok := r.client(in.To)
	if !ok {
		// Dead targets drop silently; WebRTC renegotiation recovers.
		r.logger.Debugw("signal target not live, dropping", "connectionId", c.ID, "event", event, "to", in.To)
		return
	}

	target.trySend(newSignal(event, c.ID, in))
}

func (r *Relay) handleLeave(c *Client, raw json.RawMessage) {
	var req leaveRoomPayload
	if err := json.Unmarshal(raw, &req); err != nil {
		r.logger.Warnw("discarding malformed leave-room", "connectionId", c.ID, "error", err)
		return
	}

	roomID := req.RoomID
	if roomID == "" {
		roomID = c.RoomID()
	}

	ctx := context.Background()

	room, err := r.registry.GetByID(ctx, roomID)
	if err != nil {
		// Leaving a room you are not in is a no-op.
		return
	}

	r.leaveRoom(ctx, c, room)
}

// leaveRoom removes the session's participant from room, notifies the
// remaining peers, and tears the room down when it empties out.
func (r *Relay) leaveRoom(ctx context.Context, c *Client, room *domain.Room) {
	p, remaining, err := room.Leave(c.ID)
	if err != nil {
		return
	}

	if c.RoomID() == room.ID {
		c.clearRoom()
	}

	left := NewUserLeft(*p)
	for _, other := range room.Participants() {
		r.sendTo(other.ConnectionID, left)
	}

	r.logger.Infow("participant left", "roomId", room.ID, "connectionId", c.ID, "userId", p.UserID)

	if remaining == 0 && r.registry.DeleteIfEmpty(ctx, room.ID) {
		r.logger.Infow("room deleted (empty)", "roomId", room.ID)
	}
}

func (r *Relay) client(id string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[id]
	return c, ok
}

func (r *Relay) sendTo(connectionID string, msg *Message) {
	target, ok := r.client(connectionID)
	if !ok {
		return
	}
	if !target.trySend(msg) {
		r.logger.Warnw("client buffer full, dropping message", "connectionId", connectionID, "event", msg.Event)
	}
}
