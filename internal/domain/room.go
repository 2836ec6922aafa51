package domain

import (
	"sync"
	"time"
)

// Participant is a peer registered in a room, keyed by the websocket
// connection it arrived on. UserID and DisplayName are caller-supplied
// and trusted as given; authentication happens upstream at the gateway.
type Participant struct {
	ConnectionID string `json:"socketId"`
	UserID       string `json:"userId"`
	DisplayName  string `json:"displayName"`
}

type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`

	mu           sync.Mutex
	closed       bool
	participants map[string]*Participant
}

func NewRoom(id, name, createdBy string) *Room {
	return &Room{
		ID:           id,
		Name:         name,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now().UTC(),
		participants: make(map[string]*Participant),
	}
}

// Join registers p and returns a snapshot of the participants that were
// present strictly before it. The snapshot and the registration happen
// under one lock so concurrent joins on the same room never observe each
// other inconsistently.
func (r *Room) Join(p *Participant) ([]Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRoomClosed
	}

	others := make([]Participant, 0, len(r.participants))
	for _, existing := range r.participants {
		others = append(others, *existing)
	}

	r.participants[p.ConnectionID] = p
	return others, nil
}

// Leave removes the participant registered under connectionID and reports
// how many participants remain. It returns ErrParticipantNotFound when the
// connection was never in this room, which callers treat as a no-op.
func (r *Room) Leave(connectionID string) (*Participant, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[connectionID]
	if !ok {
		return nil, len(r.participants), ErrParticipantNotFound
	}

	delete(r.participants, connectionID)
	return p, len(r.participants), nil
}

func (r *Room) Has(connectionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.participants[connectionID]
	return ok
}

// Participants returns a copy of the current participant set.
func (r *Room) Participants() []Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, *p)
	}
	return out
}

func (r *Room) ParticipantCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.participants)
}

// CloseIfEmpty marks the room closed when no participants remain, so a
// join racing a delete-on-empty fails with ErrRoomClosed instead of
// landing in a room the registry no longer knows about.
func (r *Room) CloseIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.participants) != 0 {
		return false
	}
	r.closed = true
	return true
}
