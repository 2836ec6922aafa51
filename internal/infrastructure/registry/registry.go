package registry

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dev-date/media-service/internal/domain"
)

type roomRegistry struct {
	rooms    map[string]*domain.Room // ID -> Room
	capacity uint
	mu       sync.RWMutex
}

func NewRoomRegistry(capacity uint) domain.RoomRegistry {
	if capacity == 0 {
		capacity = 100
	}

	return &roomRegistry{
		rooms:    make(map[string]*domain.Room),
		capacity: capacity,
	}
}

// newRoomID returns a short opaque token: the first 8 characters of a
// UUID. Collisions against live rooms are checked by the caller.
func newRoomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (r *roomRegistry) Create(ctx context.Context, name, createdBy string) (*domain.Room, error) {
	if name == "" || createdBy == "" {
		return nil, domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if uint(len(r.rooms)) >= r.capacity {
		return nil, domain.ErrStoreFull
	}

	id := newRoomID()
	for {
		if _, exists := r.rooms[id]; !exists {
			break
		}
		id = newRoomID()
	}

	room := domain.NewRoom(id, name, createdBy)
	r.rooms[id] = room

	return room, nil
}

func (r *roomRegistry) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	room, exists := r.rooms[id]
	if !exists {
		return nil, domain.ErrRoomNotFound
	}

	return room, nil
}

func (r *roomRegistry) List(ctx context.Context) []*domain.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	return out
}

func (r *roomRegistry) Delete(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms, id)
}

func (r *roomRegistry) DeleteIfEmpty(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[id]
	if !exists {
		return false
	}

	// CloseIfEmpty marks the room so a join that already fetched the
	// pointer fails instead of resurrecting a deleted room.
	if !room.CloseIfEmpty() {
		return false
	}

	delete(r.rooms, id)
	return true
}

func (r *roomRegistry) FindByConnection(ctx context.Context, connectionID string) []*domain.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Room
	for _, room := range r.rooms {
		if room.Has(connectionID) {
			out = append(out, room)
		}
	}
	return out
}
