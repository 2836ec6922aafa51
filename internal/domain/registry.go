package domain

import "context"

// RoomRegistry is the authoritative mapping from room id to live room.
// The signaling relay is the only writer of participant membership; the
// REST layer only creates and reads rooms.
type RoomRegistry interface {
	Create(ctx context.Context, name, createdBy string) (*Room, error)
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context) []*Room

	// Delete removes a room unconditionally. Idempotent.
	Delete(ctx context.Context, id string)

	// DeleteIfEmpty removes a room only when its participant set is empty,
	// atomically with respect to concurrent joins. Reports whether the
	// room was removed.
	DeleteIfEmpty(ctx context.Context, id string) bool

	// FindByConnection scans all rooms for the given connection id. Used
	// as the defensive fallback during disconnect cleanup.
	FindByConnection(ctx context.Context, connectionID string) []*Room
}
