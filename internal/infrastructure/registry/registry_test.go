package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/dev-date/media-service/internal/domain"
)

func TestCreateRequiresNameAndCreator(t *testing.T) {
	reg := NewRoomRegistry(10)
	ctx := context.Background()

	cases := []struct {
		name      string
		roomName  string
		createdBy string
	}{
		{"missing name", "", "alice"},
		{"missing creator", "Debug Session", ""},
		{"missing both", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := reg.Create(ctx, tc.roomName, tc.createdBy); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("Create err = %v, want ErrInvalidInput", err)
			}
		})
	}

	if got := len(reg.List(ctx)); got != 0 {
		t.Fatalf("rooms created by failed requests: %d", got)
	}
}

func TestCreateAssignsShortUniqueIDs(t *testing.T) {
	reg := NewRoomRegistry(100)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		room, err := reg.Create(ctx, "Debug Session", "alice")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if len(room.ID) != 8 {
			t.Fatalf("room id %q has length %d, want 8", room.ID, len(room.ID))
		}
		if seen[room.ID] {
			t.Fatalf("duplicate room id %q", room.ID)
		}
		seen[room.ID] = true
	}
}

func TestGetByID(t *testing.T) {
	reg := NewRoomRegistry(10)
	ctx := context.Background()

	created, err := reg.Create(ctx, "Debug Session", "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := reg.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != created {
		t.Fatalf("GetByID returned a different room")
	}

	if _, err := reg.GetByID(ctx, "nope1234"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("GetByID miss err = %v, want ErrRoomNotFound", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	reg := NewRoomRegistry(10)
	ctx := context.Background()

	room, err := reg.Create(ctx, "Debug Session", "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	reg.Delete(ctx, room.ID)
	reg.Delete(ctx, room.ID) // no-op
	reg.Delete(ctx, "absent01")

	if _, err := reg.GetByID(ctx, room.ID); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("room still present after Delete")
	}
}

func TestDeleteIfEmpty(t *testing.T) {
	reg := NewRoomRegistry(10)
	ctx := context.Background()

	room, err := reg.Create(ctx, "Debug Session", "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := room.Join(&domain.Participant{ConnectionID: "conn-a", UserID: "alice", DisplayName: "Alice"}); err != nil {
		t.Fatalf("Join: %v", err)
	}

	if reg.DeleteIfEmpty(ctx, room.ID) {
		t.Fatal("DeleteIfEmpty removed a populated room")
	}
	if _, err := reg.GetByID(ctx, room.ID); err != nil {
		t.Fatalf("room vanished: %v", err)
	}

	if _, _, err := room.Leave("conn-a"); err != nil {
		t.Fatalf("Leave: %v", err)
	}

	if !reg.DeleteIfEmpty(ctx, room.ID) {
		t.Fatal("DeleteIfEmpty kept an empty room")
	}
	if _, err := reg.GetByID(ctx, room.ID); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("GetByID after delete err = %v, want ErrRoomNotFound", err)
	}

	if reg.DeleteIfEmpty(ctx, room.ID) {
		t.Fatal("DeleteIfEmpty reported success for an absent room")
	}
}

func TestFindByConnection(t *testing.T) {
	reg := NewRoomRegistry(10)
	ctx := context.Background()

	first, err := reg.Create(ctx, "one", "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := reg.Create(ctx, "two", "bob"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := first.Join(&domain.Participant{ConnectionID: "conn-a", UserID: "alice", DisplayName: "Alice"}); err != nil {
		t.Fatalf("Join: %v", err)
	}

	found := reg.FindByConnection(ctx, "conn-a")
	if len(found) != 1 || found[0].ID != first.ID {
		t.Fatalf("FindByConnection = %v, want [%s]", found, first.ID)
	}

	if found := reg.FindByConnection(ctx, "conn-ghost"); len(found) != 0 {
		t.Fatalf("FindByConnection for unknown connection = %v, want empty", found)
	}
}

func TestCreateRespectsCapacity(t *testing.T) {
	reg := NewRoomRegistry(1)
	ctx := context.Background()

	if _, err := reg.Create(ctx, "one", "alice"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := reg.Create(ctx, "two", "bob"); !errors.Is(err, domain.ErrStoreFull) {
		t.Fatalf("Create over capacity err = %v, want ErrStoreFull", err)
	}
}
