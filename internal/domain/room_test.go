package domain

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestRoomJoinSnapshotExcludesSelf(t *testing.T) {
	room := NewRoom("abc12345", "Debug Session", "alice")

	others, err := room.Join(&Participant{ConnectionID: "conn-a", UserID: "alice", DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if len(others) != 0 {
		t.Fatalf("first joiner snapshot = %v, want empty", others)
	}

	others, err = room.Join(&Participant{ConnectionID: "conn-b", UserID: "bob", DisplayName: "Bob"})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if len(others) != 1 || others[0].ConnectionID != "conn-a" {
		t.Fatalf("second joiner snapshot = %v, want [conn-a]", others)
	}
}

// Each joiner's snapshot must contain exactly the peers that joined
// strictly before it, under arbitrary interleaving.
func TestRoomJoinConcurrentSnapshots(t *testing.T) {
	const n = 50

	room := NewRoom("abc12345", "stress", "alice")

	var wg sync.WaitGroup
	snapshots := make([][]Participant, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			connID := fmt.Sprintf("conn-%d", i)
			others, err := room.Join(&Participant{ConnectionID: connID, UserID: connID, DisplayName: connID})
			if err != nil {
				t.Errorf("Join %s: %v", connID, err)
				return
			}
			snapshots[i] = others
		}(i)
	}
	wg.Wait()

	if got := room.ParticipantCount(); got != n {
		t.Fatalf("ParticipantCount = %d, want %d", got, n)
	}

	// Snapshot sizes must be a permutation of 0..n-1: joins are serialized
	// per room, so exactly one joiner saw k prior peers for each k.
	seen := make(map[int]bool)
	for i, snap := range snapshots {
		if seen[len(snap)] {
			t.Fatalf("two joiners both saw %d prior peers", len(snap))
		}
		seen[len(snap)] = true

		for _, p := range snap {
			if p.ConnectionID == fmt.Sprintf("conn-%d", i) {
				t.Fatalf("joiner %d present in its own snapshot", i)
			}
		}
	}
}

func TestRoomLeave(t *testing.T) {
	room := NewRoom("abc12345", "Debug Session", "alice")

	if _, err := room.Join(&Participant{ConnectionID: "conn-a", UserID: "alice", DisplayName: "Alice"}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := room.Join(&Participant{ConnectionID: "conn-b", UserID: "bob", DisplayName: "Bob"}); err != nil {
		t.Fatalf("Join: %v", err)
	}

	p, remaining, err := room.Leave("conn-b")
	if err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if p.UserID != "bob" {
		t.Fatalf("left participant = %q, want bob", p.UserID)
	}
	if remaining != 1 {
		t.Fatalf("remaining = %d, want 1", remaining)
	}

	// Leaving twice is a no-op signalled by ErrParticipantNotFound.
	if _, _, err := room.Leave("conn-b"); !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("second Leave err = %v, want ErrParticipantNotFound", err)
	}
}

func TestRoomCloseIfEmpty(t *testing.T) {
	room := NewRoom("abc12345", "Debug Session", "alice")

	if _, err := room.Join(&Participant{ConnectionID: "conn-a", UserID: "alice", DisplayName: "Alice"}); err != nil {
		t.Fatalf("Join: %v", err)
	}

	if room.CloseIfEmpty() {
		t.Fatal("CloseIfEmpty succeeded on a populated room")
	}

	if _, _, err := room.Leave("conn-a"); err != nil {
		t.Fatalf("Leave: %v", err)
	}

	if !room.CloseIfEmpty() {
		t.Fatal("CloseIfEmpty failed on an empty room")
	}

	// A join racing the close must not land in a dead room.
	if _, err := room.Join(&Participant{ConnectionID: "conn-b", UserID: "bob", DisplayName: "Bob"}); !errors.Is(err, ErrRoomClosed) {
		t.Fatalf("Join on closed room err = %v, want ErrRoomClosed", err)
	}
}

func TestRoomParticipantsIsACopy(t *testing.T) {
	room := NewRoom("abc12345", "Debug Session", "alice")

	if _, err := room.Join(&Participant{ConnectionID: "conn-a", UserID: "alice", DisplayName: "Alice"}); err != nil {
		t.Fatalf("Join: %v", err)
	}

	snap := room.Participants()
	snap[0].UserID = "mallory"

	if got := room.Participants()[0].UserID; got != "alice" {
		t.Fatalf("room state mutated through snapshot: userID = %q", got)
	}
}
