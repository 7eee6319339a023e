package store

import (
	"errors"
	"testing"

	"stashtrack/internal/domain"
)

func TestMemoryStoreUserUniqueness(t *testing.T) {
	m := NewMemoryStore()
	if err := m.SaveUser(domain.User{ID: "u1", Username: "alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	if err := m.SaveUser(domain.User{ID: "u2", Username: "alice", Email: "other@example.com"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate username error = %v, want ErrConflict", err)
	}
	if err := m.SaveUser(domain.User{ID: "u3", Username: "alice2", Email: "alice@example.com"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate email error = %v, want ErrConflict", err)
	}

	taken, err := m.HasUserIdentity("alice", "nobody@example.com")
	if err != nil || !taken {
		t.Fatalf("HasUserIdentity(alice) = %v, %v, want true", taken, err)
	}
	taken, err = m.HasUserIdentity("nobody", "nobody@example.com")
	if err != nil || taken {
		t.Fatalf("HasUserIdentity(nobody) = %v, %v, want false", taken, err)
	}
}

func TestMemoryStoreOwnerScoping(t *testing.T) {
	m := NewMemoryStore()
	if err := m.SaveLocation(domain.Location{ID: "l1", OwnerID: "alice", Name: "Garage"}); err != nil {
		t.Fatalf("SaveLocation: %v", err)
	}

	if _, ok, _ := m.GetLocation("l1", "alice"); !ok {
		t.Fatal("owner cannot see own location")
	}
	if _, ok, _ := m.GetLocation("l1", "bob"); ok {
		t.Fatal("foreign owner can see location")
	}

	locations, err := m.ListLocationsByOwner("bob")
	if err != nil {
		t.Fatalf("ListLocationsByOwner: %v", err)
	}
	if len(locations) != 0 {
		t.Fatalf("bob sees %d locations, want 0", len(locations))
	}
}

func TestMemoryStoreParentConstraints(t *testing.T) {
	m := NewMemoryStore()

	err := m.SaveContainer(domain.Container{ID: "c1", OwnerID: "alice", LocationID: "missing"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("orphan container error = %v, want ErrConflict", err)
	}

	if err := m.SaveLocation(domain.Location{ID: "l1", OwnerID: "alice", Name: "Garage"}); err != nil {
		t.Fatalf("SaveLocation: %v", err)
	}
	if err := m.SaveContainer(domain.Container{ID: "c1", OwnerID: "alice", LocationID: "l1", Name: "Shelf"}); err != nil {
		t.Fatalf("SaveContainer: %v", err)
	}

	err = m.SaveItem(domain.Item{ID: "i1", OwnerID: "alice", ContainerID: "missing"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("orphan item error = %v, want ErrConflict", err)
	}
	if err := m.SaveItem(domain.Item{ID: "i1", OwnerID: "alice", ContainerID: "c1", Name: "Drill"}); err != nil {
		t.Fatalf("SaveItem: %v", err)
	}

	items, err := m.ListItemsByContainer("alice", "c1")
	if err != nil {
		t.Fatalf("ListItemsByContainer: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Drill" {
		t.Fatalf("unexpected items: %+v", items)
	}
}
