package store

import (
	"sync"

	"stashtrack/internal/domain"
)

// MemoryStore keeps everything in-process. It mirrors the uniqueness and
// owner-scoping behavior of GormStore and backs the test suites.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]domain.User // key: user ID
	byUsername map[string]string      // username -> user ID
	byEmail    map[string]string      // email -> user ID
	locations  map[string]domain.Location
	containers map[string]domain.Container
	items      map[string]domain.Item
	// insertion order per table
	locationOrder  []string
	containerOrder []string
	itemOrder      []string
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]domain.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
		locations:  make(map[string]domain.Location),
		containers: make(map[string]domain.Container),
		items:      make(map[string]domain.Item),
	}
}

// SaveUser registers a user, enforcing username/email uniqueness.
func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.byUsername[u.Username]; taken {
		return ErrConflict
	}
	if _, taken := m.byEmail[u.Email]; taken {
		return ErrConflict
	}
	m.users[u.ID] = u
	m.byUsername[u.Username] = u.ID
	m.byEmail[u.Email] = u.ID
	return nil
}

// HasUserIdentity checks whether username or email is already taken.
func (m *MemoryStore) HasUserIdentity(username, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.byUsername[username]; ok {
		return true, nil
	}
	if _, ok := m.byEmail[email]; ok {
		return true, nil
	}
	return false, nil
}

// GetUserByUsername looks up a user by username.
func (m *MemoryStore) GetUserByUsername(username string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.byUsername[username]; ok {
		u, exists := m.users[id]
		return u, exists, nil
	}
	return domain.User{}, false, nil
}

// GetUserByID returns a user by ID.
func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// SaveLocation stores a location and tracks insertion order.
func (m *MemoryStore) SaveLocation(l domain.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.locations[l.ID]; !exists {
		m.locationOrder = append(m.locationOrder, l.ID)
	}
	m.locations[l.ID] = l
	return nil
}

// GetLocation returns a location only when it belongs to the given owner.
func (m *MemoryStore) GetLocation(id, ownerID string) (domain.Location, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.locations[id]
	if !ok || l.OwnerID != ownerID {
		return domain.Location{}, false, nil
	}
	return l, true, nil
}

// ListLocationsByOwner returns the owner's locations in insertion order.
func (m *MemoryStore) ListLocationsByOwner(ownerID string) ([]domain.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Location, 0)
	for _, id := range m.locationOrder {
		if l, ok := m.locations[id]; ok && l.OwnerID == ownerID {
			res = append(res, l)
		}
	}
	return res, nil
}

// SaveContainer stores a container and tracks insertion order.
func (m *MemoryStore) SaveContainer(c domain.Container) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.locations[c.LocationID]; !ok {
		// mirrors the relational FK constraint
		return ErrConflict
	}
	if _, exists := m.containers[c.ID]; !exists {
		m.containerOrder = append(m.containerOrder, c.ID)
	}
	m.containers[c.ID] = c
	return nil
}

// GetContainer returns a container only when it belongs to the given owner.
func (m *MemoryStore) GetContainer(id, ownerID string) (domain.Container, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.containers[id]
	if !ok || c.OwnerID != ownerID {
		return domain.Container{}, false, nil
	}
	return c, true, nil
}

// ListContainersByOwner returns the owner's containers in insertion order.
func (m *MemoryStore) ListContainersByOwner(ownerID string) ([]domain.Container, error) {
	return m.listContainers(func(c domain.Container) bool {
		return c.OwnerID == ownerID
	}), nil
}

// ListContainersByLocation returns containers scoped to both parent and owner.
func (m *MemoryStore) ListContainersByLocation(ownerID, locationID string) ([]domain.Container, error) {
	return m.listContainers(func(c domain.Container) bool {
		return c.OwnerID == ownerID && c.LocationID == locationID
	}), nil
}

func (m *MemoryStore) listContainers(match func(domain.Container) bool) []domain.Container {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Container, 0)
	for _, id := range m.containerOrder {
		if c, ok := m.containers[id]; ok && match(c) {
			res = append(res, c)
		}
	}
	return res
}

// SaveItem stores an item and tracks insertion order.
func (m *MemoryStore) SaveItem(i domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.containers[i.ContainerID]; !ok {
		return ErrConflict
	}
	if _, exists := m.items[i.ID]; !exists {
		m.itemOrder = append(m.itemOrder, i.ID)
	}
	m.items[i.ID] = i
	return nil
}

// ListItemsByOwner returns the owner's items in insertion order.
func (m *MemoryStore) ListItemsByOwner(ownerID string) ([]domain.Item, error) {
	return m.listItems(func(i domain.Item) bool {
		return i.OwnerID == ownerID
	}), nil
}

// ListItemsByContainer returns items scoped to both parent and owner.
func (m *MemoryStore) ListItemsByContainer(ownerID, containerID string) ([]domain.Item, error) {
	return m.listItems(func(i domain.Item) bool {
		return i.OwnerID == ownerID && i.ContainerID == containerID
	}), nil
}

func (m *MemoryStore) listItems(match func(domain.Item) bool) []domain.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Item, 0)
	for _, id := range m.itemOrder {
		if i, ok := m.items[id]; ok && match(i) {
			res = append(res, i)
		}
	}
	return res
}
