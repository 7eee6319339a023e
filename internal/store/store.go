package store

import (
	"errors"

	"stashtrack/internal/domain"
)

// ErrConflict is returned when an insert violates a uniqueness constraint.
var ErrConflict = errors.New("conflict")

// Store defines persistence operations for users and the ownership hierarchy.
// Every hierarchy read is scoped by owner so one user can never observe
// another user's rows, even with a guessed parent id.
type Store interface {
	// users
	SaveUser(domain.User) error
	HasUserIdentity(username, email string) (bool, error)
	GetUserByUsername(username string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)

	// locations
	SaveLocation(domain.Location) error
	GetLocation(id, ownerID string) (domain.Location, bool, error)
	ListLocationsByOwner(ownerID string) ([]domain.Location, error)

	// containers
	SaveContainer(domain.Container) error
	GetContainer(id, ownerID string) (domain.Container, bool, error)
	ListContainersByOwner(ownerID string) ([]domain.Container, error)
	ListContainersByLocation(ownerID, locationID string) ([]domain.Container, error)

	// items
	SaveItem(domain.Item) error
	ListItemsByOwner(ownerID string) ([]domain.Item, error)
	ListItemsByContainer(ownerID, containerID string) ([]domain.Item, error)
}
