package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"stashtrack/internal/auth"
	"stashtrack/internal/domain"
	"stashtrack/internal/storage"
	"stashtrack/internal/store"
	"stashtrack/internal/token"
)

// Config wires required dependencies for the core application.
type Config struct {
	Store  store.Store
	Files  *storage.FileStore
	Tokens *token.Service
}

// App is the core application service wiring together credential checks,
// token issuance, and the ownership hierarchy.
type App struct {
	store  store.Store
	files  *storage.FileStore
	tokens *token.Service
}

// New constructs the application.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Files == nil {
		return nil, fmt.Errorf("file store is required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token service is required")
	}
	return &App{
		store:  cfg.Store,
		files:  cfg.Files,
		tokens: cfg.Tokens,
	}, nil
}

// Picture is an optional uploaded file attached to a create request.
type Picture struct {
	Filename string
	Reader   io.Reader
}

// Register creates a new account. The plaintext password is hashed before it
// touches the store and is never logged.
func (a *App) Register(name, email, username, password string) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)
	if name == "" || email == "" || username == "" || password == "" {
		return domain.User{}, ErrUserFieldsRequired
	}
	exists, err := a.store.HasUserIdentity(username, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("check identity: %w", err)
	}
	if exists {
		return domain.User{}, ErrDuplicateIdentity
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.store.SaveUser(user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Lost a race with a concurrent registration; the unique index
			// is authoritative.
			return domain.User{}, ErrDuplicateIdentity
		}
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// Login validates credentials and issues a session token. Unknown usernames
// and wrong passwords return the identical error.
func (a *App) Login(username, password string) (domain.User, string, error) {
	username = strings.TrimSpace(username)
	user, ok, err := a.store.GetUserByUsername(username)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	signed, err := a.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, signed, nil
}

// CurrentUser resolves the account behind a verified token subject.
func (a *App) CurrentUser(userID string) (domain.User, error) {
	user, ok, err := a.store.GetUserByID(userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

// CreateLocation adds a hierarchy root owned by the given user.
func (a *App) CreateLocation(ownerID, name, description string, pic *Picture) (domain.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Location{}, ErrLocationNameRequired
	}
	picturePath, err := a.savePicture(pic)
	if err != nil {
		return domain.Location{}, err
	}
	loc := domain.Location{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(description),
		PicturePath: picturePath,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.store.SaveLocation(loc); err != nil {
		a.discardPicture(picturePath)
		return domain.Location{}, fmt.Errorf("save location: %w", err)
	}
	return loc, nil
}

// ListLocations returns the owner's locations.
func (a *App) ListLocations(ownerID string) ([]domain.Location, error) {
	return a.store.ListLocationsByOwner(ownerID)
}

// CreateContainer adds a container under one of the owner's locations. The
// parent is checked explicitly, scoped to the owner, before any side effect.
func (a *App) CreateContainer(ownerID, locationID, name, description string, pic *Picture) (domain.Container, error) {
	name = strings.TrimSpace(name)
	locationID = strings.TrimSpace(locationID)
	if name == "" || locationID == "" {
		return domain.Container{}, ErrContainerFieldsRequired
	}
	if _, ok, err := a.store.GetLocation(locationID, ownerID); err != nil {
		return domain.Container{}, fmt.Errorf("check location: %w", err)
	} else if !ok {
		return domain.Container{}, ErrLocationNotFound
	}
	picturePath, err := a.savePicture(pic)
	if err != nil {
		return domain.Container{}, err
	}
	c := domain.Container{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		LocationID:  locationID,
		Name:        name,
		Description: strings.TrimSpace(description),
		PicturePath: picturePath,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.store.SaveContainer(c); err != nil {
		a.discardPicture(picturePath)
		return domain.Container{}, fmt.Errorf("save container: %w", err)
	}
	return c, nil
}

// ListContainers returns the owner's containers.
func (a *App) ListContainers(ownerID string) ([]domain.Container, error) {
	return a.store.ListContainersByOwner(ownerID)
}

// ListContainersByLocation returns containers under one location, still
// filtered by owner so a guessed location id leaks nothing.
func (a *App) ListContainersByLocation(ownerID, locationID string) ([]domain.Container, error) {
	return a.store.ListContainersByLocation(ownerID, locationID)
}

// CreateItem adds an item under one of the owner's containers.
func (a *App) CreateItem(ownerID, containerID, name, description string, pic *Picture) (domain.Item, error) {
	name = strings.TrimSpace(name)
	containerID = strings.TrimSpace(containerID)
	if name == "" || containerID == "" {
		return domain.Item{}, ErrItemFieldsRequired
	}
	if _, ok, err := a.store.GetContainer(containerID, ownerID); err != nil {
		return domain.Item{}, fmt.Errorf("check container: %w", err)
	} else if !ok {
		return domain.Item{}, ErrContainerNotFound
	}
	picturePath, err := a.savePicture(pic)
	if err != nil {
		return domain.Item{}, err
	}
	item := domain.Item{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		ContainerID: containerID,
		Name:        name,
		Description: strings.TrimSpace(description),
		PicturePath: picturePath,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.store.SaveItem(item); err != nil {
		a.discardPicture(picturePath)
		return domain.Item{}, fmt.Errorf("save item: %w", err)
	}
	return item, nil
}

// ListItems returns the owner's items.
func (a *App) ListItems(ownerID string) ([]domain.Item, error) {
	return a.store.ListItemsByOwner(ownerID)
}

// ListItemsByContainer returns items under one container, filtered by owner.
func (a *App) ListItemsByContainer(ownerID, containerID string) ([]domain.Item, error) {
	return a.store.ListItemsByContainer(ownerID, containerID)
}

// savePicture stores the optional upload before the row insert. The file
// write and the insert are not atomic; discardPicture is the compensating
// action when the insert fails.
func (a *App) savePicture(pic *Picture) (*string, error) {
	if pic == nil {
		return nil, nil
	}
	rel, err := a.files.Save("picture", pic.Filename, pic.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpload, err)
	}
	return &rel, nil
}

func (a *App) discardPicture(picturePath *string) {
	if picturePath == nil {
		return
	}
	if err := a.files.Remove(*picturePath); err != nil {
		slog.Warn("orphaned upload not removed", "path", *picturePath, "err", err)
	}
}
