package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"stashtrack/internal/domain"
)

const (
	maxOpenConns    = 10
	connMaxLifetime = time.Hour
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB, bounds the connection pool, and runs
// auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	if err := db.AutoMigrate(&UserModel{}, &LocationModel{}, &ContainerModel{}, &ItemModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveUser inserts a user. Unique violations on username/email surface as
// ErrConflict.
func (s *GormStore) SaveUser(u domain.User) error {
	model := userToModel(u)
	if err := s.db.Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// HasUserIdentity checks whether username or email is already taken.
func (s *GormStore) HasUserIdentity(username, email string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserByUsername looks up a user by username.
func (s *GormStore) GetUserByUsername(username string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// SaveLocation inserts a location row.
func (s *GormStore) SaveLocation(l domain.Location) error {
	model := locationToModel(l)
	return s.db.Create(&model).Error
}

// GetLocation returns a location only when it belongs to the given owner.
func (s *GormStore) GetLocation(id, ownerID string) (domain.Location, bool, error) {
	var model LocationModel
	if err := s.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Location{}, false, nil
		}
		return domain.Location{}, false, err
	}
	return locationFromModel(model), true, nil
}

// ListLocationsByOwner returns the owner's locations in insertion order.
func (s *GormStore) ListLocationsByOwner(ownerID string) ([]domain.Location, error) {
	var models []LocationModel
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Location, 0, len(models))
	for _, m := range models {
		res = append(res, locationFromModel(m))
	}
	return res, nil
}

// SaveContainer inserts a container row.
func (s *GormStore) SaveContainer(c domain.Container) error {
	model := containerToModel(c)
	return s.db.Create(&model).Error
}

// GetContainer returns a container only when it belongs to the given owner.
func (s *GormStore) GetContainer(id, ownerID string) (domain.Container, bool, error) {
	var model ContainerModel
	if err := s.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Container{}, false, nil
		}
		return domain.Container{}, false, err
	}
	return containerFromModel(model), true, nil
}

// ListContainersByOwner returns the owner's containers in insertion order.
func (s *GormStore) ListContainersByOwner(ownerID string) ([]domain.Container, error) {
	return s.listContainers("owner_id = ?", ownerID)
}

// ListContainersByLocation returns containers scoped to both parent and owner.
func (s *GormStore) ListContainersByLocation(ownerID, locationID string) ([]domain.Container, error) {
	return s.listContainers("owner_id = ? AND location_id = ?", ownerID, locationID)
}

func (s *GormStore) listContainers(query string, args ...any) ([]domain.Container, error) {
	var models []ContainerModel
	if err := s.db.Where(query, args...).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Container, 0, len(models))
	for _, m := range models {
		res = append(res, containerFromModel(m))
	}
	return res, nil
}

// SaveItem inserts an item row.
func (s *GormStore) SaveItem(i domain.Item) error {
	model := itemToModel(i)
	return s.db.Create(&model).Error
}

// ListItemsByOwner returns the owner's items in insertion order.
func (s *GormStore) ListItemsByOwner(ownerID string) ([]domain.Item, error) {
	return s.listItems("owner_id = ?", ownerID)
}

// ListItemsByContainer returns items scoped to both parent and owner.
func (s *GormStore) ListItemsByContainer(ownerID, containerID string) ([]domain.Item, error) {
	return s.listItems("owner_id = ? AND container_id = ?", ownerID, containerID)
}

func (s *GormStore) listItems(query string, args ...any) ([]domain.Item, error) {
	var models []ItemModel
	if err := s.db.Where(query, args...).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Item, 0, len(models))
	for _, m := range models {
		res = append(res, itemFromModel(m))
	}
	return res, nil
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

func locationToModel(l domain.Location) LocationModel {
	return LocationModel{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Name:        l.Name,
		Description: l.Description,
		PicturePath: l.PicturePath,
		CreatedAt:   l.CreatedAt,
	}
}

func locationFromModel(m LocationModel) domain.Location {
	return domain.Location{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Description: m.Description,
		PicturePath: m.PicturePath,
		CreatedAt:   m.CreatedAt,
	}
}

func containerToModel(c domain.Container) ContainerModel {
	return ContainerModel{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		LocationID:  c.LocationID,
		Name:        c.Name,
		Description: c.Description,
		PicturePath: c.PicturePath,
		CreatedAt:   c.CreatedAt,
	}
}

func containerFromModel(m ContainerModel) domain.Container {
	return domain.Container{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		LocationID:  m.LocationID,
		Name:        m.Name,
		Description: m.Description,
		PicturePath: m.PicturePath,
		CreatedAt:   m.CreatedAt,
	}
}

func itemToModel(i domain.Item) ItemModel {
	return ItemModel{
		ID:          i.ID,
		OwnerID:     i.OwnerID,
		ContainerID: i.ContainerID,
		Name:        i.Name,
		Description: i.Description,
		PicturePath: i.PicturePath,
		CreatedAt:   i.CreatedAt,
	}
}

func itemFromModel(m ItemModel) domain.Item {
	return domain.Item{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		ContainerID: m.ContainerID,
		Name:        m.Name,
		Description: m.Description,
		PicturePath: m.PicturePath,
		CreatedAt:   m.CreatedAt,
	}
}
