package store

import "time"

// GORM models used for persistence. Belongs-to associations carry
// ON DELETE CASCADE so removing a user (or any ancestor row) removes every
// descendant, even though no delete endpoint exists yet.
type UserModel struct {
	ID           string    `gorm:"primaryKey"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

type LocationModel struct {
	ID          string `gorm:"primaryKey"`
	OwnerID     string `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string
	PicturePath *string
	CreatedAt   time.Time `gorm:"not null;index"`
	Owner       UserModel `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

type ContainerModel struct {
	ID          string `gorm:"primaryKey"`
	OwnerID     string `gorm:"not null;index"`
	LocationID  string `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string
	PicturePath *string
	CreatedAt   time.Time     `gorm:"not null;index"`
	Owner       UserModel     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Location    LocationModel `gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE"`
}

type ItemModel struct {
	ID          string `gorm:"primaryKey"`
	OwnerID     string `gorm:"not null;index"`
	ContainerID string `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string
	PicturePath *string
	CreatedAt   time.Time      `gorm:"not null;index"`
	Owner       UserModel      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Container   ContainerModel `gorm:"foreignKey:ContainerID;constraint:OnDelete:CASCADE"`
}
