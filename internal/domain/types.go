package domain

import "time"

// User is a registered account. The password hash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Location is the root of a user's storage hierarchy.
type Location struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PicturePath *string   `json:"picture_path"`
	CreatedAt   time.Time `json:"created_at"`
}

// Container lives inside exactly one Location.
type Container struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"user_id"`
	LocationID  string    `json:"location_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PicturePath *string   `json:"picture_path"`
	CreatedAt   time.Time `json:"created_at"`
}

// Item lives inside exactly one Container.
type Item struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"user_id"`
	ContainerID string    `json:"container_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PicturePath *string   `json:"picture_path"`
	CreatedAt   time.Time `json:"created_at"`
}
