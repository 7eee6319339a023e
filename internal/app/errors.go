package app

import "errors"

// Sentinel errors returned by App operations. Messages are user-facing and
// are written verbatim into the response envelope by the HTTP layer.
var (
	// ErrInvalidCredentials covers both unknown username and wrong password.
	// The two cases must stay indistinguishable to prevent account enumeration.
	ErrInvalidCredentials = errors.New("Invalid username or password")

	ErrUserFieldsRequired = errors.New("Name, email, username and password are required")
	ErrDuplicateIdentity  = errors.New("Username or email already exists")
	ErrUserNotFound       = errors.New("User not found")

	ErrLocationNameRequired    = errors.New("Location name is required")
	ErrContainerFieldsRequired = errors.New("Container name and location are required")
	ErrItemFieldsRequired      = errors.New("Item name and container are required")

	ErrLocationNotFound  = errors.New("Location not found")
	ErrContainerNotFound = errors.New("Container not found")

	ErrUpload = errors.New("Failed to store uploaded picture")
)
