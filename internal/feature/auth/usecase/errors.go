package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when the password does not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid password")

	// ErrPasswordTooShort is returned when a signup password does not meet the minimum length.
	ErrPasswordTooShort = errors.New("password too short")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when a session exists but has passed its expiry.
	ErrSessionExpired = errors.New("session expired")

	// ErrSessionRevoked is returned when a session was revoked by logout.
	ErrSessionRevoked = errors.New("session revoked")
)
