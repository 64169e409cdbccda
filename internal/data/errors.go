package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrUserNotFound is returned when a user lookup matches no row.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameExists is returned when a duplicate username insert is rejected.
	ErrUsernameExists = errors.New("username already exists")

	// ErrTokenNotFound is returned when a bearer token matches no row.
	ErrTokenNotFound = errors.New("token not found")

	// ErrAcronymNotFound is returned when an acronym lookup matches no row.
	ErrAcronymNotFound = errors.New("acronym not found")

	// ErrCategoryNotFound is returned when a category lookup matches no row.
	ErrCategoryNotFound = errors.New("category not found")
)
