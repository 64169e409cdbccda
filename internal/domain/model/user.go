//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxUsernameLen = 255
	maxUserNameLen = 255
	minPasswordLen = 8
)

// User is a registered account. PasswordHash is the opaque output of the
// credential hasher and is never serialized to clients.
type User struct {
	ID           string    `json:"id"                    db:"id"`
	Name         string    `json:"name"                  db:"name"`
	Username     string    `json:"username"              db:"username"`
	PasswordHash string    `json:"-"                     db:"password_hash"`
	ProfileURL   *string   `json:"profile_url,omitempty" db:"profile_url"`
	CreatedAt    time.Time `json:"created_at"            db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"            db:"updated_at"`
}

// PublicUser is the client-facing projection of a User.
type PublicUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Public returns the projection safe to expose in API responses.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Username: u.Username}
}

// CreateUserRequest carries input for registering a user with credentials.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks required fields and length limits.
func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Name) > maxUserNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	username := strings.TrimSpace(r.Username)
	if username == "" {
		return errors.New("username is required and cannot be empty")
	}
	if strings.ContainsAny(username, " \t\n") {
		return errors.New("username cannot contain whitespace")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return errors.New("username cannot exceed 255 characters")
	}
	if utf8.RuneCountInString(r.Password) < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// ProvisionUserRequest carries input for creating a user from a federated
// identity. No password is supplied; the caller stores a placeholder hash.
type ProvisionUserRequest struct {
	Name     string
	Username string
}

// Validate checks required fields.
func (r *ProvisionUserRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return errors.New("username is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Username) > maxUsernameLen {
		return errors.New("username cannot exceed 255 characters")
	}
	return nil
}
