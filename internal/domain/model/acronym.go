//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxAcronymLen = 255

// Acronym is an abbreviation owned by a user, e.g. short "OMG", long "Oh My God".
type Acronym struct {
	ID        string    `json:"id"         db:"id"`
	Short     string    `json:"short"      db:"short"`
	Long      string    `json:"long"       db:"long"`
	UserID    string    `json:"user_id"    db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AcronymData carries the client-supplied fields for creating or updating an
// acronym. Categories holds the full desired category-name set for the
// acronym; on update the association set is reconciled against it.
type AcronymData struct {
	Short      string   `json:"short"`
	Long       string   `json:"long"`
	Categories []string `json:"categories,omitempty"`
}

// Validate checks required fields and length limits.
func (d *AcronymData) Validate() error {
	if strings.TrimSpace(d.Short) == "" {
		return errors.New("short is required and cannot be empty")
	}
	if strings.TrimSpace(d.Long) == "" {
		return errors.New("long is required and cannot be empty")
	}
	if utf8.RuneCountInString(d.Short) > maxAcronymLen || utf8.RuneCountInString(d.Long) > maxAcronymLen {
		return errors.New("short and long cannot exceed 255 characters")
	}
	return nil
}
