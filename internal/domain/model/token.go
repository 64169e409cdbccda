//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import "time"

// Token is a long-lived bearer credential bound to one user. The Token value
// is an opaque random string, globally unique, revoked by deletion.
type Token struct {
	ID        string    `json:"id"         db:"id"`
	Token     string    `json:"token"      db:"token"`
	UserID    string    `json:"user_id"    db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
