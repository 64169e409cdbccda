//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const maxCategoryNameLen = 255

// Category is a tag attached to acronyms through a many-to-many join.
// Names are unique; rows are created lazily the first time an acronym
// references the name.
type Category struct {
	ID   string `json:"id"   db:"id"`
	Name string `json:"name" db:"name"`
}

// ValidateCategoryName checks a category name supplied by a client.
func ValidateCategoryName(name string) error {
	n := strings.TrimSpace(name)
	if n == "" {
		return errors.New("category name cannot be empty")
	}
	if utf8.RuneCountInString(n) > maxCategoryNameLen {
		return errors.New("category name cannot exceed 255 characters")
	}
	return nil
}
