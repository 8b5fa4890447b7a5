// Package store holds the gorm-backed repositories. Uniqueness of emails and
// handles is enforced by the database; the repositories translate constraint
// violations into typed errors so callers never see raw driver errors.
package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateEmail   = errors.New("email already exists")
	ErrDuplicateHandle  = errors.New("handle already exists")
	ErrDuplicate        = errors.New("duplicate record")
	ErrLocationMismatch = errors.New("location hierarchy is inconsistent")
)

// translate maps gorm and driver errors onto the package's error values.
// Unique violations are detected from the message so it works with both
// PostgreSQL and SQLite.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if !isUniqueViolation(err) {
		return err
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "email"):
		return fmt.Errorf("%w: %v", ErrDuplicateEmail, err)
	case strings.Contains(msg, "handle"):
		return fmt.Errorf("%w: %v", ErrDuplicateHandle, err)
	default:
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}
