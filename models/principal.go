package models

import "strings"

// Role is the authorization role carried by an account and its tokens
type Role string

const (
	RoleUser     Role = "user"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// Status is the lifecycle flag of an account. Accounts are never hard deleted.
type Status string

const (
	StatusActive  Status = "active"
	StatusPending Status = "pending"
	StatusDeleted Status = "deleted"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPending, StatusDeleted:
		return true
	}
	return false
}

// Variant selects which kind of account an operation targets
type Variant string

const (
	VariantUser     Variant = "user"
	VariantProvider Variant = "provider"
)

// Valid reports whether v is a known variant
func (v Variant) Valid() bool {
	return v == VariantUser || v == VariantProvider
}

// DefaultRole is the role assigned to accounts created through this variant
func (v Variant) DefaultRole() Role {
	if v == VariantProvider {
		return RoleProvider
	}
	return RoleUser
}

// DefaultStatus is the status assigned to accounts created through this variant.
// Providers wait for verification before they become active.
func (v Variant) DefaultStatus() Status {
	if v == VariantProvider {
		return StatusPending
	}
	return StatusActive
}

// Account is the capability set shared by User and Provider
type Account interface {
	GetID() string
	GetEmail() string
	GetRole() Role
	GetStatus() Status
	GetPasswordHash() string
	ProfileCompleted() bool
	Variant() Variant
}

// NormalizeHandle trims and lower-cases a provider handle
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimSpace(handle))
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
