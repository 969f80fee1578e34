// Package domain defines the core account domain entities and types.
package domain

import (
	"time"
)

// Role is the privilege level of an account. Higher values strictly
// dominate lower ones.
type Role int

// Role hierarchy, lowest to highest.
const (
	RoleUser Role = iota + 1
	RoleModerator
	RoleAdmin
	RoleSuperAdmin
	RoleOwner
)

// roleNames maps roles to their canonical API names.
var roleNames = map[Role]string{
	RoleUser:       "User",
	RoleModerator:  "Moderator",
	RoleAdmin:      "Admin",
	RoleSuperAdmin: "SuperAdmin",
	RoleOwner:      "Owner",
}

// String returns the canonical name of the role, or "Unknown" for values
// outside the hierarchy.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether the role is inside the hierarchy.
func (r Role) Valid() bool {
	return r >= RoleUser && r <= RoleOwner
}

// CanManage reports whether r strictly dominates the target role. Equal
// roles never manage each other.
func (r Role) CanManage(target Role) bool {
	return r > target
}

// CanAssign reports whether r may grant newRole to another account. A
// caller can never hand out a role above its own.
func (r Role) CanAssign(newRole Role) bool {
	return newRole.Valid() && newRole <= r
}

// Status is the lifecycle state of an account.
type Status string

// Account lifecycle states.
const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusLocked    Status = "locked"
	StatusDeleted   Status = "deleted"
)

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended, StatusLocked, StatusDeleted:
		return true
	}
	return false
}

// Account represents a registered account.
type Account struct {
	ID            int64
	Email         string
	Username      string
	FirstName     string
	LastName      string
	Phone         string
	Role          Role
	Status        Status
	EmailVerified bool
	PhoneVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// IsDeleted reports whether the account has been soft deleted.
func (a *Account) IsDeleted() bool {
	return a.DeletedAt != nil || a.Status == StatusDeleted
}

// Credential holds the salted password digest for an account. It is never
// serialized to API responses.
type Credential struct {
	AccountID int64
	Salt      string
	Hash      string
	UpdatedAt time.Time
}

// UpdateFields is a partial update of mutable account attributes. Nil
// fields are left untouched.
type UpdateFields struct {
	Status        *Status
	EmailVerified *bool
	PhoneVerified *bool
}

// Empty reports whether the update carries no changes.
func (u UpdateFields) Empty() bool {
	return u.Status == nil && u.EmailVerified == nil && u.PhoneVerified == nil
}

// ListFilters narrows account listings. Nil fields match everything.
type ListFilters struct {
	Status *Status
	Role   *Role
}

// SearchFields enumerates the columns admin search may match against, in
// API naming. An empty set means all of them.
var SearchFields = []string{"firstname", "lastname", "username", "email"}

// ValidSearchField reports whether the field is searchable.
func ValidSearchField(field string) bool {
	for _, f := range SearchFields {
		if f == field {
			return true
		}
	}
	return false
}

// DashboardCounts aggregates account statistics for the admin dashboard.
type DashboardCounts struct {
	TotalAccounts  int64
	ByStatus       map[Status]int64
	ByRole         map[Role]int64
	EmailVerified  int64
	RecentAccounts int64
}
