package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the user's permission level. The set is closed: every switch over
// Role must handle all three values.
type Role int

const (
	// RoleUser is a plain reader who may write reviews.
	RoleUser Role = iota + 1
	// RoleModerator may edit books and remove reviews.
	RoleModerator
	// RoleAdmin has full access to the catalog.
	RoleAdmin
)

// ParseRole converts a stored or user-supplied role name into a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "administrator":
		return RoleAdmin, nil
	case "moderator", "moder":
		return RoleModerator, nil
	case "user", "member":
		return RoleUser, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	default:
		return false
	}
}

// String returns the stable name persisted in the users table.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleModerator:
		return "moderator"
	case RoleUser:
		return "user"
	default:
		return "unknown"
	}
}

// Label returns a human readable role name for templates.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleModerator:
		return "Moderator"
	case RoleUser:
		return "Reader"
	default:
		return "Unknown"
	}
}

// User is an account that can sign in to the catalog.
// Users are provisioned by the seed tool; the web application only reads them.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         Role
	LastName     string
	FirstName    string
	MiddleName   string
	CreatedAt    time.Time
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsModerator returns true if the user is a moderator.
func (u *User) IsModerator() bool {
	return u != nil && u.Role == RoleModerator
}

// FullName joins the name parts that are set, falling back to the login.
func (u *User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.LastName, u.FirstName, u.MiddleName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return u.Login
	}
	return strings.Join(parts, " ")
}
