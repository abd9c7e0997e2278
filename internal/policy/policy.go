// Package policy decides which catalog operations a user may perform.
//
// The action set is closed. Adding an action means adding a constant, its
// name, and a case in Allowed; anything else is denied.
package policy

import "github.com/listenupapp/bookshelf/internal/domain"

// Action is an operation guarded by the policy.
type Action int

const (
	// Create adds a book.
	Create Action = iota + 1
	// Read views the catalog.
	Read
	// Update edits a book.
	Update
	// Delete removes a book.
	Delete
	// WriteReview posts a review.
	WriteReview
	// DeleteReview removes someone's review.
	DeleteReview
	// AssignRole changes another user's role.
	AssignRole
)

var actionNames = map[Action]string{
	Create:       "create",
	Read:         "read",
	Update:       "update",
	Delete:       "delete",
	WriteReview:  "write_review",
	DeleteReview: "delete_review",
	AssignRole:   "assign_role",
}

// Actions returns every defined action in declaration order.
func Actions() []Action {
	return []Action{Create, Read, Update, Delete, WriteReview, DeleteReview, AssignRole}
}

// String returns the action's stable snake_case name.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAction maps a name such as "write_review" to its Action.
func ParseAction(name string) (Action, bool) {
	for a, n := range actionNames {
		if n == name {
			return a, true
		}
	}
	return 0, false
}

// Allowed reports whether actor may perform action. A nil actor is an
// anonymous visitor. target is the user the action is aimed at, when there
// is one; no current rule depends on it.
func Allowed(actor *domain.User, action Action, target *domain.User) bool {
	switch action {
	case Read:
		return true
	case WriteReview:
		return actor != nil
	case Create, Delete, AssignRole:
		return hasRole(actor, domain.RoleAdmin)
	case Update, DeleteReview:
		return hasRole(actor, domain.RoleAdmin, domain.RoleModerator)
	default:
		return false
	}
}

// AllowedName is Allowed for callers holding an action name, such as templates.
// Unknown names are denied.
func AllowedName(actor *domain.User, name string, target *domain.User) bool {
	action, ok := ParseAction(name)
	if !ok {
		return false
	}
	return Allowed(actor, action, target)
}

func hasRole(actor *domain.User, roles ...domain.Role) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleModerator, domain.RoleUser:
		for _, r := range roles {
			if actor.Role == r {
				return true
			}
		}
		return false
	default:
		return false
	}
}
