package user

import (
	"time"

	"github.com/google/uuid"
)

// Role controls what a user may do.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleLegalAnalyst Role = "legal_analyst"
	RoleManager      Role = "manager"
	RoleUser         Role = "user"
)

// Status is the account lifecycle state.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleLegalAnalyst, RoleManager, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
	Status       Status
	LastLogin    *time.Time
	Metadata     map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

type CreateUserInput struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
}
