package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role of a user of the API.
type Role string

const (
	RoleRep     Role = "rep"
	RoleManager Role = "manager"
)

// User is a field rep or manager who signs in to the API.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Repository defines persistence operations for users.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
}
