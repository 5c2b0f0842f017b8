// Package user provides user domain models and behaviors.
package user

import (
	"context"
	"errors"
	"time"
)

// User models an application user resolved from an external identity provider.
type User struct {
	ID           uint
	PublicID     string
	AuthProvider string
	Issuer       string
	Subject      string
	Username     *string
	Email        string
	Name         *string
	Picture      *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity encapsulates the externally provided identity attributes.
type Identity struct {
	Provider string
	Issuer   string
	Subject  string
	Username *string
	Email    string
	Name     *string
	Picture  *string
}

// ProfilePatch describes a partial update to a user profile. Nil fields
// are left untouched.
type ProfilePatch struct {
	Name    *string
	Picture *string
}

// Repository defines storage operations for users.
type Repository interface {
	FindByIssuerAndSubject(ctx context.Context, issuer, subject string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByPublicID(ctx context.Context, publicID string) (*User, error)
	Upsert(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
}

// ErrInvalidIdentity indicates missing issuer, subject, or email on the identity payload.
var ErrInvalidIdentity = errors.New("invalid identity: issuer, subject, and email are required")
