package model

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the access level of a user account.
type Role string

const (
	RoleCustomer    Role = "customer"
	RoleAdmin       Role = "admin"
	RoleShopManager Role = "shop_manager"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleShopManager:
		return true
	}
	return false
}

// User represents a user account. Customers are users with role=customer;
// they may be created explicitly through signup or implicitly during guest
// checkout.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	Role         Role      `json:"role" db:"role"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Actor is the authenticated principal attached to a request.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// IsStaff reports whether the actor may access admin surfaces.
func (a Actor) IsStaff() bool {
	return a.Role == RoleAdmin || a.Role == RoleShopManager
}

// GuestInfo is the contact information submitted during guest checkout.
// Either Name or FirstName/LastName may be supplied.
type GuestInfo struct {
	Name      string `json:"name,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// RegisterRequest is the payload for customer signup.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
