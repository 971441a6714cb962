package models

import (
	"time"
)

// User roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Account lifecycle statuses
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

type User struct {
	ID             string `bson:"_id" json:"id"`
	Email          string `bson:"email" json:"email"`
	FirstName      string `bson:"first_name" json:"firstName"`
	LastName       string `bson:"last_name" json:"lastName"`
	Role           string `bson:"role" json:"role"`
	HashedPassword string `bson:"hashed_password" json:"-"`
	Status         string `bson:"status" json:"status"`
	EmailVerified  bool   `bson:"email_verified" json:"emailVerified"`

	Phone       *string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Bio         *string    `bson:"bio,omitempty" json:"bio,omitempty"`
	Avatar      *string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	DateOfBirth *time.Time `bson:"date_of_birth,omitempty" json:"dateOfBirth,omitempty"`
	Address     *string    `bson:"address,omitempty" json:"address,omitempty"`

	RefreshToken             *string    `bson:"refresh_token,omitempty" json:"-"`
	EmailVerificationToken   *string    `bson:"email_verification_token,omitempty" json:"-"`
	EmailVerificationExpires *time.Time `bson:"email_verification_expires,omitempty" json:"-"`
	PasswordResetToken       *string    `bson:"password_reset_token,omitempty" json:"-"`
	PasswordResetExpires     *time.Time `bson:"password_reset_expires,omitempty" json:"-"`

	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updatedAt"`
}

// FullName returns the display name used in notification emails.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasActiveResetToken reports whether a password reset is currently
// outstanding. An expired or absent token means no active reset.
func (u *User) HasActiveResetToken(now time.Time) bool {
	return u.PasswordResetToken != nil &&
		u.PasswordResetExpires != nil &&
		now.Before(*u.PasswordResetExpires)
}

// UserUpdate holds the partial fields applied by the update operation.
// Nil pointers leave the stored value untouched.
type UserUpdate struct {
	FirstName   *string    `bson:"first_name,omitempty"`
	LastName    *string    `bson:"last_name,omitempty"`
	Role        *string    `bson:"role,omitempty"`
	Status      *string    `bson:"status,omitempty"`
	Phone       *string    `bson:"phone,omitempty"`
	Bio         *string    `bson:"bio,omitempty"`
	Avatar      *string    `bson:"avatar,omitempty"`
	DateOfBirth *time.Time `bson:"date_of_birth,omitempty"`
	Address     *string    `bson:"address,omitempty"`
}

// UserFilter narrows list queries. Empty fields match everything.
type UserFilter struct {
	Role   string
	Status string
}
