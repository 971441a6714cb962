package models

import (
	"time"
)

// Session records a refresh token issued at login. The sessions collection
// carries a TTL index on ExpiresAt, so expired sessions disappear on their
// own. Refresh token exchange itself is not implemented.
type Session struct {
	ID           string    `bson:"_id" json:"id"`
	UserID       string    `bson:"user_id" json:"user_id"`
	RefreshToken string    `bson:"refresh_token" json:"-"`
	UserAgent    string    `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	IPAddress    string    `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	IsActive     bool      `bson:"is_active" json:"is_active"`
	ExpiresAt    time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	LastUsedAt   time.Time `bson:"last_used_at" json:"last_used_at"`
}
