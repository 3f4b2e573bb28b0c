package models

import "time"

// User represents a user account stored in norbank-server.
// PasswordHash is only set for developer-login accounts; BankID and OIDC
// users are provisioned on first session resolution.
type User struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"password_hash,omitempty"`
	AuthMethod   string    `json:"auth_method"`
	CreatedAt    time.Time `json:"created_at"`
}
