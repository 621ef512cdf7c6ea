// Package model defines domain entities for the application.
package model

import "time"

// User is a registered account. PasswordHash is an argon2id PHC string.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated caller a session resolves to.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Identity returns the durable reference for the user.
func (u *User) Identity() *Identity {
	return &Identity{UserID: u.ID, Username: u.Username}
}
