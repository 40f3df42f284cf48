package model

import "time"

// User represents an account on the planify server
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session represents an active login session
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Profile is the public identity record a client session is built from.
// Role is authoritative: clients never elevate it locally.
type Profile struct {
	UserID string `json:"id"`
	Name   string `json:"username"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Profile returns the public view of the user
func (u *User) Profile() Profile {
	return Profile{UserID: u.ID, Name: u.Username, Email: u.Email, Role: u.Role}
}
