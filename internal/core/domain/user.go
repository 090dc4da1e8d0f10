package domain

import "time"

// User models a registered account. The password is only ever held as a
// bcrypt hash once the account exists.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Fullname     string    `json:"fullname"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated subject decoded from a session token.
type Identity struct {
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
