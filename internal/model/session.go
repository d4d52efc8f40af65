package model

import "time"

// Session is an editor session established with the PIN.
type Session struct {
	ID        string    `json:"-"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
