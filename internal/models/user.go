package models

import "time"

// User is a stored player identity. PasswordHash never leaves the service.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Nick         string    `json:"nick"`
	Email        string    `json:"email"`
	Gang         string    `json:"gang"`
	IsAnonymous  bool      `json:"isAnonymous"`
	Has2FA       bool      `json:"has2FA"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRecord is the sanitized shape echoed by the auth endpoints.
// Email is absent for anonymous players.
type UserRecord struct {
	ID          int64  `json:"id" validate:"required"`
	Name        string `json:"name"`
	Nick        string `json:"nick" validate:"required"`
	Email       string `json:"email,omitempty"`
	Gang        string `json:"gang"`
	IsAnonymous bool   `json:"isAnonymous"`
	Has2FA      bool   `json:"has2FA"`
}

// Record returns the public view of u.
func (u User) Record() UserRecord {
	rec := UserRecord{
		ID:          u.ID,
		Name:        u.Name,
		Nick:        u.Nick,
		Gang:        u.Gang,
		IsAnonymous: u.IsAnonymous,
		Has2FA:      u.Has2FA,
	}
	if !u.IsAnonymous {
		rec.Email = u.Email
	}
	return rec
}
