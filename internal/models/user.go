package models

import "time"

// User represents an application user. Users are created by the identity
// provider on first sign-in and own every other record through UserID.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"size:64" json:"name"`
	Image        string    `gorm:"size:512" json:"image,omitempty"`
	PasswordHash string    `gorm:"size:255" json:"-"` // empty for OAuth-only accounts
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	FailedLoginAttempts int        `gorm:"default:0" json:"-"` // consecutive, reset on success
	LockedUntil         *time.Time `gorm:"index" json:"-"`
	LastLoginAt         *time.Time `json:"-"`
	LastLoginIP         string     `gorm:"size:64" json:"-"`
}
