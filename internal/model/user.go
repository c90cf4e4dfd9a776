// Package model defines domain entities for the application.
package model

import "time"

// User is a registered caller. Records live only for the lifetime of the process.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"created_at"`
}
