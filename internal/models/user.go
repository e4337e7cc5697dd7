package models

import "time"

// User is an account owner identified by a unique login id.
type User struct {
	ID             int64     `json:"id"`
	LoginID        string    `json:"login_id"`
	HashedPassword string    `json:"-"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
}
