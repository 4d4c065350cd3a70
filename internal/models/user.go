package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	UserType     string    `json:"user_type"`
	Institution  string    `json:"institution,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
