package models

import "time"

const (
	VisibilityPrivate = "privada"
	VisibilityPublic  = "publica"
)

type Collection struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Visibility  string    `json:"visibility"`
	CreatedAt   time.Time `json:"created_at"`
}
