package domain

import "time"

// Category and Tag are per-user reference data; (UserID, Name) is unique
// for each type.

type Category struct {
	ID         int64
	UserID     int64
	Name       string `validate:"required,max=100"`
	Color      string `validate:"omitempty,hexcolor"`
	OrderIndex int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Tag struct {
	ID        int64
	UserID    int64
	Name      string `validate:"required,max=50"`
	Color     string `validate:"omitempty,hexcolor"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
