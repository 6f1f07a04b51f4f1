package domain

import "time"

// Attachment is owned transitively through its todo's owner and is removed
// together with the todo on hard delete.
type Attachment struct {
	ID        int64
	TodoID    int64
	FileName  string `validate:"required,max=255"`
	FileURL   string `validate:"required,url,max=500"`
	FileSize  int64
	CreatedAt time.Time
}
