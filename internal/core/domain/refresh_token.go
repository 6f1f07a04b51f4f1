package domain

import "time"

// RefreshToken is the persisted session handle behind the auth refresh
// flow. The value itself is an opaque uuid string.
type RefreshToken struct {
	ID        int64
	Token     string
	UserID    int64
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

func (rt *RefreshToken) Expired(now time.Time) bool {
	return now.After(rt.ExpiresAt)
}

func (rt *RefreshToken) Usable(now time.Time) bool {
	return !rt.Revoked && !rt.Expired(now)
}
