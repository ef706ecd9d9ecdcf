package entity

import "time"

// RefreshToken stores the SHA-256 hash of an issued refresh token. A non-nil
// RevokedAt invalidates it.
type RefreshToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Usable reports whether the token is unrevoked and unexpired at now.
func (t *RefreshToken) Usable(now time.Time) bool {
	return t.RevokedAt == nil && t.ExpiresAt.After(now)
}
