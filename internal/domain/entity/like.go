package entity

import "time"

// PostLike records one user liking one post, unique per (post, user).
type PostLike struct {
	ID        int64
	PostID    int64
	UserID    int64
	CreatedAt time.Time
}
