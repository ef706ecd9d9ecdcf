package entity

import "time"

// Comment on a post. Soft-deleted comments stay visible to ADMIN.
type Comment struct {
	ID        int64
	PostID    int64
	AuthorID  int64
	Content   string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
