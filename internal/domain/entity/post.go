package entity

import "time"

// Post is a board entry. Deletion is soft; QnaStatus is set only for posts on
// the qna board.
type Post struct {
	ID        int64
	BoardID   int64
	Title     string
	Content   string
	AuthorID  int64
	IsPinned  bool
	IsDeleted bool
	ViewCount int
	QnaStatus string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
