package entity

import "time"

// Attachment is an uploaded file bound to a post. Path is the object-store
// location, not a URL.
type Attachment struct {
	ID           int64
	PostID       int64
	UploaderID   int64
	OriginalName string
	StoredName   string
	MimeType     string
	SizeBytes    int64
	Path         string
	CreatedAt    time.Time
}
