package entity

import "time"

// Menu is a navigation entry. A path equal to CategoryPath marks a grouping
// node with no parent, no board and no permissions of its own; any other path
// is a routable item that may be bound to a board.
type Menu struct {
	ID        int64
	Name      string
	Path      string
	Icon      string
	ParentID  *int64
	BoardID   *int64
	SortOrder int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCategory reports whether the entry is a grouping node.
func (m *Menu) IsCategory() bool { return m.Path == CategoryPath }
