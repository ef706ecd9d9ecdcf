package entity

import "time"

// MenuPermission is an explicit grant for one (menu, role) pair, unique per
// pair. Absence of a row means "no explicit grant": the resolver falls back
// to the board's legacy role lists.
type MenuPermission struct {
	ID        int64
	MenuID    int64
	RoleCode  string
	CanRead   bool
	CanWrite  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Allows reports whether the grant covers the action. Write implies read
// visibility.
func (p *MenuPermission) Allows(action Action) bool {
	if action == ActionWrite {
		return p.CanWrite
	}
	return p.CanRead || p.CanWrite
}
