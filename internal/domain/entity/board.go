package entity

import "time"

// Board is a content container. ReadRoles/WriteRoles are the legacy coarse
// permission surface; once any menu pointing at the board carries an explicit
// permission row they become a derived projection maintained by the matrix
// synchronizer.
type Board struct {
	ID          int64
	Key         string
	Name        string
	Description string
	BoardType   string
	IsActive    bool
	SortOrder   int
	ReadRoles   []string
	WriteRoles  []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasRole reports membership of roleCode in the board's role list for action.
func (b *Board) HasRole(roleCode string, action Action) bool {
	roles := b.ReadRoles
	if action == ActionWrite {
		roles = b.WriteRoles
	}
	for _, code := range roles {
		if code == roleCode {
			return true
		}
	}
	return false
}
