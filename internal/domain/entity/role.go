package entity

import "time"

// Role is an entry in the role registry. The id sequence doubles as display
// rank: role-code lists shown to admins are sorted by it, not alphabetically.
type Role struct {
	ID                int64
	Code              string
	Name              string
	Description       string
	SystemPermissions []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
