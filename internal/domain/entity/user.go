package entity

import "time"

// User holds an account. Passwords are stored as bcrypt hashes in
// PasswordHash; the role is referenced by id into the role registry.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	RoleID       int64
	IsLocked     bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
