package application

import (
	"context"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/pkg/apperr"
)

// Principal is the authenticated caller: a user joined with its role code.
type Principal struct {
	ID       int64
	Username string
	Email    string
	RoleCode string
	RoleName string
	IsLocked bool
	IsActive bool
}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p *Principal) IsAdmin() bool { return p.RoleCode == entity.RoleAdmin }

// HasAdminPrivilege covers moderation actions open to managers as well.
func (p *Principal) HasAdminPrivilege() bool {
	return p.RoleCode == entity.RoleAdmin || p.RoleCode == entity.RoleManager
}

// LoadPrincipal resolves a user id into a Principal. A missing role row for
// an existing user is an internal inconsistency, not a client error.
func LoadPrincipal(ctx context.Context, repos repository.Set, userID int64) (*Principal, error) {
	u, err := repos.Users.Get(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Unauthorized("user not found")
		}
		return nil, err
	}
	role, err := repos.Roles.Get(ctx, u.RoleID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Internal("role missing for user", err)
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, apperr.Forbidden("user is inactive")
	}
	return &Principal{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		RoleCode: role.Code,
		RoleName: role.Name,
		IsLocked: u.IsLocked,
		IsActive: u.IsActive,
	}, nil
}
