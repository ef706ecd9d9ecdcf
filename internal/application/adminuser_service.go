package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/pkg/apperr"
)

// AdminUserService backs the admin user screens: search, role changes, and
// locking accounts.
type AdminUserService struct {
	repos  repository.Set
	logger *logrus.Logger
}

func NewAdminUserService(repos repository.Set, logger *logrus.Logger) *AdminUserService {
	return &AdminUserService{repos: repos, logger: logger}
}

type AdminUserView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	RoleCode  string    `json:"role_code"`
	RoleName  string    `json:"role_name"`
	IsLocked  bool      `json:"is_locked"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type AdminUserListResult struct {
	Users    []AdminUserView `json:"users"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// List returns a page of users, optionally filtered by a username/email
// substring search.
func (s *AdminUserService) List(ctx context.Context, search string, page, pageSize int) (*AdminUserListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	users, total, err := s.repos.Users.List(ctx, repository.UserListFilter{Search: search, Page: page, PageSize: pageSize})
	if err != nil {
		return nil, err
	}

	roles, err := s.repos.Roles.List(ctx)
	if err != nil {
		return nil, err
	}
	rolesByID := make(map[int64]entity.Role, len(roles))
	for _, r := range roles {
		rolesByID[r.ID] = r
	}

	out := make([]AdminUserView, 0, len(users))
	for _, u := range users {
		role := rolesByID[u.RoleID]
		out = append(out, AdminUserView{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			RoleCode:  role.Code,
			RoleName:  role.Name,
			IsLocked:  u.IsLocked,
			IsActive:  u.IsActive,
			CreatedAt: u.CreatedAt,
		})
	}
	return &AdminUserListResult{Users: out, Total: total, Page: page, PageSize: pageSize}, nil
}

// ChangeRole moves a user to the role named by code.
func (s *AdminUserService) ChangeRole(ctx context.Context, userID int64, roleCode string) error {
	role, err := s.repos.Roles.GetByCode(ctx, roleCode)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return apperr.NotFound("role %s not found", roleCode)
		}
		return err
	}
	u, err := s.repos.Users.Get(ctx, userID)
	if err != nil {
		return err
	}
	u.RoleID = role.ID
	if err := s.repos.Users.Update(ctx, u); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"user_id": userID, "role": roleCode}).Info("user role changed")
	return nil
}

// SetLocked locks or unlocks an account. Locked users cannot log in or
// refresh; existing access tokens expire on their own.
func (s *AdminUserService) SetLocked(ctx context.Context, userID int64, locked bool) error {
	u, err := s.repos.Users.Get(ctx, userID)
	if err != nil {
		return err
	}
	u.IsLocked = locked
	if err := s.repos.Users.Update(ctx, u); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"user_id": userID, "locked": locked}).Info("user lock state changed")
	return nil
}
