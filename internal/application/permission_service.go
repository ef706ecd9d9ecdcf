package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/pkg/apperr"
)

// decision is one tier's answer in the resolution chain. The first tier with
// a definitive answer wins; noOpinion falls through to the next tier.
type decision int

const (
	noOpinion decision = iota
	allow
	deny
)

// PermissionService decides, for a (role, menu-or-board, action) triple,
// whether access is permitted. Precedence: ADMIN bypass, then
// category/inactive denial, then explicit menu grants, then the board's
// legacy role lists, then default deny.
type PermissionService struct {
	repos  repository.Set
	logger *logrus.Logger
}

func NewPermissionService(repos repository.Set, logger *logrus.Logger) *PermissionService {
	return &PermissionService{repos: repos, logger: logger}
}

type menuRule func(ctx context.Context, menu *entity.Menu, roleCode string, action entity.Action) (decision, error)

// CanAccessMenu resolves access to one menu entry.
func (s *PermissionService) CanAccessMenu(ctx context.Context, menu *entity.Menu, roleCode string, action entity.Action) (bool, error) {
	rules := []menuRule{
		s.adminBypass,
		s.categoryOrInactive,
		s.explicitGrant,
		s.boardFallback,
	}
	for _, rule := range rules {
		d, err := rule(ctx, menu, roleCode, action)
		if err != nil {
			return false, err
		}
		switch d {
		case allow:
			return true, nil
		case deny:
			return false, nil
		}
	}
	// No tier had an opinion: default deny for non-admins.
	return false, nil
}

func (s *PermissionService) adminBypass(_ context.Context, _ *entity.Menu, roleCode string, _ entity.Action) (decision, error) {
	if roleCode == entity.RoleAdmin {
		return allow, nil
	}
	return noOpinion, nil
}

// Categories are never directly accessible; inactive menus are invisible.
func (s *PermissionService) categoryOrInactive(_ context.Context, menu *entity.Menu, _ string, _ entity.Action) (decision, error) {
	if menu.IsCategory() || !menu.IsActive {
		return deny, nil
	}
	return noOpinion, nil
}

// An explicit MenuPermission row settles the question either way.
func (s *PermissionService) explicitGrant(ctx context.Context, menu *entity.Menu, roleCode string, action entity.Action) (decision, error) {
	perm, err := s.repos.MenuPermissions.Find(ctx, menu.ID, roleCode)
	if err != nil {
		return noOpinion, err
	}
	if perm == nil {
		return noOpinion, nil
	}
	if perm.Allows(action) {
		return allow, nil
	}
	return deny, nil
}

// Board-bound menus without an explicit grant inherit the board's legacy
// role lists, but only while the board is active.
func (s *PermissionService) boardFallback(ctx context.Context, menu *entity.Menu, roleCode string, action entity.Action) (decision, error) {
	if menu.BoardID == nil {
		return noOpinion, nil
	}
	board, err := s.repos.Boards.Get(ctx, *menu.BoardID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return noOpinion, nil
		}
		return noOpinion, err
	}
	if !board.IsActive {
		return noOpinion, nil
	}
	if board.HasRole(roleCode, action) {
		return allow, nil
	}
	return deny, nil
}

// CanAccessBoardByMenu resolves board access through the menus bound to it.
// Explicit grants on any active bound menu take precedence, unioned with OR
// semantics; otherwise the board's own role lists decide.
func (s *PermissionService) CanAccessBoardByMenu(ctx context.Context, board *entity.Board, roleCode string, action entity.Action) (bool, error) {
	if roleCode == entity.RoleAdmin {
		return true, nil
	}

	menuIDs, err := s.repos.Menus.ActiveItemIDsForBoard(ctx, board.ID)
	if err != nil {
		return false, err
	}
	if len(menuIDs) > 0 {
		perms, err := s.repos.MenuPermissions.ListForMenusByRole(ctx, menuIDs, roleCode)
		if err != nil {
			return false, err
		}
		if len(perms) > 0 {
			for _, p := range perms {
				if p.Allows(action) {
					return true, nil
				}
			}
			return false, nil
		}
	}

	// Legacy fallback for boards without explicit menu permission rows.
	return board.HasRole(roleCode, action), nil
}

// EnsureBoardPermission loads the board and gates it for the principal.
// Inactive boards read as NotFound for non-admins so their existence leaks
// nothing.
func (s *PermissionService) EnsureBoardPermission(ctx context.Context, boardID int64, p *Principal, action entity.Action) (*entity.Board, error) {
	board, err := s.repos.Boards.Get(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !board.IsActive && !p.IsAdmin() {
		return nil, apperr.NotFound("board not available")
	}
	if p.IsAdmin() {
		return board, nil
	}

	ok, err := s.CanAccessBoardByMenu(ctx, board, p.RoleCode, action)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("board permission denied")
	}
	return board, nil
}
