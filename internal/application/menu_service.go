package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/pkg/apperr"
)

// MenuService owns the menu tree lifecycle and the per-role navigation view.
type MenuService struct {
	repos  repository.Set
	txr    repository.TxRunner
	perms  *PermissionService
	logger *logrus.Logger
}

func NewMenuService(repos repository.Set, txr repository.TxRunner, perms *PermissionService, logger *logrus.Logger) *MenuService {
	return &MenuService{repos: repos, txr: txr, perms: perms, logger: logger}
}

// ListVisible returns active menus the principal may see. Items pass the
// resolver's read check; a category appears only when at least one visible
// item points at it. ADMIN sees every active entry.
func (s *MenuService) ListVisible(ctx context.Context, p *Principal) ([]entity.Menu, error) {
	menus, err := s.repos.Menus.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if p.IsAdmin() {
		return menus, nil
	}

	visibleItems := make(map[int64]bool)
	visibleCategories := make(map[int64]bool)
	for i := range menus {
		m := &menus[i]
		if m.IsCategory() {
			continue
		}
		ok, err := s.perms.CanAccessMenu(ctx, m, p.RoleCode, entity.ActionRead)
		if err != nil {
			return nil, err
		}
		if ok {
			visibleItems[m.ID] = true
			if m.ParentID != nil {
				visibleCategories[*m.ParentID] = true
			}
		}
	}

	out := make([]entity.Menu, 0, len(menus))
	for _, m := range menus {
		if m.IsCategory() {
			if visibleCategories[m.ID] {
				out = append(out, m)
			}
			continue
		}
		if visibleItems[m.ID] {
			out = append(out, m)
		}
	}
	return out, nil
}

// ListAll returns every menu including inactive ones, for administration.
func (s *MenuService) ListAll(ctx context.Context) ([]entity.Menu, error) {
	return s.repos.Menus.List(ctx)
}

// MenuInput carries admin create/update fields.
type MenuInput struct {
	Name      string
	Path      string
	Icon      string
	ParentID  *int64
	BoardID   *int64
	SortOrder int
	IsActive  bool
}

// validateMenuPath trims and validates a path: non-empty, and either the
// category sentinel or an absolute route.
func validateMenuPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", apperr.BadRequest("path is required")
	}
	if path != entity.CategoryPath && !strings.HasPrefix(path, "/") {
		return "", apperr.BadRequest("path must start with '/'")
	}
	return path, nil
}

// Create adds a menu entry. Category entries are stripped of parent and board
// bindings regardless of what the payload carried.
func (s *MenuService) Create(ctx context.Context, in MenuInput) (*entity.Menu, error) {
	path, err := validateMenuPath(in.Path)
	if err != nil {
		return nil, err
	}

	m := &entity.Menu{
		Name:      in.Name,
		Path:      path,
		Icon:      in.Icon,
		ParentID:  in.ParentID,
		BoardID:   in.BoardID,
		SortOrder: in.SortOrder,
		IsActive:  in.IsActive,
	}
	if m.IsCategory() {
		m.ParentID = nil
		m.BoardID = nil
	}
	if err := s.repos.Menus.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// MenuUpdate carries partial admin updates; nil fields are left untouched.
type MenuUpdate struct {
	Name      *string
	Path      *string
	Icon      *string
	ParentID  *int64
	BoardID   *int64
	SortOrder *int
	IsActive  *bool
}

// Update patches a menu entry, re-applying path validation whenever the path
// changes. Switching to the category sentinel clears parent/board bindings.
func (s *MenuService) Update(ctx context.Context, id int64, in MenuUpdate) (*entity.Menu, error) {
	m, err := s.repos.Menus.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Path != nil {
		path, err := validateMenuPath(*in.Path)
		if err != nil {
			return nil, err
		}
		m.Path = path
	}
	if in.Icon != nil {
		m.Icon = *in.Icon
	}
	if in.ParentID != nil {
		m.ParentID = in.ParentID
	}
	if in.BoardID != nil {
		m.BoardID = in.BoardID
	}
	if in.SortOrder != nil {
		m.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}

	if m.IsCategory() {
		m.ParentID = nil
		m.BoardID = nil
	}

	if err := s.repos.Menus.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ReorderItem pairs a menu id with its new sort order.
type ReorderItem struct {
	ID        int64 `json:"id" binding:"required"`
	SortOrder int   `json:"sort_order"`
}

// Reorder reassigns sort orders in one transaction; a missing id aborts the
// whole batch.
func (s *MenuService) Reorder(ctx context.Context, items []ReorderItem) error {
	return s.txr.InTx(ctx, func(repos repository.Set) error {
		for _, item := range items {
			if err := repos.Menus.UpdateSortOrder(ctx, item.ID, item.SortOrder); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a category outright (Conflict while any child references
// it) and soft-deactivates an item, preserving referential history.
func (s *MenuService) Delete(ctx context.Context, id int64) error {
	m, err := s.repos.Menus.Get(ctx, id)
	if err != nil {
		return err
	}

	if m.IsCategory() {
		hasChildren, err := s.repos.Menus.HasChildren(ctx, m.ID)
		if err != nil {
			return err
		}
		if hasChildren {
			return apperr.Conflict("category still has menu items")
		}
		return s.repos.Menus.Delete(ctx, m.ID)
	}

	m.IsActive = false
	return s.repos.Menus.Update(ctx, m)
}
