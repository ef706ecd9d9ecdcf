package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/pkg/apperr"
)

func newMenuService(env *testEnv) *MenuService {
	perms := NewPermissionService(env.repos, testLogger())
	return NewMenuService(env.repos, env.txr, perms, testLogger())
}

func TestMenuCreatePathValidation(t *testing.T) {
	env := newTestEnv()
	svc := newMenuService(env)
	ctx := context.Background()

	_, err := svc.Create(ctx, MenuInput{Name: "Bad", Path: "   "})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, err = svc.Create(ctx, MenuInput{Name: "Bad", Path: "boards/free"})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	m, err := svc.Create(ctx, MenuInput{Name: "Free", Path: "  /boards/free  ", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "/boards/free", m.Path)
}

func TestMenuCreateCategoryStripsBindings(t *testing.T) {
	env := newTestEnv()
	svc := newMenuService(env)

	parentID := int64(99)
	boardID := int64(7)
	m, err := svc.Create(context.Background(), MenuInput{
		Name: "Menu", Path: entity.CategoryPath,
		ParentID: &parentID, BoardID: &boardID, IsActive: true,
	})
	require.NoError(t, err)
	assert.Nil(t, m.ParentID)
	assert.Nil(t, m.BoardID)
	assert.True(t, m.IsCategory())
}

func TestMenuUpdatePartial(t *testing.T) {
	env := newTestEnv()
	svc := newMenuService(env)
	ctx := context.Background()

	m := env.addMenu("Free", "/boards/free", nil, true)

	name := "Free Board"
	active := false
	got, err := svc.Update(ctx, m.ID, MenuUpdate{Name: &name, IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, "Free Board", got.Name)
	assert.Equal(t, "/boards/free", got.Path, "untouched fields survive")
	assert.False(t, got.IsActive)

	bad := "no-slash"
	_, err = svc.Update(ctx, m.ID, MenuUpdate{Path: &bad})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestMenuDeleteCategoryWithChildrenConflicts(t *testing.T) {
	env := newTestEnv()
	svc := newMenuService(env)
	ctx := context.Background()

	cat := env.addMenu("Menu", entity.CategoryPath, nil, true)
	child := env.addMenu("Free", "/boards/free", nil, true)
	child.ParentID = &cat.ID
	require.NoError(t, env.menus.Update(ctx, child))

	err := svc.Delete(ctx, cat.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Detach the child: the category now deletes outright.
	child.ParentID = nil
	require.NoError(t, env.menus.Update(ctx, child))
	require.NoError(t, svc.Delete(ctx, cat.ID))
	_, err = env.menus.Get(ctx, cat.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestMenuDeleteItemDeactivates(t *testing.T) {
	env := newTestEnv()
	svc := newMenuService(env)
	ctx := context.Background()

	m := env.addMenu("Free", "/boards/free", nil, true)
	require.NoError(t, svc.Delete(ctx, m.ID))

	got, err := env.menus.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive, "items soft-deactivate instead of deleting")
}

func TestMenuReorder(t *testing.T) {
	env := newTestEnv()
	svc := newMenuService(env)
	ctx := context.Background()

	a := env.addMenu("A", "/a", nil, true)
	b := env.addMenu("B", "/b", nil, true)

	err := svc.Reorder(ctx, []ReorderItem{
		{ID: a.ID, SortOrder: 20},
		{ID: b.ID, SortOrder: 10},
	})
	require.NoError(t, err)

	menus, err := env.menus.List(ctx)
	require.NoError(t, err)
	require.Len(t, menus, 2)
	assert.Equal(t, b.ID, menus[0].ID)
	assert.Equal(t, a.ID, menus[1].ID)

	err = svc.Reorder(ctx, []ReorderItem{{ID: 12345, SortOrder: 1}})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestMenuListVisible(t *testing.T) {
	env := newTestEnv()
	svc := newMenuService(env)
	ctx := context.Background()

	cat := env.addMenu("Menu", entity.CategoryPath, nil, true)
	env.addMenu("Empty", entity.CategoryPath, nil, true)

	board := env.addBoard("free", true, []string{entity.RoleUser}, nil)
	visible := env.addMenu("Free", "/boards/free", &board.ID, true)
	visible.ParentID = &cat.ID
	require.NoError(t, env.menus.Update(ctx, visible))

	hidden := env.addMenu("Admin", "/admin/users", nil, true)
	env.grant(hidden.ID, entity.RoleAdmin, true, true)

	user := &Principal{ID: 1, RoleCode: entity.RoleUser}
	menus, err := svc.ListVisible(ctx, user)
	require.NoError(t, err)

	var names []string
	for _, m := range menus {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Menu", "Free"}, names, "empty categories and denied items are filtered")

	admin := &Principal{ID: 2, RoleCode: entity.RoleAdmin}
	menus, err = svc.ListVisible(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, menus, 4, "admin sees every active entry")
}
