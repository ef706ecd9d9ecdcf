package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/pkg/apperr"
)

func newMatrixService(env *testEnv) *MatrixService {
	return NewMatrixService(env.repos, env.txr, testLogger())
}

func TestMatrixViewEffectiveRoles(t *testing.T) {
	env := newTestEnv()
	svc := newMatrixService(env)
	ctx := context.Background()

	board := env.addBoard("free", true, []string{entity.RoleUser, entity.RoleManager}, []string{entity.RoleManager})
	cat := env.addMenu("Menu", entity.CategoryPath, nil, true)

	withGrant := env.addMenu("Free", "/boards/free", &board.ID, true)
	withGrant.ParentID = &cat.ID
	require.NoError(t, env.menus.Update(ctx, withGrant))
	env.grant(withGrant.ID, entity.RoleUser, true, false)

	fallback := env.addMenu("Library", "/library", &board.ID, true)
	adminOnly := env.addMenu("Users", "/admin/users", nil, true)
	unbound := env.addMenu("About", "/about", nil, true)

	m, err := svc.Matrix(ctx)
	require.NoError(t, err)

	require.Len(t, m.Roles, 3)
	assert.Equal(t, entity.RoleAdmin, m.Roles[0].Code)

	byID := make(map[int64]MatrixMenu, len(m.Menus))
	for _, mm := range m.Menus {
		byID[mm.ID] = mm
	}
	// Categories never appear as matrix rows.
	_, ok := byID[cat.ID]
	assert.False(t, ok)

	// Explicit rows win over the board's lists.
	assert.Equal(t, []string{entity.RoleUser}, byID[withGrant.ID].ReadRoles)
	assert.Empty(t, byID[withGrant.ID].WriteRoles)
	assert.Equal(t, "Menu", byID[withGrant.ID].CategoryName)

	// No rows: the bound board's lists show through, in registry order.
	assert.Equal(t, []string{entity.RoleManager, entity.RoleUser}, byID[fallback.ID].ReadRoles)
	assert.Equal(t, []string{entity.RoleManager}, byID[fallback.ID].WriteRoles)

	// Admin-path menus default to ADMIN-only; other unbound menus to nothing.
	assert.Equal(t, []string{entity.RoleAdmin}, byID[adminOnly.ID].ReadRoles)
	assert.Empty(t, byID[unbound.ID].ReadRoles)

	require.Len(t, m.Boards, 1)
	assert.Equal(t, "free", m.Boards[0].Key)
}

func TestUpdateMatrixSyncsBoardsFromMenus(t *testing.T) {
	env := newTestEnv()
	svc := newMatrixService(env)
	ctx := context.Background()

	board := env.addBoard("free", true, []string{entity.RoleUser}, []string{entity.RoleUser})
	menu := env.addMenu("Free", "/boards/free", &board.ID, true)

	payload := &Matrix{
		Menus: []MatrixMenu{{
			ID:         menu.ID,
			ReadRoles:  []string{entity.RoleUser, entity.RoleManager},
			WriteRoles: []string{entity.RoleManager},
		}},
		// Board entries in the payload are ignored when menus are present.
		Boards: []MatrixBoard{{ID: board.ID, ReadRoles: []string{entity.RoleAdmin}, WriteRoles: []string{entity.RoleAdmin}}},
	}

	out, err := svc.UpdateMatrix(ctx, payload)
	require.NoError(t, err)

	b, err := env.boards.Get(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{entity.RoleManager, entity.RoleUser}, b.ReadRoles)
	assert.Equal(t, []string{entity.RoleManager}, b.WriteRoles)

	require.Len(t, out.Menus, 1)
	assert.Equal(t, []string{entity.RoleManager, entity.RoleUser}, out.Menus[0].ReadRoles)

	perm, err := env.perms.Find(ctx, menu.ID, entity.RoleManager)
	require.NoError(t, err)
	require.NotNil(t, perm)
	assert.True(t, perm.CanRead)
	assert.True(t, perm.CanWrite)
}

func TestUpdateMatrixWriteGrantImpliesBoardRead(t *testing.T) {
	env := newTestEnv()
	svc := newMatrixService(env)
	ctx := context.Background()

	board := env.addBoard("free", true, nil, nil)
	menu := env.addMenu("Free", "/boards/free", &board.ID, true)

	_, err := svc.UpdateMatrix(ctx, &Matrix{
		Menus: []MatrixMenu{{ID: menu.ID, WriteRoles: []string{entity.RoleManager}}},
	})
	require.NoError(t, err)

	b, err := env.boards.Get(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{entity.RoleManager}, b.ReadRoles)
	assert.Equal(t, []string{entity.RoleManager}, b.WriteRoles)
}

func TestUpdateMatrixEmptiesBoardWithUnpermissionedMenus(t *testing.T) {
	env := newTestEnv()
	svc := newMatrixService(env)
	ctx := context.Background()

	// Two boards; only one is touched by the payload, but both are bound to
	// menus, so both get re-derived. The untouched one has no rows and empties.
	edited := env.addBoard("free", true, []string{entity.RoleUser}, []string{entity.RoleUser})
	bystander := env.addBoard("notice", true, []string{entity.RoleUser}, []string{entity.RoleManager})
	editedMenu := env.addMenu("Free", "/boards/free", &edited.ID, true)
	env.addMenu("Notice", "/boards/notice", &bystander.ID, true)

	_, err := svc.UpdateMatrix(ctx, &Matrix{
		Menus: []MatrixMenu{{ID: editedMenu.ID, ReadRoles: []string{entity.RoleUser}}},
	})
	require.NoError(t, err)

	b, err := env.boards.Get(ctx, bystander.ID)
	require.NoError(t, err)
	assert.Empty(t, b.ReadRoles)
	assert.Empty(t, b.WriteRoles)
}

func TestUpdateMatrixLegacyBoardPath(t *testing.T) {
	env := newTestEnv()
	svc := newMatrixService(env)
	ctx := context.Background()

	board := env.addBoard("free", true, []string{entity.RoleUser}, nil)

	// No menu entries in the payload: boards are edited directly, with
	// unknown codes dropped.
	_, err := svc.UpdateMatrix(ctx, &Matrix{
		Boards: []MatrixBoard{{
			ID:         board.ID,
			ReadRoles:  []string{entity.RoleManager, "GHOST", entity.RoleManager},
			WriteRoles: []string{entity.RoleManager},
		}},
	})
	require.NoError(t, err)

	b, err := env.boards.Get(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{entity.RoleManager}, b.ReadRoles)
	assert.Equal(t, []string{entity.RoleManager}, b.WriteRoles)
}

func TestUpdateMatrixUnknownRole(t *testing.T) {
	env := newTestEnv()
	svc := newMatrixService(env)

	_, err := svc.UpdateMatrix(context.Background(), &Matrix{
		Roles: []MatrixRole{{Code: "GHOST", Name: "Ghost"}},
	})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateMatrixRemovesClearedGrants(t *testing.T) {
	env := newTestEnv()
	svc := newMatrixService(env)
	ctx := context.Background()

	menu := env.addMenu("Tools", "/tools", nil, true)
	env.grant(menu.ID, entity.RoleUser, true, false)
	env.grant(menu.ID, entity.RoleManager, true, true)

	_, err := svc.UpdateMatrix(ctx, &Matrix{
		Menus: []MatrixMenu{{ID: menu.ID, ReadRoles: []string{entity.RoleManager}}},
	})
	require.NoError(t, err)

	perm, err := env.perms.Find(ctx, menu.ID, entity.RoleUser)
	require.NoError(t, err)
	assert.Nil(t, perm, "cleared grant row is deleted, not zeroed")

	perm, err = env.perms.Find(ctx, menu.ID, entity.RoleManager)
	require.NoError(t, err)
	require.NotNil(t, perm)
	assert.True(t, perm.CanRead)
	assert.False(t, perm.CanWrite)
}

func TestUpdateMatrixIdempotent(t *testing.T) {
	env := newTestEnv()
	svc := newMatrixService(env)
	ctx := context.Background()

	board := env.addBoard("free", true, []string{entity.RoleUser}, []string{entity.RoleUser})
	menu := env.addMenu("Free", "/boards/free", &board.ID, true)

	payload := &Matrix{
		Menus: []MatrixMenu{{
			ID:         menu.ID,
			ReadRoles:  []string{entity.RoleUser, entity.RoleManager},
			WriteRoles: []string{entity.RoleManager},
		}},
	}

	first, err := svc.UpdateMatrix(ctx, payload)
	require.NoError(t, err)
	rows := append([]entity.MenuPermission(nil), env.perms.perms...)

	second, err := svc.UpdateMatrix(ctx, payload)
	require.NoError(t, err)

	// Matching rows are updated in place, never recreated: ids stay stable.
	assert.Equal(t, rows, env.perms.perms)
	assert.Equal(t, first, second)

	b, err := env.boards.Get(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{entity.RoleManager, entity.RoleUser}, b.ReadRoles)
	assert.Equal(t, []string{entity.RoleManager}, b.WriteRoles)
}

func TestMatrixRoundTrip(t *testing.T) {
	env := newTestEnv()
	svc := newMatrixService(env)
	ctx := context.Background()

	// Stored role and board data already in canonical form, as the seed
	// command writes it: system permissions alphabetical, board lists in
	// registry rank order.
	for _, ru := range []struct {
		code  string
		perms []string
	}{
		{entity.RoleAdmin, []string{entity.PermManageBoards, entity.PermManageMenus, entity.PermManageRoles, entity.PermManageUsers, entity.PermModerateContent}},
		{entity.RoleManager, []string{entity.PermManageBoards, entity.PermModerateContent}},
		{entity.RoleUser, []string{}},
	} {
		role, err := env.roles.GetByCode(ctx, ru.code)
		require.NoError(t, err)
		role.SystemPermissions = ru.perms
		require.NoError(t, env.roles.Update(ctx, role))
	}

	board := env.addBoard("free", true, []string{entity.RoleManager, entity.RoleUser}, []string{entity.RoleManager})
	explicit := env.addMenu("Free", "/boards/free", &board.ID, true)
	env.grant(explicit.ID, entity.RoleUser, true, false)
	env.grant(explicit.ID, entity.RoleManager, true, true)

	// Bound menu with no rows: the view shows the board's lists, and putting
	// the view back turns them into rows with the same effective sets.
	env.addMenu("Notice", "/boards/notice-free", &board.ID, true)
	env.addMenu("Users", "/admin/users", nil, true)

	before, err := svc.Matrix(ctx)
	require.NoError(t, err)

	echoed, err := svc.UpdateMatrix(ctx, before)
	require.NoError(t, err)
	assert.Equal(t, before, echoed)

	after, err := svc.Matrix(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateMatrixRoleSystemPermissions(t *testing.T) {
	env := newTestEnv()
	svc := newMatrixService(env)
	ctx := context.Background()

	out, err := svc.UpdateMatrix(ctx, &Matrix{
		Roles: []MatrixRole{{
			Code:              entity.RoleManager,
			Name:              "Board Manager",
			SystemPermissions: []string{entity.PermModerateContent, entity.PermManageBoards, entity.PermModerateContent},
		}},
	})
	require.NoError(t, err)

	var got *MatrixRole
	for i := range out.Roles {
		if out.Roles[i].Code == entity.RoleManager {
			got = &out.Roles[i]
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, "Board Manager", got.Name)
	assert.Equal(t, []string{entity.PermManageBoards, entity.PermModerateContent}, got.SystemPermissions)
}
