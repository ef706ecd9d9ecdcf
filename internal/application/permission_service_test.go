package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/pkg/apperr"
)

func TestCanAccessMenuAdminBypass(t *testing.T) {
	env := newTestEnv()
	svc := NewPermissionService(env.repos, testLogger())

	// Even an inactive category yields to ADMIN.
	m := env.addMenu("Hidden", entity.CategoryPath, nil, false)

	ok, err := svc.CanAccessMenu(context.Background(), m, entity.RoleAdmin, entity.ActionWrite)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanAccessMenuCategoryAndInactiveDeny(t *testing.T) {
	env := newTestEnv()
	svc := NewPermissionService(env.repos, testLogger())
	ctx := context.Background()

	cat := env.addMenu("Menu", entity.CategoryPath, nil, true)
	inactive := env.addMenu("Old", "/old", nil, false)
	// Explicit grants must not resurrect either.
	env.grant(cat.ID, entity.RoleUser, true, true)
	env.grant(inactive.ID, entity.RoleUser, true, true)

	ok, err := svc.CanAccessMenu(ctx, cat, entity.RoleUser, entity.ActionRead)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CanAccessMenu(ctx, inactive, entity.RoleUser, entity.ActionRead)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanAccessMenuExplicitGrant(t *testing.T) {
	env := newTestEnv()
	svc := NewPermissionService(env.repos, testLogger())
	ctx := context.Background()

	// Board would allow USER, but the explicit row wins.
	board := env.addBoard("notice", true, []string{entity.RoleUser}, []string{entity.RoleUser})
	m := env.addMenu("Notice", "/boards/notice", &board.ID, true)
	env.grant(m.ID, entity.RoleUser, false, false)

	ok, err := svc.CanAccessMenu(ctx, m, entity.RoleUser, entity.ActionRead)
	require.NoError(t, err)
	assert.False(t, ok, "explicit deny overrides board fallback")

	// Write implies read visibility.
	m2 := env.addMenu("Drafts", "/drafts", nil, true)
	env.grant(m2.ID, entity.RoleManager, false, true)

	ok, err = svc.CanAccessMenu(ctx, m2, entity.RoleManager, entity.ActionRead)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanAccessMenu(ctx, m2, entity.RoleManager, entity.ActionWrite)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanAccessMenuBoardFallback(t *testing.T) {
	env := newTestEnv()
	svc := NewPermissionService(env.repos, testLogger())
	ctx := context.Background()

	board := env.addBoard("free", true, []string{entity.RoleUser, entity.RoleManager}, []string{entity.RoleManager})
	m := env.addMenu("Free", "/boards/free", &board.ID, true)

	ok, err := svc.CanAccessMenu(ctx, m, entity.RoleUser, entity.ActionRead)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanAccessMenu(ctx, m, entity.RoleUser, entity.ActionWrite)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CanAccessMenu(ctx, m, entity.RoleManager, entity.ActionWrite)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanAccessMenuInactiveBoardNoFallback(t *testing.T) {
	env := newTestEnv()
	svc := NewPermissionService(env.repos, testLogger())

	board := env.addBoard("archived", false, []string{entity.RoleUser}, nil)
	m := env.addMenu("Archived", "/boards/archived", &board.ID, true)

	ok, err := svc.CanAccessMenu(context.Background(), m, entity.RoleUser, entity.ActionRead)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanAccessMenuDefaultDeny(t *testing.T) {
	env := newTestEnv()
	svc := NewPermissionService(env.repos, testLogger())

	// No grant, no board binding: nothing has an opinion.
	m := env.addMenu("About", "/about", nil, true)

	ok, err := svc.CanAccessMenu(context.Background(), m, entity.RoleUser, entity.ActionRead)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanAccessBoardByMenuUnionsGrants(t *testing.T) {
	env := newTestEnv()
	svc := NewPermissionService(env.repos, testLogger())
	ctx := context.Background()

	board := env.addBoard("qna", true, nil, nil)
	m1 := env.addMenu("QnA", "/boards/qna", &board.ID, true)
	m2 := env.addMenu("QnA Alt", "/qna", &board.ID, true)

	// Denied on one menu, allowed on the other: OR semantics allow.
	env.grant(m1.ID, entity.RoleUser, false, false)
	env.grant(m2.ID, entity.RoleUser, true, false)

	ok, err := svc.CanAccessBoardByMenu(ctx, board, entity.RoleUser, entity.ActionRead)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanAccessBoardByMenu(ctx, board, entity.RoleUser, entity.ActionWrite)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanAccessBoardByMenuLegacyFallback(t *testing.T) {
	env := newTestEnv()
	svc := NewPermissionService(env.repos, testLogger())
	ctx := context.Background()

	// Bound menu exists but carries no rows for the role: board lists decide.
	board := env.addBoard("library", true, []string{entity.RoleUser}, []string{entity.RoleManager})
	env.addMenu("Library", "/boards/library", &board.ID, true)

	ok, err := svc.CanAccessBoardByMenu(ctx, board, entity.RoleUser, entity.ActionRead)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanAccessBoardByMenu(ctx, board, entity.RoleUser, entity.ActionWrite)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnsureBoardPermission(t *testing.T) {
	env := newTestEnv()
	svc := NewPermissionService(env.repos, testLogger())
	ctx := context.Background()

	active := env.addBoard("free", true, []string{entity.RoleUser}, nil)
	inactive := env.addBoard("closed", false, []string{entity.RoleUser}, nil)

	user := &Principal{ID: 1, RoleCode: entity.RoleUser}
	admin := &Principal{ID: 2, RoleCode: entity.RoleAdmin}

	b, err := svc.EnsureBoardPermission(ctx, active.ID, user, entity.ActionRead)
	require.NoError(t, err)
	assert.Equal(t, active.ID, b.ID)

	_, err = svc.EnsureBoardPermission(ctx, active.ID, user, entity.ActionWrite)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// Inactive boards read as NotFound for non-admins, not Forbidden.
	_, err = svc.EnsureBoardPermission(ctx, inactive.ID, user, entity.ActionRead)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	b, err = svc.EnsureBoardPermission(ctx, inactive.ID, admin, entity.ActionWrite)
	require.NoError(t, err)
	assert.Equal(t, inactive.ID, b.ID)
}
