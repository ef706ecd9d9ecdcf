package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/pkg/apperr"
)

func newBoardService(env *testEnv) *BoardService {
	perms := NewPermissionService(env.repos, testLogger())
	return NewBoardService(env.repos, perms, testLogger())
}

func TestBoardCreateDefaults(t *testing.T) {
	env := newTestEnv()
	svc := newBoardService(env)

	b, err := svc.Create(context.Background(), BoardInput{Key: "free", Name: "Free"})
	require.NoError(t, err)
	assert.Equal(t, []string{entity.RoleUser, entity.RoleManager, entity.RoleAdmin}, b.ReadRoles)
	assert.Equal(t, []string{entity.RoleManager, entity.RoleAdmin}, b.WriteRoles)
	assert.Equal(t, entity.BoardTypeGeneral, b.BoardType)
	assert.True(t, b.IsActive)
}

func TestBoardCreateDuplicateKey(t *testing.T) {
	env := newTestEnv()
	svc := newBoardService(env)
	ctx := context.Background()

	_, err := svc.Create(ctx, BoardInput{Key: "free", Name: "Free"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, BoardInput{Key: "free", Name: "Another"})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestBoardCreateInvalidRoleCode(t *testing.T) {
	env := newTestEnv()
	svc := newBoardService(env)

	_, err := svc.Create(context.Background(), BoardInput{
		Key: "free", Name: "Free",
		ReadRoles: []string{entity.RoleUser, "GHOST"},
	})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestBoardUpdate(t *testing.T) {
	env := newTestEnv()
	svc := newBoardService(env)
	ctx := context.Background()

	b := env.addBoard("free", true, []string{entity.RoleUser}, []string{entity.RoleUser})
	env.addBoard("notice", true, nil, nil)

	name := "Free Board"
	got, err := svc.Update(ctx, b.ID, BoardUpdate{
		Name:       &name,
		WriteRoles: []string{entity.RoleManager},
	})
	require.NoError(t, err)
	assert.Equal(t, "Free Board", got.Name)
	assert.Equal(t, []string{entity.RoleUser}, got.ReadRoles, "omitted list keeps current value")
	assert.Equal(t, []string{entity.RoleManager}, got.WriteRoles)

	// Renaming onto another board's key collides.
	dup := "notice"
	_, err = svc.Update(ctx, b.ID, BoardUpdate{Key: &dup})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	bad := []string{"GHOST"}
	_, err = svc.Update(ctx, b.ID, BoardUpdate{ReadRoles: bad})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestBoardDeactivate(t *testing.T) {
	env := newTestEnv()
	svc := newBoardService(env)
	ctx := context.Background()

	b := env.addBoard("free", true, []string{entity.RoleUser}, nil)
	require.NoError(t, svc.Deactivate(ctx, b.ID))

	got, err := env.boards.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	err = svc.Deactivate(ctx, 12345)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestBoardListVisible(t *testing.T) {
	env := newTestEnv()
	svc := newBoardService(env)
	ctx := context.Background()

	readable := env.addBoard("free", true, []string{entity.RoleUser}, nil)
	env.addBoard("managers", true, []string{entity.RoleManager}, nil)
	env.addBoard("closed", false, []string{entity.RoleUser}, nil)

	user := &Principal{ID: 1, RoleCode: entity.RoleUser}
	boards, err := svc.ListVisible(ctx, user)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, readable.ID, boards[0].ID)

	admin := &Principal{ID: 2, RoleCode: entity.RoleAdmin}
	boards, err = svc.ListVisible(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, boards, 3, "admin sees inactive boards too")
}
