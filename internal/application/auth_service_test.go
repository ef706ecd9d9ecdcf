package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/pkg/apperr"
	"github.com/corpboard/corpboard/pkg/helpers"
)

func newAuthService(env *testEnv) *AuthService {
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	return NewAuthService(env.repos, jwt, testLogger())
}

func (e *testEnv) addUser(t *testing.T, username, password, roleCode string) *entity.User {
	t.Helper()
	role, err := e.roles.GetByCode(context.Background(), roleCode)
	require.NoError(t, err)
	hash, err := helpers.HashPassword(password)
	require.NoError(t, err)
	u := &entity.User{
		Username: username, Email: username + "@example.com",
		PasswordHash: hash, RoleID: role.ID, IsActive: true,
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func TestRegister(t *testing.T) {
	env := newTestEnv()
	svc := newAuthService(env)
	ctx := context.Background()

	p, err := svc.Register(ctx, RegisterInput{
		Username: "alice", Email: "Alice@Example.COM", Password: "secret1234",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, p.RoleCode)
	assert.Equal(t, "alice@example.com", p.Email, "email is normalized")

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret1234"})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, err = svc.Register(ctx, RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "secret1234"})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	svc := newAuthService(env)
	ctx := context.Background()

	env.addUser(t, "alice", "secret1234", entity.RoleUser)

	p, pair, err := svc.Login(ctx, "alice", "secret1234")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// The stored row is the hash, never the raw token.
	stored, err := env.tokens.GetByHash(ctx, helpers.HashToken(pair.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, p.ID, stored.UserID)

	_, _, err = svc.Login(ctx, "alice", "wrong-password")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	// Unknown usernames read the same as bad passwords.
	_, _, err = svc.Login(ctx, "nobody", "secret1234")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestLoginLockedAndInactive(t *testing.T) {
	env := newTestEnv()
	svc := newAuthService(env)
	ctx := context.Background()

	locked := env.addUser(t, "locked", "secret1234", entity.RoleUser)
	locked.IsLocked = true
	require.NoError(t, env.users.Update(ctx, locked))

	inactive := env.addUser(t, "inactive", "secret1234", entity.RoleUser)
	inactive.IsActive = false
	require.NoError(t, env.users.Update(ctx, inactive))

	_, _, err := svc.Login(ctx, "locked", "secret1234")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, _, err = svc.Login(ctx, "inactive", "secret1234")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestRefreshRotation(t *testing.T) {
	env := newTestEnv()
	svc := newAuthService(env)
	ctx := context.Background()

	env.addUser(t, "alice", "secret1234", entity.RoleUser)
	_, pair, err := svc.Login(ctx, "alice", "secret1234")
	require.NoError(t, err)

	p, next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// Rotation revoked the old token; replaying it fails.
	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	// The rotated token still works.
	_, _, err = svc.Refresh(ctx, next.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectsGarbageAndUnknown(t *testing.T) {
	env := newTestEnv()
	svc := newAuthService(env)
	ctx := context.Background()

	_, _, err := svc.Refresh(ctx, "not-a-jwt")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	// A validly signed token with no stored row is rejected too.
	env.addUser(t, "alice", "secret1234", entity.RoleUser)
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	token, _, err := jwt.GenerateRefreshToken(1, entity.RoleUser)
	require.NoError(t, err)

	_, _, err = svc.Refresh(ctx, token)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestLogoutIdempotent(t *testing.T) {
	env := newTestEnv()
	svc := newAuthService(env)
	ctx := context.Background()

	env.addUser(t, "alice", "secret1234", entity.RoleUser)
	_, pair, err := svc.Login(ctx, "alice", "secret1234")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	require.NoError(t, svc.Logout(ctx, ""))

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}
