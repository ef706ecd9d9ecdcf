package application

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/pkg/apperr"
)

// In-memory repository fakes shared across the service tests. They implement
// the same contracts as the postgres layer: NotFound for missing rows,
// (nil, nil) where the interface documents it, id assignment on Create.

type fakeRoleRepo struct {
	roles  []entity.Role
	nextID int64
}

func (r *fakeRoleRepo) List(context.Context) ([]entity.Role, error) {
	out := make([]entity.Role, len(r.roles))
	copy(out, r.roles)
	return out, nil
}

func (r *fakeRoleRepo) GetByCode(_ context.Context, code string) (*entity.Role, error) {
	for i := range r.roles {
		if r.roles[i].Code == code {
			cp := r.roles[i]
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("role not found")
}

func (r *fakeRoleRepo) Get(_ context.Context, id int64) (*entity.Role, error) {
	for i := range r.roles {
		if r.roles[i].ID == id {
			cp := r.roles[i]
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("role not found")
}

func (r *fakeRoleRepo) Create(_ context.Context, role *entity.Role) error {
	r.nextID++
	role.ID = r.nextID
	r.roles = append(r.roles, *role)
	return nil
}

func (r *fakeRoleRepo) Update(_ context.Context, role *entity.Role) error {
	for i := range r.roles {
		if r.roles[i].ID == role.ID {
			r.roles[i] = *role
			return nil
		}
	}
	return apperr.NotFound("role not found")
}

type fakeUserRepo struct {
	users  []entity.User
	nextID int64
}

func (r *fakeUserRepo) Get(_ context.Context, id int64) (*entity.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			cp := r.users[i]
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for i := range r.users {
		if r.users[i].Username == username {
			cp := r.users[i]
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			cp := r.users[i]
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (r *fakeUserRepo) List(_ context.Context, f repository.UserListFilter) ([]entity.User, int64, error) {
	out := make([]entity.User, len(r.users))
	copy(out, r.users)
	return out, int64(len(r.users)), nil
}

func (r *fakeUserRepo) ListByIDs(_ context.Context, ids []int64) ([]entity.User, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []entity.User
	for _, u := range r.users {
		if want[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.nextID++
	u.ID = r.nextID
	r.users = append(r.users, *u)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	for i := range r.users {
		if r.users[i].ID == u.ID {
			r.users[i] = *u
			return nil
		}
	}
	return apperr.NotFound("user not found")
}

type fakeBoardRepo struct {
	boards []entity.Board
	nextID int64
}

func (r *fakeBoardRepo) Get(_ context.Context, id int64) (*entity.Board, error) {
	for i := range r.boards {
		if r.boards[i].ID == id {
			cp := r.boards[i]
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("board not found")
}

func (r *fakeBoardRepo) GetByKey(_ context.Context, key string) (*entity.Board, error) {
	for i := range r.boards {
		if r.boards[i].Key == key {
			cp := r.boards[i]
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("board not found")
}

func (r *fakeBoardRepo) List(_ context.Context, includeInactive bool) ([]entity.Board, error) {
	var out []entity.Board
	for _, b := range r.boards {
		if !includeInactive && !b.IsActive {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeBoardRepo) ListByIDs(_ context.Context, ids []int64) ([]entity.Board, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []entity.Board
	for _, b := range r.boards {
		if want[b.ID] {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBoardRepo) Create(_ context.Context, b *entity.Board) error {
	r.nextID++
	b.ID = r.nextID
	r.boards = append(r.boards, *b)
	return nil
}

func (r *fakeBoardRepo) Update(_ context.Context, b *entity.Board) error {
	for i := range r.boards {
		if r.boards[i].ID == b.ID {
			r.boards[i] = *b
			return nil
		}
	}
	return apperr.NotFound("board not found")
}

func (r *fakeBoardRepo) Count(_ context.Context, activeOnly bool) (int64, error) {
	var n int64
	for _, b := range r.boards {
		if activeOnly && !b.IsActive {
			continue
		}
		n++
	}
	return n, nil
}

type fakeMenuRepo struct {
	menus  []entity.Menu
	nextID int64
}

func (r *fakeMenuRepo) sorted(filter func(m entity.Menu) bool) []entity.Menu {
	var out []entity.Menu
	for _, m := range r.menus {
		if filter == nil || filter(m) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *fakeMenuRepo) Get(_ context.Context, id int64) (*entity.Menu, error) {
	for i := range r.menus {
		if r.menus[i].ID == id {
			cp := r.menus[i]
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("menu not found")
}

func (r *fakeMenuRepo) List(context.Context) ([]entity.Menu, error) {
	return r.sorted(nil), nil
}

func (r *fakeMenuRepo) ListActive(context.Context) ([]entity.Menu, error) {
	return r.sorted(func(m entity.Menu) bool { return m.IsActive }), nil
}

func (r *fakeMenuRepo) ActiveItemIDsForBoard(_ context.Context, boardID int64) ([]int64, error) {
	var out []int64
	for _, m := range r.sorted(nil) {
		if m.IsActive && !m.IsCategory() && m.BoardID != nil && *m.BoardID == boardID {
			out = append(out, m.ID)
		}
	}
	return out, nil
}

func (r *fakeMenuRepo) ListBoardBound(context.Context) ([]entity.Menu, error) {
	return r.sorted(func(m entity.Menu) bool {
		return !m.IsCategory() && m.BoardID != nil
	}), nil
}

func (r *fakeMenuRepo) HasChildren(_ context.Context, parentID int64) (bool, error) {
	for _, m := range r.menus {
		if m.ParentID != nil && *m.ParentID == parentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMenuRepo) Create(_ context.Context, m *entity.Menu) error {
	r.nextID++
	m.ID = r.nextID
	r.menus = append(r.menus, *m)
	return nil
}

func (r *fakeMenuRepo) Update(_ context.Context, m *entity.Menu) error {
	for i := range r.menus {
		if r.menus[i].ID == m.ID {
			r.menus[i] = *m
			return nil
		}
	}
	return apperr.NotFound("menu not found")
}

func (r *fakeMenuRepo) Delete(_ context.Context, id int64) error {
	for i := range r.menus {
		if r.menus[i].ID == id {
			r.menus = append(r.menus[:i], r.menus[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("menu not found")
}

func (r *fakeMenuRepo) UpdateSortOrder(_ context.Context, id int64, sortOrder int) error {
	for i := range r.menus {
		if r.menus[i].ID == id {
			r.menus[i].SortOrder = sortOrder
			return nil
		}
	}
	return apperr.NotFound("menu not found")
}

type fakeMenuPermRepo struct {
	perms  []entity.MenuPermission
	nextID int64
}

func (r *fakeMenuPermRepo) Find(_ context.Context, menuID int64, roleCode string) (*entity.MenuPermission, error) {
	for i := range r.perms {
		if r.perms[i].MenuID == menuID && r.perms[i].RoleCode == roleCode {
			cp := r.perms[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMenuPermRepo) ListForMenu(_ context.Context, menuID int64) ([]entity.MenuPermission, error) {
	var out []entity.MenuPermission
	for _, p := range r.perms {
		if p.MenuID == menuID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeMenuPermRepo) ListForMenus(_ context.Context, menuIDs []int64) ([]entity.MenuPermission, error) {
	want := make(map[int64]bool, len(menuIDs))
	for _, id := range menuIDs {
		want[id] = true
	}
	var out []entity.MenuPermission
	for _, p := range r.perms {
		if want[p.MenuID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeMenuPermRepo) ListForMenusByRole(_ context.Context, menuIDs []int64, roleCode string) ([]entity.MenuPermission, error) {
	all, _ := r.ListForMenus(context.Background(), menuIDs)
	var out []entity.MenuPermission
	for _, p := range all {
		if p.RoleCode == roleCode {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeMenuPermRepo) Create(_ context.Context, p *entity.MenuPermission) error {
	r.nextID++
	p.ID = r.nextID
	r.perms = append(r.perms, *p)
	return nil
}

func (r *fakeMenuPermRepo) Update(_ context.Context, p *entity.MenuPermission) error {
	for i := range r.perms {
		if r.perms[i].ID == p.ID {
			r.perms[i] = *p
			return nil
		}
	}
	return apperr.NotFound("menu permission not found")
}

func (r *fakeMenuPermRepo) Delete(_ context.Context, id int64) error {
	for i := range r.perms {
		if r.perms[i].ID == id {
			r.perms = append(r.perms[:i], r.perms[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("menu permission not found")
}

type fakeRefreshTokenRepo struct {
	tokens []entity.RefreshToken
	nextID int64
}

func (r *fakeRefreshTokenRepo) GetByHash(_ context.Context, hash string) (*entity.RefreshToken, error) {
	for i := range r.tokens {
		if r.tokens[i].TokenHash == hash {
			cp := r.tokens[i]
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("refresh token not found")
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, t *entity.RefreshToken) error {
	r.nextID++
	t.ID = r.nextID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	r.tokens = append(r.tokens, *t)
	return nil
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, id int64) error {
	for i := range r.tokens {
		if r.tokens[i].ID == id && r.tokens[i].RevokedAt == nil {
			now := time.Now()
			r.tokens[i].RevokedAt = &now
			return nil
		}
	}
	return nil
}

// fakeTxRunner runs fn against the same in-memory set; the fakes have no
// rollback, which the transactional tests account for by asserting on
// pre-failure state only.
type fakeTxRunner struct {
	repos repository.Set
}

func (r *fakeTxRunner) InTx(_ context.Context, fn func(repos repository.Set) error) error {
	return fn(r.repos)
}

// testEnv bundles a fully faked repository set with the standard three-role
// registry seeded in registry order.
type testEnv struct {
	repos  repository.Set
	txr    repository.TxRunner
	roles  *fakeRoleRepo
	users  *fakeUserRepo
	boards *fakeBoardRepo
	menus  *fakeMenuRepo
	perms  *fakeMenuPermRepo
	tokens *fakeRefreshTokenRepo
}

func newTestEnv() *testEnv {
	env := &testEnv{
		roles:  &fakeRoleRepo{},
		users:  &fakeUserRepo{},
		boards: &fakeBoardRepo{},
		menus:  &fakeMenuRepo{},
		perms:  &fakeMenuPermRepo{},
		tokens: &fakeRefreshTokenRepo{},
	}
	ctx := context.Background()
	for _, rc := range []struct{ code, name string }{
		{entity.RoleAdmin, "Administrator"},
		{entity.RoleManager, "Manager"},
		{entity.RoleUser, "User"},
	} {
		_ = env.roles.Create(ctx, &entity.Role{Code: rc.code, Name: rc.name})
	}
	env.repos = repository.Set{
		Roles:           env.roles,
		Users:           env.users,
		Boards:          env.boards,
		Menus:           env.menus,
		MenuPermissions: env.perms,
		RefreshTokens:   env.tokens,
	}
	env.txr = &fakeTxRunner{repos: env.repos}
	return env
}

func (e *testEnv) addBoard(key string, active bool, readRoles, writeRoles []string) *entity.Board {
	b := &entity.Board{
		Key: key, Name: key, BoardType: entity.BoardTypeGeneral,
		IsActive: active, ReadRoles: readRoles, WriteRoles: writeRoles,
	}
	_ = e.boards.Create(context.Background(), b)
	return b
}

func (e *testEnv) addMenu(name, path string, boardID *int64, active bool) *entity.Menu {
	m := &entity.Menu{Name: name, Path: path, BoardID: boardID, IsActive: active}
	_ = e.menus.Create(context.Background(), m)
	return m
}

func (e *testEnv) grant(menuID int64, roleCode string, canRead, canWrite bool) {
	_ = e.perms.Create(context.Background(), &entity.MenuPermission{
		MenuID: menuID, RoleCode: roleCode, CanRead: canRead, CanWrite: canWrite,
	})
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
