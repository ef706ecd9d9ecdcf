package application

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/pkg/apperr"
)

// MatrixRole is one row of the roles × menus × boards admin view.
type MatrixRole struct {
	Code              string   `json:"code"`
	Name              string   `json:"name"`
	SystemPermissions []string `json:"system_permissions"`
}

type MatrixMenu struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Path         string   `json:"path"`
	ParentID     *int64   `json:"parent_id,omitempty"`
	CategoryName string   `json:"category_name,omitempty"`
	BoardID      *int64   `json:"board_id,omitempty"`
	ReadRoles    []string `json:"read_roles"`
	WriteRoles   []string `json:"write_roles"`
}

type MatrixBoard struct {
	ID         int64    `json:"id"`
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	ReadRoles  []string `json:"read_roles"`
	WriteRoles []string `json:"write_roles"`
}

// Matrix is the combined permission view used by the admin UI; the same shape
// serves as the PUT payload.
type Matrix struct {
	Roles  []MatrixRole  `json:"roles"`
	Menus  []MatrixMenu  `json:"menus"`
	Boards []MatrixBoard `json:"boards"`
}

// MatrixService builds the matrix view and applies matrix updates. Menu
// permissions are the source of truth; board role lists are a projection
// recomputed from them on every menu-permission write. The board-direct path
// survives only for payloads that carry no menu entries at all.
type MatrixService struct {
	repos  repository.Set
	txr    repository.TxRunner
	logger *logrus.Logger
}

func NewMatrixService(repos repository.Set, txr repository.TxRunner, logger *logrus.Logger) *MatrixService {
	return &MatrixService{repos: repos, txr: txr, logger: logger}
}

// roleOrderMap maps role codes to their registry rank (insertion order).
func roleOrderMap(roles []entity.Role) map[string]int {
	m := make(map[string]int, len(roles))
	for i, r := range roles {
		m[r.Code] = i
	}
	return m
}

// sortedRoleCodes orders a role-code set by registry rank, not alphabetically.
func sortedRoleCodes(set map[string]bool, order map[string]int) []string {
	out := make([]string, 0, len(set))
	for code := range set {
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, ok := order[out[i]]
		if !ok {
			ri = 1 << 20
		}
		rj, ok := order[out[j]]
		if !ok {
			rj = 1 << 20
		}
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}

func toSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}

func intersect(set, valid map[string]bool) map[string]bool {
	out := make(map[string]bool, len(set))
	for c := range set {
		if valid[c] {
			out[c] = true
		}
	}
	return out
}

// Matrix returns the current permission view.
func (s *MatrixService) Matrix(ctx context.Context) (*Matrix, error) {
	return s.buildMatrix(ctx, s.repos)
}

func (s *MatrixService) buildMatrix(ctx context.Context, repos repository.Set) (*Matrix, error) {
	roles, err := repos.Roles.List(ctx)
	if err != nil {
		return nil, err
	}
	menus, err := s.buildMenuMatrix(ctx, repos, roles)
	if err != nil {
		return nil, err
	}
	boards, err := repos.Boards.List(ctx, true)
	if err != nil {
		return nil, err
	}

	out := &Matrix{Menus: menus}
	for _, r := range roles {
		out.Roles = append(out.Roles, MatrixRole{Code: r.Code, Name: r.Name, SystemPermissions: r.SystemPermissions})
	}
	for _, b := range boards {
		out.Boards = append(out.Boards, MatrixBoard{
			ID: b.ID, Key: b.Key, Name: b.Name,
			ReadRoles: b.ReadRoles, WriteRoles: b.WriteRoles,
		})
	}
	return out, nil
}

// buildMenuMatrix computes effective read/write role sets for every active
// non-category menu: explicit rows when any exist, else the bound board's
// lists, else ADMIN-only for admin-path menus, else empty.
func (s *MatrixService) buildMenuMatrix(ctx context.Context, repos repository.Set, roles []entity.Role) ([]MatrixMenu, error) {
	order := roleOrderMap(roles)
	validRoles := make(map[string]bool, len(roles))
	for _, r := range roles {
		validRoles[r.Code] = true
	}

	menus, err := repos.Menus.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	categoryNames := make(map[int64]string)
	var items []entity.Menu
	for _, m := range menus {
		if m.IsCategory() {
			categoryNames[m.ID] = m.Name
			continue
		}
		items = append(items, m)
	}

	itemIDs := make([]int64, 0, len(items))
	for _, m := range items {
		itemIDs = append(itemIDs, m.ID)
	}

	readByMenu := make(map[int64]map[string]bool, len(items))
	writeByMenu := make(map[int64]map[string]bool, len(items))
	hasExplicit := make(map[int64]bool, len(items))
	perms, err := repos.MenuPermissions.ListForMenus(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	for _, p := range perms {
		// Rows for roles no longer in the registry are ignored.
		if !validRoles[p.RoleCode] {
			continue
		}
		hasExplicit[p.MenuID] = true
		if p.CanRead {
			addToSet(readByMenu, p.MenuID, p.RoleCode)
		}
		if p.CanWrite {
			addToSet(writeByMenu, p.MenuID, p.RoleCode)
		}
	}

	boardIDSet := make(map[int64]bool)
	for _, m := range items {
		if m.BoardID != nil {
			boardIDSet[*m.BoardID] = true
		}
	}
	boardsByID := make(map[int64]entity.Board)
	if len(boardIDSet) > 0 {
		ids := make([]int64, 0, len(boardIDSet))
		for id := range boardIDSet {
			ids = append(ids, id)
		}
		boards, err := repos.Boards.ListByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, b := range boards {
			boardsByID[b.ID] = b
		}
	}

	out := make([]MatrixMenu, 0, len(items))
	for _, m := range items {
		readSet := readByMenu[m.ID]
		writeSet := writeByMenu[m.ID]
		if readSet == nil {
			readSet = map[string]bool{}
		}
		if writeSet == nil {
			writeSet = map[string]bool{}
		}

		if !hasExplicit[m.ID] {
			if m.BoardID != nil {
				if b, ok := boardsByID[*m.BoardID]; ok {
					readSet = toSet(b.ReadRoles)
					writeSet = toSet(b.WriteRoles)
				}
			} else if isAdminPath(m.Path) {
				readSet = map[string]bool{entity.RoleAdmin: true}
				writeSet = map[string]bool{entity.RoleAdmin: true}
			}
		}

		var categoryName string
		if m.ParentID != nil {
			categoryName = categoryNames[*m.ParentID]
		}
		out = append(out, MatrixMenu{
			ID:           m.ID,
			Name:         m.Name,
			Path:         m.Path,
			ParentID:     m.ParentID,
			CategoryName: categoryName,
			BoardID:      m.BoardID,
			ReadRoles:    sortedRoleCodes(readSet, order),
			WriteRoles:   sortedRoleCodes(writeSet, order),
		})
	}
	return out, nil
}

func addToSet(m map[int64]map[string]bool, key int64, code string) {
	if m[key] == nil {
		m[key] = map[string]bool{}
	}
	m[key][code] = true
}

func isAdminPath(path string) bool {
	return len(path) >= len(entity.AdminPathPrefix) && path[:len(entity.AdminPathPrefix)] == entity.AdminPathPrefix
}

// UpdateMatrix applies a matrix payload in one transaction and returns the
// freshly recomputed matrix. Unknown role codes or menu ids abort the whole
// call; nothing is partially applied.
func (s *MatrixService) UpdateMatrix(ctx context.Context, payload *Matrix) (*Matrix, error) {
	err := s.txr.InTx(ctx, func(repos repository.Set) error {
		roles, err := repos.Roles.List(ctx)
		if err != nil {
			return err
		}
		rolesByCode := make(map[string]*entity.Role, len(roles))
		validRoles := make(map[string]bool, len(roles))
		for i := range roles {
			rolesByCode[roles[i].Code] = &roles[i]
			validRoles[roles[i].Code] = true
		}

		if err := s.applyRoleUpdates(ctx, repos, rolesByCode, payload.Roles); err != nil {
			return err
		}

		if len(payload.Menus) > 0 {
			if err := s.applyMenuPermissions(ctx, repos, validRoles, payload.Menus); err != nil {
				return err
			}
			return s.syncBoardsFromMenuPermissions(ctx, repos, roles)
		}

		// Legacy direct board edit, reachable only when the menu matrix is
		// bypassed entirely.
		return s.applyBoardPayload(ctx, repos, validRoles, payload.Boards)
	})
	if err != nil {
		return nil, err
	}
	return s.Matrix(ctx)
}

func (s *MatrixService) applyRoleUpdates(ctx context.Context, repos repository.Set, rolesByCode map[string]*entity.Role, updates []MatrixRole) error {
	for _, ru := range updates {
		role, ok := rolesByCode[ru.Code]
		if !ok {
			return apperr.NotFound("role %s not found", ru.Code)
		}
		role.Name = ru.Name
		role.SystemPermissions = dedupSorted(ru.SystemPermissions)
		if err := repos.Roles.Update(ctx, role); err != nil {
			return err
		}
	}
	return nil
}

// applyMenuPermissions diffs the desired role sets against existing explicit
// rows for every menu in the payload, inserting, updating and deleting rows
// so they match exactly. Categories in the payload are skipped.
func (s *MatrixService) applyMenuPermissions(ctx context.Context, repos repository.Set, validRoles map[string]bool, updates []MatrixMenu) error {
	for _, mu := range updates {
		menu, err := repos.Menus.Get(ctx, mu.ID)
		if err != nil {
			return err
		}
		if menu.IsCategory() {
			continue
		}

		readSet := intersect(toSet(mu.ReadRoles), validRoles)
		writeSet := intersect(toSet(mu.WriteRoles), validRoles)

		existing, err := repos.MenuPermissions.ListForMenu(ctx, menu.ID)
		if err != nil {
			return err
		}
		existingByRole := make(map[string]*entity.MenuPermission, len(existing))
		for i := range existing {
			existingByRole[existing[i].RoleCode] = &existing[i]
		}

		for code := range validRoles {
			wantRead, wantWrite := readSet[code], writeSet[code]
			perm := existingByRole[code]

			switch {
			case wantRead || wantWrite:
				if perm == nil {
					perm = &entity.MenuPermission{MenuID: menu.ID, RoleCode: code, CanRead: wantRead, CanWrite: wantWrite}
					if err := repos.MenuPermissions.Create(ctx, perm); err != nil {
						return err
					}
				} else {
					perm.CanRead = wantRead
					perm.CanWrite = wantWrite
					if err := repos.MenuPermissions.Update(ctx, perm); err != nil {
						return err
					}
				}
			case perm != nil:
				if err := repos.MenuPermissions.Delete(ctx, perm.ID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// syncBoardsFromMenuPermissions re-derives every bound board's role lists
// from the union of explicit rows across all menus pointing at it: a role
// reads the board if it can read or write any bound menu, writes it if it can
// write any bound menu. Whatever the payload said about boards is overwritten.
func (s *MatrixService) syncBoardsFromMenuPermissions(ctx context.Context, repos repository.Set, roles []entity.Role) error {
	menus, err := repos.Menus.ListBoardBound(ctx)
	if err != nil {
		return err
	}
	if len(menus) == 0 {
		return nil
	}

	validRoles := make(map[string]bool, len(roles))
	for _, r := range roles {
		validRoles[r.Code] = true
	}

	menuIDs := make([]int64, 0, len(menus))
	boardByMenu := make(map[int64]int64, len(menus))
	readByBoard := make(map[int64]map[string]bool)
	writeByBoard := make(map[int64]map[string]bool)
	for _, m := range menus {
		menuIDs = append(menuIDs, m.ID)
		boardByMenu[m.ID] = *m.BoardID
		if readByBoard[*m.BoardID] == nil {
			readByBoard[*m.BoardID] = map[string]bool{}
			writeByBoard[*m.BoardID] = map[string]bool{}
		}
	}

	perms, err := repos.MenuPermissions.ListForMenus(ctx, menuIDs)
	if err != nil {
		return err
	}
	for _, p := range perms {
		if !validRoles[p.RoleCode] {
			continue
		}
		boardID, ok := boardByMenu[p.MenuID]
		if !ok {
			continue
		}
		if p.CanRead || p.CanWrite {
			readByBoard[boardID][p.RoleCode] = true
		}
		if p.CanWrite {
			writeByBoard[boardID][p.RoleCode] = true
		}
	}

	order := roleOrderMap(roles)
	boardIDs := make([]int64, 0, len(readByBoard))
	for id := range readByBoard {
		boardIDs = append(boardIDs, id)
	}
	boards, err := repos.Boards.ListByIDs(ctx, boardIDs)
	if err != nil {
		return err
	}
	for i := range boards {
		b := &boards[i]
		b.ReadRoles = sortedRoleCodes(readByBoard[b.ID], order)
		b.WriteRoles = sortedRoleCodes(writeByBoard[b.ID], order)
		if err := repos.Boards.Update(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (s *MatrixService) applyBoardPayload(ctx context.Context, repos repository.Set, validRoles map[string]bool, updates []MatrixBoard) error {
	for _, bu := range updates {
		board, err := repos.Boards.Get(ctx, bu.ID)
		if err != nil {
			return err
		}
		board.ReadRoles = dedupSorted(keepValid(bu.ReadRoles, validRoles))
		board.WriteRoles = dedupSorted(keepValid(bu.WriteRoles, validRoles))
		if err := repos.Boards.Update(ctx, board); err != nil {
			return err
		}
	}
	return nil
}

func keepValid(codes []string, valid map[string]bool) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if valid[c] {
			out = append(out, c)
		}
	}
	return out
}

func dedupSorted(values []string) []string {
	set := toSet(values)
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
