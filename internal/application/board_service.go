package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/pkg/apperr"
)

// BoardService owns the board registry and the user-facing board views.
type BoardService struct {
	repos  repository.Set
	perms  *PermissionService
	logger *logrus.Logger
}

func NewBoardService(repos repository.Set, perms *PermissionService, logger *logrus.Logger) *BoardService {
	return &BoardService{repos: repos, perms: perms, logger: logger}
}

// Default role lists applied when a board is created without any.
var (
	defaultReadRoles  = []string{entity.RoleUser, entity.RoleManager, entity.RoleAdmin}
	defaultWriteRoles = []string{entity.RoleManager, entity.RoleAdmin}
)

// validateRoleCodes checks every supplied role code against the registry.
func (s *BoardService) validateRoleCodes(ctx context.Context, readRoles, writeRoles []string) error {
	roles, err := s.repos.Roles.List(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(roles))
	for _, r := range roles {
		known[r.Code] = true
	}
	for _, code := range readRoles {
		if !known[code] {
			return apperr.BadRequest("invalid role code in read/write roles")
		}
	}
	for _, code := range writeRoles {
		if !known[code] {
			return apperr.BadRequest("invalid role code in read/write roles")
		}
	}
	return nil
}

// ListVisible returns boards the principal may read. Inactive boards are
// hidden from non-admins.
func (s *BoardService) ListVisible(ctx context.Context, p *Principal) ([]entity.Board, error) {
	boards, err := s.repos.Boards.List(ctx, true)
	if err != nil {
		return nil, err
	}

	out := make([]entity.Board, 0, len(boards))
	for i := range boards {
		b := &boards[i]
		if !b.IsActive && !p.IsAdmin() {
			continue
		}
		if !p.IsAdmin() {
			ok, err := s.perms.CanAccessBoardByMenu(ctx, b, p.RoleCode, entity.ActionRead)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, *b)
	}
	return out, nil
}

// Get loads a single board through the permission gate.
func (s *BoardService) Get(ctx context.Context, boardID int64, p *Principal) (*entity.Board, error) {
	return s.perms.EnsureBoardPermission(ctx, boardID, p, entity.ActionRead)
}

// ListAdmin returns all boards for administration.
func (s *BoardService) ListAdmin(ctx context.Context, includeInactive bool) ([]entity.Board, error) {
	return s.repos.Boards.List(ctx, includeInactive)
}

// BoardInput carries admin create fields.
type BoardInput struct {
	Key         string
	Name        string
	Description string
	BoardType   string
	SortOrder   int
	ReadRoles   []string
	WriteRoles  []string
}

// Create registers a board, rejecting duplicate keys and unknown role codes.
func (s *BoardService) Create(ctx context.Context, in BoardInput) (*entity.Board, error) {
	readRoles := in.ReadRoles
	if len(readRoles) == 0 {
		readRoles = defaultReadRoles
	}
	writeRoles := in.WriteRoles
	if len(writeRoles) == 0 {
		writeRoles = defaultWriteRoles
	}
	if err := s.validateRoleCodes(ctx, readRoles, writeRoles); err != nil {
		return nil, err
	}

	if existing, err := s.repos.Boards.GetByKey(ctx, in.Key); err == nil && existing != nil {
		return nil, apperr.BadRequest("board key already exists")
	} else if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
		return nil, err
	}

	boardType := in.BoardType
	if boardType == "" {
		boardType = entity.BoardTypeGeneral
	}

	b := &entity.Board{
		Key:         in.Key,
		Name:        in.Name,
		Description: in.Description,
		BoardType:   boardType,
		IsActive:    true,
		SortOrder:   in.SortOrder,
		ReadRoles:   readRoles,
		WriteRoles:  writeRoles,
	}
	if err := s.repos.Boards.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// BoardUpdate carries partial admin updates; nil fields are untouched.
type BoardUpdate struct {
	Key         *string
	Name        *string
	Description *string
	IsActive    *bool
	SortOrder   *int
	ReadRoles   []string
	WriteRoles  []string
}

// Update patches a board, re-validating role lists and checking key
// collisions.
func (s *BoardService) Update(ctx context.Context, id int64, in BoardUpdate) (*entity.Board, error) {
	b, err := s.repos.Boards.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	nextRead := b.ReadRoles
	if in.ReadRoles != nil {
		nextRead = in.ReadRoles
	}
	nextWrite := b.WriteRoles
	if in.WriteRoles != nil {
		nextWrite = in.WriteRoles
	}
	if err := s.validateRoleCodes(ctx, nextRead, nextWrite); err != nil {
		return nil, err
	}

	if in.Key != nil && *in.Key != b.Key {
		if dup, err := s.repos.Boards.GetByKey(ctx, *in.Key); err == nil && dup != nil {
			return nil, apperr.BadRequest("board key already exists")
		} else if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
			return nil, err
		}
		b.Key = *in.Key
	}
	if in.Name != nil {
		b.Name = *in.Name
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	if in.SortOrder != nil {
		b.SortOrder = *in.SortOrder
	}
	b.ReadRoles = nextRead
	b.WriteRoles = nextWrite

	if err := s.repos.Boards.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Deactivate soft-disables a board. Deactivated boards deny all non-admin
// access regardless of role lists.
func (s *BoardService) Deactivate(ctx context.Context, id int64) error {
	b, err := s.repos.Boards.Get(ctx, id)
	if err != nil {
		return err
	}
	b.IsActive = false
	return s.repos.Boards.Update(ctx, b)
}
