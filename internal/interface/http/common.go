package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/corpboard/corpboard/internal/application"
	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/interface/middleware"
	"github.com/corpboard/corpboard/pkg/response"
)

// idParam parses a positive int64 path parameter.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.FailStatus(c, http.StatusBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return id, true
}

// principal returns the authenticated principal or writes a 401.
func principal(c *gin.Context) (*application.Principal, bool) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		response.FailStatus(c, http.StatusUnauthorized, "authentication required", nil)
		return nil, false
	}
	return p, true
}

type menuBody struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Icon       string    `json:"icon,omitempty"`
	ParentID   *int64    `json:"parent_id,omitempty"`
	BoardID    *int64    `json:"board_id,omitempty"`
	SortOrder  int       `json:"sort_order"`
	IsActive   bool      `json:"is_active"`
	IsCategory bool      `json:"is_category"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toMenuBody(m *entity.Menu) menuBody {
	return menuBody{
		ID:         m.ID,
		Name:       m.Name,
		Path:       m.Path,
		Icon:       m.Icon,
		ParentID:   m.ParentID,
		BoardID:    m.BoardID,
		SortOrder:  m.SortOrder,
		IsActive:   m.IsActive,
		IsCategory: m.IsCategory(),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toMenuBodies(menus []entity.Menu) []menuBody {
	out := make([]menuBody, 0, len(menus))
	for i := range menus {
		out = append(out, toMenuBody(&menus[i]))
	}
	return out
}

type boardBody struct {
	ID          int64     `json:"id"`
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	BoardType   string    `json:"board_type"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	ReadRoles   []string  `json:"read_roles"`
	WriteRoles  []string  `json:"write_roles"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toBoardBody(b *entity.Board) boardBody {
	return boardBody{
		ID:          b.ID,
		Key:         b.Key,
		Name:        b.Name,
		Description: b.Description,
		BoardType:   b.BoardType,
		IsActive:    b.IsActive,
		SortOrder:   b.SortOrder,
		ReadRoles:   b.ReadRoles,
		WriteRoles:  b.WriteRoles,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBoardBodies(boards []entity.Board) []boardBody {
	out := make([]boardBody, 0, len(boards))
	for i := range boards {
		out = append(out, toBoardBody(&boards[i]))
	}
	return out
}
