package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/application"
	"github.com/corpboard/corpboard/pkg/response"
	"github.com/corpboard/corpboard/pkg/validation"
)

type AdminBoardHandler struct {
	Boards *application.BoardService
	Logger *logrus.Logger
}

func NewAdminBoardHandler(boards *application.BoardService, logger *logrus.Logger) *AdminBoardHandler {
	return &AdminBoardHandler{Boards: boards, Logger: logger}
}

// List GET /api/admin/boards?include_inactive=true
func (h *AdminBoardHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	boards, err := h.Boards.ListAdmin(c.Request.Context(), includeInactive)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, toBoardBodies(boards), "ok")
}

type boardCreateRequest struct {
	Key         string   `json:"key" binding:"required,max=50,boardkey"`
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description" binding:"max=500"`
	BoardType   string   `json:"board_type" binding:"omitempty,oneof=general qna"`
	SortOrder   int      `json:"sort_order"`
	ReadRoles   []string `json:"read_roles"`
	WriteRoles  []string `json:"write_roles"`
}

// Create POST /api/admin/boards
func (h *AdminBoardHandler) Create(c *gin.Context) {
	var in boardCreateRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	b, err := h.Boards.Create(c.Request.Context(), application.BoardInput{
		Key:         in.Key,
		Name:        in.Name,
		Description: in.Description,
		BoardType:   in.BoardType,
		SortOrder:   in.SortOrder,
		ReadRoles:   in.ReadRoles,
		WriteRoles:  in.WriteRoles,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, toBoardBody(b), "board created")
}

type boardUpdateRequest struct {
	Key         *string  `json:"key" binding:"omitempty,max=50,boardkey"`
	Name        *string  `json:"name" binding:"omitempty,max=100"`
	Description *string  `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool    `json:"is_active"`
	SortOrder   *int     `json:"sort_order"`
	ReadRoles   []string `json:"read_roles"`
	WriteRoles  []string `json:"write_roles"`
}

// Update PATCH /api/admin/boards/:id
func (h *AdminBoardHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in boardUpdateRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	b, err := h.Boards.Update(c.Request.Context(), id, application.BoardUpdate{
		Key:         in.Key,
		Name:        in.Name,
		Description: in.Description,
		IsActive:    in.IsActive,
		SortOrder:   in.SortOrder,
		ReadRoles:   in.ReadRoles,
		WriteRoles:  in.WriteRoles,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, toBoardBody(b), "board updated")
}

// Delete soft-deactivates a board. DELETE /api/admin/boards/:id.
func (h *AdminBoardHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Boards.Deactivate(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK[any](c, nil, "board deactivated")
}
