package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/application"
	"github.com/corpboard/corpboard/pkg/response"
	"github.com/corpboard/corpboard/pkg/validation"
)

type AdminMenuHandler struct {
	Menus  *application.MenuService
	Logger *logrus.Logger
}

func NewAdminMenuHandler(menus *application.MenuService, logger *logrus.Logger) *AdminMenuHandler {
	return &AdminMenuHandler{Menus: menus, Logger: logger}
}

// List returns every menu including inactive ones. GET /api/admin/menus.
func (h *AdminMenuHandler) List(c *gin.Context) {
	menus, err := h.Menus.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, toMenuBodies(menus), "ok")
}

type menuCreateRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Path      string `json:"path" binding:"required,max=200"`
	Icon      string `json:"icon" binding:"max=50"`
	ParentID  *int64 `json:"parent_id"`
	BoardID   *int64 `json:"board_id"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

// Create POST /api/admin/menus
func (h *AdminMenuHandler) Create(c *gin.Context) {
	var in menuCreateRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	m, err := h.Menus.Create(c.Request.Context(), application.MenuInput{
		Name:      in.Name,
		Path:      in.Path,
		Icon:      in.Icon,
		ParentID:  in.ParentID,
		BoardID:   in.BoardID,
		SortOrder: in.SortOrder,
		IsActive:  active,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, toMenuBody(m), "menu created")
}

type menuUpdateRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=100"`
	Path      *string `json:"path" binding:"omitempty,max=200"`
	Icon      *string `json:"icon" binding:"omitempty,max=50"`
	ParentID  *int64  `json:"parent_id"`
	BoardID   *int64  `json:"board_id"`
	SortOrder *int    `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

// Update PATCH /api/admin/menus/:id
func (h *AdminMenuHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in menuUpdateRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	m, err := h.Menus.Update(c.Request.Context(), id, application.MenuUpdate{
		Name:      in.Name,
		Path:      in.Path,
		Icon:      in.Icon,
		ParentID:  in.ParentID,
		BoardID:   in.BoardID,
		SortOrder: in.SortOrder,
		IsActive:  in.IsActive,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, toMenuBody(m), "menu updated")
}

type reorderRequest struct {
	Items []application.ReorderItem `json:"items" binding:"required,min=1,dive"`
}

// Reorder applies a batch sort-order update atomically. PUT /api/admin/menus/reorder.
func (h *AdminMenuHandler) Reorder(c *gin.Context) {
	var in reorderRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Menus.Reorder(c.Request.Context(), in.Items); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK[any](c, nil, "menus reordered")
}

// Delete removes categories outright (Conflict while children remain) and
// deactivates items. DELETE /api/admin/menus/:id.
func (h *AdminMenuHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Menus.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK[any](c, nil, "menu deleted")
}
