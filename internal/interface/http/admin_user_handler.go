package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/application"
	"github.com/corpboard/corpboard/pkg/response"
	"github.com/corpboard/corpboard/pkg/validation"
)

type AdminUserHandler struct {
	Users  *application.AdminUserService
	Logger *logrus.Logger
}

func NewAdminUserHandler(users *application.AdminUserService, logger *logrus.Logger) *AdminUserHandler {
	return &AdminUserHandler{Users: users, Logger: logger}
}

// List GET /api/admin/users?search=&page=&page_size=
func (h *AdminUserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	result, err := h.Users.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, result, "ok")
}

type changeRoleRequest struct {
	RoleCode string `json:"role_code" binding:"required,rolecode"`
}

// ChangeRole PUT /api/admin/users/:id/role
func (h *AdminUserHandler) ChangeRole(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in changeRoleRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Users.ChangeRole(c.Request.Context(), id, in.RoleCode); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK[any](c, nil, "role changed")
}

type lockRequest struct {
	Locked *bool `json:"locked" binding:"required"`
}

// SetLocked PUT /api/admin/users/:id/lock
func (h *AdminUserHandler) SetLocked(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in lockRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Users.SetLocked(c.Request.Context(), id, *in.Locked); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK[any](c, nil, "lock state updated")
}
